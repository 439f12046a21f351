package handler

import (
	"net/http"

	"github.com/gdugdh24/mutual-backend/internal/delivery/http/middleware"
	"github.com/gdugdh24/mutual-backend/internal/infrastructure/ratelimit"
	"github.com/gdugdh24/mutual-backend/internal/usecase/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authUseCase  *auth.AuthUseCase
	emailLimiter ratelimit.Limiter
	logger       *zap.Logger
}

func NewAuthHandler(authUseCase *auth.AuthUseCase, emailLimiter ratelimit.Limiter, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authUseCase:  authUseCase,
		emailLimiter: emailLimiter,
		logger:       logger,
	}
}

// allowEmail applies the per-email budget. Limiter errors let the request through.
func (h *AuthHandler) allowEmail(c *gin.Context, email string) bool {
	ok, err := h.emailLimiter.Allow(c.Request.Context(), "email:"+auth.NormalizeEmail(email))
	if err != nil {
		h.logger.Warn("rate limiter unavailable", zap.Error(err))
		return true
	}
	if !ok {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{Error: middleware.RateLimitMessage(h.emailLimiter.Max())})
	}
	return ok
}

// Signup handles POST /auth/signup
// @Summary Register with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body auth.SignupRequest true "Credentials"
// @Success 201 {object} auth.TokenResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req auth.SignupRequest
	if !bindJSON(c, &req) || !h.allowEmail(c, req.Email) {
		return
	}

	resp, err := h.authUseCase.Signup(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Login handles POST /auth/login
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body auth.LoginRequest true "Credentials"
// @Success 200 {object} auth.TokenResponse
// @Failure 401 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if !bindJSON(c, &req) || !h.allowEmail(c, req.Email) {
		return
	}

	resp, err := h.authUseCase.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// LogoutAll handles POST /auth/logout-all
// @Summary Revoke every token issued so far
// @Tags auth
// @Security BearerAuth
// @Success 200 {object} SuccessResponse
// @Router /auth/logout-all [post]
func (h *AuthHandler) LogoutAll(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if err := h.authUseCase.LogoutAll(c.Request.Context(), user.ID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "logged out from all sessions"})
}
