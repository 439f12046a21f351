package handler

import (
	"net/http"

	"github.com/gdugdh24/mutual-backend/internal/delivery/http/middleware"
	"github.com/gdugdh24/mutual-backend/internal/usecase/onboarding"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ChatHandler struct {
	onboardingUseCase *onboarding.OnboardingUseCase
	logger            *zap.Logger
}

func NewChatHandler(onboardingUseCase *onboarding.OnboardingUseCase, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{onboardingUseCase: onboardingUseCase, logger: logger}
}

// ChatRequest is one user message in the onboarding chat
type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

// SendMessage handles POST /chat
// @Summary Send an onboarding chat message
// @Tags chat
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body ChatRequest true "Message"
// @Success 200 {object} onboarding.TurnResult
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /chat [post]
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req ChatRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.onboardingUseCase.ProcessMessage(c.Request.Context(), middleware.CurrentUser(c), req.Message)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ChatHandler) Intro(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"messages": h.onboardingUseCase.Intro(middleware.CurrentUser(c))})
}

func (h *ChatHandler) History(c *gin.Context) {
	limit, offset, ok := pageParams(c, onboarding.DefaultHistoryLimit)
	if !ok {
		return
	}
	msgs, err := h.onboardingUseCase.History(c.Request.Context(), middleware.CurrentUser(c).ID, limit, offset)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}

func (h *ChatHandler) Status(c *gin.Context) {
	status, err := h.onboardingUseCase.GetStatus(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, status)
}
