package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gdugdh24/mutual-backend/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrorResponse represents error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse represents success response
type SuccessResponse struct {
	Message string `json:"message"`
}

var errorStatus = []struct {
	err    error
	status int
}{
	{domain.ErrInvalidInput, http.StatusUnprocessableEntity},
	{domain.ErrUnderage, http.StatusUnprocessableEntity},
	{domain.ErrInvalidAgeRange, http.StatusUnprocessableEntity},

	{domain.ErrInvalidCredentials, http.StatusUnauthorized},
	{domain.ErrInvalidToken, http.StatusUnauthorized},
	{domain.ErrTokenRevoked, http.StatusUnauthorized},

	{domain.ErrAccountInactive, http.StatusForbidden},
	{domain.ErrProfileSetupRequired, http.StatusForbidden},
	{domain.ErrOnboardingIncomplete, http.StatusForbidden},
	{domain.ErrNotMatchMember, http.StatusForbidden},
	{domain.ErrBlocked, http.StatusForbidden},

	{domain.ErrUserNotFound, http.StatusNotFound},
	{domain.ErrProfileNotFound, http.StatusNotFound},
	{domain.ErrPhotoNotFound, http.StatusNotFound},
	{domain.ErrMatchNotFound, http.StatusNotFound},
	{domain.ErrBlockNotFound, http.StatusNotFound},
	{domain.ErrLikeNotFound, http.StatusNotFound},

	{domain.ErrEmailTaken, http.StatusConflict},
	{domain.ErrAlreadySwiped, http.StatusConflict},
	{domain.ErrAlreadyBlocked, http.StatusConflict},
	{domain.ErrTurnInProgress, http.StatusConflict},

	{domain.ErrNotEnoughPhotos, http.StatusBadRequest},
	{domain.ErrPhotoLimitReached, http.StatusBadRequest},
	{domain.ErrUnsupportedPhotoType, http.StatusBadRequest},
	{domain.ErrOnboardingCompleted, http.StatusBadRequest},
	{domain.ErrCannotTargetSelf, http.StatusBadRequest},
	{domain.ErrTargetInactive, http.StatusBadRequest},

	{domain.ErrPhotoTooLarge, http.StatusRequestEntityTooLarge},
	{domain.ErrRateLimited, http.StatusTooManyRequests},
	{domain.ErrLLMUnavailable, http.StatusBadGateway},
}

// statusFor maps a use case error to its HTTP status. Unknown errors are 500.
func statusFor(err error) int {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

// respondError writes err as JSON. Client errors carry the error text;
// server errors are logged and answered generically.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status := statusFor(err)
	msg := err.Error()

	switch {
	case errors.Is(err, domain.ErrEmailTaken):
		// Do not reveal which emails are registered.
		msg = "Registration failed"
	case errors.Is(err, domain.ErrInvalidCredentials):
		msg = "Invalid email or password"
	case errors.Is(err, domain.ErrLLMUnavailable):
		logger.Error("upstream AI failure", zap.String("path", c.FullPath()), zap.Error(err))
		msg = "AI service is temporarily unavailable. Please try again."
	case status == http.StatusInternalServerError:
		logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		msg = "internal server error"
	}

	c.AbortWithStatusJSON(status, ErrorResponse{Error: msg})
}

// bindJSON decodes and validates the body into req. It writes the error
// response itself and reports whether the handler should continue.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, ErrorResponse{Error: validationMessage(verrs)})
			return false
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return false
	}
	return true
}

func validationMessage(verrs validator.ValidationErrors) string {
	fe := verrs[0]
	if fe.Param() != "" {
		return fmt.Sprintf("%s failed validation: %s=%s", fe.Field(), fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("%s failed validation: %s", fe.Field(), fe.Tag())
}

// pathUUID parses a UUID path parameter, answering 422 when malformed.
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, ErrorResponse{Error: fmt.Sprintf("invalid %s", name)})
		return uuid.Nil, false
	}
	return id, true
}

// pageParams reads limit and offset query parameters. Range checks are
// left to the use cases; only non-integers are rejected here.
func pageParams(c *gin.Context, defaultLimit int) (limit, offset int, ok bool) {
	limit, offset = defaultLimit, 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "limit must be an integer"})
			return 0, 0, false
		}
		limit = n
	}
	if v := c.Query("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "offset must be an integer"})
			return 0, 0, false
		}
		offset = n
	}
	return limit, offset, true
}
