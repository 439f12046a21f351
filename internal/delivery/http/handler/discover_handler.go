package handler

import (
	"net/http"

	"github.com/gdugdh24/mutual-backend/internal/delivery/http/middleware"
	"github.com/gdugdh24/mutual-backend/internal/usecase/feed"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type DiscoverHandler struct {
	feedUseCase *feed.FeedUseCase
	logger      *zap.Logger
}

func NewDiscoverHandler(feedUseCase *feed.FeedUseCase, logger *zap.Logger) *DiscoverHandler {
	return &DiscoverHandler{feedUseCase: feedUseCase, logger: logger}
}

// Discover handles GET /discover
// @Summary Ranked candidates for the current user
// @Tags discover
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Page size (1-50)"
// @Param offset query int false "Offset"
// @Success 200 {object} feed.DiscoverResponse
// @Failure 403 {object} ErrorResponse
// @Router /discover [get]
func (h *DiscoverHandler) Discover(c *gin.Context) {
	limit, offset, ok := pageParams(c, feed.DefaultLimit)
	if !ok {
		return
	}
	resp, err := h.feedUseCase.Discover(c.Request.Context(), middleware.CurrentUser(c), limit, offset)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
