package handler

import (
	"net/http"

	"github.com/gdugdh24/mutual-backend/internal/delivery/http/middleware"
	"github.com/gdugdh24/mutual-backend/internal/usecase/match"
	"github.com/gdugdh24/mutual-backend/internal/usecase/message"
	"github.com/gdugdh24/mutual-backend/internal/usecase/swipe"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type MatchHandler struct {
	swipeUseCase   *swipe.SwipeUseCase
	matchUseCase   *match.MatchUseCase
	messageUseCase *message.MessageUseCase
	logger         *zap.Logger
}

func NewMatchHandler(
	swipeUseCase *swipe.SwipeUseCase,
	matchUseCase *match.MatchUseCase,
	messageUseCase *message.MessageUseCase,
	logger *zap.Logger,
) *MatchHandler {
	return &MatchHandler{
		swipeUseCase:   swipeUseCase,
		matchUseCase:   matchUseCase,
		messageUseCase: messageUseCase,
		logger:         logger,
	}
}

type LikeRequest struct {
	LikedUserID uuid.UUID `json:"liked_user_id" binding:"required"`
}

type PassRequest struct {
	PassedUserID uuid.UUID `json:"passed_user_id" binding:"required"`
}

// Like handles POST /matches/like
// @Summary Like a user
// @Description Creates a match when the other user already liked back
// @Tags matches
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body LikeRequest true "Target"
// @Success 200 {object} swipe.LikeResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /matches/like [post]
func (h *MatchHandler) Like(c *gin.Context) {
	var req LikeRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.swipeUseCase.Like(c.Request.Context(), middleware.CurrentUser(c).ID, req.LikedUserID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Pass handles POST /matches/pass
func (h *MatchHandler) Pass(c *gin.Context) {
	var req PassRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.swipeUseCase.Pass(c.Request.Context(), middleware.CurrentUser(c).ID, req.PassedUserID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List handles GET /matches
func (h *MatchHandler) List(c *gin.Context) {
	limit, offset, ok := pageParams(c, match.DefaultLimit)
	if !ok {
		return
	}
	resp, err := h.matchUseCase.List(c.Request.Context(), middleware.CurrentUser(c).ID, limit, offset)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Unmatch handles DELETE /matches/:match_id
func (h *MatchHandler) Unmatch(c *gin.Context) {
	matchID, ok := pathUUID(c, "match_id")
	if !ok {
		return
	}
	if err := h.matchUseCase.Unmatch(c.Request.Context(), middleware.CurrentUser(c).ID, matchID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Icebreakers handles GET /matches/:match_id/icebreakers
// @Summary Conversation starters for a match
// @Tags matches
// @Security BearerAuth
// @Produce json
// @Param match_id path string true "Match ID"
// @Success 200 {object} match.IcebreakersResponse
// @Failure 502 {object} ErrorResponse
// @Router /matches/{match_id}/icebreakers [get]
func (h *MatchHandler) Icebreakers(c *gin.Context) {
	matchID, ok := pathUUID(c, "match_id")
	if !ok {
		return
	}
	resp, err := h.matchUseCase.Icebreakers(c.Request.Context(), middleware.CurrentUser(c).ID, matchID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListMessages handles GET /matches/:match_id/messages
func (h *MatchHandler) ListMessages(c *gin.Context) {
	matchID, ok := pathUUID(c, "match_id")
	if !ok {
		return
	}
	limit, offset, ok := pageParams(c, message.DefaultLimit)
	if !ok {
		return
	}
	resp, err := h.messageUseCase.List(c.Request.Context(), middleware.CurrentUser(c).ID, matchID, limit, offset)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SendMessage handles POST /matches/:match_id/messages
func (h *MatchHandler) SendMessage(c *gin.Context) {
	matchID, ok := pathUUID(c, "match_id")
	if !ok {
		return
	}
	var req message.SendRequest
	if !bindJSON(c, &req) {
		return
	}
	msg, err := h.messageUseCase.Send(c.Request.Context(), middleware.CurrentUser(c).ID, matchID, req.Content)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}
