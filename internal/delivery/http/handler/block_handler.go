package handler

import (
	"net/http"

	"github.com/gdugdh24/mutual-backend/internal/delivery/http/middleware"
	"github.com/gdugdh24/mutual-backend/internal/usecase/block"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BlockHandler struct {
	blockUseCase *block.BlockUseCase
	logger       *zap.Logger
}

func NewBlockHandler(blockUseCase *block.BlockUseCase, logger *zap.Logger) *BlockHandler {
	return &BlockHandler{blockUseCase: blockUseCase, logger: logger}
}

type BlockRequest struct {
	BlockedUserID uuid.UUID `json:"blocked_user_id" binding:"required"`
}

// Block handles POST /block
// @Summary Block a user
// @Description Also removes any match between the two users
// @Tags block
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body BlockRequest true "Target"
// @Success 201 {object} block.BlockResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /block [post]
func (h *BlockHandler) Block(c *gin.Context) {
	var req BlockRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.blockUseCase.Block(c.Request.Context(), middleware.CurrentUser(c).ID, req.BlockedUserID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *BlockHandler) Unblock(c *gin.Context) {
	targetID, ok := pathUUID(c, "blocked_user_id")
	if !ok {
		return
	}
	if err := h.blockUseCase.Unblock(c.Request.Context(), middleware.CurrentUser(c).ID, targetID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BlockHandler) List(c *gin.Context) {
	limit, offset, ok := pageParams(c, block.DefaultLimit)
	if !ok {
		return
	}
	resp, err := h.blockUseCase.List(c.Request.Context(), middleware.CurrentUser(c).ID, limit, offset)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
