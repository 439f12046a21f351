package handler

import (
	"net/http"

	"github.com/gdugdh24/mutual-backend/internal/delivery/http/middleware"
	"github.com/gdugdh24/mutual-backend/internal/usecase/account"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AccountHandler struct {
	accountUseCase *account.AccountUseCase
	logger         *zap.Logger
}

func NewAccountHandler(accountUseCase *account.AccountUseCase, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{accountUseCase: accountUseCase, logger: logger}
}

func (h *AccountHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.accountUseCase.Status(middleware.CurrentUser(c)))
}

func (h *AccountHandler) Deactivate(c *gin.Context) {
	resp, err := h.accountUseCase.Deactivate(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AccountHandler) Reactivate(c *gin.Context) {
	resp, err := h.accountUseCase.Reactivate(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete handles DELETE /account and erases everything the user owns.
func (h *AccountHandler) Delete(c *gin.Context) {
	if err := h.accountUseCase.Delete(c.Request.Context(), middleware.CurrentUser(c).ID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
