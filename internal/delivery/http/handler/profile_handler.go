package handler

import (
	"net/http"

	"github.com/gdugdh24/mutual-backend/internal/delivery/http/middleware"
	"github.com/gdugdh24/mutual-backend/internal/usecase/profile"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProfileHandler struct {
	profileUseCase *profile.ProfileUseCase
	logger         *zap.Logger
}

func NewProfileHandler(profileUseCase *profile.ProfileUseCase, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileUseCase: profileUseCase,
		logger:         logger,
	}
}

// GetMyProfile handles GET /profile/me
// @Summary Get my profile
// @Description Account attributes, photos and personality profile
// @Tags profile
// @Security BearerAuth
// @Produce json
// @Success 200 {object} profile.UserResponse
// @Failure 401 {object} ErrorResponse
// @Router /profile/me [get]
func (h *ProfileHandler) GetMyProfile(c *gin.Context) {
	resp, err := h.profileUseCase.GetMe(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SetupProfile handles POST /profile/me/setup
// @Summary Complete account setup
// @Description Requires at least three uploaded photos. May be repeated.
// @Tags profile
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body profile.SetupRequest true "Account attributes"
// @Success 200 {object} profile.UserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /profile/me/setup [post]
func (h *ProfileHandler) SetupProfile(c *gin.Context) {
	var req profile.SetupRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.profileUseCase.Setup(c.Request.Context(), middleware.CurrentUser(c), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateMyProfile handles PUT /profile/me
// @Summary Update account attributes and preferences
// @Tags profile
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body profile.UpdateRequest true "Fields to change"
// @Success 200 {object} profile.UserResponse
// @Failure 422 {object} ErrorResponse
// @Router /profile/me [put]
func (h *ProfileHandler) UpdateMyProfile(c *gin.Context) {
	var req profile.UpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.profileUseCase.Update(c.Request.Context(), middleware.CurrentUser(c), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateProfileData handles PUT /profile/me/profile
func (h *ProfileHandler) UpdateProfileData(c *gin.Context) {
	var req profile.ProfileUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.profileUseCase.UpdateProfileData(c.Request.Context(), middleware.CurrentUser(c).ID, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UploadPhoto handles POST /profile/me/photos (multipart field "file")
func (h *ProfileHandler) UploadPhoto(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "file is required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	defer f.Close()

	photo, err := h.profileUseCase.UploadPhoto(c.Request.Context(), middleware.CurrentUser(c).ID, f)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, photo)
}

// DeletePhoto handles DELETE /profile/me/photos/:photo_id
func (h *ProfileHandler) DeletePhoto(c *gin.Context) {
	photoID, ok := pathUUID(c, "photo_id")
	if !ok {
		return
	}
	if err := h.profileUseCase.DeletePhoto(c.Request.Context(), middleware.CurrentUser(c).ID, photoID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
