package handlers

import (
	"feedinneed_backend/internal/middleware"
	"feedinneed_backend/internal/models"
	"feedinneed_backend/internal/services"
	"feedinneed_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	*BaseHandler
	uploadService services.UploadService
}

func NewUploadHandler(base *BaseHandler, uploadService services.UploadService) *UploadHandler {
	return &UploadHandler{BaseHandler: base, uploadService: uploadService}
}

func (h *UploadHandler) RegisterRoutes(r *gin.RouterGroup) {
	uploads := r.Group("/uploads")
	uploads.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleDonor, models.UserRoleAdmin, models.UserRoleSuperadmin))
	{
		uploads.POST("/photos", h.UploadPhoto)
	}
}

// UploadPhoto stores one donation photo and returns its URL. Clients upload
// photos first, then reference the URLs when creating the donation.
func (h *UploadHandler) UploadPhoto(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	file, err := c.FormFile("photo")
	if err != nil {
		h.HandleServiceError(c, apperrors.NewBadRequestError("photo file is required"))
		return
	}

	url, err := h.uploadService.UploadDonationPhoto(c.Request.Context(), userID, file)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Created(c, "Photo uploaded", gin.H{"url": url})
}
