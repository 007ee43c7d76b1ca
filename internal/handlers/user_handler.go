package handlers

import (
	"feedinneed_backend/internal/middleware"
	"feedinneed_backend/internal/services"
	"feedinneed_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	*BaseHandler
	userService   services.UserService
	ratingService services.RatingService
}

func NewUserHandler(base *BaseHandler, userService services.UserService, ratingService services.RatingService) *UserHandler {
	return &UserHandler{BaseHandler: base, userService: userService, ratingService: ratingService}
}

func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup) {
	users := r.Group("/users")
	users.Use(middleware.AuthMiddleware())
	{
		users.GET("/me", h.GetProfile)
		users.PUT("/me", h.UpdateProfile)
		users.GET("/:userId/ratings", h.ListRatings)
	}

	admin := r.Group("/admin/users")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireStaff())
	{
		admin.GET("", h.ListUsers)
		admin.POST("/:userId/verify", h.VerifyUser)
		admin.POST("/:userId/trust", h.GrantTrust)
		admin.DELETE("/:userId/trust", h.RevokeTrust)
		admin.DELETE("/:userId", h.DeleteUser)
	}
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetProfile(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, "", user)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateProfile(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, "Profile updated", user)
}

func (h *UserHandler) ListRatings(c *gin.Context) {
	page, pageSize := h.ParsePagination(c)

	resp, err := h.ratingService.ListForUser(c.Param("userId"), page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, "", resp)
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	var query dto.UserListQuery
	if !h.BindAndValidateQuery(c, &query) {
		return
	}

	resp, err := h.userService.ListUsers(&query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, "", resp)
}

func (h *UserHandler) VerifyUser(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.VerifyUserRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.userService.VerifyUser(adminID, c.Param("userId"), &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, "Verification decision saved", nil)
}

func (h *UserHandler) GrantTrust(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.userService.GrantTrust(adminID, c.Param("userId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, "Trusted badge granted", nil)
}

func (h *UserHandler) RevokeTrust(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.RevokeTrustRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.userService.RevokeTrust(adminID, c.Param("userId"), &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, "Trusted badge revoked", nil)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	actorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(actorID, h.GetUserRole(c), c.Param("userId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, "User deleted", nil)
}
