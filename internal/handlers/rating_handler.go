package handlers

import (
	"feedinneed_backend/internal/middleware"
	"feedinneed_backend/internal/services"
	"feedinneed_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type RatingHandler struct {
	*BaseHandler
	ratingService services.RatingService
}

func NewRatingHandler(base *BaseHandler, ratingService services.RatingService) *RatingHandler {
	return &RatingHandler{BaseHandler: base, ratingService: ratingService}
}

func (h *RatingHandler) RegisterRoutes(r *gin.RouterGroup) {
	ratings := r.Group("/ratings")
	ratings.Use(middleware.AuthMiddleware())
	{
		ratings.POST("", h.Submit)
		ratings.GET("/request/:requestId", h.ListForRequest)
	}
}

func (h *RatingHandler) ListForRequest(c *gin.Context) {
	actorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	ratings, err := h.ratingService.ListForRequest(actorID, h.GetUserRole(c), c.Param("requestId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, "", ratings)
}

func (h *RatingHandler) Submit(c *gin.Context) {
	raterID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SubmitRatingRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	rating, err := h.ratingService.Submit(raterID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Created(c, "Rating submitted", rating)
}
