package dto

import "feedinneed_backend/internal/models"

type SubmitRatingRequest struct {
	RequestID string `json:"request_id" validate:"required,uuid4"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Feedback  string `json:"feedback" validate:"omitempty,max=1000"`
}

type RatingListResponse struct {
	Ratings    []models.Rating `json:"ratings"`
	Pagination Pagination      `json:"pagination"`
}
