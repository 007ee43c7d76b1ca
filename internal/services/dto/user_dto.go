package dto

import "feedinneed_backend/internal/models"

type UpdateProfileRequest struct {
	Name         string  `json:"name" validate:"omitempty,min=2,max=100"`
	Phone        string  `json:"phone" validate:"omitempty,min=5,max=20"`
	DonorType    string  `json:"donor_type" validate:"omitempty,oneof=restaurant grocery bakery catering individual"`
	ReceiverType string  `json:"receiver_type" validate:"omitempty,oneof=ngo shelter food_bank individual"`
	Address      string  `json:"address" validate:"omitempty,max=255"`
	City         string  `json:"city" validate:"omitempty,max=100"`
	Latitude     float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude    float64 `json:"longitude" validate:"omitempty,longitude"`
}

type VerifyUserRequest struct {
	Approve bool   `json:"approve"`
	Note    string `json:"note" validate:"omitempty,max=500"`
}

type RevokeTrustRequest struct {
	Reason string `json:"reason" validate:"required,min=5,max=500"`
}

type UserListQuery struct {
	Role               string `form:"role" validate:"omitempty,oneof=donor receiver admin superadmin"`
	VerificationStatus string `form:"verification_status" validate:"omitempty,oneof=pending approved rejected"`
	Trusted            *bool  `form:"trusted"`
	Search             string `form:"search"`
	Page               int    `form:"page"`
	PageSize           int    `form:"page_size"`
}

type UserListResponse struct {
	Users      []models.User `json:"users"`
	Pagination Pagination    `json:"pagination"`
}
