package dto

import "feedinneed_backend/internal/models"

type RegisterRequest struct {
	Name         string `json:"name" validate:"required,min=2,max=100"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone" validate:"omitempty,min=5,max=20"`
	Password     string `json:"password" validate:"required,min=8"`
	Role         string `json:"role" validate:"required,oneof=donor receiver"`
	DonorType    string `json:"donor_type" validate:"omitempty,oneof=restaurant grocery bakery catering individual"`
	ReceiverType string `json:"receiver_type" validate:"omitempty,oneof=ngo shelter food_bank individual"`
	Address      string `json:"address" validate:"omitempty,max=255"`
	City         string `json:"city" validate:"omitempty,max=100"`
	Latitude     float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude    float64 `json:"longitude" validate:"omitempty,longitude"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}
