package dto

import (
	"time"

	"feedinneed_backend/internal/models"
)

type CreateDonationRequest struct {
	Title          string    `json:"title" validate:"required,min=3,max=150"`
	Description    string    `json:"description" validate:"omitempty,max=2000"`
	FoodType       string    `json:"food_type" validate:"required,max=50"`
	Quantity       string    `json:"quantity" validate:"required,max=100"`
	ServingSize    int       `json:"serving_size" validate:"omitempty,min=1,max=10000"`
	Photos         []string  `json:"photos" validate:"required,min=1,max=3,dive,required"`
	ExpiryDateTime time.Time `json:"expiry_date_time" validate:"required"`
	PickupAddress  string    `json:"pickup_address" validate:"required,max=255"`
	Latitude       float64   `json:"latitude" validate:"required,latitude"`
	Longitude      float64   `json:"longitude" validate:"required,longitude"`
}

type UpdateDonationRequest struct {
	Title          string     `json:"title" validate:"omitempty,min=3,max=150"`
	Description    *string    `json:"description" validate:"omitempty,max=2000"`
	FoodType       string     `json:"food_type" validate:"omitempty,max=50"`
	Quantity       string     `json:"quantity" validate:"omitempty,max=100"`
	ServingSize    int        `json:"serving_size" validate:"omitempty,min=1,max=10000"`
	Photos         []string   `json:"photos" validate:"omitempty,min=1,max=3,dive,required"`
	ExpiryDateTime *time.Time `json:"expiry_date_time"`
	PickupAddress  string     `json:"pickup_address" validate:"omitempty,max=255"`
	Latitude       *float64   `json:"latitude" validate:"omitempty,latitude"`
	Longitude      *float64   `json:"longitude" validate:"omitempty,longitude"`
}

type RejectDonationRequest struct {
	Reason string `json:"reason" validate:"required,min=5,max=500"`
}

// DonationListQuery drives the public browse endpoint. Lat/Lng switch on
// nearby mode: results gain distance_km and sort nearest first.
type DonationListQuery struct {
	Search   string   `form:"search"`
	FoodType string   `form:"food_type"`
	Lat      *float64 `form:"lat"`
	Lng      *float64 `form:"lng"`
	Page     int      `form:"page"`
	PageSize int      `form:"page_size"`
}

type DonationListResponse struct {
	Donations  []models.Donation `json:"donations"`
	Pagination Pagination        `json:"pagination"`
}
