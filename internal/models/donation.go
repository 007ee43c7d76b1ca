package models

import (
	"time"

	"gorm.io/datatypes"
)

type Donation struct {
	BaseModel
	DonorID string `gorm:"not null;index" json:"donor_id"`

	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description"`
	FoodType    string `json:"food_type"`
	Quantity    string `json:"quantity"`
	ServingSize int    `json:"serving_size"`

	// Stable URLs returned by the storage layer, 1 to 3 per donation.
	Photos datatypes.JSONSlice[string] `json:"photos"`

	ExpiryDateTime time.Time `gorm:"not null;index" json:"expiry_date_time"`

	PickupAddress string  `json:"pickup_address"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`

	Status DonationStatus `gorm:"type:varchar(20);default:'available';index" json:"status"`

	IsApproved   bool       `gorm:"default:false;index" json:"is_approved"`
	ApprovedByID *string    `json:"approved_by,omitempty"`
	ApprovedAt   *time.Time `json:"approved_at,omitempty"`

	ClaimedByID *string    `json:"claimed_by,omitempty"`
	ClaimedAt   *time.Time `json:"claimed_at,omitempty"`

	// Relations
	Donor      User  `gorm:"foreignKey:DonorID" json:"donor,omitempty"`
	ApprovedBy *User `gorm:"foreignKey:ApprovedByID" json:"-"`

	// Set only on nearby queries; not persisted.
	DistanceKm *float64 `gorm:"-" json:"distance_km,omitempty"`
}

// IsPubliclyVisible: approved, still available and not past expiry.
func (d *Donation) IsPubliclyVisible(now time.Time) bool {
	return d.IsApproved && d.Status == DonationStatusAvailable && d.ExpiryDateTime.After(now)
}
