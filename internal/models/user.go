package models

import "time"

type User struct {
	BaseModel
	Name         string   `gorm:"not null" json:"name"`
	Email        string   `gorm:"uniqueIndex;not null" json:"email"`
	Phone        string   `json:"phone"`
	PasswordHash string   `gorm:"not null" json:"-"`
	Role         UserRole `gorm:"type:varchar(20);not null" json:"role"`

	// donorType: restaurant, grocery, individual...; receiverType: ngo,
	// shelter, individual. Only meaningful for the matching role.
	DonorType    string `json:"donor_type,omitempty"`
	ReceiverType string `json:"receiver_type,omitempty"`

	VerificationStatus VerificationStatus `gorm:"type:varchar(20);default:'pending'" json:"verification_status"`
	VerificationNote   string             `json:"verification_note,omitempty"`
	VerifiedAt         *time.Time         `json:"verified_at,omitempty"`

	IsTrusted         bool       `gorm:"default:false" json:"is_trusted"`
	TrustedAt         *time.Time `json:"trusted_at,omitempty"`
	TrustGrantedByID  *string    `json:"trust_granted_by,omitempty"`
	TrustRevokeReason string     `json:"-"`

	AverageRating       float64 `gorm:"default:0" json:"average_rating"`
	TotalRatings        int     `gorm:"default:0" json:"total_ratings"`
	SuccessfulDonations int     `gorm:"default:0" json:"successful_donations"`
	SuccessfulReceives  int     `gorm:"default:0" json:"successful_receives"`

	Address   string  `json:"address,omitempty"`
	City      string  `json:"city,omitempty"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`

	LastActiveAt *time.Time `json:"-"`
}

// CanTransact reports whether the user passed admin verification. Admins are
// verified by construction.
func (u *User) CanTransact() bool {
	return u.Role.IsStaff() || u.VerificationStatus == VerificationApproved
}
