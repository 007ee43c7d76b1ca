package models

import "time"

// Certificate is a write-once snapshot issued when a request completes.
// All display fields are copied at issue time so later edits or deletions
// never rewrite history.
type Certificate struct {
	BaseModel
	CertificateNumber string `gorm:"uniqueIndex;not null" json:"certificate_number"`

	RequestID  string `gorm:"uniqueIndex;not null" json:"request_id"`
	DonationID string `gorm:"not null;index" json:"donation_id"`
	DonorID    string `gorm:"not null;index" json:"donor_id"`
	ReceiverID string `gorm:"not null;index" json:"receiver_id"`

	DonorName     string    `json:"donor_name"`
	ReceiverName  string    `json:"receiver_name"`
	DonationTitle string    `json:"donation_title"`
	Quantity      string    `json:"quantity"`
	CompletedAt   time.Time `json:"completed_at"`
	IssuedAt      time.Time `json:"issued_at"`
}
