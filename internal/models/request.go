package models

import "time"

type Request struct {
	BaseModel
	ReceiverID string `gorm:"not null;index;uniqueIndex:idx_receiver_donation" json:"receiver_id"`
	DonationID string `gorm:"not null;index;uniqueIndex:idx_receiver_donation" json:"donation_id"`

	// Mandatory (min 20 chars) for untrusted receivers.
	Message string `json:"message"`

	Status RequestStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`

	// Present iff status is approved or completed.
	ConfirmationCode string `json:"-"`
	QRCodeData       string `json:"qr_code_data,omitempty"`
	QRCodeImage      string `json:"qr_code_image,omitempty"`

	DonorRated    bool `gorm:"default:false" json:"donor_rated"`
	ReceiverRated bool `gorm:"default:false" json:"receiver_rated"`

	ReviewedByID    *string    `json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`

	// Relations
	Receiver User     `gorm:"foreignKey:ReceiverID" json:"receiver,omitempty"`
	Donation Donation `gorm:"foreignKey:DonationID" json:"donation,omitempty"`
}

// QRPayload is the pickup secret encoded into the request's QR code.
type QRPayload struct {
	Type       string `json:"type"`
	RequestID  string `json:"requestId"`
	DonationID string `json:"donationId"`
	Code       string `json:"code"`
	Timestamp  int64  `json:"timestamp"`
}

const QRPayloadType = "FEED_IN_NEED_PICKUP"
