package dto

import "feedinneed_backend/internal/models"

type CreateRequestRequest struct {
	DonationID string `json:"donation_id" validate:"required,uuid4"`
	Message    string `json:"message" validate:"omitempty,max=1000"`
}

type RejectRequestRequest struct {
	Reason string `json:"reason" validate:"required,min=5,max=500"`
}

// CompleteRequestRequest carries the pickup proof. Exactly one of the three
// shapes is used per call: code with a request id, a scanned QR payload, or a
// bare code matched across the caller's approved requests.
type CompleteRequestRequest struct {
	ConfirmationCode string `json:"confirmation_code" validate:"omitempty,len=6"`
	QRData           string `json:"qr_data" validate:"omitempty,max=2000"`
}

type RequestListResponse struct {
	Requests   []models.Request `json:"requests"`
	Pagination Pagination       `json:"pagination"`
}
