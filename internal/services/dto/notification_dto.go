package dto

import "feedinneed_backend/internal/models"

type NotificationListResponse struct {
	Notifications []models.Notification `json:"notifications"`
	UnreadCount   int64                 `json:"unread_count"`
	Pagination    Pagination            `json:"pagination"`
}

type CertificateListResponse struct {
	Certificates []models.Certificate `json:"certificates"`
	Pagination   Pagination           `json:"pagination"`
}
