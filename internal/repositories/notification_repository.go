package repositories

import (
	"encoding/json"
	"errors"
	"time"

	"feedinneed_backend/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

// Notification type tags used by clients to route taps.
const (
	NotificationDonationPending  = "donation_pending_approval"
	NotificationDonationApproved = "donation_approved"
	NotificationDonationRejected = "donation_rejected"
	NotificationRequestReceived  = "request_received"
	NotificationRequestPending   = "request_pending_approval"
	NotificationRequestApproved  = "request_approved"
	NotificationRequestRejected  = "request_rejected"
	NotificationRequestCompleted = "request_completed"
	NotificationRatingReceived   = "rating_received"
	NotificationTrustGranted     = "trust_granted"
	NotificationTrustRevoked     = "trust_revoked"
	NotificationVerification     = "verification_decision"
)

type NotificationRepository interface {
	Create(db *gorm.DB, notification *models.Notification) error
	CreateForUser(db *gorm.DB, userID, notifType, title, message string, data map[string]string) error
	FindForUser(db *gorm.DB, userID string, unreadOnly bool, page, pageSize int) ([]models.Notification, int64, error)
	CountUnread(db *gorm.DB, userID string) (int64, error)
	MarkAsRead(db *gorm.DB, userID, notificationID string) error
	MarkAllAsRead(db *gorm.DB, userID string) error
	DeleteOlderThan(db *gorm.DB, cutoff time.Time) (int64, error)
}

type NotificationRepositoryImpl struct{}

func NewNotificationRepository() NotificationRepository {
	return &NotificationRepositoryImpl{}
}

func (r *NotificationRepositoryImpl) Create(db *gorm.DB, notification *models.Notification) error {
	return db.Create(notification).Error
}

func (r *NotificationRepositoryImpl) CreateForUser(db *gorm.DB, userID, notifType, title, message string, data map[string]string) error {
	notification := &models.Notification{
		UserID:  userID,
		Type:    notifType,
		Title:   title,
		Message: message,
	}
	if len(data) > 0 {
		raw, err := json.Marshal(data)
		if err != nil {
			return err
		}
		notification.Data = datatypes.JSON(raw)
	}

	return db.Create(notification).Error
}

func (r *NotificationRepositoryImpl) FindForUser(db *gorm.DB, userID string, unreadOnly bool, page, pageSize int) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	query := db.Model(&models.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&notifications).Error

	return notifications, total, err
}

func (r *NotificationRepositoryImpl) CountUnread(db *gorm.DB, userID string) (int64, error) {
	var count int64
	err := db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkAsRead scopes on the owner so one user cannot touch another's inbox.
func (r *NotificationRepositoryImpl) MarkAsRead(db *gorm.DB, userID, notificationID string) error {
	result := db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepositoryImpl) MarkAllAsRead(db *gorm.DB, userID string) error {
	return db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": time.Now(),
		}).Error
}

func (r *NotificationRepositoryImpl) DeleteOlderThan(db *gorm.DB, cutoff time.Time) (int64, error) {
	result := db.Where("created_at < ? AND is_read = ?", cutoff, true).
		Delete(&models.Notification{})
	return result.RowsAffected, result.Error
}
