package services

import (
	"errors"

	"feedinneed_backend/internal/repositories"
	"feedinneed_backend/internal/services/dto"
	"feedinneed_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type NotificationService interface {
	List(userID string, unreadOnly bool, page, pageSize int) (*dto.NotificationListResponse, error)
	UnreadCount(userID string) (int64, error)
	MarkAsRead(userID, notificationID string) error
	MarkAllAsRead(userID string) error
}

type notificationService struct {
	db        *gorm.DB
	notifRepo repositories.NotificationRepository
}

func NewNotificationService(db *gorm.DB, notifRepo repositories.NotificationRepository) NotificationService {
	return &notificationService{db: db, notifRepo: notifRepo}
}

func (s *notificationService) List(userID string, unreadOnly bool, page, pageSize int) (*dto.NotificationListResponse, error) {
	page, pageSize = normalizePage(page, pageSize)

	notifications, total, err := s.notifRepo.FindForUser(s.db, userID, unreadOnly, page, pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	unread, err := s.notifRepo.CountUnread(s.db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.NotificationListResponse{
		Notifications: notifications,
		UnreadCount:   unread,
		Pagination:    dto.NewPagination(page, pageSize, total),
	}, nil
}

func (s *notificationService) UnreadCount(userID string) (int64, error) {
	count, err := s.notifRepo.CountUnread(s.db, userID)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return count, nil
}

func (s *notificationService) MarkAsRead(userID, notificationID string) error {
	if err := s.notifRepo.MarkAsRead(s.db, userID, notificationID); err != nil {
		if errors.Is(err, repositories.ErrNotificationNotFound) {
			return apperrors.NewNotFoundError("notification", "Notification not found")
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *notificationService) MarkAllAsRead(userID string) error {
	if err := s.notifRepo.MarkAllAsRead(s.db, userID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}
