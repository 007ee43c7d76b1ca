package services

import (
	"feedinneed_backend/internal/logger"
	"feedinneed_backend/internal/repositories"

	"gorm.io/gorm"
)

// notifyAsync writes a notification without blocking the caller. Delivery is
// best effort: a failure is logged and swallowed.
func notifyAsync(db *gorm.DB, repo repositories.NotificationRepository, userID, notifType, title, message string, data map[string]string) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("notification goroutine panicked", "panic", r)
			}
		}()

		if err := repo.CreateForUser(db, userID, notifType, title, message, data); err != nil {
			logger.WithError(err).Error("failed to create notification",
				"user_id", userID, "type", notifType)
		}
	}()
}

// notifyStaffAsync fans a notification out to every admin account.
func notifyStaffAsync(db *gorm.DB, userRepo repositories.UserRepository, notifRepo repositories.NotificationRepository, notifType, title, message string, data map[string]string) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("staff notification goroutine panicked", "panic", r)
			}
		}()

		staff, err := userRepo.FindStaff(db)
		if err != nil {
			logger.WithError(err).Error("failed to load staff for notification fan-out")
			return
		}
		for _, admin := range staff {
			if err := notifRepo.CreateForUser(db, admin.ID, notifType, title, message, data); err != nil {
				logger.WithError(err).Error("failed to notify admin", "admin_id", admin.ID)
			}
		}
	}()
}
