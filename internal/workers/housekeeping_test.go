package workers_test

import (
	"testing"
	"time"

	"feedinneed_backend/internal/models"
	"feedinneed_backend/internal/repositories"
	"feedinneed_backend/internal/workers"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Donation{},
		&models.Notification{},
	))
	return db
}

func TestSweep(t *testing.T) {
	db := setupDB(t)

	donor := &models.User{
		Name: "Donor", Email: "donor@example.org", PasswordHash: "x",
		Role: models.UserRoleDonor, VerificationStatus: models.VerificationApproved,
	}
	require.NoError(t, db.Create(donor).Error)

	// Overdue donation still offered, overdue donation already claimed,
	// and one with time left.
	overdue := &models.Donation{
		DonorID: donor.ID, Title: "overdue",
		Status: models.DonationStatusAvailable, ExpiryDateTime: time.Now().Add(-time.Hour),
	}
	claimed := &models.Donation{
		DonorID: donor.ID, Title: "claimed overdue",
		Status: models.DonationStatusClaimed, ExpiryDateTime: time.Now().Add(-time.Hour),
	}
	fresh := &models.Donation{
		DonorID: donor.ID, Title: "fresh",
		Status: models.DonationStatusAvailable, ExpiryDateTime: time.Now().Add(time.Hour),
	}
	require.NoError(t, db.Create(overdue).Error)
	require.NoError(t, db.Create(claimed).Error)
	require.NoError(t, db.Create(fresh).Error)

	// A stale unverified account and a recent one.
	stale := &models.User{
		Name: "Stale", Email: "stale@example.org", PasswordHash: "x",
		Role: models.UserRoleReceiver, VerificationStatus: models.VerificationPending,
	}
	require.NoError(t, db.Create(stale).Error)
	require.NoError(t, db.Model(stale).Update("created_at", time.Now().Add(-60*24*time.Hour)).Error)

	recent := &models.User{
		Name: "Recent", Email: "recent@example.org", PasswordHash: "x",
		Role: models.UserRoleReceiver, VerificationStatus: models.VerificationPending,
	}
	require.NoError(t, db.Create(recent).Error)

	// An old read notification and an old unread one.
	readAt := time.Now().Add(-120 * 24 * time.Hour)
	oldRead := &models.Notification{UserID: donor.ID, Type: "donation_approved", Title: "old read", IsRead: true, ReadAt: &readAt}
	oldUnread := &models.Notification{UserID: donor.ID, Type: "donation_approved", Title: "old unread"}
	require.NoError(t, db.Create(oldRead).Error)
	require.NoError(t, db.Create(oldUnread).Error)
	require.NoError(t, db.Model(&models.Notification{}).Where("user_id = ?", donor.ID).
		Update("created_at", time.Now().Add(-120*24*time.Hour)).Error)

	hk := workers.NewHousekeeping(db,
		repositories.NewUserRepository(),
		repositories.NewDonationRepository(),
		repositories.NewNotificationRepository(),
		"@hourly", 30)
	hk.Sweep()

	var expiredNow, stillClaimed, untouched models.Donation
	require.NoError(t, db.First(&expiredNow, "id = ?", overdue.ID).Error)
	assert.Equal(t, models.DonationStatusExpired, expiredNow.Status)

	require.NoError(t, db.First(&stillClaimed, "id = ?", claimed.ID).Error)
	assert.Equal(t, models.DonationStatusClaimed, stillClaimed.Status, "claimed pickups are not expired")

	require.NoError(t, db.First(&untouched, "id = ?", fresh.ID).Error)
	assert.Equal(t, models.DonationStatusAvailable, untouched.Status)

	var u models.User
	assert.Error(t, db.First(&u, "id = ?", stale.ID).Error)
	assert.NoError(t, db.First(&u, "id = ?", recent.ID).Error)

	var n models.Notification
	assert.Error(t, db.First(&n, "id = ?", oldRead.ID).Error)
	assert.NoError(t, db.First(&n, "id = ?", oldUnread.ID).Error, "unread notifications survive the sweep")
}
