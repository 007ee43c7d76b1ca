package services_test

import (
	"testing"
	"time"

	"feedinneed_backend/internal/config"
	"feedinneed_backend/internal/email"
	"feedinneed_backend/internal/models"
	"feedinneed_backend/internal/policy"
	"feedinneed_backend/internal/repositories"
	"feedinneed_backend/internal/services"
	"feedinneed_backend/internal/services/dto"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupTestDB opens a fresh in-memory database per test. The pool is pinned
// to one connection so every query sees the same sqlite instance.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	t.Setenv("DATABASE_URL", "sqlite::memory:")
	t.Setenv("JWT_SECRET", "test-secret")
	config.LoadConfig()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Donation{},
		&models.Request{},
		&models.Rating{},
		&models.Certificate{},
		&models.Notification{},
	))
	return db
}

type testEnv struct {
	db *gorm.DB

	auth          services.AuthService
	users         services.UserService
	donations     services.DonationService
	requests      services.RequestService
	ratings       services.RatingService
	certificates  services.CertificateService
	notifications services.NotificationService
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	db := setupTestDB(t)

	userRepo := repositories.NewUserRepository()
	donationRepo := repositories.NewDonationRepository()
	requestRepo := repositories.NewRequestRepository()
	ratingRepo := repositories.NewRatingRepository()
	certificateRepo := repositories.NewCertificateRepository()
	notificationRepo := repositories.NewNotificationRepository()

	mailer := email.NewSender(email.Config{}) // sending disabled

	certificateService := services.NewCertificateService(db, certificateRepo)

	return &testEnv{
		db:            db,
		auth:          services.NewAuthService(db, userRepo, mailer),
		users:         services.NewUserService(db, userRepo, notificationRepo, mailer),
		donations:     services.NewDonationService(db, donationRepo, userRepo, notificationRepo),
		requests:      services.NewRequestService(db, requestRepo, donationRepo, userRepo, notificationRepo, certificateService),
		ratings:       services.NewRatingService(db, ratingRepo, requestRepo, userRepo, notificationRepo, policy.DefaultTrustPolicy()),
		certificates:  certificateService,
		notifications: services.NewNotificationService(db, notificationRepo),
	}
}

func createUser(t *testing.T, db *gorm.DB, role models.UserRole, verified, trusted bool) *models.User {
	t.Helper()

	status := models.VerificationPending
	if verified {
		status = models.VerificationApproved
	}

	user := &models.User{
		Name:               "Test " + string(role),
		Email:              string(role) + "-" + randomSuffix(t) + "@example.org",
		PasswordHash:       "x",
		Role:               role,
		VerificationStatus: status,
		IsTrusted:          trusted,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func randomSuffix(t *testing.T) string {
	t.Helper()
	code, err := services.GeneratePickupCode()
	require.NoError(t, err)
	return code
}

func validDonationRequest() *dto.CreateDonationRequest {
	return &dto.CreateDonationRequest{
		Title:          "Fresh bread from tonight's batch",
		Description:    "Twenty loaves left over from the evening service.",
		FoodType:       "bakery",
		Quantity:       "20 loaves",
		ServingSize:    20,
		Photos:         []string{"/files/donations/photo1.jpg"},
		ExpiryDateTime: time.Now().Add(24 * time.Hour),
		PickupAddress:  "12 Baker Street",
		Latitude:       43.25,
		Longitude:      76.9,
	}
}

// createApprovedRequest walks a donation and request to the approved state:
// trusted donor posts, receiver requests, admin approves.
func createApprovedRequest(t *testing.T, env *testEnv, donor, receiver, admin *models.User) (*models.Donation, *models.Request) {
	t.Helper()

	donation, err := env.donations.Create(donor.ID, validDonationRequest())
	require.NoError(t, err)
	require.True(t, donation.IsApproved)

	request, err := env.requests.Create(receiver.ID, &dto.CreateRequestRequest{
		DonationID: donation.ID,
		Message:    "Our shelter feeds forty people every evening.",
	})
	require.NoError(t, err)

	if request.Status == models.RequestStatusPending {
		request, err = env.requests.Approve(admin.ID, request.ID)
		require.NoError(t, err)
	}
	require.Equal(t, models.RequestStatusApproved, request.Status)
	require.NotEmpty(t, request.ConfirmationCode)
	return donation, request
}

// completeRequest confirms the pickup with the explicit code entry point.
func completeRequest(t *testing.T, env *testEnv, receiver *models.User, request *models.Request) *models.Request {
	t.Helper()

	completed, err := env.requests.CompleteWithCode(receiver.ID, request.ID, request.ConfirmationCode)
	require.NoError(t, err)
	require.Equal(t, models.RequestStatusCompleted, completed.Status)
	return completed
}
