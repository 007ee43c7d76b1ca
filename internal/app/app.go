package app

import (
	"errors"
	"fmt"

	"feedinneed_backend/internal/config"
	"feedinneed_backend/internal/email"
	"feedinneed_backend/internal/handlers"
	"feedinneed_backend/internal/imageprocessor"
	"feedinneed_backend/internal/logger"
	"feedinneed_backend/internal/middleware"
	"feedinneed_backend/internal/models"
	"feedinneed_backend/internal/policy"
	"feedinneed_backend/internal/repositories"
	"feedinneed_backend/internal/routes"
	"feedinneed_backend/internal/services"
	"feedinneed_backend/internal/storage"
	"feedinneed_backend/internal/validator"
	"feedinneed_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig

	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := AutoMigrate(gormDB); err != nil {
		logger.Fatal("Migration failed", "error", err)
	}

	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	housekeeping := workers.NewHousekeeping(
		gormDB,
		repositories.NewUserRepository(),
		repositories.NewDonationRepository(),
		repositories.NewNotificationRepository(),
		cfg.Housekeeping.Schedule,
		cfg.Housekeeping.MaxUnverifiedAgeDays,
	)
	if err := housekeeping.Start(); err != nil {
		logger.Fatal("Failed to start housekeeping", "error", err)
	}
	defer housekeeping.Stop()

	ginRouter := SetupRouter(cfg, gormDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", "address", address)
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// AutoMigrate keeps the schema in step with the models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Donation{},
		&models.Request{},
		&models.Rating{},
		&models.Certificate{},
		&models.Notification{},
	)
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	storageInstance, err := storage.NewStorage(storage.Config{
		Type:      cfg.Storage.Type,
		BasePath:  cfg.Storage.BasePath,
		BaseURL:   cfg.Storage.BaseURL,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Endpoint:  cfg.Storage.Endpoint,
	})
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	serviceContainer := initializeServices(cfg, gormDB, storageInstance)
	appHandlers := initializeHandlers(serviceContainer)

	ginRouter := initializeGinRouter(cfg)
	routes.RegisterRoutes(ginRouter, appHandlers)

	// Local storage serves its files directly.
	if cfg.Storage.Type == "local" {
		ginRouter.Static("/files", cfg.Storage.BasePath)
	}

	return ginRouter
}

func initializeServices(cfg *config.Config, gormDB *gorm.DB, storageInstance storage.Storage) *services.ServiceContainer {
	mailer := email.NewSender(email.Config{
		Host:     cfg.Email.SMTPHost,
		Port:     cfg.Email.SMTPPort,
		Username: cfg.Email.SMTPUsername,
		Password: cfg.Email.SMTPPassword,
		From:     cfg.Email.FromEmail,
		FromName: cfg.Email.FromName,
	})

	userRepo := repositories.NewUserRepository()
	donationRepo := repositories.NewDonationRepository()
	requestRepo := repositories.NewRequestRepository()
	ratingRepo := repositories.NewRatingRepository()
	certificateRepo := repositories.NewCertificateRepository()
	notificationRepo := repositories.NewNotificationRepository()

	trustPolicy := policy.TrustPolicy{
		MinTransactions: cfg.Trust.MinTransactions,
		MinRating:       cfg.Trust.MinRating,
	}

	processor := imageprocessor.NewProcessor(85)

	certificateService := services.NewCertificateService(gormDB, certificateRepo)

	return &services.ServiceContainer{
		AuthService:         services.NewAuthService(gormDB, userRepo, mailer),
		UserService:         services.NewUserService(gormDB, userRepo, notificationRepo, mailer),
		DonationService:     services.NewDonationService(gormDB, donationRepo, userRepo, notificationRepo),
		RequestService:      services.NewRequestService(gormDB, requestRepo, donationRepo, userRepo, notificationRepo, certificateService),
		RatingService:       services.NewRatingService(gormDB, ratingRepo, requestRepo, userRepo, notificationRepo, trustPolicy),
		CertificateService:  certificateService,
		NotificationService: services.NewNotificationService(gormDB, notificationRepo),
		UploadService:       services.NewUploadService(storageInstance, processor, cfg.Upload.MaxSize, cfg.Upload.AllowedTypes),
	}
}

func initializeHandlers(container *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		AuthHandler:         handlers.NewAuthHandler(baseHandler, container.AuthService),
		UserHandler:         handlers.NewUserHandler(baseHandler, container.UserService, container.RatingService),
		DonationHandler:     handlers.NewDonationHandler(baseHandler, container.DonationService),
		RequestHandler:      handlers.NewRequestHandler(baseHandler, container.RequestService),
		RatingHandler:       handlers.NewRatingHandler(baseHandler, container.RatingService),
		CertificateHandler:  handlers.NewCertificateHandler(baseHandler, container.CertificateService),
		NotificationHandler: handlers.NewNotificationHandler(baseHandler, container.NotificationService),
		UploadHandler:       handlers.NewUploadHandler(baseHandler, container.UploadService),
	}
}

func initializeGinRouter(cfg *config.Config) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
	return router
}

// seedFirstAdmin bootstraps the first staff account so verification and
// approval queues have someone to work them.
func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	adminEmail := cfg.FirstAdminEmail
	adminPassword := cfg.FirstAdminPassword

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("first_admin_email or first_admin_password is not configured, skipping admin seeding")
		return nil
	}

	var existing models.User
	err := db.Where("email = ?", adminEmail).First(&existing).Error
	if err == nil {
		logger.Info("Admin user already exists, skipping creation", "email", adminEmail)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for admin user: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &models.User{
		Name:               "Administrator",
		Email:              adminEmail,
		PasswordHash:       string(hashed),
		Role:               models.UserRoleSuperadmin,
		VerificationStatus: models.VerificationApproved,
	}
	if err := db.Create(admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info("First admin user created", "email", adminEmail)
	return nil
}
