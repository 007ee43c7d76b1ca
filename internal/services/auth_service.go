package services

import (
	"errors"
	"net/http"
	"time"

	"feedinneed_backend/internal/auth"
	"feedinneed_backend/internal/email"
	"feedinneed_backend/internal/logger"
	"feedinneed_backend/internal/models"
	"feedinneed_backend/internal/repositories"
	"feedinneed_backend/internal/services/dto"
	"feedinneed_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type AuthService interface {
	Register(req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(req *dto.LoginRequest) (*dto.AuthResponse, error)
}

type authService struct {
	db       *gorm.DB
	userRepo repositories.UserRepository
	mailer   email.Sender
}

func NewAuthService(db *gorm.DB, userRepo repositories.UserRepository, mailer email.Sender) AuthService {
	return &authService{db: db, userRepo: userRepo, mailer: mailer}
}

func (s *authService) Register(req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.NewBadRequestError(err.Error())
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hash,
		Role:         models.UserRole(req.Role),
		DonorType:    req.DonorType,
		ReceiverType: req.ReceiverType,
		Address:      req.Address,
		City:         req.City,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,

		VerificationStatus: models.VerificationPending,
	}

	if err := s.userRepo.Create(s.db, user); err != nil {
		if errors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.NewAlreadyExistsError("user", "An account with this email already exists")
		}
		return nil, apperrors.InternalError(err)
	}

	token, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	go func() {
		if err := s.mailer.Send(user.Email, "Welcome to Feed In Need",
			"<p>Hello "+user.Name+",</p><p>Your account is awaiting verification. We will email you once an administrator reviews it.</p>"); err != nil {
			logger.WithError(err).Warn("welcome email failed", "user_id", user.ID)
		}
	}()

	return &dto.AuthResponse{Token: token, User: user}, nil
}

func (s *authService) Login(req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(s.db, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, invalidCredentials()
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, invalidCredentials()
	}

	token, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := s.userRepo.UpdateLastActive(s.db, user.ID); err != nil {
		logger.WithError(err).Warn("failed to update last active", "user_id", user.ID)
	}
	now := time.Now()
	user.LastActiveAt = &now

	return &dto.AuthResponse{Token: token, User: user}, nil
}

func invalidCredentials() *apperrors.AppError {
	return apperrors.New(apperrors.CodeInvalidCredentials, "auth",
		"Invalid email or password", http.StatusUnauthorized)
}
