package services

import (
	"errors"

	"feedinneed_backend/internal/email"
	"feedinneed_backend/internal/logger"
	"feedinneed_backend/internal/models"
	"feedinneed_backend/internal/repositories"
	"feedinneed_backend/internal/services/dto"
	"feedinneed_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type UserService interface {
	GetProfile(userID string) (*models.User, error)
	UpdateProfile(userID string, req *dto.UpdateProfileRequest) (*models.User, error)

	// Admin operations
	ListUsers(query *dto.UserListQuery) (*dto.UserListResponse, error)
	VerifyUser(adminID, userID string, req *dto.VerifyUserRequest) error
	GrantTrust(adminID, userID string) error
	RevokeTrust(adminID, userID string, req *dto.RevokeTrustRequest) error
	DeleteUser(actorID string, actorRole models.UserRole, userID string) error
}

type userService struct {
	db        *gorm.DB
	userRepo  repositories.UserRepository
	notifRepo repositories.NotificationRepository
	mailer    email.Sender
}

func NewUserService(db *gorm.DB, userRepo repositories.UserRepository, notifRepo repositories.NotificationRepository, mailer email.Sender) UserService {
	return &userService{db: db, userRepo: userRepo, notifRepo: notifRepo, mailer: mailer}
}

func (s *userService) GetProfile(userID string) (*models.User, error) {
	user, err := s.userRepo.FindByID(s.db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewNotFoundError("user", "User not found")
		}
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}

func (s *userService) UpdateProfile(userID string, req *dto.UpdateProfileRequest) (*models.User, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.DonorType != "" {
		user.DonorType = req.DonorType
	}
	if req.ReceiverType != "" {
		user.ReceiverType = req.ReceiverType
	}
	if req.Address != "" {
		user.Address = req.Address
	}
	if req.City != "" {
		user.City = req.City
	}
	if req.Latitude != 0 {
		user.Latitude = req.Latitude
	}
	if req.Longitude != 0 {
		user.Longitude = req.Longitude
	}

	if err := s.userRepo.Update(s.db, user); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}

func (s *userService) ListUsers(query *dto.UserListQuery) (*dto.UserListResponse, error) {
	page, pageSize := normalizePage(query.Page, query.PageSize)

	users, total, err := s.userRepo.FindWithFilter(s.db, repositories.UserFilter{
		Role:               models.UserRole(query.Role),
		VerificationStatus: models.VerificationStatus(query.VerificationStatus),
		IsTrusted:          query.Trusted,
		Search:             query.Search,
		Page:               page,
		PageSize:           pageSize,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.UserListResponse{
		Users:      users,
		Pagination: dto.NewPagination(page, pageSize, total),
	}, nil
}

func (s *userService) VerifyUser(adminID, userID string, req *dto.VerifyUserRequest) error {
	user, err := s.GetProfile(userID)
	if err != nil {
		return err
	}

	if user.VerificationStatus != models.VerificationPending {
		return apperrors.NewStateConflictError("user",
			"Verification already decided: "+string(user.VerificationStatus))
	}

	status := models.VerificationApproved
	if !req.Approve {
		status = models.VerificationRejected
	}

	if err := s.userRepo.UpdateVerification(s.db, userID, status, req.Note); err != nil {
		return apperrors.InternalError(err)
	}

	title := "Account verified"
	message := "Your account has been verified. You can now use Feed In Need."
	if !req.Approve {
		title = "Verification declined"
		message = "Your account verification was declined."
		if req.Note != "" {
			message += " Reason: " + req.Note
		}
	}
	notifyAsync(s.db, s.notifRepo, userID, repositories.NotificationVerification, title, message, nil)

	go func() {
		if err := s.mailer.SendVerificationDecision(user.Email, user.Name, req.Approve, req.Note); err != nil {
			logger.WithError(err).Warn("verification email failed", "user_id", userID)
		}
	}()

	return nil
}

// GrantTrust is the manual override: it bypasses the transaction and rating
// thresholds entirely.
func (s *userService) GrantTrust(adminID, userID string) error {
	user, err := s.GetProfile(userID)
	if err != nil {
		return err
	}
	if user.IsTrusted {
		return apperrors.NewStateConflictError("user", "User is already trusted")
	}

	if err := s.userRepo.SetTrusted(s.db, userID, &adminID); err != nil {
		return apperrors.InternalError(err)
	}

	notifyAsync(s.db, s.notifRepo, userID, repositories.NotificationTrustGranted,
		"You earned the trusted badge",
		"An administrator marked your account as trusted. Your donations and requests are now approved automatically.", nil)
	return nil
}

func (s *userService) RevokeTrust(adminID, userID string, req *dto.RevokeTrustRequest) error {
	user, err := s.GetProfile(userID)
	if err != nil {
		return err
	}
	if !user.IsTrusted {
		return apperrors.NewStateConflictError("user", "User is not trusted")
	}

	if err := s.userRepo.RevokeTrust(s.db, userID, req.Reason); err != nil {
		return apperrors.InternalError(err)
	}

	notifyAsync(s.db, s.notifRepo, userID, repositories.NotificationTrustRevoked,
		"Trusted badge removed",
		"Your trusted badge was revoked. Reason: "+req.Reason, nil)
	return nil
}

func (s *userService) DeleteUser(actorID string, actorRole models.UserRole, userID string) error {
	user, err := s.GetProfile(userID)
	if err != nil {
		return err
	}

	// Only a superadmin may remove staff accounts.
	if user.Role.IsStaff() && actorRole != models.UserRoleSuperadmin {
		return apperrors.NewForbiddenError("Only a superadmin can delete staff accounts")
	}
	if user.ID == actorID {
		return apperrors.NewBadRequestError("You cannot delete your own account")
	}

	if err := s.userRepo.Delete(s.db, userID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}
