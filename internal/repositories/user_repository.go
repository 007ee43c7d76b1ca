package repositories

import (
	"errors"
	"time"

	"feedinneed_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

type UserRepository interface {
	FindByID(db *gorm.DB, id string) (*models.User, error)
	FindByEmail(db *gorm.DB, email string) (*models.User, error)
	Create(db *gorm.DB, user *models.User) error
	Update(db *gorm.DB, user *models.User) error
	Delete(db *gorm.DB, userID string) error

	UpdateVerification(db *gorm.DB, userID string, status models.VerificationStatus, note string) error
	SetTrusted(db *gorm.DB, userID string, grantedBy *string) error
	RevokeTrust(db *gorm.DB, userID, reason string) error
	UpdateRatingStats(db *gorm.DB, userID string, average float64, total int) error
	SetSuccessfulCount(db *gorm.DB, userID string, role models.UserRole, count int) error
	IncrementSuccessfulDonations(db *gorm.DB, userID string) error
	IncrementSuccessfulReceives(db *gorm.DB, userID string) error

	FindWithFilter(db *gorm.DB, criteria UserFilter) ([]models.User, int64, error)
	FindStaff(db *gorm.DB) ([]models.User, error)
	CountAll(db *gorm.DB) (int64, error)
	DeleteUnverifiedOlderThan(db *gorm.DB, cutoff time.Time) (int64, error)
	UpdateLastActive(db *gorm.DB, userID string) error
}

type UserRepositoryImpl struct{}

type UserFilter struct {
	Role               models.UserRole
	VerificationStatus models.VerificationStatus
	IsTrusted          *bool
	Search             string
	Page               int
	PageSize           int
}

func NewUserRepository() UserRepository {
	return &UserRepositoryImpl{}
}

func (r *UserRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	err := db.First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	err := db.First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) Create(db *gorm.DB, user *models.User) error {
	var existing models.User
	if err := db.Where("email = ?", user.Email).First(&existing).Error; err == nil {
		return ErrUserAlreadyExists
	}

	return db.Create(user).Error
}

func (r *UserRepositoryImpl) Update(db *gorm.DB, user *models.User) error {
	result := db.Model(user).Updates(map[string]interface{}{
		"name":          user.Name,
		"phone":         user.Phone,
		"donor_type":    user.DonorType,
		"receiver_type": user.ReceiverType,
		"address":       user.Address,
		"city":          user.City,
		"latitude":      user.Latitude,
		"longitude":     user.Longitude,
		"updated_at":    time.Now(),
	})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) Delete(db *gorm.DB, userID string) error {
	result := db.Where("id = ?", userID).Delete(&models.User{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) UpdateVerification(db *gorm.DB, userID string, status models.VerificationStatus, note string) error {
	updates := map[string]interface{}{
		"verification_status": status,
		"verification_note":   note,
		"updated_at":          time.Now(),
	}
	if status == models.VerificationApproved {
		updates["verified_at"] = time.Now()
	}

	result := db.Model(&models.User{}).Where("id = ?", userID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) SetTrusted(db *gorm.DB, userID string, grantedBy *string) error {
	result := db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"is_trusted":          true,
		"trusted_at":          time.Now(),
		"trust_granted_by_id": grantedBy,
		"trust_revoke_reason": "",
		"updated_at":          time.Now(),
	})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) RevokeTrust(db *gorm.DB, userID, reason string) error {
	result := db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"is_trusted":          false,
		"trusted_at":          nil,
		"trust_granted_by_id": nil,
		"trust_revoke_reason": reason,
		"updated_at":          time.Now(),
	})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) UpdateRatingStats(db *gorm.DB, userID string, average float64, total int) error {
	result := db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"average_rating": average,
		"total_ratings":  total,
		"updated_at":     time.Now(),
	})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) SetSuccessfulCount(db *gorm.DB, userID string, role models.UserRole, count int) error {
	column := "successful_donations"
	if role == models.UserRoleReceiver {
		column = "successful_receives"
	}

	return db.Model(&models.User{}).Where("id = ?", userID).
		Update(column, count).Error
}

func (r *UserRepositoryImpl) IncrementSuccessfulDonations(db *gorm.DB, userID string) error {
	return db.Model(&models.User{}).Where("id = ?", userID).
		Update("successful_donations", gorm.Expr("successful_donations + 1")).Error
}

func (r *UserRepositoryImpl) IncrementSuccessfulReceives(db *gorm.DB, userID string) error {
	return db.Model(&models.User{}).Where("id = ?", userID).
		Update("successful_receives", gorm.Expr("successful_receives + 1")).Error
}

func (r *UserRepositoryImpl) FindWithFilter(db *gorm.DB, criteria UserFilter) ([]models.User, int64, error) {
	var users []models.User
	query := db.Model(&models.User{})

	if criteria.Role != "" {
		query = query.Where("role = ?", criteria.Role)
	}
	if criteria.VerificationStatus != "" {
		query = query.Where("verification_status = ?", criteria.VerificationStatus)
	}
	if criteria.IsTrusted != nil {
		query = query.Where("is_trusted = ?", *criteria.IsTrusted)
	}
	if criteria.Search != "" {
		search := "%" + criteria.Search + "%"
		query = query.Where("email LIKE ? OR name LIKE ?", search, search)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := criteria.PageSize
	offset := (criteria.Page - 1) * criteria.PageSize

	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&users).Error
	return users, total, err
}

func (r *UserRepositoryImpl) FindStaff(db *gorm.DB) ([]models.User, error) {
	var users []models.User
	err := db.Where("role IN ?", []models.UserRole{models.UserRoleAdmin, models.UserRoleSuperadmin}).
		Find(&users).Error
	return users, err
}

func (r *UserRepositoryImpl) CountAll(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&models.User{}).Count(&count).Error
	return count, err
}

// DeleteUnverifiedOlderThan removes accounts that never passed verification.
// Staff accounts are never swept.
func (r *UserRepositoryImpl) DeleteUnverifiedOlderThan(db *gorm.DB, cutoff time.Time) (int64, error) {
	result := db.Where("verification_status = ? AND created_at < ? AND role NOT IN ?",
		models.VerificationPending, cutoff,
		[]models.UserRole{models.UserRoleAdmin, models.UserRoleSuperadmin}).
		Delete(&models.User{})
	return result.RowsAffected, result.Error
}

func (r *UserRepositoryImpl) UpdateLastActive(db *gorm.DB, userID string) error {
	return db.Model(&models.User{}).Where("id = ?", userID).
		Update("last_active_at", time.Now()).Error
}
