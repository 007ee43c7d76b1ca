package repositories

import (
	"errors"
	"time"

	"feedinneed_backend/internal/models"

	"gorm.io/gorm"
)

var ErrDonationNotFound = errors.New("donation not found")

type DonationRepository interface {
	Create(db *gorm.DB, donation *models.Donation) error
	FindByID(db *gorm.DB, id string) (*models.Donation, error)
	Update(db *gorm.DB, donation *models.Donation) error
	Delete(db *gorm.DB, id string) error

	UpdateStatus(db *gorm.DB, id string, status models.DonationStatus) error
	SetApproval(db *gorm.DB, id string, approved bool, approvedBy *string) error
	SetClaimed(db *gorm.DB, id string, claimedBy string, claimedAt time.Time) error

	FindPublic(db *gorm.DB, criteria DonationFilter) ([]models.Donation, int64, error)
	FindByDonor(db *gorm.DB, donorID string, page, pageSize int) ([]models.Donation, int64, error)
	FindPendingApproval(db *gorm.DB, page, pageSize int) ([]models.Donation, int64, error)
	ExpireOverdue(db *gorm.DB, now time.Time) (int64, error)
}

type DonationRepositoryImpl struct{}

type DonationFilter struct {
	Search   string
	FoodType string
	Page     int
	PageSize int
}

func NewDonationRepository() DonationRepository {
	return &DonationRepositoryImpl{}
}

func (r *DonationRepositoryImpl) Create(db *gorm.DB, donation *models.Donation) error {
	return db.Create(donation).Error
}

func (r *DonationRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Donation, error) {
	var donation models.Donation
	err := db.Preload("Donor").First(&donation, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDonationNotFound
		}
		return nil, err
	}
	return &donation, nil
}

func (r *DonationRepositoryImpl) Update(db *gorm.DB, donation *models.Donation) error {
	result := db.Model(donation).Updates(map[string]interface{}{
		"title":            donation.Title,
		"description":      donation.Description,
		"food_type":        donation.FoodType,
		"quantity":         donation.Quantity,
		"serving_size":     donation.ServingSize,
		"photos":           donation.Photos,
		"expiry_date_time": donation.ExpiryDateTime,
		"pickup_address":   donation.PickupAddress,
		"latitude":         donation.Latitude,
		"longitude":        donation.Longitude,
		"updated_at":       time.Now(),
	})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrDonationNotFound
	}
	return nil
}

func (r *DonationRepositoryImpl) Delete(db *gorm.DB, id string) error {
	result := db.Where("id = ?", id).Delete(&models.Donation{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrDonationNotFound
	}
	return nil
}

func (r *DonationRepositoryImpl) UpdateStatus(db *gorm.DB, id string, status models.DonationStatus) error {
	result := db.Model(&models.Donation{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrDonationNotFound
	}
	return nil
}

func (r *DonationRepositoryImpl) SetApproval(db *gorm.DB, id string, approved bool, approvedBy *string) error {
	updates := map[string]interface{}{
		"is_approved": approved,
		"updated_at":  time.Now(),
	}
	if approved {
		updates["approved_by_id"] = approvedBy
		updates["approved_at"] = time.Now()
	} else {
		updates["approved_by_id"] = nil
		updates["approved_at"] = nil
	}

	result := db.Model(&models.Donation{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrDonationNotFound
	}
	return nil
}

func (r *DonationRepositoryImpl) SetClaimed(db *gorm.DB, id string, claimedBy string, claimedAt time.Time) error {
	return db.Model(&models.Donation{}).Where("id = ?", id).Updates(map[string]interface{}{
		"claimed_by_id": claimedBy,
		"claimed_at":    claimedAt,
		"updated_at":    time.Now(),
	}).Error
}

// FindPublic returns donations visible to receivers: approved, available and
// not yet expired. Distance annotation happens in the service layer.
func (r *DonationRepositoryImpl) FindPublic(db *gorm.DB, criteria DonationFilter) ([]models.Donation, int64, error) {
	var donations []models.Donation
	query := db.Model(&models.Donation{}).
		Where("is_approved = ?", true).
		Where("status = ?", models.DonationStatusAvailable).
		Where("expiry_date_time > ?", time.Now())

	if criteria.Search != "" {
		query = query.Where("title LIKE ?", "%"+criteria.Search+"%")
	}
	if criteria.FoodType != "" {
		query = query.Where("food_type = ?", criteria.FoodType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := criteria.PageSize
	offset := (criteria.Page - 1) * criteria.PageSize

	err := query.Preload("Donor").
		Order("expiry_date_time ASC").
		Limit(limit).Offset(offset).
		Find(&donations).Error

	return donations, total, err
}

func (r *DonationRepositoryImpl) FindByDonor(db *gorm.DB, donorID string, page, pageSize int) ([]models.Donation, int64, error) {
	var donations []models.Donation
	query := db.Model(&models.Donation{}).Where("donor_id = ?", donorID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&donations).Error

	return donations, total, err
}

func (r *DonationRepositoryImpl) FindPendingApproval(db *gorm.DB, page, pageSize int) ([]models.Donation, int64, error) {
	var donations []models.Donation
	query := db.Model(&models.Donation{}).
		Where("is_approved = ?", false).
		Where("status = ?", models.DonationStatusAvailable).
		Where("expiry_date_time > ?", time.Now())

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Donor").
		Order("created_at ASC").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&donations).Error

	return donations, total, err
}

// ExpireOverdue flips past-expiry donations that are still offerable.
// Claimed donations are left alone; the pickup may still happen.
func (r *DonationRepositoryImpl) ExpireOverdue(db *gorm.DB, now time.Time) (int64, error) {
	result := db.Model(&models.Donation{}).
		Where("expiry_date_time < ?", now).
		Where("status IN ?", []models.DonationStatus{models.DonationStatusAvailable, models.DonationStatusRequested}).
		Updates(map[string]interface{}{
			"status":     models.DonationStatusExpired,
			"updated_at": now,
		})
	return result.RowsAffected, result.Error
}
