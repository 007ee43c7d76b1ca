package repositories

import (
	"errors"
	"strings"
	"time"

	"feedinneed_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrRequestNotFound      = errors.New("request not found")
	ErrRequestAlreadyExists = errors.New("request already exists for this donation")
)

type RequestRepository interface {
	Create(db *gorm.DB, request *models.Request) error
	FindByID(db *gorm.DB, id string) (*models.Request, error)
	FindByReceiverAndDonation(db *gorm.DB, receiverID, donationID string) (*models.Request, error)
	FindApprovedByReceiverAndCode(db *gorm.DB, receiverID, code string) (*models.Request, error)

	UpdateStatus(db *gorm.DB, id string, status models.RequestStatus, reviewedBy *string, reason string) error
	SetApprovalArtifacts(db *gorm.DB, id, confirmationCode, qrData, qrImage string) error
	SetCompleted(db *gorm.DB, id string, completedAt time.Time) error
	SetRatedFlag(db *gorm.DB, id string, ratingType models.RatingType) error

	FindByReceiver(db *gorm.DB, receiverID string, page, pageSize int) ([]models.Request, int64, error)
	FindForDonor(db *gorm.DB, donorID string, page, pageSize int) ([]models.Request, int64, error)
	FindPending(db *gorm.DB, page, pageSize int) ([]models.Request, int64, error)

	CountCompletedForDonor(db *gorm.DB, donorID string) (int64, error)
	CountCompletedForReceiver(db *gorm.DB, receiverID string) (int64, error)
}

type RequestRepositoryImpl struct{}

func NewRequestRepository() RequestRepository {
	return &RequestRepositoryImpl{}
}

func (r *RequestRepositoryImpl) Create(db *gorm.DB, request *models.Request) error {
	// The unique {receiver, donation} index is the backstop for races; this
	// check gives the friendly error on the common path.
	var existing models.Request
	if err := db.Where("receiver_id = ? AND donation_id = ?", request.ReceiverID, request.DonationID).
		First(&existing).Error; err == nil {
		return ErrRequestAlreadyExists
	}

	return db.Create(request).Error
}

func (r *RequestRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Request, error) {
	var request models.Request
	err := db.Preload("Receiver").Preload("Donation").Preload("Donation.Donor").
		First(&request, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return &request, nil
}

func (r *RequestRepositoryImpl) FindByReceiverAndDonation(db *gorm.DB, receiverID, donationID string) (*models.Request, error) {
	var request models.Request
	err := db.Where("receiver_id = ? AND donation_id = ?", receiverID, donationID).
		First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return &request, nil
}

// FindApprovedByReceiverAndCode searches only among the receiver's own
// approved requests; codes are stored uppercase so the lookup normalizes.
func (r *RequestRepositoryImpl) FindApprovedByReceiverAndCode(db *gorm.DB, receiverID, code string) (*models.Request, error) {
	var request models.Request
	err := db.Preload("Receiver").Preload("Donation").Preload("Donation.Donor").
		Where("receiver_id = ? AND status = ? AND confirmation_code = ?",
			receiverID, models.RequestStatusApproved, strings.ToUpper(code)).
		First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return &request, nil
}

func (r *RequestRepositoryImpl) UpdateStatus(db *gorm.DB, id string, status models.RequestStatus, reviewedBy *string, reason string) error {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	if reviewedBy != nil {
		updates["reviewed_by_id"] = reviewedBy
		updates["reviewed_at"] = time.Now()
	}
	if reason != "" {
		updates["rejection_reason"] = reason
	}

	result := db.Model(&models.Request{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRequestNotFound
	}
	return nil
}

func (r *RequestRepositoryImpl) SetApprovalArtifacts(db *gorm.DB, id, confirmationCode, qrData, qrImage string) error {
	return db.Model(&models.Request{}).Where("id = ?", id).Updates(map[string]interface{}{
		"confirmation_code": confirmationCode,
		"qr_code_data":      qrData,
		"qr_code_image":     qrImage,
		"updated_at":        time.Now(),
	}).Error
}

func (r *RequestRepositoryImpl) SetCompleted(db *gorm.DB, id string, completedAt time.Time) error {
	result := db.Model(&models.Request{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":       models.RequestStatusCompleted,
		"completed_at": completedAt,
		"updated_at":   time.Now(),
	})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRequestNotFound
	}
	return nil
}

// SetRatedFlag flips one direction flag; flags only ever go false -> true.
func (r *RequestRepositoryImpl) SetRatedFlag(db *gorm.DB, id string, ratingType models.RatingType) error {
	column := "donor_rated"
	if ratingType == models.RatingTypeReceiverToDonor {
		column = "receiver_rated"
	}

	return db.Model(&models.Request{}).Where("id = ?", id).
		Update(column, true).Error
}

func (r *RequestRepositoryImpl) FindByReceiver(db *gorm.DB, receiverID string, page, pageSize int) ([]models.Request, int64, error) {
	var requests []models.Request
	query := db.Model(&models.Request{}).Where("receiver_id = ?", receiverID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Donation").Preload("Donation.Donor").
		Order("created_at DESC").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&requests).Error

	return requests, total, err
}

func (r *RequestRepositoryImpl) FindForDonor(db *gorm.DB, donorID string, page, pageSize int) ([]models.Request, int64, error) {
	var requests []models.Request
	query := db.Model(&models.Request{}).
		Joins("JOIN donations ON donations.id = requests.donation_id").
		Where("donations.donor_id = ?", donorID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Receiver").Preload("Donation").
		Order("requests.created_at DESC").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&requests).Error

	return requests, total, err
}

func (r *RequestRepositoryImpl) FindPending(db *gorm.DB, page, pageSize int) ([]models.Request, int64, error) {
	var requests []models.Request
	query := db.Model(&models.Request{}).Where("status = ?", models.RequestStatusPending)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Receiver").Preload("Donation").Preload("Donation.Donor").
		Order("created_at ASC").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&requests).Error

	return requests, total, err
}

// CountCompletedForDonor is the trust engine's full recount: completed
// requests across all of the donor's donations.
func (r *RequestRepositoryImpl) CountCompletedForDonor(db *gorm.DB, donorID string) (int64, error) {
	var count int64
	err := db.Model(&models.Request{}).
		Joins("JOIN donations ON donations.id = requests.donation_id").
		Where("donations.donor_id = ? AND requests.status = ?", donorID, models.RequestStatusCompleted).
		Count(&count).Error
	return count, err
}

func (r *RequestRepositoryImpl) CountCompletedForReceiver(db *gorm.DB, receiverID string) (int64, error) {
	var count int64
	err := db.Model(&models.Request{}).
		Where("receiver_id = ? AND status = ?", receiverID, models.RequestStatusCompleted).
		Count(&count).Error
	return count, err
}
