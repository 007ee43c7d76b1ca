package repositories

import (
	"errors"

	"feedinneed_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrRatingNotFound      = errors.New("rating not found")
	ErrRatingAlreadyExists = errors.New("rating already submitted for this request")
)

type RatingRepository interface {
	Create(db *gorm.DB, rating *models.Rating) error
	Exists(db *gorm.DB, requestID, ratedByID string, ratingType models.RatingType) (bool, error)
	FindForUser(db *gorm.DB, userID string, page, pageSize int) ([]models.Rating, int64, error)
	FindByRequest(db *gorm.DB, requestID string) ([]models.Rating, error)
	AverageAndCountForUser(db *gorm.DB, userID string) (float64, int64, error)
}

type RatingRepositoryImpl struct{}

func NewRatingRepository() RatingRepository {
	return &RatingRepositoryImpl{}
}

func (r *RatingRepositoryImpl) Create(db *gorm.DB, rating *models.Rating) error {
	exists, err := r.Exists(db, rating.RequestID, rating.RatedByID, rating.RatingType)
	if err != nil {
		return err
	}
	if exists {
		return ErrRatingAlreadyExists
	}

	return db.Create(rating).Error
}

func (r *RatingRepositoryImpl) Exists(db *gorm.DB, requestID, ratedByID string, ratingType models.RatingType) (bool, error) {
	var count int64
	err := db.Model(&models.Rating{}).
		Where("request_id = ? AND rated_by_id = ? AND rating_type = ?", requestID, ratedByID, ratingType).
		Count(&count).Error
	return count > 0, err
}

func (r *RatingRepositoryImpl) FindForUser(db *gorm.DB, userID string, page, pageSize int) ([]models.Rating, int64, error) {
	var ratings []models.Rating
	query := db.Model(&models.Rating{}).Where("rated_user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("RatedBy").
		Order("created_at DESC").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&ratings).Error

	return ratings, total, err
}

func (r *RatingRepositoryImpl) FindByRequest(db *gorm.DB, requestID string) ([]models.Rating, error) {
	var ratings []models.Rating
	err := db.Preload("RatedBy").
		Where("request_id = ?", requestID).
		Order("created_at ASC").
		Find(&ratings).Error
	return ratings, err
}

// AverageAndCountForUser recomputes the aggregate from scratch; rounding to
// one decimal happens in the service so sqlite and postgres agree.
func (r *RatingRepositoryImpl) AverageAndCountForUser(db *gorm.DB, userID string) (float64, int64, error) {
	var row struct {
		Avg   float64
		Count int64
	}
	err := db.Model(&models.Rating{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Where("rated_user_id = ?", userID).
		Scan(&row).Error
	return row.Avg, row.Count, err
}
