package repositories

import (
	"errors"

	"feedinneed_backend/internal/models"

	"gorm.io/gorm"
)

var ErrCertificateNotFound = errors.New("certificate not found")

type CertificateRepository interface {
	Create(db *gorm.DB, certificate *models.Certificate) error
	FindByID(db *gorm.DB, id string) (*models.Certificate, error)
	FindByNumber(db *gorm.DB, number string) (*models.Certificate, error)
	FindByRequest(db *gorm.DB, requestID string) (*models.Certificate, error)
	FindByDonor(db *gorm.DB, donorID string, page, pageSize int) ([]models.Certificate, int64, error)
}

type CertificateRepositoryImpl struct{}

func NewCertificateRepository() CertificateRepository {
	return &CertificateRepositoryImpl{}
}

func (r *CertificateRepositoryImpl) Create(db *gorm.DB, certificate *models.Certificate) error {
	return db.Create(certificate).Error
}

func (r *CertificateRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Certificate, error) {
	var certificate models.Certificate
	err := db.First(&certificate, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCertificateNotFound
		}
		return nil, err
	}
	return &certificate, nil
}

func (r *CertificateRepositoryImpl) FindByNumber(db *gorm.DB, number string) (*models.Certificate, error) {
	var certificate models.Certificate
	err := db.First(&certificate, "certificate_number = ?", number).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCertificateNotFound
		}
		return nil, err
	}
	return &certificate, nil
}

func (r *CertificateRepositoryImpl) FindByRequest(db *gorm.DB, requestID string) (*models.Certificate, error) {
	var certificate models.Certificate
	err := db.First(&certificate, "request_id = ?", requestID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCertificateNotFound
		}
		return nil, err
	}
	return &certificate, nil
}

func (r *CertificateRepositoryImpl) FindByDonor(db *gorm.DB, donorID string, page, pageSize int) ([]models.Certificate, int64, error) {
	var certificates []models.Certificate
	query := db.Model(&models.Certificate{}).Where("donor_id = ?", donorID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("issued_at DESC").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&certificates).Error

	return certificates, total, err
}
