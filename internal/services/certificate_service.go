package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"feedinneed_backend/internal/models"
	"feedinneed_backend/internal/repositories"
	"feedinneed_backend/internal/services/dto"
	"feedinneed_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type CertificateService interface {
	// IssueForRequest mints the donor's certificate for a completed request.
	// It is idempotent: a second call returns the existing certificate.
	IssueForRequest(db *gorm.DB, request *models.Request) (*models.Certificate, error)

	Get(id string) (*models.Certificate, error)
	VerifyByNumber(number string) (*models.Certificate, error)
	ListByDonor(donorID string, page, pageSize int) (*dto.CertificateListResponse, error)
}

type certificateService struct {
	db       *gorm.DB
	certRepo repositories.CertificateRepository
}

func NewCertificateService(db *gorm.DB, certRepo repositories.CertificateRepository) CertificateService {
	return &certificateService{db: db, certRepo: certRepo}
}

func (s *certificateService) IssueForRequest(db *gorm.DB, request *models.Request) (*models.Certificate, error) {
	if request.Status != models.RequestStatusCompleted {
		return nil, fmt.Errorf("certificate requires a completed request, got %s", request.Status)
	}

	existing, err := s.certRepo.FindByRequest(db, request.ID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repositories.ErrCertificateNotFound) {
		return nil, err
	}

	number, err := generateCertificateNumber()
	if err != nil {
		return nil, err
	}

	completedAt := time.Now()
	if request.CompletedAt != nil {
		completedAt = *request.CompletedAt
	}

	certificate := &models.Certificate{
		CertificateNumber: number,
		RequestID:         request.ID,
		DonationID:        request.DonationID,
		DonorID:           request.Donation.DonorID,
		ReceiverID:        request.ReceiverID,
		DonorName:         request.Donation.Donor.Name,
		ReceiverName:      request.Receiver.Name,
		DonationTitle:     request.Donation.Title,
		Quantity:          request.Donation.Quantity,
		CompletedAt:       completedAt,
		IssuedAt:          time.Now(),
	}

	if err := s.certRepo.Create(db, certificate); err != nil {
		return nil, err
	}
	return certificate, nil
}

func (s *certificateService) Get(id string) (*models.Certificate, error) {
	certificate, err := s.certRepo.FindByID(s.db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrCertificateNotFound) {
			return nil, apperrors.NewNotFoundError("certificate", "Certificate not found")
		}
		return nil, apperrors.InternalError(err)
	}
	return certificate, nil
}

// VerifyByNumber is the public authenticity check.
func (s *certificateService) VerifyByNumber(number string) (*models.Certificate, error) {
	certificate, err := s.certRepo.FindByNumber(s.db, number)
	if err != nil {
		if errors.Is(err, repositories.ErrCertificateNotFound) {
			return nil, apperrors.NewNotFoundError("certificate", "No certificate with this number")
		}
		return nil, apperrors.InternalError(err)
	}
	return certificate, nil
}

func (s *certificateService) ListByDonor(donorID string, page, pageSize int) (*dto.CertificateListResponse, error) {
	page, pageSize = normalizePage(page, pageSize)

	certificates, total, err := s.certRepo.FindByDonor(s.db, donorID, page, pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.CertificateListResponse{
		Certificates: certificates,
		Pagination:   dto.NewPagination(page, pageSize, total),
	}, nil
}

// generateCertificateNumber produces e.g. FIN-2026-9F3A01BC.
func generateCertificateNumber() (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate certificate number: %w", err)
	}
	return fmt.Sprintf("FIN-%d-%s", time.Now().Year(), strings.ToUpper(hex.EncodeToString(buf))), nil
}
