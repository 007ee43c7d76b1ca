package services

import (
	"errors"
	"sort"
	"time"

	"feedinneed_backend/internal/geoutil"
	"feedinneed_backend/internal/models"
	"feedinneed_backend/internal/repositories"
	"feedinneed_backend/internal/services/dto"
	"feedinneed_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type DonationService interface {
	Create(donorID string, req *dto.CreateDonationRequest) (*models.Donation, error)
	Get(id string) (*models.Donation, error)
	Update(actorID string, actorRole models.UserRole, id string, req *dto.UpdateDonationRequest) (*models.Donation, error)
	Delete(actorID string, actorRole models.UserRole, id string) error
	Cancel(donorID, id string) error

	Approve(adminID, id string) error
	Reject(adminID, id string, reason string) error

	ListPublic(query *dto.DonationListQuery) (*dto.DonationListResponse, error)
	ListByDonor(donorID string, page, pageSize int) (*dto.DonationListResponse, error)
	ListPendingApproval(page, pageSize int) (*dto.DonationListResponse, error)
}

type donationService struct {
	db           *gorm.DB
	donationRepo repositories.DonationRepository
	userRepo     repositories.UserRepository
	notifRepo    repositories.NotificationRepository
}

func NewDonationService(db *gorm.DB, donationRepo repositories.DonationRepository, userRepo repositories.UserRepository, notifRepo repositories.NotificationRepository) DonationService {
	return &donationService{
		db:           db,
		donationRepo: donationRepo,
		userRepo:     userRepo,
		notifRepo:    notifRepo,
	}
}

// Create posts a new donation. Trusted donors are approved on the spot with
// themselves recorded as approver; everyone else waits for an admin.
func (s *donationService) Create(donorID string, req *dto.CreateDonationRequest) (*models.Donation, error) {
	donor, err := s.userRepo.FindByID(s.db, donorID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewNotFoundError("user", "Donor not found")
		}
		return nil, apperrors.InternalError(err)
	}

	if !donor.CanTransact() {
		return nil, apperrors.NewForbiddenError("Your account must be verified before donating")
	}
	if !req.ExpiryDateTime.After(time.Now()) {
		return nil, apperrors.NewBadRequestError("Expiry must be in the future")
	}

	donation := &models.Donation{
		DonorID:        donorID,
		Title:          req.Title,
		Description:    req.Description,
		FoodType:       req.FoodType,
		Quantity:       req.Quantity,
		ServingSize:    req.ServingSize,
		Photos:         req.Photos,
		ExpiryDateTime: req.ExpiryDateTime,
		PickupAddress:  req.PickupAddress,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		Status:         models.DonationStatusAvailable,
	}

	if donor.IsTrusted {
		now := time.Now()
		donation.IsApproved = true
		donation.ApprovedByID = &donorID
		donation.ApprovedAt = &now
	}

	if err := s.donationRepo.Create(s.db, donation); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if !donation.IsApproved {
		notifyStaffAsync(s.db, s.userRepo, s.notifRepo, repositories.NotificationDonationPending,
			"Donation awaiting approval",
			donor.Name+" posted \""+donation.Title+"\" and needs a review.",
			map[string]string{"donation_id": donation.ID})
	}

	donation.Donor = *donor
	return donation, nil
}

func (s *donationService) Get(id string) (*models.Donation, error) {
	donation, err := s.donationRepo.FindByID(s.db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrDonationNotFound) {
			return nil, apperrors.NewNotFoundError("donation", "Donation not found")
		}
		return nil, apperrors.InternalError(err)
	}
	return donation, nil
}

func (s *donationService) Update(actorID string, actorRole models.UserRole, id string, req *dto.UpdateDonationRequest) (*models.Donation, error) {
	donation, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	isStaff := actorRole.IsStaff()
	if donation.DonorID != actorID && !isStaff {
		return nil, apperrors.NewForbiddenError("You can only edit your own donations")
	}

	// Once a pickup is underway the listing is frozen for regular users.
	if !isStaff && (donation.Status == models.DonationStatusClaimed || donation.Status == models.DonationStatusCompleted) {
		return nil, apperrors.NewStateConflictError("donation",
			"Donation can no longer be edited in status "+string(donation.Status))
	}

	// Approved listings are locked for untrusted donors so edits cannot
	// sneak past review.
	if donation.IsApproved && !isStaff {
		donor, err := s.userRepo.FindByID(s.db, actorID)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		if !donor.IsTrusted {
			return nil, apperrors.NewStateConflictError("donation",
				"Approved donations can only be edited by trusted donors or staff")
		}
	}

	if req.Title != "" {
		donation.Title = req.Title
	}
	if req.Description != nil {
		donation.Description = *req.Description
	}
	if req.FoodType != "" {
		donation.FoodType = req.FoodType
	}
	if req.Quantity != "" {
		donation.Quantity = req.Quantity
	}
	if req.ServingSize != 0 {
		donation.ServingSize = req.ServingSize
	}
	if len(req.Photos) > 0 {
		donation.Photos = req.Photos
	}
	if req.ExpiryDateTime != nil {
		if !req.ExpiryDateTime.After(time.Now()) {
			return nil, apperrors.NewBadRequestError("Expiry must be in the future")
		}
		donation.ExpiryDateTime = *req.ExpiryDateTime
	}
	if req.PickupAddress != "" {
		donation.PickupAddress = req.PickupAddress
	}
	if req.Latitude != nil {
		donation.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		donation.Longitude = *req.Longitude
	}

	if err := s.donationRepo.Update(s.db, donation); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return donation, nil
}

// Delete is unconditional for the owner and staff, regardless of status.
// Completed transactions keep their history through certificates, which
// snapshot everything they need at issue time.
func (s *donationService) Delete(actorID string, actorRole models.UserRole, id string) error {
	donation, err := s.Get(id)
	if err != nil {
		return err
	}

	if donation.DonorID != actorID && !actorRole.IsStaff() {
		return apperrors.NewForbiddenError("You can only delete your own donations")
	}

	if err := s.donationRepo.Delete(s.db, id); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *donationService) Cancel(donorID, id string) error {
	donation, err := s.Get(id)
	if err != nil {
		return err
	}
	if donation.DonorID != donorID {
		return apperrors.NewForbiddenError("You can only cancel your own donations")
	}
	if !models.CanTransitionDonation(donation.Status, models.DonationStatusCancelled) {
		return apperrors.NewStateConflictError("donation",
			"Donation cannot be cancelled from status "+string(donation.Status))
	}

	if err := s.donationRepo.UpdateStatus(s.db, id, models.DonationStatusCancelled); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *donationService) Approve(adminID, id string) error {
	donation, err := s.Get(id)
	if err != nil {
		return err
	}
	if donation.IsApproved {
		return apperrors.NewStateConflictError("donation", "Donation is already approved")
	}

	if err := s.donationRepo.SetApproval(s.db, id, true, &adminID); err != nil {
		return apperrors.InternalError(err)
	}

	notifyAsync(s.db, s.notifRepo, donation.DonorID, repositories.NotificationDonationApproved,
		"Donation approved",
		"\""+donation.Title+"\" is now visible to receivers.",
		map[string]string{"donation_id": donation.ID})
	return nil
}

func (s *donationService) Reject(adminID, id string, reason string) error {
	donation, err := s.Get(id)
	if err != nil {
		return err
	}
	if donation.IsApproved {
		return apperrors.NewStateConflictError("donation", "Approved donations cannot be rejected")
	}
	if !models.CanTransitionDonation(donation.Status, models.DonationStatusCancelled) {
		return apperrors.NewStateConflictError("donation",
			"Donation cannot be rejected from status "+string(donation.Status))
	}

	if err := s.donationRepo.UpdateStatus(s.db, id, models.DonationStatusCancelled); err != nil {
		return apperrors.InternalError(err)
	}

	notifyAsync(s.db, s.notifRepo, donation.DonorID, repositories.NotificationDonationRejected,
		"Donation rejected",
		"\""+donation.Title+"\" was rejected. Reason: "+reason,
		map[string]string{"donation_id": donation.ID})
	return nil
}

// ListPublic serves the receiver-facing browse view. With lat/lng present it
// annotates each result with the distance and reorders nearest-first; the
// distance math stays in Go so the query is identical on every database.
func (s *donationService) ListPublic(query *dto.DonationListQuery) (*dto.DonationListResponse, error) {
	page, pageSize := normalizePage(query.Page, query.PageSize)

	donations, total, err := s.donationRepo.FindPublic(s.db, repositories.DonationFilter{
		Search:   query.Search,
		FoodType: query.FoodType,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if query.Lat != nil && query.Lng != nil {
		for i := range donations {
			d := geoutil.DistanceKm(*query.Lat, *query.Lng, donations[i].Latitude, donations[i].Longitude)
			donations[i].DistanceKm = &d
		}
		sort.SliceStable(donations, func(i, j int) bool {
			return *donations[i].DistanceKm < *donations[j].DistanceKm
		})
	}

	return &dto.DonationListResponse{
		Donations:  donations,
		Pagination: dto.NewPagination(page, pageSize, total),
	}, nil
}

func (s *donationService) ListByDonor(donorID string, page, pageSize int) (*dto.DonationListResponse, error) {
	page, pageSize = normalizePage(page, pageSize)

	donations, total, err := s.donationRepo.FindByDonor(s.db, donorID, page, pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.DonationListResponse{
		Donations:  donations,
		Pagination: dto.NewPagination(page, pageSize, total),
	}, nil
}

func (s *donationService) ListPendingApproval(page, pageSize int) (*dto.DonationListResponse, error) {
	page, pageSize = normalizePage(page, pageSize)

	donations, total, err := s.donationRepo.FindPendingApproval(s.db, page, pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.DonationListResponse{
		Donations:  donations,
		Pagination: dto.NewPagination(page, pageSize, total),
	}, nil
}
