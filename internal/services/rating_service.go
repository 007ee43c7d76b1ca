package services

import (
	"errors"
	"math"

	"feedinneed_backend/internal/logger"
	"feedinneed_backend/internal/models"
	"feedinneed_backend/internal/policy"
	"feedinneed_backend/internal/repositories"
	"feedinneed_backend/internal/services/dto"
	"feedinneed_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type RatingService interface {
	Submit(raterID string, req *dto.SubmitRatingRequest) (*models.Rating, error)
	ListForUser(userID string, page, pageSize int) (*dto.RatingListResponse, error)
	ListForRequest(actorID string, actorRole models.UserRole, requestID string) ([]models.Rating, error)

	// CheckTrustPromotion applies the automatic trusted-badge rule to one
	// user. Exposed for the engine tests; Submit calls it for both parties.
	CheckTrustPromotion(userID string) error
}

type ratingService struct {
	db          *gorm.DB
	ratingRepo  repositories.RatingRepository
	requestRepo repositories.RequestRepository
	userRepo    repositories.UserRepository
	notifRepo   repositories.NotificationRepository
	trustPolicy policy.TrustPolicy
}

func NewRatingService(
	db *gorm.DB,
	ratingRepo repositories.RatingRepository,
	requestRepo repositories.RequestRepository,
	userRepo repositories.UserRepository,
	notifRepo repositories.NotificationRepository,
	trustPolicy policy.TrustPolicy,
) RatingService {
	return &ratingService{
		db:          db,
		ratingRepo:  ratingRepo,
		requestRepo: requestRepo,
		userRepo:    userRepo,
		notifRepo:   notifRepo,
		trustPolicy: trustPolicy,
	}
}

// Submit records a one-directional rating on a completed request. When the
// second direction lands, both parties get a trust eligibility check before
// the call returns.
func (s *ratingService) Submit(raterID string, req *dto.SubmitRatingRequest) (*models.Rating, error) {
	request, err := s.requestRepo.FindByID(s.db, req.RequestID)
	if err != nil {
		if errors.Is(err, repositories.ErrRequestNotFound) {
			return nil, apperrors.NewNotFoundError("request", "Request not found")
		}
		return nil, apperrors.InternalError(err)
	}

	if request.Status != models.RequestStatusCompleted {
		return nil, apperrors.NewStateConflictError("rating",
			"Only completed requests can be rated")
	}

	var ratingType models.RatingType
	var ratedUserID string
	switch raterID {
	case request.Donation.DonorID:
		ratingType = models.RatingTypeDonorToReceiver
		ratedUserID = request.ReceiverID
		if request.DonorRated {
			return nil, apperrors.NewAlreadyExistsError("rating", "You already rated this pickup")
		}
	case request.ReceiverID:
		ratingType = models.RatingTypeReceiverToDonor
		ratedUserID = request.Donation.DonorID
		if request.ReceiverRated {
			return nil, apperrors.NewAlreadyExistsError("rating", "You already rated this pickup")
		}
	default:
		return nil, apperrors.NewForbiddenError("Only the donor or receiver of this pickup can rate it")
	}

	rating := &models.Rating{
		RequestID:   request.ID,
		DonationID:  request.DonationID,
		RatedUserID: ratedUserID,
		RatedByID:   raterID,
		RatingType:  ratingType,
		Rating:      req.Rating,
		Feedback:    req.Feedback,
	}

	if err := s.ratingRepo.Create(s.db, rating); err != nil {
		if errors.Is(err, repositories.ErrRatingAlreadyExists) {
			return nil, apperrors.NewAlreadyExistsError("rating", "You already rated this pickup")
		}
		return nil, apperrors.InternalError(err)
	}

	if err := s.requestRepo.SetRatedFlag(s.db, request.ID, ratingType); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := s.recomputeUserRating(ratedUserID); err != nil {
		return nil, apperrors.InternalError(err)
	}

	notifyAsync(s.db, s.notifRepo, ratedUserID, repositories.NotificationRatingReceived,
		"New rating received",
		"You received a new rating for \""+request.Donation.Title+"\".",
		map[string]string{"request_id": request.ID})

	// Was this the second direction? Reload to see both flags.
	fresh, err := s.requestRepo.FindByID(s.db, request.ID)
	if err == nil && fresh.DonorRated && fresh.ReceiverRated {
		if err := s.CheckTrustPromotion(request.Donation.DonorID); err != nil {
			logger.WithError(err).Error("trust check failed", "user_id", request.Donation.DonorID)
		}
		if err := s.CheckTrustPromotion(request.ReceiverID); err != nil {
			logger.WithError(err).Error("trust check failed", "user_id", request.ReceiverID)
		}
	}

	return rating, nil
}

// recomputeUserRating rebuilds the aggregate from all stored ratings rather
// than nudging the running average, so retries and races converge.
func (s *ratingService) recomputeUserRating(userID string) error {
	avg, count, err := s.ratingRepo.AverageAndCountForUser(s.db, userID)
	if err != nil {
		return err
	}

	rounded := math.Round(avg*10) / 10
	return s.userRepo.UpdateRatingStats(s.db, userID, rounded, int(count))
}

// CheckTrustPromotion recounts the user's completed transactions in their
// role, stores the count back, and grants the badge when the policy says so.
// It never demotes; revocation is a manual admin action.
func (s *ratingService) CheckTrustPromotion(userID string) error {
	user, err := s.userRepo.FindByID(s.db, userID)
	if err != nil {
		return err
	}
	if user.IsTrusted || user.Role.IsStaff() {
		return nil
	}

	var count int64
	switch user.Role {
	case models.UserRoleDonor:
		count, err = s.requestRepo.CountCompletedForDonor(s.db, userID)
	case models.UserRoleReceiver:
		count, err = s.requestRepo.CountCompletedForReceiver(s.db, userID)
	default:
		return nil
	}
	if err != nil {
		return err
	}

	if err := s.userRepo.SetSuccessfulCount(s.db, userID, user.Role, int(count)); err != nil {
		return err
	}

	// Fresh read: the average may have just changed in this same call.
	user, err = s.userRepo.FindByID(s.db, userID)
	if err != nil {
		return err
	}

	if !s.trustPolicy.Eligible(int(count), user.AverageRating) {
		return nil
	}

	if err := s.userRepo.SetTrusted(s.db, userID, nil); err != nil {
		return err
	}

	notifyAsync(s.db, s.notifRepo, userID, repositories.NotificationTrustGranted,
		"You earned the trusted badge",
		"Your track record earned you the trusted badge. Your donations and requests are now approved automatically.", nil)
	return nil
}

// ListForRequest returns both directions of a pickup's ratings. Only the
// participants and staff can see them.
func (s *ratingService) ListForRequest(actorID string, actorRole models.UserRole, requestID string) ([]models.Rating, error) {
	request, err := s.requestRepo.FindByID(s.db, requestID)
	if err != nil {
		if errors.Is(err, repositories.ErrRequestNotFound) {
			return nil, apperrors.NewNotFoundError("request", "Request not found")
		}
		return nil, apperrors.InternalError(err)
	}

	if actorID != request.ReceiverID && actorID != request.Donation.DonorID && !actorRole.IsStaff() {
		return nil, apperrors.NewForbiddenError("You are not part of this pickup")
	}

	ratings, err := s.ratingRepo.FindByRequest(s.db, requestID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return ratings, nil
}

func (s *ratingService) ListForUser(userID string, page, pageSize int) (*dto.RatingListResponse, error) {
	page, pageSize = normalizePage(page, pageSize)

	ratings, total, err := s.ratingRepo.FindForUser(s.db, userID, page, pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.RatingListResponse{
		Ratings:    ratings,
		Pagination: dto.NewPagination(page, pageSize, total),
	}, nil
}
