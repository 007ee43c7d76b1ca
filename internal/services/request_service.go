package services

import (
	"errors"
	"strings"
	"time"

	"feedinneed_backend/internal/logger"
	"feedinneed_backend/internal/models"
	"feedinneed_backend/internal/repositories"
	"feedinneed_backend/internal/services/dto"
	"feedinneed_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// minUntrustedMessageLen: receivers without the trusted badge must explain
// why they need the donation.
const minUntrustedMessageLen = 20

type RequestService interface {
	Create(receiverID string, req *dto.CreateRequestRequest) (*models.Request, error)
	Get(actorID string, actorRole models.UserRole, id string) (*models.Request, error)
	Cancel(receiverID, id string) error

	Approve(adminID, id string) (*models.Request, error)
	Reject(adminID, id, reason string) error

	// The three pickup confirmation entry points.
	CompleteWithCode(receiverID, requestID, code string) (*models.Request, error)
	CompleteWithQR(receiverID, qrData string) (*models.Request, error)
	CompleteWithCodeOnly(receiverID, code string) (*models.Request, error)

	ListByReceiver(receiverID string, page, pageSize int) (*dto.RequestListResponse, error)
	ListForDonor(donorID string, page, pageSize int) (*dto.RequestListResponse, error)
	ListPending(page, pageSize int) (*dto.RequestListResponse, error)
}

type requestService struct {
	db           *gorm.DB
	requestRepo  repositories.RequestRepository
	donationRepo repositories.DonationRepository
	userRepo     repositories.UserRepository
	notifRepo    repositories.NotificationRepository
	certificates CertificateService
}

func NewRequestService(
	db *gorm.DB,
	requestRepo repositories.RequestRepository,
	donationRepo repositories.DonationRepository,
	userRepo repositories.UserRepository,
	notifRepo repositories.NotificationRepository,
	certificates CertificateService,
) RequestService {
	return &requestService{
		db:           db,
		requestRepo:  requestRepo,
		donationRepo: donationRepo,
		userRepo:     userRepo,
		notifRepo:    notifRepo,
		certificates: certificates,
	}
}

func (s *requestService) Create(receiverID string, req *dto.CreateRequestRequest) (*models.Request, error) {
	receiver, err := s.userRepo.FindByID(s.db, receiverID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewNotFoundError("user", "Receiver not found")
		}
		return nil, apperrors.InternalError(err)
	}
	if !receiver.CanTransact() {
		return nil, apperrors.NewForbiddenError("Your account must be verified before requesting food")
	}

	donation, err := s.donationRepo.FindByID(s.db, req.DonationID)
	if err != nil {
		if errors.Is(err, repositories.ErrDonationNotFound) {
			return nil, apperrors.NewNotFoundError("donation", "Donation not found")
		}
		return nil, apperrors.InternalError(err)
	}

	if donation.DonorID == receiverID {
		return nil, apperrors.NewBadRequestError("You cannot request your own donation")
	}
	if !donation.IsPubliclyVisible(time.Now()) {
		return nil, apperrors.NewStateConflictError("donation",
			"Donation is not available (status "+string(donation.Status)+")")
	}

	if !receiver.IsTrusted && len(strings.TrimSpace(req.Message)) < minUntrustedMessageLen {
		return nil, apperrors.NewBadRequestError("Please describe why you need this donation (at least 20 characters)")
	}

	request := &models.Request{
		ReceiverID: receiverID,
		DonationID: donation.ID,
		Message:    req.Message,
		Status:     models.RequestStatusPending,
	}

	if receiver.IsTrusted {
		// Trusted receivers skip the admin queue: code and QR are minted
		// immediately and the donation is locked to them.
		code, err := GeneratePickupCode()
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		request.ConfirmationCode = code
		request.Status = models.RequestStatusApproved
		now := time.Now()
		request.ReviewedAt = &now
	}

	if err := s.requestRepo.Create(s.db, request); err != nil {
		if errors.Is(err, repositories.ErrRequestAlreadyExists) {
			return nil, apperrors.NewAlreadyExistsError("request", "You already requested this donation")
		}
		return nil, apperrors.InternalError(err)
	}

	if request.Status == models.RequestStatusApproved {
		qrData, qrImage, err := BuildQRArtifacts(request.ID, donation.ID, request.ConfirmationCode)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		request.QRCodeData = qrData
		request.QRCodeImage = qrImage
		if err := s.requestRepo.SetApprovalArtifacts(s.db, request.ID, request.ConfirmationCode, qrData, qrImage); err != nil {
			return nil, apperrors.InternalError(err)
		}

		if err := s.transitionDonation(s.db, donation.ID, donation.Status, models.DonationStatusClaimed); err != nil {
			return nil, err
		}
		if err := s.donationRepo.SetClaimed(s.db, donation.ID, receiverID, time.Now()); err != nil {
			return nil, apperrors.InternalError(err)
		}

		donorMessage := receiver.Name + " (trusted) will pick up \"" + donation.Title + "\"."
		donor, derr := s.userRepo.FindByID(s.db, donation.DonorID)
		if derr == nil && donor.IsTrusted {
			donorMessage = receiver.Name + " (trusted) will pick up \"" + donation.Title + "\". Both of you are trusted, so no admin review was needed."
		}
		notifyAsync(s.db, s.notifRepo, donation.DonorID, repositories.NotificationRequestReceived,
			"Your donation was claimed", donorMessage,
			map[string]string{"donation_id": donation.ID, "request_id": request.ID})
	} else {
		if err := s.transitionDonation(s.db, donation.ID, donation.Status, models.DonationStatusRequested); err != nil {
			return nil, err
		}

		notifyStaffAsync(s.db, s.userRepo, s.notifRepo, repositories.NotificationRequestPending,
			"Request awaiting approval",
			receiver.Name+" requested \""+donation.Title+"\".",
			map[string]string{"donation_id": donation.ID, "request_id": request.ID})
	}

	return request, nil
}

func (s *requestService) Get(actorID string, actorRole models.UserRole, id string) (*models.Request, error) {
	request, err := s.findRequest(id)
	if err != nil {
		return nil, err
	}

	// Visible to the receiver, the donation's donor and staff.
	if request.ReceiverID != actorID && request.Donation.DonorID != actorID && !actorRole.IsStaff() {
		return nil, apperrors.NewForbiddenError("You do not have access to this request")
	}
	return request, nil
}

func (s *requestService) Cancel(receiverID, id string) error {
	request, err := s.findRequest(id)
	if err != nil {
		return err
	}
	if request.ReceiverID != receiverID {
		return apperrors.NewForbiddenError("You can only cancel your own requests")
	}
	if !models.CanTransitionRequest(request.Status, models.RequestStatusCancelled) {
		return apperrors.NewStateConflictError("request",
			"Request cannot be cancelled from status "+string(request.Status))
	}

	if err := s.requestRepo.UpdateStatus(s.db, id, models.RequestStatusCancelled, nil, ""); err != nil {
		return apperrors.InternalError(err)
	}

	// Free the donation back up for other receivers. Donations that have
	// meanwhile expired or been cancelled stay where they are.
	if models.CanTransitionDonation(request.Donation.Status, models.DonationStatusAvailable) {
		if err := s.donationRepo.UpdateStatus(s.db, request.DonationID, models.DonationStatusAvailable); err != nil {
			logger.WithError(err).Error("failed to revert donation after request cancel",
				"donation_id", request.DonationID)
		}
	}
	return nil
}

func (s *requestService) Approve(adminID, id string) (*models.Request, error) {
	request, err := s.findRequest(id)
	if err != nil {
		return nil, err
	}
	if !models.CanTransitionRequest(request.Status, models.RequestStatusApproved) {
		return nil, apperrors.NewStateConflictError("request",
			"Request cannot be approved from status "+string(request.Status))
	}
	// The donation may have expired or been cancelled while the request sat
	// in the queue; approval must not resurrect it.
	if !models.CanTransitionDonation(request.Donation.Status, models.DonationStatusClaimed) {
		return nil, apperrors.NewStateConflictError("donation",
			"Donation can no longer be claimed (status "+string(request.Donation.Status)+")")
	}

	code, err := GeneratePickupCode()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	qrData, qrImage, err := BuildQRArtifacts(request.ID, request.DonationID, code)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := s.requestRepo.UpdateStatus(s.db, id, models.RequestStatusApproved, &adminID, ""); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := s.requestRepo.SetApprovalArtifacts(s.db, id, code, qrData, qrImage); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := s.transitionDonation(s.db, request.DonationID, request.Donation.Status, models.DonationStatusClaimed); err != nil {
		return nil, err
	}
	if err := s.donationRepo.SetClaimed(s.db, request.DonationID, request.ReceiverID, time.Now()); err != nil {
		return nil, apperrors.InternalError(err)
	}

	notifyAsync(s.db, s.notifRepo, request.ReceiverID, repositories.NotificationRequestApproved,
		"Request approved",
		"Your request for \""+request.Donation.Title+"\" was approved. Use your confirmation code at pickup.",
		map[string]string{"request_id": request.ID})
	notifyAsync(s.db, s.notifRepo, request.Donation.DonorID, repositories.NotificationRequestReceived,
		"Your donation was claimed",
		request.Receiver.Name+" will pick up \""+request.Donation.Title+"\".",
		map[string]string{"request_id": request.ID})

	request.Status = models.RequestStatusApproved
	request.ConfirmationCode = code
	request.QRCodeData = qrData
	request.QRCodeImage = qrImage
	return request, nil
}

func (s *requestService) Reject(adminID, id, reason string) error {
	request, err := s.findRequest(id)
	if err != nil {
		return err
	}
	if !models.CanTransitionRequest(request.Status, models.RequestStatusRejected) {
		return apperrors.NewStateConflictError("request",
			"Request cannot be rejected from status "+string(request.Status))
	}

	if err := s.requestRepo.UpdateStatus(s.db, id, models.RequestStatusRejected, &adminID, reason); err != nil {
		return apperrors.InternalError(err)
	}
	// Same rule as Cancel: an expired or cancelled donation stays put.
	if models.CanTransitionDonation(request.Donation.Status, models.DonationStatusAvailable) {
		if err := s.donationRepo.UpdateStatus(s.db, request.DonationID, models.DonationStatusAvailable); err != nil {
			return apperrors.InternalError(err)
		}
	}

	notifyAsync(s.db, s.notifRepo, request.ReceiverID, repositories.NotificationRequestRejected,
		"Request rejected",
		"Your request for \""+request.Donation.Title+"\" was rejected. Reason: "+reason,
		map[string]string{"request_id": request.ID})
	return nil
}

func (s *requestService) CompleteWithCode(receiverID, requestID, code string) (*models.Request, error) {
	request, err := s.findRequest(requestID)
	if err != nil {
		return nil, err
	}
	return s.complete(receiverID, request, code)
}

func (s *requestService) CompleteWithQR(receiverID, qrData string) (*models.Request, error) {
	payload, err := ParseQRPayload(qrData)
	if err != nil {
		return nil, apperrors.NewBadRequestError("Invalid QR code")
	}

	request, ferr := s.findRequest(payload.RequestID)
	if ferr != nil {
		return nil, ferr
	}
	return s.complete(receiverID, request, payload.Code)
}

// CompleteWithCodeOnly matches a bare code against the caller's approved
// requests, for receivers who lost the original message but kept the code.
func (s *requestService) CompleteWithCodeOnly(receiverID, code string) (*models.Request, error) {
	request, err := s.requestRepo.FindApprovedByReceiverAndCode(s.db, receiverID, code)
	if err != nil {
		if errors.Is(err, repositories.ErrRequestNotFound) {
			return nil, apperrors.NewNotFoundError("request", "No approved request matches this code")
		}
		return nil, apperrors.InternalError(err)
	}
	return s.complete(receiverID, request, code)
}

// complete performs the pickup handshake. The status flips and the donor and
// receiver counters move together in one transaction; certificate issuance
// and notifications run after commit and never fail the pickup.
func (s *requestService) complete(receiverID string, request *models.Request, code string) (*models.Request, error) {
	if request.ReceiverID != receiverID {
		return nil, apperrors.NewForbiddenError("Only the requesting receiver can confirm the pickup")
	}
	if request.Status != models.RequestStatusApproved {
		return nil, apperrors.NewStateConflictError("request",
			"Request cannot be completed from status "+string(request.Status))
	}
	if !strings.EqualFold(request.ConfirmationCode, code) {
		return nil, apperrors.NewBadRequestError("Wrong confirmation code")
	}

	completedAt := time.Now()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.requestRepo.SetCompleted(tx, request.ID, completedAt); err != nil {
			return err
		}
		if err := s.donationRepo.UpdateStatus(tx, request.DonationID, models.DonationStatusCompleted); err != nil {
			return err
		}
		if err := s.donationRepo.SetClaimed(tx, request.DonationID, receiverID, completedAt); err != nil {
			return err
		}
		if err := s.userRepo.IncrementSuccessfulDonations(tx, request.Donation.DonorID); err != nil {
			return err
		}
		return s.userRepo.IncrementSuccessfulReceives(tx, receiverID)
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	request.Status = models.RequestStatusCompleted
	request.CompletedAt = &completedAt

	s.runPostCommitHooks(request)
	return request, nil
}

// runPostCommitHooks fires the side effects of a completed pickup. Each hook
// failure is logged and isolated; the completed transaction stands either way.
func (s *requestService) runPostCommitHooks(request *models.Request) {
	if _, err := s.certificates.IssueForRequest(s.db, request); err != nil {
		logger.WithError(err).Error("certificate issuance failed after completion",
			"request_id", request.ID)
	}

	notifyAsync(s.db, s.notifRepo, request.Donation.DonorID, repositories.NotificationRequestCompleted,
		"Pickup confirmed",
		request.Receiver.Name+" received \""+request.Donation.Title+"\". Thank you!",
		map[string]string{"request_id": request.ID})
	notifyAsync(s.db, s.notifRepo, request.ReceiverID, repositories.NotificationRequestCompleted,
		"Pickup confirmed",
		"Enjoy \""+request.Donation.Title+"\". Please rate your experience.",
		map[string]string{"request_id": request.ID})
}

func (s *requestService) ListByReceiver(receiverID string, page, pageSize int) (*dto.RequestListResponse, error) {
	page, pageSize = normalizePage(page, pageSize)
	requests, total, err := s.requestRepo.FindByReceiver(s.db, receiverID, page, pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.RequestListResponse{Requests: requests, Pagination: dto.NewPagination(page, pageSize, total)}, nil
}

func (s *requestService) ListForDonor(donorID string, page, pageSize int) (*dto.RequestListResponse, error) {
	page, pageSize = normalizePage(page, pageSize)
	requests, total, err := s.requestRepo.FindForDonor(s.db, donorID, page, pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.RequestListResponse{Requests: requests, Pagination: dto.NewPagination(page, pageSize, total)}, nil
}

func (s *requestService) ListPending(page, pageSize int) (*dto.RequestListResponse, error) {
	page, pageSize = normalizePage(page, pageSize)
	requests, total, err := s.requestRepo.FindPending(s.db, page, pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.RequestListResponse{Requests: requests, Pagination: dto.NewPagination(page, pageSize, total)}, nil
}

// transitionDonation applies a request-driven donation status change through
// the central transition table.
func (s *requestService) transitionDonation(tx *gorm.DB, donationID string, from, to models.DonationStatus) error {
	if !models.CanTransitionDonation(from, to) {
		return apperrors.NewStateConflictError("donation",
			"Donation cannot move from "+string(from)+" to "+string(to))
	}
	if err := s.donationRepo.UpdateStatus(tx, donationID, to); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *requestService) findRequest(id string) (*models.Request, error) {
	request, err := s.requestRepo.FindByID(s.db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrRequestNotFound) {
			return nil, apperrors.NewNotFoundError("request", "Request not found")
		}
		return nil, apperrors.InternalError(err)
	}
	return request, nil
}
