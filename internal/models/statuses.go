package models

type UserRole string
type VerificationStatus string
type DonationStatus string
type RequestStatus string
type RatingType string

const (
	UserRoleSuperadmin UserRole = "superadmin"
	UserRoleAdmin      UserRole = "admin"
	UserRoleDonor      UserRole = "donor"
	UserRoleReceiver   UserRole = "receiver"

	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"

	DonationStatusAvailable DonationStatus = "available"
	DonationStatusRequested DonationStatus = "requested"
	DonationStatusClaimed   DonationStatus = "claimed"
	DonationStatusCompleted DonationStatus = "completed"
	DonationStatusExpired   DonationStatus = "expired"
	DonationStatusCancelled DonationStatus = "cancelled"

	RequestStatusPending   RequestStatus = "pending"
	RequestStatusApproved  RequestStatus = "approved"
	RequestStatusRejected  RequestStatus = "rejected"
	RequestStatusCompleted RequestStatus = "completed"
	RequestStatusCancelled RequestStatus = "cancelled"

	RatingTypeDonorToReceiver RatingType = "donor_to_receiver"
	RatingTypeReceiverToDonor RatingType = "receiver_to_donor"
)

// donationTransitions is the single source of truth for donation status
// changes. Every mutating path must go through Donation.CanTransition.
// Rejection or cancellation of a request reverts requested/claimed back to
// available; completed, expired and cancelled are terminal.
var donationTransitions = map[DonationStatus][]DonationStatus{
	DonationStatusAvailable: {DonationStatusRequested, DonationStatusClaimed, DonationStatusExpired, DonationStatusCancelled},
	DonationStatusRequested: {DonationStatusClaimed, DonationStatusAvailable, DonationStatusExpired, DonationStatusCancelled},
	DonationStatusClaimed:   {DonationStatusCompleted, DonationStatusAvailable},
}

// requestTransitions: pending fans out, approved can only complete, the rest
// are terminal.
var requestTransitions = map[RequestStatus][]RequestStatus{
	RequestStatusPending:  {RequestStatusApproved, RequestStatusRejected, RequestStatusCancelled},
	RequestStatusApproved: {RequestStatusCompleted},
}

func CanTransitionDonation(from, to DonationStatus) bool {
	for _, allowed := range donationTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func CanTransitionRequest(from, to RequestStatus) bool {
	for _, allowed := range requestTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func (r UserRole) IsStaff() bool {
	return r == UserRoleAdmin || r == UserRoleSuperadmin
}
