package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDonationTransitions(t *testing.T) {
	allowed := []struct{ from, to DonationStatus }{
		{DonationStatusAvailable, DonationStatusRequested},
		{DonationStatusAvailable, DonationStatusClaimed},
		{DonationStatusAvailable, DonationStatusExpired},
		{DonationStatusAvailable, DonationStatusCancelled},
		{DonationStatusRequested, DonationStatusClaimed},
		{DonationStatusRequested, DonationStatusAvailable},
		{DonationStatusRequested, DonationStatusExpired},
		{DonationStatusRequested, DonationStatusCancelled},
		{DonationStatusClaimed, DonationStatusCompleted},
		{DonationStatusClaimed, DonationStatusAvailable},
	}
	for _, tc := range allowed {
		assert.True(t, CanTransitionDonation(tc.from, tc.to), "%s -> %s should be allowed", tc.from, tc.to)
	}

	denied := []struct{ from, to DonationStatus }{
		{DonationStatusAvailable, DonationStatusCompleted},
		{DonationStatusRequested, DonationStatusCompleted},
		{DonationStatusClaimed, DonationStatusExpired},
		{DonationStatusClaimed, DonationStatusCancelled},
		{DonationStatusCompleted, DonationStatusAvailable},
		{DonationStatusExpired, DonationStatusAvailable},
		{DonationStatusCancelled, DonationStatusAvailable},
		{DonationStatusCompleted, DonationStatusClaimed},
	}
	for _, tc := range denied {
		assert.False(t, CanTransitionDonation(tc.from, tc.to), "%s -> %s should be denied", tc.from, tc.to)
	}
}

func TestRequestTransitions(t *testing.T) {
	allowed := []struct{ from, to RequestStatus }{
		{RequestStatusPending, RequestStatusApproved},
		{RequestStatusPending, RequestStatusRejected},
		{RequestStatusPending, RequestStatusCancelled},
		{RequestStatusApproved, RequestStatusCompleted},
	}
	for _, tc := range allowed {
		assert.True(t, CanTransitionRequest(tc.from, tc.to), "%s -> %s should be allowed", tc.from, tc.to)
	}

	denied := []struct{ from, to RequestStatus }{
		{RequestStatusPending, RequestStatusCompleted},
		{RequestStatusApproved, RequestStatusRejected},
		{RequestStatusApproved, RequestStatusCancelled},
		{RequestStatusRejected, RequestStatusApproved},
		{RequestStatusCompleted, RequestStatusPending},
		{RequestStatusCancelled, RequestStatusApproved},
	}
	for _, tc := range denied {
		assert.False(t, CanTransitionRequest(tc.from, tc.to), "%s -> %s should be denied", tc.from, tc.to)
	}
}

func TestUserRoleIsStaff(t *testing.T) {
	assert.True(t, UserRoleAdmin.IsStaff())
	assert.True(t, UserRoleSuperadmin.IsStaff())
	assert.False(t, UserRoleDonor.IsStaff())
	assert.False(t, UserRoleReceiver.IsStaff())
}
