package services_test

import (
	"testing"
	"time"

	"feedinneed_backend/internal/models"
	"feedinneed_backend/internal/services/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDonation_TrustedDonorAutoApproved(t *testing.T) {
	env := setupEnv(t)
	donor := createUser(t, env.db, models.UserRoleDonor, true, true)

	donation, err := env.donations.Create(donor.ID, validDonationRequest())
	require.NoError(t, err)

	assert.True(t, donation.IsApproved)
	require.NotNil(t, donation.ApprovedByID)
	assert.Equal(t, donor.ID, *donation.ApprovedByID, "auto-approval records the donor as approver")
	assert.NotNil(t, donation.ApprovedAt)
	assert.Equal(t, models.DonationStatusAvailable, donation.Status)
}

func TestCreateDonation_UntrustedDonorAwaitsApproval(t *testing.T) {
	env := setupEnv(t)
	donor := createUser(t, env.db, models.UserRoleDonor, true, false)

	donation, err := env.donations.Create(donor.ID, validDonationRequest())
	require.NoError(t, err)

	assert.False(t, donation.IsApproved)
	assert.Nil(t, donation.ApprovedByID)
	assert.Nil(t, donation.ApprovedAt)
}

func TestCreateDonation_UnverifiedDonorRejected(t *testing.T) {
	env := setupEnv(t)
	donor := createUser(t, env.db, models.UserRoleDonor, false, false)

	_, err := env.donations.Create(donor.ID, validDonationRequest())
	assert.Error(t, err)
}

func TestCreateDonation_PastExpiryRejected(t *testing.T) {
	env := setupEnv(t)
	donor := createUser(t, env.db, models.UserRoleDonor, true, true)

	req := validDonationRequest()
	req.ExpiryDateTime = time.Now().Add(-time.Hour)

	_, err := env.donations.Create(donor.ID, req)
	assert.Error(t, err)
}

func TestApproveDonation(t *testing.T) {
	env := setupEnv(t)
	donor := createUser(t, env.db, models.UserRoleDonor, true, false)
	admin := createUser(t, env.db, models.UserRoleAdmin, true, false)

	donation, err := env.donations.Create(donor.ID, validDonationRequest())
	require.NoError(t, err)

	require.NoError(t, env.donations.Approve(admin.ID, donation.ID))

	fresh, err := env.donations.Get(donation.ID)
	require.NoError(t, err)
	assert.True(t, fresh.IsApproved)
	require.NotNil(t, fresh.ApprovedByID)
	assert.Equal(t, admin.ID, *fresh.ApprovedByID)

	// Approving twice is a conflict.
	assert.Error(t, env.donations.Approve(admin.ID, donation.ID))
}

func TestRejectDonation(t *testing.T) {
	env := setupEnv(t)
	donor := createUser(t, env.db, models.UserRoleDonor, true, false)
	admin := createUser(t, env.db, models.UserRoleAdmin, true, false)

	donation, err := env.donations.Create(donor.ID, validDonationRequest())
	require.NoError(t, err)

	require.NoError(t, env.donations.Reject(admin.ID, donation.ID, "photos do not show the food"))

	fresh, err := env.donations.Get(donation.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DonationStatusCancelled, fresh.Status)
	assert.False(t, fresh.IsApproved)
}

func TestUpdateDonation_OwnershipAndStatusGates(t *testing.T) {
	env := setupEnv(t)
	donor := createUser(t, env.db, models.UserRoleDonor, true, true)
	other := createUser(t, env.db, models.UserRoleDonor, true, true)

	donation, err := env.donations.Create(donor.ID, validDonationRequest())
	require.NoError(t, err)

	// Strangers cannot edit.
	_, err = env.donations.Update(other.ID, models.UserRoleDonor, donation.ID, &dto.UpdateDonationRequest{Title: "hijacked"})
	assert.Error(t, err)

	// The trusted owner can edit their approved listing.
	updated, err := env.donations.Update(donor.ID, models.UserRoleDonor, donation.ID, &dto.UpdateDonationRequest{Title: "Fresh bread, second batch"})
	require.NoError(t, err)
	assert.Equal(t, "Fresh bread, second batch", updated.Title)

	// Once claimed the listing is frozen for non-staff.
	require.NoError(t, env.db.Model(&models.Donation{}).Where("id = ?", donation.ID).
		Update("status", models.DonationStatusClaimed).Error)
	_, err = env.donations.Update(donor.ID, models.UserRoleDonor, donation.ID, &dto.UpdateDonationRequest{Title: "too late"})
	assert.Error(t, err)

	// Staff can still intervene.
	_, err = env.donations.Update("some-admin", models.UserRoleAdmin, donation.ID, &dto.UpdateDonationRequest{Title: "fixed by staff"})
	assert.NoError(t, err)
}

func TestUpdateDonation_ApprovedLockedForUntrustedDonor(t *testing.T) {
	env := setupEnv(t)
	donor := createUser(t, env.db, models.UserRoleDonor, true, false)
	admin := createUser(t, env.db, models.UserRoleAdmin, true, false)

	donation, err := env.donations.Create(donor.ID, validDonationRequest())
	require.NoError(t, err)
	require.NoError(t, env.donations.Approve(admin.ID, donation.ID))

	_, err = env.donations.Update(donor.ID, models.UserRoleDonor, donation.ID, &dto.UpdateDonationRequest{Title: "sneaky edit"})
	assert.Error(t, err)
}

func TestDeleteDonation_UnconditionalForOwner(t *testing.T) {
	env := setupEnv(t)
	donor := createUser(t, env.db, models.UserRoleDonor, true, true)

	donation, err := env.donations.Create(donor.ID, validDonationRequest())
	require.NoError(t, err)

	// Even a claimed donation can be deleted; history lives in certificates.
	require.NoError(t, env.db.Model(&models.Donation{}).Where("id = ?", donation.ID).
		Update("status", models.DonationStatusClaimed).Error)

	require.NoError(t, env.donations.Delete(donor.ID, models.UserRoleDonor, donation.ID))
	_, err = env.donations.Get(donation.ID)
	assert.Error(t, err)
}

func TestCancelDonation(t *testing.T) {
	env := setupEnv(t)
	donor := createUser(t, env.db, models.UserRoleDonor, true, true)

	donation, err := env.donations.Create(donor.ID, validDonationRequest())
	require.NoError(t, err)

	require.NoError(t, env.donations.Cancel(donor.ID, donation.ID))

	fresh, err := env.donations.Get(donation.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DonationStatusCancelled, fresh.Status)

	// Cancelled is terminal.
	assert.Error(t, env.donations.Cancel(donor.ID, donation.ID))
}

func TestListPublic_FiltersVisibility(t *testing.T) {
	env := setupEnv(t)
	trusted := createUser(t, env.db, models.UserRoleDonor, true, true)
	untrusted := createUser(t, env.db, models.UserRoleDonor, true, false)

	visible, err := env.donations.Create(trusted.ID, validDonationRequest())
	require.NoError(t, err)

	// Unapproved listing must not appear.
	_, err = env.donations.Create(untrusted.ID, validDonationRequest())
	require.NoError(t, err)

	// Expired listing must not appear.
	expired, err := env.donations.Create(trusted.ID, validDonationRequest())
	require.NoError(t, err)
	require.NoError(t, env.db.Model(&models.Donation{}).Where("id = ?", expired.ID).
		Update("expiry_date_time", time.Now().Add(-time.Hour)).Error)

	resp, err := env.donations.ListPublic(&dto.DonationListQuery{})
	require.NoError(t, err)
	require.Len(t, resp.Donations, 1)
	assert.Equal(t, visible.ID, resp.Donations[0].ID)
}

func TestListPublic_NearbyAnnotatesAndSortsByDistance(t *testing.T) {
	env := setupEnv(t)
	donor := createUser(t, env.db, models.UserRoleDonor, true, true)

	near := validDonationRequest()
	near.Title = "Near pickup"
	near.Latitude, near.Longitude = 43.25, 76.90
	_, err := env.donations.Create(donor.ID, near)
	require.NoError(t, err)

	far := validDonationRequest()
	far.Title = "Far pickup"
	far.Latitude, far.Longitude = 43.60, 77.30
	_, err = env.donations.Create(donor.ID, far)
	require.NoError(t, err)

	lat, lng := 43.25, 76.90
	resp, err := env.donations.ListPublic(&dto.DonationListQuery{Lat: &lat, Lng: &lng})
	require.NoError(t, err)
	require.Len(t, resp.Donations, 2)

	assert.Equal(t, "Near pickup", resp.Donations[0].Title)
	require.NotNil(t, resp.Donations[0].DistanceKm)
	require.NotNil(t, resp.Donations[1].DistanceKm)
	assert.LessOrEqual(t, *resp.Donations[0].DistanceKm, *resp.Donations[1].DistanceKm)
}

func TestListPublic_TitleSearch(t *testing.T) {
	env := setupEnv(t)
	donor := createUser(t, env.db, models.UserRoleDonor, true, true)

	bread := validDonationRequest()
	bread.Title = "Sourdough bread"
	_, err := env.donations.Create(donor.ID, bread)
	require.NoError(t, err)

	soup := validDonationRequest()
	soup.Title = "Vegetable soup"
	_, err = env.donations.Create(donor.ID, soup)
	require.NoError(t, err)

	resp, err := env.donations.ListPublic(&dto.DonationListQuery{Search: "bread"})
	require.NoError(t, err)
	require.Len(t, resp.Donations, 1)
	assert.Equal(t, "Sourdough bread", resp.Donations[0].Title)
}
