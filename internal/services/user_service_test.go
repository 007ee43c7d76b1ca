package services_test

import (
	"testing"

	"feedinneed_backend/internal/models"
	"feedinneed_backend/internal/services/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordTimestampsPopulatedOnCreate(t *testing.T) {
	env := setupEnv(t)
	user := createUser(t, env.db, models.UserRoleDonor, true, false)

	// Timestamps are set client-side, so they work the same on postgres and
	// the in-memory test database.
	var fresh models.User
	require.NoError(t, env.db.First(&fresh, "id = ?", user.ID).Error)
	assert.False(t, fresh.CreatedAt.IsZero())
	assert.False(t, fresh.UpdatedAt.IsZero())
}

func TestVerifyUser_Flow(t *testing.T) {
	env := setupEnv(t)
	admin := createUser(t, env.db, models.UserRoleAdmin, true, false)
	pending := createUser(t, env.db, models.UserRoleReceiver, false, false)

	require.NoError(t, env.users.VerifyUser(admin.ID, pending.ID, &dto.VerifyUserRequest{Approve: true}))

	fresh, err := env.users.GetProfile(pending.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VerificationApproved, fresh.VerificationStatus)

	// The decision is final.
	err = env.users.VerifyUser(admin.ID, pending.ID, &dto.VerifyUserRequest{Approve: false})
	assert.Error(t, err)
}

func TestVerifyUser_RejectionKeepsNote(t *testing.T) {
	env := setupEnv(t)
	admin := createUser(t, env.db, models.UserRoleAdmin, true, false)
	pending := createUser(t, env.db, models.UserRoleDonor, false, false)

	require.NoError(t, env.users.VerifyUser(admin.ID, pending.ID,
		&dto.VerifyUserRequest{Approve: false, Note: "documents unreadable"}))

	fresh, err := env.users.GetProfile(pending.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VerificationRejected, fresh.VerificationStatus)
	assert.Equal(t, "documents unreadable", fresh.VerificationNote)
}

func TestGrantAndRevokeTrust(t *testing.T) {
	env := setupEnv(t)
	admin := createUser(t, env.db, models.UserRoleAdmin, true, false)
	user := createUser(t, env.db, models.UserRoleDonor, true, false)

	require.NoError(t, env.users.GrantTrust(admin.ID, user.ID))

	fresh, err := env.users.GetProfile(user.ID)
	require.NoError(t, err)
	assert.True(t, fresh.IsTrusted)
	require.NotNil(t, fresh.TrustGrantedByID)
	assert.Equal(t, admin.ID, *fresh.TrustGrantedByID)

	// Granting twice is a conflict.
	assert.Error(t, env.users.GrantTrust(admin.ID, user.ID))

	require.NoError(t, env.users.RevokeTrust(admin.ID, user.ID, &dto.RevokeTrustRequest{Reason: "repeated no-shows"}))

	fresh, err = env.users.GetProfile(user.ID)
	require.NoError(t, err)
	assert.False(t, fresh.IsTrusted)

	// Revoking an untrusted user is a conflict.
	assert.Error(t, env.users.RevokeTrust(admin.ID, user.ID, &dto.RevokeTrustRequest{Reason: "again"}))
}

func TestUpdateProfile(t *testing.T) {
	env := setupEnv(t)
	user := createUser(t, env.db, models.UserRoleReceiver, true, false)

	updated, err := env.users.UpdateProfile(user.ID, &dto.UpdateProfileRequest{
		Name: "New Name",
		City: "Astana",
	})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, "Astana", updated.City)
	assert.Equal(t, user.Email, updated.Email, "untouched fields keep their values")
}

func TestListUsers_Filters(t *testing.T) {
	env := setupEnv(t)
	createUser(t, env.db, models.UserRoleDonor, true, true)
	createUser(t, env.db, models.UserRoleDonor, true, false)
	createUser(t, env.db, models.UserRoleReceiver, false, false)

	resp, err := env.users.ListUsers(&dto.UserListQuery{Role: "donor"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Pagination.Total)

	trusted := true
	resp, err = env.users.ListUsers(&dto.UserListQuery{Trusted: &trusted})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Pagination.Total)

	resp, err = env.users.ListUsers(&dto.UserListQuery{VerificationStatus: "pending"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Pagination.Total)
}

func TestDeleteUser_Rules(t *testing.T) {
	env := setupEnv(t)
	superadmin := createUser(t, env.db, models.UserRoleSuperadmin, true, false)
	admin := createUser(t, env.db, models.UserRoleAdmin, true, false)
	donor := createUser(t, env.db, models.UserRoleDonor, true, false)

	// Admins cannot remove staff.
	assert.Error(t, env.users.DeleteUser(admin.ID, models.UserRoleAdmin, superadmin.ID))

	// Nobody deletes themselves.
	assert.Error(t, env.users.DeleteUser(admin.ID, models.UserRoleAdmin, admin.ID))

	require.NoError(t, env.users.DeleteUser(admin.ID, models.UserRoleAdmin, donor.ID))
	_, err := env.users.GetProfile(donor.ID)
	assert.Error(t, err)

	// A superadmin can remove staff.
	require.NoError(t, env.users.DeleteUser(superadmin.ID, models.UserRoleSuperadmin, admin.ID))
}
