package services_test

import (
	"testing"

	"feedinneed_backend/internal/models"
	"feedinneed_backend/internal/services/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerRequest(email string) *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Name:      "Aliya Bekova",
		Email:     email,
		Password:  "sufficiently-long",
		Role:      "donor",
		DonorType: "bakery",
		City:      "Almaty",
	}
}

func TestRegister_CreatesPendingUserWithToken(t *testing.T) {
	env := setupEnv(t)

	resp, err := env.auth.Register(registerRequest("aliya@example.org"))
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, models.UserRoleDonor, resp.User.Role)
	assert.Equal(t, models.VerificationPending, resp.User.VerificationStatus)
	assert.False(t, resp.User.IsTrusted)
	assert.NotEqual(t, "sufficiently-long", resp.User.PasswordHash, "password must be stored hashed")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	env := setupEnv(t)

	_, err := env.auth.Register(registerRequest("dup@example.org"))
	require.NoError(t, err)

	_, err = env.auth.Register(registerRequest("dup@example.org"))
	assert.Error(t, err)
}

func TestRegister_WeakPasswordRejected(t *testing.T) {
	env := setupEnv(t)

	req := registerRequest("weak@example.org")
	req.Password = "short"

	_, err := env.auth.Register(req)
	assert.Error(t, err)
}

func TestLogin(t *testing.T) {
	env := setupEnv(t)

	_, err := env.auth.Register(registerRequest("login@example.org"))
	require.NoError(t, err)

	resp, err := env.auth.Login(&dto.LoginRequest{Email: "login@example.org", Password: "sufficiently-long"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.NotNil(t, resp.User.LastActiveAt)

	// Wrong password and unknown email fail the same way.
	_, err = env.auth.Login(&dto.LoginRequest{Email: "login@example.org", Password: "wrong-password"})
	assert.Error(t, err)
	_, err = env.auth.Login(&dto.LoginRequest{Email: "nobody@example.org", Password: "sufficiently-long"})
	assert.Error(t, err)
}
