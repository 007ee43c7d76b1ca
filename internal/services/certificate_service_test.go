package services_test

import (
	"strings"
	"testing"

	"feedinneed_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueForRequest_Idempotent(t *testing.T) {
	env := setupEnv(t)
	donor := createUser(t, env.db, models.UserRoleDonor, true, true)
	receiver := createUser(t, env.db, models.UserRoleReceiver, true, false)
	admin := createUser(t, env.db, models.UserRoleAdmin, true, false)

	_, request := createApprovedRequest(t, env, donor, receiver, admin)
	completed := completeRequest(t, env, receiver, request)

	// Completion already issued the certificate; reissuing returns it.
	first, err := env.certificates.IssueForRequest(env.db, completed)
	require.NoError(t, err)
	second, err := env.certificates.IssueForRequest(env.db, completed)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.CertificateNumber, second.CertificateNumber)

	var count int64
	require.NoError(t, env.db.Model(&models.Certificate{}).
		Where("request_id = ?", request.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestIssueForRequest_RequiresCompletion(t *testing.T) {
	env := setupEnv(t)
	donor := createUser(t, env.db, models.UserRoleDonor, true, true)
	receiver := createUser(t, env.db, models.UserRoleReceiver, true, false)
	admin := createUser(t, env.db, models.UserRoleAdmin, true, false)

	_, request := createApprovedRequest(t, env, donor, receiver, admin)

	_, err := env.certificates.IssueForRequest(env.db, request)
	assert.Error(t, err)
}

func TestCertificateNumberFormat(t *testing.T) {
	env := setupEnv(t)
	donor := createUser(t, env.db, models.UserRoleDonor, true, true)
	receiver := createUser(t, env.db, models.UserRoleReceiver, true, false)
	admin := createUser(t, env.db, models.UserRoleAdmin, true, false)

	_, request := createApprovedRequest(t, env, donor, receiver, admin)
	completeRequest(t, env, receiver, request)

	var certificate models.Certificate
	require.NoError(t, env.db.First(&certificate, "request_id = ?", request.ID).Error)

	parts := strings.Split(certificate.CertificateNumber, "-")
	require.Len(t, parts, 3, "expected FIN-<year>-<hex>, got %s", certificate.CertificateNumber)
	assert.Equal(t, "FIN", parts[0])
	assert.Len(t, parts[1], 4)
	assert.Len(t, parts[2], 8)
	assert.Equal(t, strings.ToUpper(parts[2]), parts[2])
}

func TestVerifyByNumber(t *testing.T) {
	env := setupEnv(t)
	donor := createUser(t, env.db, models.UserRoleDonor, true, true)
	receiver := createUser(t, env.db, models.UserRoleReceiver, true, false)
	admin := createUser(t, env.db, models.UserRoleAdmin, true, false)

	_, request := createApprovedRequest(t, env, donor, receiver, admin)
	completeRequest(t, env, receiver, request)

	var issued models.Certificate
	require.NoError(t, env.db.First(&issued, "request_id = ?", request.ID).Error)

	found, err := env.certificates.VerifyByNumber(issued.CertificateNumber)
	require.NoError(t, err)
	assert.Equal(t, issued.ID, found.ID)
	assert.Equal(t, donor.Name, found.DonorName)

	_, err = env.certificates.VerifyByNumber("FIN-2026-DEADBEEF")
	assert.Error(t, err)
}

func TestListCertificatesByDonor(t *testing.T) {
	env := setupEnv(t)
	donor := createUser(t, env.db, models.UserRoleDonor, true, true)
	receiver := createUser(t, env.db, models.UserRoleReceiver, true, false)
	admin := createUser(t, env.db, models.UserRoleAdmin, true, false)

	for i := 0; i < 2; i++ {
		_, request := createApprovedRequest(t, env, donor, receiver, admin)
		completeRequest(t, env, receiver, request)
	}

	resp, err := env.certificates.ListByDonor(donor.ID, 1, 20)
	require.NoError(t, err)
	assert.Len(t, resp.Certificates, 2)
	assert.Equal(t, int64(2), resp.Pagination.Total)

	other, err := env.certificates.ListByDonor(receiver.ID, 1, 20)
	require.NoError(t, err)
	assert.Empty(t, other.Certificates)
}
