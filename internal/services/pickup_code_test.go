package services_test

import (
	"strings"
	"testing"

	"feedinneed_backend/internal/models"
	"feedinneed_backend/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePickupCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := services.GeneratePickupCode()
		require.NoError(t, err)
		assert.Len(t, code, 6)
		for _, r := range code {
			assert.True(t, (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'),
				"unexpected character %q in code %s", r, code)
		}
		seen[code] = true
	}
	// 50 draws from a 36^6 space colliding down to a handful would mean a
	// broken generator.
	assert.Greater(t, len(seen), 45)
}

func TestBuildQRArtifacts(t *testing.T) {
	data, image, err := services.BuildQRArtifacts("req-1", "don-1", "ABC123")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(image, "data:image/png;base64,"))

	payload, err := services.ParseQRPayload(data)
	require.NoError(t, err)
	assert.Equal(t, models.QRPayloadType, payload.Type)
	assert.Equal(t, "req-1", payload.RequestID)
	assert.Equal(t, "don-1", payload.DonationID)
	assert.Equal(t, "ABC123", payload.Code)
	assert.NotZero(t, payload.Timestamp)
}

func TestParseQRPayloadRejectsForeignData(t *testing.T) {
	_, err := services.ParseQRPayload("not json at all")
	assert.Error(t, err)

	_, err = services.ParseQRPayload(`{"type":"SOMETHING_ELSE","code":"ABC123"}`)
	assert.Error(t, err)
}
