package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrustPolicyEligible(t *testing.T) {
	p := DefaultTrustPolicy()

	assert.False(t, p.Eligible(0, 0))
	assert.False(t, p.Eligible(2, 5.0), "below transaction threshold")
	assert.False(t, p.Eligible(3, 3.9), "below rating threshold")
	assert.True(t, p.Eligible(3, 4.0), "both thresholds inclusive")
	assert.True(t, p.Eligible(10, 4.8))
}

func TestTrustPolicyCustomThresholds(t *testing.T) {
	p := TrustPolicy{MinTransactions: 1, MinRating: 2.5}

	assert.True(t, p.Eligible(1, 2.5))
	assert.False(t, p.Eligible(0, 5.0))
}
