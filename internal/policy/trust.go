// Package policy holds the tunable business thresholds in one place so the
// trust engine can be exercised with different values in tests.
package policy

// Defaults for the trusted-badge promotion rule.
const (
	DefaultMinTransactions = 3
	DefaultMinRating       = 4.0
)

// TrustPolicy is injected into the rating/trust engine.
type TrustPolicy struct {
	// MinTransactions is the number of completed transactions (in the
	// user's role) required before the badge can be granted automatically.
	MinTransactions int
	// MinRating is the minimum average rating, inclusive.
	MinRating float64
}

func DefaultTrustPolicy() TrustPolicy {
	return TrustPolicy{
		MinTransactions: DefaultMinTransactions,
		MinRating:       DefaultMinRating,
	}
}

// Eligible applies the machine-promotion rule. Admin grants bypass this.
func (p TrustPolicy) Eligible(successfulCount int, averageRating float64) bool {
	return successfulCount >= p.MinTransactions && averageRating >= p.MinRating
}
