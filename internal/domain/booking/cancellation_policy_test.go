package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCancellationPolicyRefundTiers(t *testing.T) {
	policy := DefaultCancellationPolicy()
	checkIn := time.Date(2026, time.June, 10, 15, 0, 0, 0, time.UTC)

	cases := []struct {
		name        string
		hoursBefore float64
		allowed     bool
		percent     int
	}{
		{"under minimum notice", 23, false, 0},
		{"exactly minimum notice", 24, true, 50},
		{"half refund window", 30, true, 50},
		{"mostly refund window", 60, true, 75},
		{"full refund", 72, true, 100},
		{"well in advance", 300, true, 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			now := checkIn.Add(-time.Duration(tc.hoursBefore * float64(time.Hour)))
			d := policy.Evaluate(checkIn, now)
			assert.Equal(t, tc.allowed, d.Allowed)
			assert.Equal(t, tc.percent, d.RefundPercent)
		})
	}
}

func TestRefundAmountRoundsHalfUp(t *testing.T) {
	d := RefundDecision{Allowed: true, RefundPercent: 50}
	assert.Equal(t, int64(3690), d.RefundAmount(7380))
	assert.Equal(t, int64(51), d.RefundAmount(101))

	d.RefundPercent = 75
	assert.Equal(t, int64(76), d.RefundAmount(101))

	blocked := RefundDecision{}
	assert.Equal(t, int64(0), blocked.RefundAmount(7380))
}
