package policies

import (
	"context"

	domainbooking "stayhub/internal/domain/booking"
)

// Loyalty is the identity/loyalty collaborator. Failures here are surfaced
// for reconciliation but never fail the booking outcome.
type Loyalty interface {
	CreditPoints(ctx context.Context, guestID string, points, spent int64) error
	DebitPoints(ctx context.Context, guestID string, points, spent int64) error
}

// PointsEarned converts a paid total into loyalty points: one point per 100
// currency units, floored.
func PointsEarned(total int64) int64 {
	return total / 100
}

// ClawbackPolicy decides how many points a cancellation takes back.
type ClawbackPolicy interface {
	PointsToDebit(b *domainbooking.Booking) int64
}

// EarnedPointsClawback debits exactly the points the booking earned.
type EarnedPointsClawback struct{}

func (EarnedPointsClawback) PointsToDebit(b *domainbooking.Booking) int64 {
	return PointsEarned(b.Price.Total)
}
