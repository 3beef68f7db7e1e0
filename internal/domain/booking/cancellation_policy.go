package booking

import "time"

// CancellationPolicy is a pure decision table keyed on hours remaining until
// check-in. No I/O; "now" is always passed in by the caller.
type CancellationPolicy struct {
	MinNoticeHours         float64
	HalfRefundBelowHours   float64
	MostlyRefundBelowHours float64
}

// DefaultCancellationPolicy: under 24h no cancellation at all; 24-48h refunds
// 50%; 48-72h refunds 75%; 72h or more refunds in full.
func DefaultCancellationPolicy() CancellationPolicy {
	return CancellationPolicy{
		MinNoticeHours:         24,
		HalfRefundBelowHours:   48,
		MostlyRefundBelowHours: 72,
	}
}

type RefundDecision struct {
	Allowed           bool
	RefundPercent     int
	HoursUntilCheckIn float64
}

func (p CancellationPolicy) Evaluate(checkIn, now time.Time) RefundDecision {
	hours := checkIn.Sub(now).Hours()
	d := RefundDecision{HoursUntilCheckIn: hours}
	switch {
	case hours < p.MinNoticeHours:
		return d
	case hours < p.HalfRefundBelowHours:
		d.Allowed, d.RefundPercent = true, 50
	case hours < p.MostlyRefundBelowHours:
		d.Allowed, d.RefundPercent = true, 75
	default:
		d.Allowed, d.RefundPercent = true, 100
	}
	return d
}

// RefundAmount applies the decision's percentage to the paid total, rounding
// half-up to whole currency units.
func (d RefundDecision) RefundAmount(total int64) int64 {
	if !d.Allowed || d.RefundPercent <= 0 {
		return 0
	}
	return (total*int64(d.RefundPercent) + 50) / 100
}
