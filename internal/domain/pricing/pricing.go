package pricing

import "errors"

var ErrInvalidPricingInput = errors.New("pricing: nightly rate and nights must be positive")

// Rates are fixed percentages applied to the pre-tax amount.
const (
	TaxRatePercent        = 18
	ServiceFeeRatePercent = 5

	// DefaultTolerancePercent is how far a client-computed total may drift
	// from the server total before the booking is rejected.
	DefaultTolerancePercent = 5.0
)

// AddOn is a purchasable extra attached to a stay (breakfast, airport pickup).
// Price is in integer currency units per item.
type AddOn struct {
	Name     string
	Price    int64
	Quantity int
}

// Breakdown mirrors the line items a guest sees on the checkout screen.
// Invariant: Total = Subtotal + AddOnTotal + Taxes + ServiceFee, each
// component rounded to whole currency units before summing.
type Breakdown struct {
	RoomRate   int64
	Nights     int
	Subtotal   int64
	AddOns     []AddOn
	AddOnTotal int64
	Taxes      int64
	ServiceFee int64
	Total      int64
}

// ComputeTotal derives the full breakdown for a stay. Deterministic: same
// inputs always produce the same breakdown.
func ComputeTotal(roomRate int64, nights int, addOns []AddOn) (Breakdown, error) {
	if roomRate <= 0 || nights <= 0 {
		return Breakdown{}, ErrInvalidPricingInput
	}
	var addOnTotal int64
	for _, a := range addOns {
		if a.Price < 0 || a.Quantity < 0 {
			return Breakdown{}, ErrInvalidPricingInput
		}
		addOnTotal += a.Price * int64(a.Quantity)
	}
	subtotal := roomRate * int64(nights)
	preTax := subtotal + addOnTotal
	taxes := roundedPercent(preTax, TaxRatePercent)
	serviceFee := roundedPercent(preTax, ServiceFeeRatePercent)
	return Breakdown{
		RoomRate:   roomRate,
		Nights:     nights,
		Subtotal:   subtotal,
		AddOns:     append([]AddOn(nil), addOns...),
		AddOnTotal: addOnTotal,
		Taxes:      taxes,
		ServiceFee: serviceFee,
		Total:      preTax + taxes + serviceFee,
	}, nil
}

// ValidateClientTotal accepts the client-submitted total when it is within
// tolerancePct of the server-computed one. Small rounding drift from the
// checkout UI is tolerated; gross mismatches (price tampering) are not.
func ValidateClientTotal(clientTotal, computedTotal int64, tolerancePct float64) bool {
	if tolerancePct <= 0 {
		tolerancePct = DefaultTolerancePercent
	}
	diff := clientTotal - computedTotal
	if diff < 0 {
		diff = -diff
	}
	return float64(diff) <= float64(computedTotal)*tolerancePct/100
}

// roundedPercent applies pct to amount rounding half-up to whole units.
func roundedPercent(amount, pct int64) int64 {
	return (amount*pct + 50) / 100
}
