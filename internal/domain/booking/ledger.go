package booking

import (
	"time"

	"stayhub/internal/domain/pricing"
	"stayhub/internal/domain/room"
	"stayhub/internal/domain/shared/daterange"
)

// Ledger owns the reserve/cancel/modify state machine for a single room's
// reservation collection. Operations mutate the room and booking aggregates
// in memory; the caller persists both inside one unit-of-work commit, so the
// dual write is atomic and optimistic versioning serializes racing writers.
type Ledger struct {
	Checker              room.Checker
	Policy               CancellationPolicy
	TolerancePercent     float64
	MinModifyNoticeHours float64
}

func NewLedger() Ledger {
	return Ledger{
		Checker:              room.FindConflicts,
		Policy:               DefaultCancellationPolicy(),
		TolerancePercent:     pricing.DefaultTolerancePercent,
		MinModifyNoticeHours: 48,
	}
}

type ReserveParams struct {
	BookingID     BookingID
	ReservationID string
	Reference     string
	GuestID       string
	Range         daterange.DateRange
	Guests        GuestCount
	AddOns        []pricing.AddOn
	// ClientTotal is the total the checkout UI computed; zero means the
	// caller supplied none and no tolerance check runs.
	ClientTotal   int64
	PaymentMethod string
	TransactionID string
}

// Reserve validates the candidate range against the room's live reservation
// state, prices the stay, and on success appends the mirrored reservation
// record and returns the confirmed booking.
func (l Ledger) Reserve(rm *room.Room, p ReserveParams, now time.Time) (*Booking, error) {
	if !rm.IsActive {
		return nil, room.ErrInactive
	}
	if err := p.Range.Validate(); err != nil {
		return nil, err
	}
	if err := ValidateDateRange(p.Range, now); err != nil {
		return nil, err
	}
	if conflicts := l.checker()(rm.Reservations, p.Range); len(conflicts) > 0 {
		return nil, &ConflictError{Conflicts: conflicts}
	}

	price, err := pricing.ComputeTotal(rm.NightlyRate, p.Range.Nights(), p.AddOns)
	if err != nil {
		return nil, err
	}
	if p.ClientTotal != 0 && !pricing.ValidateClientTotal(p.ClientTotal, price.Total, l.TolerancePercent) {
		return nil, &PriceMismatchError{Expected: price.Total, Received: p.ClientTotal}
	}

	b, err := NewBooking(CreateParams{
		ID:            p.BookingID,
		Reference:     p.Reference,
		RoomID:        rm.ID,
		GuestID:       p.GuestID,
		Range:         p.Range,
		Guests:        p.Guests,
		Price:         price,
		PaymentMethod: p.PaymentMethod,
		TransactionID: p.TransactionID,
		CreatedAt:     now,
	})
	if err != nil {
		return nil, err
	}
	if err := b.Confirm(now); err != nil {
		return nil, err
	}

	rm.AddReservation(room.ReservationRecord{
		ID:        p.ReservationID,
		BookingID: string(b.ID),
		GuestID:   p.GuestID,
		Range:     p.Range,
		Status:    room.ReservationConfirmed,
		CreatedAt: now.UTC(),
	})
	return b, nil
}

type CancellationOutcome struct {
	RefundAmount  int64
	RefundPercent int
}

// Cancel applies the cancellation policy and flips the booking together with
// its mirrored reservation record. Both flips persist in one commit or not
// at all.
func (l Ledger) Cancel(b *Booking, rm *room.Room, reason string, now time.Time) (CancellationOutcome, error) {
	if b.State == StateCancelled {
		return CancellationOutcome{}, ErrAlreadyCancelled
	}
	decision := l.Policy.Evaluate(b.Range.CheckIn, now)
	if !decision.Allowed {
		return CancellationOutcome{}, &CancellationWindowError{
			HoursUntilCheckIn: decision.HoursUntilCheckIn,
			MinNoticeHours:    l.Policy.MinNoticeHours,
		}
	}
	refund := decision.RefundAmount(b.Price.Total)
	if err := b.Cancel(refund, decision.RefundPercent, reason, now); err != nil {
		return CancellationOutcome{}, err
	}
	if err := rm.CancelReservation(string(b.ID), now); err != nil {
		return CancellationOutcome{}, err
	}
	return CancellationOutcome{RefundAmount: refund, RefundPercent: decision.RefundPercent}, nil
}

type ModificationOutcome struct {
	// PriceDifference is newTotal - oldTotal; positive means the guest owes
	// more, negative means a refund is due. Collecting either is the
	// caller's concern.
	PriceDifference int64
	NewTotal        int64
}

// Modify moves a confirmed booking to a new date range, repricing the stay
// with its existing add-ons preserved. The booking's own record is excluded
// from the conflict check so it cannot collide with itself.
func (l Ledger) Modify(b *Booking, rm *room.Room, newRange daterange.DateRange, now time.Time) (ModificationOutcome, error) {
	if b.State == StateCancelled {
		return ModificationOutcome{}, ErrAlreadyCancelled
	}
	hours := b.Range.CheckIn.Sub(now).Hours()
	if hours < l.MinModifyNoticeHours {
		return ModificationOutcome{}, &ModificationWindowError{
			HoursUntilCheckIn: hours,
			MinNoticeHours:    l.MinModifyNoticeHours,
		}
	}
	if err := newRange.Validate(); err != nil {
		return ModificationOutcome{}, err
	}
	if err := ValidateDateRange(newRange, now); err != nil {
		return ModificationOutcome{}, err
	}
	if conflicts := rm.ConflictsExcluding(string(b.ID), newRange); len(conflicts) > 0 {
		return ModificationOutcome{}, &ConflictError{Conflicts: conflicts}
	}

	newPrice, err := pricing.ComputeTotal(rm.NightlyRate, newRange.Nights(), b.Price.AddOns)
	if err != nil {
		return ModificationOutcome{}, err
	}
	diff := newPrice.Total - b.Price.Total
	if err := b.Reschedule(newRange, newPrice, now); err != nil {
		return ModificationOutcome{}, err
	}
	if err := rm.RescheduleReservation(string(b.ID), newRange, now); err != nil {
		return ModificationOutcome{}, err
	}
	return ModificationOutcome{PriceDifference: diff, NewTotal: newPrice.Total}, nil
}

func (l Ledger) checker() room.Checker {
	if l.Checker != nil {
		return l.Checker
	}
	return room.FindConflicts
}
