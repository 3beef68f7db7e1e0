package booking

import (
	"context"
	"time"

	"stayhub/internal/domain/pricing"
	"stayhub/internal/domain/room"
	"stayhub/internal/domain/shared/daterange"
	"stayhub/internal/domain/shared/events"
)

type BookingID string

type State string

const (
	// StatePending exists only transiently inside a reserve attempt; a
	// booking observable outside the ledger is confirmed or cancelled.
	StatePending   State = "PENDING"
	StateConfirmed State = "CONFIRMED"
	StateCancelled State = "CANCELLED"
)

type GuestCount struct {
	Adults   int
	Children int
}

func (g GuestCount) Total() int { return g.Adults + g.Children }

const (
	PaymentManual = "manual"

	PaymentStatusPending   = "PENDING"
	PaymentStatusCompleted = "COMPLETED"
	PaymentStatusRefunded  = "REFUNDED"
	PaymentStatusCancelled = "CANCELLED"
)

// PaymentInfo snapshots the opaque payment outcome; gateway capture happens
// outside this core.
type PaymentInfo struct {
	Method        string
	Status        string
	TransactionID string
	RefundAmount  int64
}

type CancellationInfo struct {
	CancelledAt   time.Time
	Reason        string
	RefundAmount  int64
	RefundPercent int
}

// ModificationEntry keeps the date-change audit trail on the aggregate.
type ModificationEntry struct {
	ModifiedAt      time.Time
	PreviousRange   daterange.DateRange
	NewRange        daterange.DateRange
	PriceDifference int64
}

type Booking struct {
	ID            BookingID
	Reference     string
	RoomID        room.RoomID
	GuestID       string
	Range         daterange.DateRange
	Guests        GuestCount
	Price         pricing.Breakdown
	Payment       PaymentInfo
	State         State
	Cancellation  *CancellationInfo
	Modifications []ModificationEntry
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Version       int64
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id BookingID) (*Booking, error)
	Save(ctx context.Context, booking *Booking) error
	ListByGuest(ctx context.Context, guestID string) ([]*Booking, error)
}

type CreateParams struct {
	ID            BookingID
	Reference     string
	RoomID        room.RoomID
	GuestID       string
	Range         daterange.DateRange
	Guests        GuestCount
	Price         pricing.Breakdown
	PaymentMethod string
	TransactionID string
	CreatedAt     time.Time
}

func NewBooking(params CreateParams) (*Booking, error) {
	if params.Guests.Adults <= 0 || params.Guests.Children < 0 {
		return nil, ErrInvalidGuests
	}
	if params.GuestID == "" {
		return nil, ErrGuestIDRequired
	}
	now := params.CreatedAt.UTC()
	payment := PaymentInfo{
		Method:        params.PaymentMethod,
		Status:        PaymentStatusCompleted,
		TransactionID: params.TransactionID,
	}
	if params.PaymentMethod == PaymentManual {
		payment.Status = PaymentStatusPending
	}
	return &Booking{
		ID:        params.ID,
		Reference: params.Reference,
		RoomID:    params.RoomID,
		GuestID:   params.GuestID,
		Range:     params.Range,
		Guests:    params.Guests,
		Price:     params.Price,
		Payment:   payment,
		State:     StatePending,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (b *Booking) Confirm(now time.Time) error {
	if b.State != StatePending {
		return ErrInvalidState
	}
	b.State = StateConfirmed
	b.UpdatedAt = now.UTC()
	b.Record(BookingConfirmed{
		BookingID: b.ID,
		RoomID:    b.RoomID,
		GuestID:   b.GuestID,
		Range:     b.Range,
		Total:     b.Price.Total,
		At:        b.UpdatedAt,
	})
	return nil
}

func (b *Booking) Cancel(refundAmount int64, refundPercent int, reason string, now time.Time) error {
	switch b.State {
	case StateCancelled:
		return ErrAlreadyCancelled
	case StateConfirmed:
	default:
		return ErrInvalidState
	}
	now = now.UTC()
	b.State = StateCancelled
	b.Cancellation = &CancellationInfo{
		CancelledAt:   now,
		Reason:        reason,
		RefundAmount:  refundAmount,
		RefundPercent: refundPercent,
	}
	b.Payment.RefundAmount = refundAmount
	if refundAmount > 0 {
		b.Payment.Status = PaymentStatusRefunded
	} else {
		b.Payment.Status = PaymentStatusCancelled
	}
	b.UpdatedAt = now
	b.Record(BookingCancelled{
		BookingID:     b.ID,
		RoomID:        b.RoomID,
		GuestID:       b.GuestID,
		RefundAmount:  refundAmount,
		RefundPercent: refundPercent,
		Reason:        reason,
		At:            now,
	})
	return nil
}

// Reschedule re-enters the confirmed state with new dates and price and
// appends to the modification history.
func (b *Booking) Reschedule(newRange daterange.DateRange, newPrice pricing.Breakdown, now time.Time) error {
	if b.State == StateCancelled {
		return ErrAlreadyCancelled
	}
	if b.State != StateConfirmed {
		return ErrInvalidState
	}
	now = now.UTC()
	diff := newPrice.Total - b.Price.Total
	b.Modifications = append(b.Modifications, ModificationEntry{
		ModifiedAt:      now,
		PreviousRange:   b.Range,
		NewRange:        newRange,
		PriceDifference: diff,
	})
	prev := b.Range
	b.Range = newRange
	b.Price = newPrice
	b.UpdatedAt = now
	b.Record(BookingRescheduled{
		BookingID:       b.ID,
		RoomID:          b.RoomID,
		GuestID:         b.GuestID,
		PreviousRange:   prev,
		NewRange:        newRange,
		PriceDifference: diff,
		At:              now,
	})
	return nil
}
