package booking

import (
	"context"
	"time"

	"stayhub/internal/app/commands"
	"stayhub/internal/app/middleware"
	"stayhub/internal/app/outbox"
	"stayhub/internal/app/uow"
	domainbooking "stayhub/internal/domain/booking"
	domainrange "stayhub/internal/domain/shared/daterange"
)

const modifyBookingKey = "booking.modify"

type ModifyBookingCommand struct {
	BookingID   string
	GuestID     string
	NewCheckIn  time.Time
	NewCheckOut time.Time
}

func (c ModifyBookingCommand) Key() string { return modifyBookingKey }

func (c ModifyBookingCommand) Validate() error {
	if c.BookingID == "" {
		return domainbooking.ErrBookingNotFound
	}
	if c.GuestID == "" {
		return domainbooking.ErrGuestIDRequired
	}
	return nil
}

type ModifyBookingResult struct {
	BookingID       string    `json:"booking_id"`
	NewCheckIn      time.Time `json:"new_check_in"`
	NewCheckOut     time.Time `json:"new_check_out"`
	NewTotalAmount  int64     `json:"new_total_amount"`
	PriceDifference int64     `json:"price_difference"`
	PaymentRequired bool      `json:"payment_required"`
	RefundDue       bool      `json:"refund_due"`
}

type ModifyBookingHandler struct {
	UoWFactory  uow.Factory
	Ledger      domainbooking.Ledger
	Outbox      outbox.Outbox
	Encoder     outbox.EventEncoder
	MaxAttempts int
	Now         func() time.Time
}

func (h *ModifyBookingHandler) Handle(ctx context.Context, cmd ModifyBookingCommand) (*ModifyBookingResult, error) {
	newRange, err := domainrange.New(cmd.NewCheckIn, cmd.NewCheckOut)
	if err != nil {
		return nil, err
	}

	res, err := runAtomically(ctx, h.UoWFactory, h.MaxAttempts, func(ctx context.Context, unit uow.UnitOfWork) (any, error) {
		b, err := unit.Bookings().ByID(ctx, domainbooking.BookingID(cmd.BookingID))
		if err != nil {
			return nil, err
		}
		if b.GuestID != cmd.GuestID {
			return nil, domainbooking.ErrNotBookingGuest
		}
		rm, err := unit.Rooms().ByID(ctx, b.RoomID)
		if err != nil {
			return nil, err
		}

		outcome, err := h.Ledger.Modify(b, rm, newRange, h.now())
		if err != nil {
			return nil, err
		}

		if err := unit.Bookings().Save(ctx, b); err != nil {
			return nil, err
		}
		if err := unit.Rooms().Save(ctx, rm); err != nil {
			return nil, err
		}

		pending := b.PendingEvents()
		b.ClearEvents()
		if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.encoder(), pending); err != nil {
			return nil, err
		}

		return &ModifyBookingResult{
			BookingID:       string(b.ID),
			NewCheckIn:      b.Range.CheckIn,
			NewCheckOut:     b.Range.CheckOut,
			NewTotalAmount:  outcome.NewTotal,
			PriceDifference: outcome.PriceDifference,
			PaymentRequired: outcome.PriceDifference > 0,
			RefundDue:       outcome.PriceDifference < 0,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*ModifyBookingResult), nil
}

func (h *ModifyBookingHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

func (h *ModifyBookingHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now().UTC()
}

var _ commands.Handler[ModifyBookingCommand, *ModifyBookingResult] = (*ModifyBookingHandler)(nil)
var _ middleware.SelfValidating = (*ModifyBookingCommand)(nil)
