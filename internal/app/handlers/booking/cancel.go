package booking

import (
	"context"
	"log/slog"
	"time"

	"stayhub/internal/app/commands"
	"stayhub/internal/app/middleware"
	"stayhub/internal/app/outbox"
	"stayhub/internal/app/policies"
	"stayhub/internal/app/uow"
	domainbooking "stayhub/internal/domain/booking"
)

const cancelBookingKey = "booking.cancel"

type CancelBookingCommand struct {
	BookingID string
	GuestID   string
	Reason    string
}

func (c CancelBookingCommand) Key() string { return cancelBookingKey }

func (c CancelBookingCommand) Validate() error {
	if c.BookingID == "" {
		return domainbooking.ErrBookingNotFound
	}
	if c.GuestID == "" {
		return domainbooking.ErrGuestIDRequired
	}
	return nil
}

type CancelBookingResult struct {
	BookingID     string `json:"booking_id"`
	RefundAmount  int64  `json:"refund_amount"`
	RefundPercent int    `json:"refund_percent"`
}

type CancelBookingHandler struct {
	UoWFactory  uow.Factory
	Ledger      domainbooking.Ledger
	Outbox      outbox.Outbox
	Encoder     outbox.EventEncoder
	Loyalty     policies.Loyalty
	Clawback    policies.ClawbackPolicy
	Logger      *slog.Logger
	MaxAttempts int
	Now         func() time.Time
}

func (h *CancelBookingHandler) Handle(ctx context.Context, cmd CancelBookingCommand) (*CancelBookingResult, error) {
	type cancelled struct {
		result *CancelBookingResult
		debit  int64
		spent  int64
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

		outcome, err := h.Ledger.Cancel(b, rm, cmd.Reason, h.now())
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

		return cancelled{
			result: &CancelBookingResult{
				BookingID:     string(b.ID),
				RefundAmount:  outcome.RefundAmount,
				RefundPercent: outcome.RefundPercent,
			},
			debit: h.clawback().PointsToDebit(b),
			spent: b.Price.Total,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	out := res.(cancelled)

	if h.Loyalty != nil && out.debit > 0 {
		if err := h.Loyalty.DebitPoints(ctx, cmd.GuestID, out.debit, out.spent); err != nil {
			h.logger().Warn("loyalty clawback failed", "guest_id", cmd.GuestID, "booking_id", cmd.BookingID, "error", err)
		}
	}
	return out.result, nil
}

func (h *CancelBookingHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

func (h *CancelBookingHandler) clawback() policies.ClawbackPolicy {
	if h.Clawback != nil {
		return h.Clawback
	}
	return policies.EarnedPointsClawback{}
}

func (h *CancelBookingHandler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *CancelBookingHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now().UTC()
}

var _ commands.Handler[CancelBookingCommand, *CancelBookingResult] = (*CancelBookingHandler)(nil)
var _ middleware.SelfValidating = (*CancelBookingCommand)(nil)
