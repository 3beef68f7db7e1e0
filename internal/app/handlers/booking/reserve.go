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
	domainpricing "stayhub/internal/domain/pricing"
	domainroom "stayhub/internal/domain/room"
	domainrange "stayhub/internal/domain/shared/daterange"
)

const reserveBookingKey = "booking.reserve"

type ReserveBookingCommand struct {
	CommandID       string
	RoomID          string
	GuestID         string
	CheckIn         time.Time
	CheckOut        time.Time
	Adults          int
	Children        int
	AddOns          []domainpricing.AddOn
	ClientTotal     int64
	PaymentMethod   string
	TransactionID   string
	IdempotencyKeyV string
}

func (c ReserveBookingCommand) Key() string { return reserveBookingKey }

func (c ReserveBookingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c ReserveBookingCommand) ResultPrototype() any { return &ReserveBookingResult{} }

func (c ReserveBookingCommand) Validate() error {
	if c.RoomID == "" {
		return domainroom.ErrRoomNotFound
	}
	if c.GuestID == "" {
		return domainbooking.ErrGuestIDRequired
	}
	if c.Adults <= 0 || c.Children < 0 {
		return domainbooking.ErrInvalidGuests
	}
	return nil
}

type ReserveBookingResult struct {
	BookingID           string    `json:"booking_id"`
	Reference           string    `json:"reference"`
	Status              string    `json:"status"`
	CheckIn             time.Time `json:"check_in"`
	CheckOut            time.Time `json:"check_out"`
	TotalAmount         int64     `json:"total_amount"`
	LoyaltyPointsEarned int64     `json:"loyalty_points_earned"`
}

type ReserveBookingHandler struct {
	UoWFactory  uow.Factory
	Ledger      domainbooking.Ledger
	Outbox      outbox.Outbox
	Encoder     outbox.EventEncoder
	Loyalty     policies.Loyalty
	IDGenerator func() string
	Logger      *slog.Logger
	MaxAttempts int
	Now         func() time.Time
}

func (h *ReserveBookingHandler) Handle(ctx context.Context, cmd ReserveBookingCommand) (*ReserveBookingResult, error) {
	dr, err := domainrange.New(cmd.CheckIn, cmd.CheckOut)
	if err != nil {
		return nil, err
	}

	res, err := runAtomically(ctx, h.UoWFactory, h.MaxAttempts, func(ctx context.Context, unit uow.UnitOfWork) (any, error) {
		rm, err := unit.Rooms().ByID(ctx, domainroom.RoomID(cmd.RoomID))
		if err != nil {
			return nil, err
		}

		now := h.now()
		b, err := h.Ledger.Reserve(rm, domainbooking.ReserveParams{
			BookingID:     domainbooking.BookingID(cmd.CommandID),
			ReservationID: h.idGen()(),
			Reference:     bookingReference(h.idGen()),
			GuestID:       cmd.GuestID,
			Range:         dr,
			Guests:        domainbooking.GuestCount{Adults: cmd.Adults, Children: cmd.Children},
			AddOns:        cmd.AddOns,
			ClientTotal:   cmd.ClientTotal,
			PaymentMethod: cmd.PaymentMethod,
			TransactionID: cmd.TransactionID,
		}, now)
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

		return &ReserveBookingResult{
			BookingID:           string(b.ID),
			Reference:           b.Reference,
			Status:              string(b.State),
			CheckIn:             b.Range.CheckIn,
			CheckOut:            b.Range.CheckOut,
			TotalAmount:         b.Price.Total,
			LoyaltyPointsEarned: policies.PointsEarned(b.Price.Total),
		}, nil
	})
	if err != nil {
		return nil, err
	}
	result := res.(*ReserveBookingResult)

	// Loyalty credit happens after the booking is durable; a failure here is
	// a reconciliation item, not a booking failure.
	if h.Loyalty != nil {
		if err := h.Loyalty.CreditPoints(ctx, cmd.GuestID, result.LoyaltyPointsEarned, result.TotalAmount); err != nil {
			h.logger().Warn("loyalty credit failed", "guest_id", cmd.GuestID, "booking_id", result.BookingID, "error", err)
		}
	}
	return result, nil
}

func (h *ReserveBookingHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

func (h *ReserveBookingHandler) idGen() func() string {
	if h.IDGenerator != nil {
		return h.IDGenerator
	}
	return defaultIDGenerator
}

func (h *ReserveBookingHandler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *ReserveBookingHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now().UTC()
}

var _ commands.Handler[ReserveBookingCommand, *ReserveBookingResult] = (*ReserveBookingHandler)(nil)
var _ middleware.IdempotentCommand = (*ReserveBookingCommand)(nil)
var _ middleware.SelfValidating = (*ReserveBookingCommand)(nil)
