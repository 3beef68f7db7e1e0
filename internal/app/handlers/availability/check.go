package availability

import (
	"context"
	"time"

	"stayhub/internal/app/dto"
	"stayhub/internal/app/queries"
	"stayhub/internal/app/uow"
	domainroom "stayhub/internal/domain/room"
	domainrange "stayhub/internal/domain/shared/daterange"
)

const checkAvailabilityKey = "availability.check"

type CheckAvailabilityQuery struct {
	RoomID   string
	CheckIn  time.Time
	CheckOut time.Time
}

func (q CheckAvailabilityQuery) Key() string { return checkAvailabilityKey }

// CheckAvailabilityHandler answers "is this room free for these dates" from
// the room's live reservation state. Purely advisory: the authoritative
// conflict check re-runs inside the reserve transaction.
type CheckAvailabilityHandler struct {
	UoWFactory uow.Factory
	Checker    domainroom.Checker
}

func (h *CheckAvailabilityHandler) Handle(ctx context.Context, q CheckAvailabilityQuery) (dto.Availability, error) {
	dr, err := domainrange.New(q.CheckIn, q.CheckOut)
	if err != nil {
		return dto.Availability{}, err
	}

	unit, ok := uow.FromContext(ctx)
	if !ok {
		if h.UoWFactory == nil {
			return dto.Availability{}, uow.ErrUnitOfWorkMissing
		}
		unit, err = h.UoWFactory.Begin(ctx, uow.TxOptions{ReadOnly: true})
		if err != nil {
			return dto.Availability{}, err
		}
		ctx = uow.ContextWithUnitOfWork(ctx, unit)
		defer unit.Rollback(ctx)
	}

	rm, err := unit.Rooms().ByID(ctx, domainroom.RoomID(q.RoomID))
	if err != nil {
		return dto.Availability{}, err
	}
	conflicts := h.checker()(rm.Reservations, dr)
	return dto.MapAvailability(q.RoomID, conflicts), nil
}

func (h *CheckAvailabilityHandler) checker() domainroom.Checker {
	if h.Checker != nil {
		return h.Checker
	}
	return domainroom.FindConflicts
}

var _ queries.Handler[CheckAvailabilityQuery, dto.Availability] = (*CheckAvailabilityHandler)(nil)
