package uow

import (
	"context"
	"errors"

	domainbooking "stayhub/internal/domain/booking"
	domainroom "stayhub/internal/domain/room"
)

// ErrConcurrentUpdate is returned by repositories (wrapped) when a versioned
// write lost a race. Handlers retry a bounded number of times by re-reading
// state inside a fresh transaction.
var ErrConcurrentUpdate = errors.New("uow: concurrent update detected")

// UnitOfWork coordinates repositories inside one transaction boundary. The
// dual write a reserve/cancel/modify performs (booking plus its mirrored
// room record) commits atomically or not at all.
type UnitOfWork interface {
	Rooms() domainroom.Repository
	Bookings() domainbooking.Repository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Factory starts unit of work instances.
type Factory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

// TxOptions configure transaction boundaries.
type TxOptions struct {
	ReadOnly bool
}
