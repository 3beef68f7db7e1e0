package booking

import (
	"context"
	"errors"
	"fmt"

	"stayhub/internal/app/uow"
)

var (
	ErrUnitOfWorkRequired = errors.New("booking: unit of work required")

	// ErrConcurrencyExhausted is the fatal outcome after bounded retries of
	// transient write contention. Genuine date conflicts surface as
	// ConflictError before any write is attempted.
	ErrConcurrencyExhausted = errors.New("booking: write contention persisted, request not applied")
)

const defaultMaxAttempts = 3

type unitFn func(ctx context.Context, unit uow.UnitOfWork) (any, error)

// runAtomically executes fn inside a unit of work. When the caller already
// carries a unit in context it is reused and the caller owns the commit.
// Otherwise each attempt gets a fresh transaction; lost-update errors are
// retried with freshly read state, every other error returns immediately.
func runAtomically(ctx context.Context, factory uow.Factory, maxAttempts int, fn unitFn) (any, error) {
	if unit, ok := uow.FromContext(ctx); ok {
		return fn(ctx, unit)
	}
	if factory == nil {
		return nil, ErrUnitOfWorkRequired
	}
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		res, err := runOnce(ctx, factory, fn)
		if err == nil {
			return res, nil
		}
		if !errors.Is(err, uow.ErrConcurrentUpdate) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("%w: %v", ErrConcurrencyExhausted, lastErr)
}

func runOnce(ctx context.Context, factory uow.Factory, fn unitFn) (_ any, err error) {
	unit, err := factory.Begin(ctx, uow.TxOptions{})
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = unit.Rollback(ctx)
		}
	}()

	execCtx := ctx
	if injector, ok := unit.(interface {
		InjectContext(context.Context) context.Context
	}); ok {
		execCtx = injector.InjectContext(execCtx)
	}
	execCtx = uow.ContextWithUnitOfWork(execCtx, unit)

	res, err := fn(execCtx, unit)
	if err != nil {
		return nil, err
	}
	if err := unit.Commit(execCtx); err != nil {
		return nil, err
	}
	committed = true
	return res, nil
}
