package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayhub/internal/app/uow"
	domainroom "stayhub/internal/domain/room"
	"stayhub/internal/domain/shared/daterange"
)

func seedTestRoom(t *testing.T, store *Store) {
	t.Helper()
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	rm, err := domainroom.New("room-1", "Deluxe King", 2000, now)
	require.NoError(t, err)
	store.SeedRoom(rm)
}

func TestCommitAppliesStagedWrites(t *testing.T) {
	store := NewStore()
	seedTestRoom(t, store)
	factory := Factory{Store: store}
	ctx := context.Background()

	unit, err := factory.Begin(ctx, uow.TxOptions{})
	require.NoError(t, err)
	rm, err := unit.Rooms().ByID(ctx, "room-1")
	require.NoError(t, err)
	rm.Name = "Renamed"
	require.NoError(t, unit.Rooms().Save(ctx, rm))
	require.NoError(t, unit.Commit(ctx))

	check, err := factory.Begin(ctx, uow.TxOptions{ReadOnly: true})
	require.NoError(t, err)
	defer check.Rollback(ctx)
	got, err := check.Rooms().ByID(ctx, "room-1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, int64(2), got.Version)
}

func TestRollbackDiscardsStagedWrites(t *testing.T) {
	store := NewStore()
	seedTestRoom(t, store)
	factory := Factory{Store: store}
	ctx := context.Background()

	unit, err := factory.Begin(ctx, uow.TxOptions{})
	require.NoError(t, err)
	rm, err := unit.Rooms().ByID(ctx, "room-1")
	require.NoError(t, err)
	rm.IsActive = false
	require.NoError(t, unit.Rooms().Save(ctx, rm))
	require.NoError(t, unit.Rollback(ctx))

	check, err := factory.Begin(ctx, uow.TxOptions{ReadOnly: true})
	require.NoError(t, err)
	defer check.Rollback(ctx)
	got, err := check.Rooms().ByID(ctx, "room-1")
	require.NoError(t, err)
	assert.True(t, got.IsActive)
}

func TestCommitDetectsStaleVersion(t *testing.T) {
	store := NewStore()
	seedTestRoom(t, store)
	factory := Factory{Store: store}
	ctx := context.Background()

	first, err := factory.Begin(ctx, uow.TxOptions{})
	require.NoError(t, err)
	second, err := factory.Begin(ctx, uow.TxOptions{})
	require.NoError(t, err)

	dr, err := daterange.New(
		time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.March, 13, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)

	for i, unit := range []uow.UnitOfWork{first, second} {
		rm, err := unit.Rooms().ByID(ctx, "room-1")
		require.NoError(t, err)
		rm.AddReservation(domainroom.ReservationRecord{
			ID:        "res-" + string(rune('a'+i)),
			BookingID: "bk-" + string(rune('a'+i)),
			Range:     dr,
		})
		require.NoError(t, unit.Rooms().Save(ctx, rm))
	}

	require.NoError(t, first.Commit(ctx))
	err = second.Commit(ctx)
	assert.ErrorIs(t, err, uow.ErrConcurrentUpdate)

	check, err := factory.Begin(ctx, uow.TxOptions{ReadOnly: true})
	require.NoError(t, err)
	defer check.Rollback(ctx)
	got, err := check.Rooms().ByID(ctx, "room-1")
	require.NoError(t, err)
	assert.Len(t, got.Reservations, 1, "losing unit's write never landed")
}

func TestByIDReturnsIsolatedClone(t *testing.T) {
	store := NewStore()
	seedTestRoom(t, store)
	factory := Factory{Store: store}
	ctx := context.Background()

	unit, err := factory.Begin(ctx, uow.TxOptions{})
	require.NoError(t, err)
	rm, err := unit.Rooms().ByID(ctx, "room-1")
	require.NoError(t, err)
	rm.Name = "scribbled"
	require.NoError(t, unit.Rollback(ctx))

	check, err := factory.Begin(ctx, uow.TxOptions{ReadOnly: true})
	require.NoError(t, err)
	defer check.Rollback(ctx)
	got, err := check.Rooms().ByID(ctx, "room-1")
	require.NoError(t, err)
	assert.Equal(t, "Deluxe King", got.Name, "mutating a loaded aggregate must not leak before commit")
}
