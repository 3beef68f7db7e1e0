package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayhub/internal/app/uow"
	domainbooking "stayhub/internal/domain/booking"
	domainroom "stayhub/internal/domain/room"
	"stayhub/internal/infra/storage/memory"
)

var testNow = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

func day(d int) time.Time {
	return time.Date(2026, time.March, d, 0, 0, 0, 0, time.UTC)
}

func seedRoom(t *testing.T, store *memory.Store) *domainroom.Room {
	t.Helper()
	rm, err := domainroom.New("room-1", "Deluxe King", 2000, testNow)
	require.NoError(t, err)
	store.SeedRoom(rm)
	return rm
}

func newReserveHandler(store *memory.Store, outbox *memory.OutboxStore, loyalty *memory.LoyaltyStore) *ReserveBookingHandler {
	h := &ReserveBookingHandler{
		UoWFactory: memory.Factory{Store: store},
		Ledger:     domainbooking.NewLedger(),
		Outbox:     outbox,
		Now:        func() time.Time { return testNow },
	}
	if loyalty != nil {
		h.Loyalty = loyalty
	}
	return h
}

func reserveCommand(id string, from, to int) ReserveBookingCommand {
	return ReserveBookingCommand{
		CommandID: id,
		RoomID:    "room-1",
		GuestID:   "guest-1",
		CheckIn:   day(from),
		CheckOut:  day(to),
		Adults:    2,
	}
}

func TestReserveHandlerPersistsBookingAndOutboxEvent(t *testing.T) {
	store := memory.NewStore()
	outbox := memory.NewOutboxStore()
	loyalty := memory.NewLoyaltyStore()
	seedRoom(t, store)
	h := newReserveHandler(store, outbox, loyalty)

	result, err := h.Handle(context.Background(), reserveCommand("bk-1", 10, 13))
	require.NoError(t, err)

	assert.Equal(t, "bk-1", result.BookingID)
	assert.Equal(t, string(domainbooking.StateConfirmed), result.Status)
	assert.Equal(t, int64(7380), result.TotalAmount)
	assert.Equal(t, int64(73), result.LoyaltyPointsEarned)
	assert.NotEmpty(t, result.Reference)

	assert.Len(t, outbox.Pending(), 1, "confirmation event staged for delivery")
	profile := loyalty.Profile("guest-1")
	assert.Equal(t, int64(73), profile.Points)
	assert.Equal(t, int64(7380), profile.TotalSpent)
}

func TestReserveHandlerRejectsUnknownRoom(t *testing.T) {
	store := memory.NewStore()
	h := newReserveHandler(store, memory.NewOutboxStore(), nil)

	_, err := h.Handle(context.Background(), reserveCommand("bk-1", 10, 13))
	assert.ErrorIs(t, err, domainroom.ErrRoomNotFound)
}

func TestReserveHandlerDoubleBookingRace(t *testing.T) {
	store := memory.NewStore()
	outbox := memory.NewOutboxStore()
	seedRoom(t, store)
	h := newReserveHandler(store, outbox, nil)

	start := make(chan struct{})
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			cmd := reserveCommand("bk-race-"+string(rune('a'+i)), 10, 13)
			_, errs[i] = h.Handle(context.Background(), cmd)
		}(i)
	}
	close(start)
	wg.Wait()

	var successes, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		default:
			var conflict *domainbooking.ConflictError
			require.True(t, errors.As(err, &conflict), "unexpected error: %v", err)
			conflicts++
		}
	}
	assert.Equal(t, 1, successes, "exactly one racing reserve may win")
	assert.Equal(t, 1, conflicts)

	unit, err := memory.Factory{Store: store}.Begin(context.Background(), uow.TxOptions{ReadOnly: true})
	require.NoError(t, err)
	defer unit.Rollback(context.Background())
	rm, err := unit.Rooms().ByID(context.Background(), "room-1")
	require.NoError(t, err)
	assert.Len(t, rm.ConfirmedReservations(), 1)
}
