package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainroom "stayhub/internal/domain/room"
	"stayhub/internal/domain/shared/daterange"
	"stayhub/internal/infra/storage/memory"
)

func day(d int) time.Time {
	return time.Date(2026, time.March, d, 0, 0, 0, 0, time.UTC)
}

func TestCheckAvailability(t *testing.T) {
	store := memory.NewStore()
	rm, err := domainroom.New("room-1", "Deluxe King", 2000, day(1))
	require.NoError(t, err)
	dr, err := daterange.New(day(10), day(13))
	require.NoError(t, err)
	rm.AddReservation(domainroom.ReservationRecord{
		ID:        "res-1",
		BookingID: "bk-1",
		Range:     dr,
		Status:    domainroom.ReservationConfirmed,
	})
	store.SeedRoom(rm)

	h := &CheckAvailabilityHandler{UoWFactory: memory.Factory{Store: store}}

	free, err := h.Handle(context.Background(), CheckAvailabilityQuery{
		RoomID:   "room-1",
		CheckIn:  day(13),
		CheckOut: day(16),
	})
	require.NoError(t, err)
	assert.True(t, free.Available, "back-to-back with an existing stay")
	assert.Empty(t, free.Conflicts)

	busy, err := h.Handle(context.Background(), CheckAvailabilityQuery{
		RoomID:   "room-1",
		CheckIn:  day(12),
		CheckOut: day(15),
	})
	require.NoError(t, err)
	assert.False(t, busy.Available)
	require.Len(t, busy.Conflicts, 1)
}

func TestCheckAvailabilityUnknownRoom(t *testing.T) {
	h := &CheckAvailabilityHandler{UoWFactory: memory.Factory{Store: memory.NewStore()}}
	_, err := h.Handle(context.Background(), CheckAvailabilityQuery{
		RoomID:   "missing",
		CheckIn:  day(10),
		CheckOut: day(12),
	})
	assert.ErrorIs(t, err, domainroom.ErrRoomNotFound)
}

func TestCheckAvailabilityRejectsInvalidRange(t *testing.T) {
	h := &CheckAvailabilityHandler{UoWFactory: memory.Factory{Store: memory.NewStore()}}
	_, err := h.Handle(context.Background(), CheckAvailabilityQuery{
		RoomID:   "room-1",
		CheckIn:  day(13),
		CheckOut: day(10),
	})
	assert.ErrorIs(t, err, daterange.ErrInvalidRange)
}
