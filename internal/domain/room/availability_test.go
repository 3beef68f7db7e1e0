package room

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayhub/internal/domain/shared/daterange"
)

func day(d int) time.Time {
	return time.Date(2026, time.March, d, 0, 0, 0, 0, time.UTC)
}

func mustRange(t *testing.T, from, to int) daterange.DateRange {
	t.Helper()
	dr, err := daterange.New(day(from), day(to))
	require.NoError(t, err)
	return dr
}

func record(t *testing.T, id string, from, to int, status ReservationStatus) ReservationRecord {
	t.Helper()
	return ReservationRecord{
		ID:        id,
		BookingID: "bk-" + id,
		Range:     mustRange(t, from, to),
		Status:    status,
	}
}

func TestFindConflicts(t *testing.T) {
	records := []ReservationRecord{
		record(t, "r1", 1, 5, ReservationConfirmed),
		record(t, "r2", 10, 15, ReservationConfirmed),
	}

	conflicts := FindConflicts(records, mustRange(t, 4, 9))
	require.Len(t, conflicts, 1)
	assert.Equal(t, "r1", conflicts[0].ID)

	assert.Empty(t, FindConflicts(records, mustRange(t, 5, 10)), "adjacent ranges never conflict")
	assert.Empty(t, FindConflicts(records, mustRange(t, 20, 25)))
}

func TestFindConflictsSkipsCancelled(t *testing.T) {
	records := []ReservationRecord{
		record(t, "r1", 1, 5, ReservationCancelled),
	}
	assert.Empty(t, FindConflicts(records, mustRange(t, 1, 5)))
}

func TestConflictsExcludingOwnBooking(t *testing.T) {
	rm, err := New("room-1", "Deluxe King", 2000, day(1))
	require.NoError(t, err)
	rm.AddReservation(record(t, "r1", 10, 13, ReservationConfirmed))
	rm.AddReservation(record(t, "r2", 20, 23, ReservationConfirmed))

	// A booking moving its own dates must not collide with itself.
	assert.Empty(t, rm.ConflictsExcluding("bk-r1", mustRange(t, 11, 14)))

	conflicts := rm.ConflictsExcluding("bk-r1", mustRange(t, 21, 24))
	require.Len(t, conflicts, 1)
	assert.Equal(t, "r2", conflicts[0].ID)
}

func TestCancelReservationKeepsRecord(t *testing.T) {
	rm, err := New("room-1", "Deluxe King", 2000, day(1))
	require.NoError(t, err)
	rm.AddReservation(record(t, "r1", 10, 13, ReservationConfirmed))

	require.NoError(t, rm.CancelReservation("bk-r1", day(2)))
	assert.Len(t, rm.Reservations, 1, "cancelled records are kept for audit")
	assert.Equal(t, ReservationCancelled, rm.Reservations[0].Status)
	assert.Empty(t, rm.ConfirmedReservations())

	assert.ErrorIs(t, rm.CancelReservation("bk-r1", day(2)), ErrReservationNotFound)
}
