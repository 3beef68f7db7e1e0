package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayhub/internal/domain/room"
	"stayhub/internal/domain/shared/daterange"
)

var testNow = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

func day(d int) time.Time {
	return time.Date(2026, time.March, d, 0, 0, 0, 0, time.UTC)
}

func mustRange(t *testing.T, from, to int) daterange.DateRange {
	t.Helper()
	dr, err := daterange.New(day(from), day(to))
	require.NoError(t, err)
	return dr
}

func testRoom(t *testing.T) *room.Room {
	t.Helper()
	rm, err := room.New("room-1", "Deluxe King", 2000, testNow)
	require.NoError(t, err)
	return rm
}

func reserveParams(t *testing.T, id string, from, to int) ReserveParams {
	t.Helper()
	return ReserveParams{
		BookingID:     BookingID(id),
		ReservationID: "res-" + id,
		Reference:     "BK" + id,
		GuestID:       "guest-1",
		Range:         mustRange(t, from, to),
		Guests:        GuestCount{Adults: 2},
	}
}

func TestReserveConfirmsBookingAndMirrorsRecord(t *testing.T) {
	ledger := NewLedger()
	rm := testRoom(t)

	b, err := ledger.Reserve(rm, reserveParams(t, "bk-1", 10, 13), testNow)
	require.NoError(t, err)

	assert.Equal(t, StateConfirmed, b.State)
	assert.Equal(t, int64(7380), b.Price.Total)
	require.Len(t, rm.Reservations, 1)
	assert.Equal(t, "bk-1", rm.Reservations[0].BookingID)
	assert.Equal(t, room.ReservationConfirmed, rm.Reservations[0].Status)

	events := b.PendingEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "booking.confirmed", events[0].EventName())
}

func TestReserveRejectsInactiveRoom(t *testing.T) {
	ledger := NewLedger()
	rm := testRoom(t)
	rm.IsActive = false

	_, err := ledger.Reserve(rm, reserveParams(t, "bk-1", 10, 13), testNow)
	assert.ErrorIs(t, err, room.ErrInactive)
	assert.Empty(t, rm.Reservations)
}

func TestReserveRejectsPastCheckIn(t *testing.T) {
	ledger := NewLedger()
	rm := testRoom(t)

	p := reserveParams(t, "bk-1", 10, 13)
	_, err := ledger.Reserve(rm, p, day(20))
	assert.ErrorIs(t, err, ErrCheckInInPast)
}

func TestReserveConflictCarriesExistingRecords(t *testing.T) {
	ledger := NewLedger()
	rm := testRoom(t)

	_, err := ledger.Reserve(rm, reserveParams(t, "bk-1", 10, 13), testNow)
	require.NoError(t, err)

	_, err = ledger.Reserve(rm, reserveParams(t, "bk-2", 12, 15), testNow)
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	require.Len(t, conflict.Conflicts, 1)
	assert.Equal(t, "bk-1", conflict.Conflicts[0].BookingID)
	assert.Len(t, rm.Reservations, 1, "failed reserve must not add a record")
}

func TestReserveRoundTripSeesOwnRecordAsConflict(t *testing.T) {
	ledger := NewLedger()
	rm := testRoom(t)

	b, err := ledger.Reserve(rm, reserveParams(t, "bk-1", 10, 13), testNow)
	require.NoError(t, err)

	conflicts := rm.Conflicts(mustRange(t, 10, 13))
	require.Len(t, conflicts, 1)
	assert.Equal(t, string(b.ID), conflicts[0].BookingID)
}

func TestReserveAllowsBackToBackStays(t *testing.T) {
	ledger := NewLedger()
	rm := testRoom(t)

	_, err := ledger.Reserve(rm, reserveParams(t, "bk-1", 10, 13), testNow)
	require.NoError(t, err)

	_, err = ledger.Reserve(rm, reserveParams(t, "bk-2", 13, 16), testNow)
	require.NoError(t, err)
	assert.Len(t, rm.Reservations, 2)
}

func TestReserveValidatesClientTotal(t *testing.T) {
	ledger := NewLedger()
	rm := testRoom(t)

	p := reserveParams(t, "bk-1", 10, 13)
	p.ClientTotal = 7380
	_, err := ledger.Reserve(rm, p, testNow)
	require.NoError(t, err)

	rm2 := testRoom(t)
	p2 := reserveParams(t, "bk-2", 10, 13)
	p2.ClientTotal = 5000
	_, err = ledger.Reserve(rm2, p2, testNow)
	var mismatch *PriceMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, int64(7380), mismatch.Expected)
	assert.Equal(t, int64(5000), mismatch.Received)
}

func TestCancelAppliesRefundTiers(t *testing.T) {
	ledger := NewLedger()
	rm := testRoom(t)
	b, err := ledger.Reserve(rm, reserveParams(t, "bk-1", 10, 13), testNow)
	require.NoError(t, err)

	// 60 hours before check-in lands in the 75% tier.
	now := day(10).Add(-60 * time.Hour)
	out, err := ledger.Cancel(b, rm, "change of plans", now)
	require.NoError(t, err)

	assert.Equal(t, 75, out.RefundPercent)
	assert.Equal(t, int64(5535), out.RefundAmount)
	assert.Equal(t, StateCancelled, b.State)
	require.NotNil(t, b.Cancellation)
	assert.Equal(t, "change of plans", b.Cancellation.Reason)
	assert.Empty(t, rm.ConfirmedReservations())
}

func TestCancelBlockedInsideMinimumNotice(t *testing.T) {
	ledger := NewLedger()
	rm := testRoom(t)
	b, err := ledger.Reserve(rm, reserveParams(t, "bk-1", 10, 13), testNow)
	require.NoError(t, err)

	now := day(10).Add(-10 * time.Hour)
	_, err = ledger.Cancel(b, rm, "too late", now)
	var window *CancellationWindowError
	require.ErrorAs(t, err, &window)
	assert.InDelta(t, 10, window.HoursUntilCheckIn, 0.01)
	assert.Equal(t, StateConfirmed, b.State)
}

func TestCancelTwiceFails(t *testing.T) {
	ledger := NewLedger()
	rm := testRoom(t)
	b, err := ledger.Reserve(rm, reserveParams(t, "bk-1", 10, 13), testNow)
	require.NoError(t, err)

	_, err = ledger.Cancel(b, rm, "first", testNow)
	require.NoError(t, err)
	_, err = ledger.Cancel(b, rm, "second", testNow)
	assert.ErrorIs(t, err, ErrAlreadyCancelled)
}

func TestCancelFreesDatesForRebooking(t *testing.T) {
	ledger := NewLedger()
	rm := testRoom(t)
	b, err := ledger.Reserve(rm, reserveParams(t, "bk-1", 10, 13), testNow)
	require.NoError(t, err)

	_, err = ledger.Cancel(b, rm, "freed", testNow)
	require.NoError(t, err)

	_, err = ledger.Reserve(rm, reserveParams(t, "bk-2", 10, 13), testNow)
	require.NoError(t, err)
	assert.Len(t, rm.Reservations, 2, "cancelled record stays alongside the new one")
}

func TestModifyReschedulesAndReprices(t *testing.T) {
	ledger := NewLedger()
	rm := testRoom(t)
	b, err := ledger.Reserve(rm, reserveParams(t, "bk-1", 10, 13), testNow)
	require.NoError(t, err)

	out, err := ledger.Modify(b, rm, mustRange(t, 20, 25), testNow)
	require.NoError(t, err)

	assert.Equal(t, int64(12300), out.NewTotal)
	assert.Equal(t, int64(4920), out.PriceDifference)
	assert.Equal(t, mustRange(t, 20, 25), b.Range)
	require.Len(t, b.Modifications, 1)
	assert.Equal(t, mustRange(t, 10, 13), b.Modifications[0].PreviousRange)

	records := rm.ConfirmedReservations()
	require.Len(t, records, 1)
	assert.Equal(t, mustRange(t, 20, 25), records[0].Range)
}

func TestModifyBlockedInsideNoticeWindow(t *testing.T) {
	ledger := NewLedger()
	rm := testRoom(t)
	b, err := ledger.Reserve(rm, reserveParams(t, "bk-1", 10, 13), testNow)
	require.NoError(t, err)

	now := day(10).Add(-30 * time.Hour)
	_, err = ledger.Modify(b, rm, mustRange(t, 20, 23), now)
	var window *ModificationWindowError
	require.ErrorAs(t, err, &window)
	assert.Equal(t, float64(48), window.MinNoticeHours)
}

func TestModifyConflictsWithOtherBookings(t *testing.T) {
	ledger := NewLedger()
	rm := testRoom(t)
	b, err := ledger.Reserve(rm, reserveParams(t, "bk-1", 10, 13), testNow)
	require.NoError(t, err)
	_, err = ledger.Reserve(rm, reserveParams(t, "bk-2", 20, 23), testNow)
	require.NoError(t, err)

	// Shifting inside its own range is fine.
	_, err = ledger.Modify(b, rm, mustRange(t, 11, 14), testNow)
	require.NoError(t, err)

	_, err = ledger.Modify(b, rm, mustRange(t, 21, 24), testNow)
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "bk-2", conflict.Conflicts[0].BookingID)
}
