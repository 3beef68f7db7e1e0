package booking

import (
	"time"

	"stayhub/internal/domain/room"
	"stayhub/internal/domain/shared/daterange"
)

type BookingConfirmed struct {
	BookingID BookingID
	RoomID    room.RoomID
	GuestID   string
	Range     daterange.DateRange
	Total     int64
	At        time.Time
}

func (e BookingConfirmed) EventName() string     { return "booking.confirmed" }
func (e BookingConfirmed) AggregateID() string   { return string(e.BookingID) }
func (e BookingConfirmed) OccurredAt() time.Time { return e.At }

type BookingCancelled struct {
	BookingID     BookingID
	RoomID        room.RoomID
	GuestID       string
	RefundAmount  int64
	RefundPercent int
	Reason        string
	At            time.Time
}

func (e BookingCancelled) EventName() string     { return "booking.cancelled" }
func (e BookingCancelled) AggregateID() string   { return string(e.BookingID) }
func (e BookingCancelled) OccurredAt() time.Time { return e.At }

type BookingRescheduled struct {
	BookingID       BookingID
	RoomID          room.RoomID
	GuestID         string
	PreviousRange   daterange.DateRange
	NewRange        daterange.DateRange
	PriceDifference int64
	At              time.Time
}

func (e BookingRescheduled) EventName() string     { return "booking.rescheduled" }
func (e BookingRescheduled) AggregateID() string   { return string(e.BookingID) }
func (e BookingRescheduled) OccurredAt() time.Time { return e.At }
