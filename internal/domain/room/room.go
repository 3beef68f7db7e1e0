package room

import (
	"context"
	"errors"
	"time"

	"stayhub/internal/domain/shared/daterange"
)

var (
	ErrInactive            = errors.New("room: not accepting bookings")
	ErrRoomNotFound        = errors.New("room: not found")
	ErrReservationNotFound = errors.New("room: reservation not found")
	ErrInvalidNightlyRate  = errors.New("room: nightly rate must be positive")
)

type RoomID string

type ReservationStatus string

const (
	ReservationConfirmed ReservationStatus = "CONFIRMED"
	ReservationCancelled ReservationStatus = "CANCELLED"
)

// ReservationRecord is the room-side mirror of a booking's date range. It is
// the only state availability checks consult. Cancelled records are kept for
// history and never count toward availability.
type ReservationRecord struct {
	ID        string
	BookingID string
	GuestID   string
	Range     daterange.DateRange
	Status    ReservationStatus
	CreatedAt time.Time
}

// Room owns the reservation collection the ledger operates on. Version backs
// optimistic concurrency: repositories refuse stale writes.
type Room struct {
	ID           RoomID
	Name         string
	Type         string
	NightlyRate  int64
	MaxGuests    int
	IsActive     bool
	Reservations []ReservationRecord
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Version      int64
}

type Repository interface {
	ByID(ctx context.Context, id RoomID) (*Room, error)
	Save(ctx context.Context, room *Room) error
	List(ctx context.Context) ([]*Room, error)
}

func New(id RoomID, name string, nightlyRate int64, now time.Time) (*Room, error) {
	if nightlyRate <= 0 {
		return nil, ErrInvalidNightlyRate
	}
	now = now.UTC()
	return &Room{
		ID:          id,
		Name:        name,
		NightlyRate: nightlyRate,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// AddReservation appends a confirmed record. Conflict checking is the
// ledger's job; the room only guarantees record shape.
func (r *Room) AddReservation(rec ReservationRecord) {
	if rec.Status == "" {
		rec.Status = ReservationConfirmed
	}
	r.Reservations = append(r.Reservations, rec)
	r.UpdatedAt = rec.CreatedAt
}

// CancelReservation flips the record for bookingID to cancelled. Records are
// never removed so booking history stays reconstructible.
func (r *Room) CancelReservation(bookingID string, now time.Time) error {
	for i := range r.Reservations {
		if r.Reservations[i].BookingID == bookingID && r.Reservations[i].Status == ReservationConfirmed {
			r.Reservations[i].Status = ReservationCancelled
			r.UpdatedAt = now.UTC()
			return nil
		}
	}
	return ErrReservationNotFound
}

// RescheduleReservation swaps the date range on the confirmed record for
// bookingID.
func (r *Room) RescheduleReservation(bookingID string, newRange daterange.DateRange, now time.Time) error {
	for i := range r.Reservations {
		if r.Reservations[i].BookingID == bookingID && r.Reservations[i].Status == ReservationConfirmed {
			r.Reservations[i].Range = newRange
			r.UpdatedAt = now.UTC()
			return nil
		}
	}
	return ErrReservationNotFound
}

func (r *Room) ConfirmedReservations() []ReservationRecord {
	out := make([]ReservationRecord, 0, len(r.Reservations))
	for _, rec := range r.Reservations {
		if rec.Status == ReservationConfirmed {
			out = append(out, rec)
		}
	}
	return out
}
