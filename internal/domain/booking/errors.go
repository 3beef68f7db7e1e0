package booking

import (
	"errors"
	"fmt"

	"stayhub/internal/domain/room"
)

var (
	ErrInvalidGuests    = errors.New("booking: guest count must include at least one adult")
	ErrGuestIDRequired  = errors.New("booking: guest id required")
	ErrInvalidState     = errors.New("booking: invalid state transition")
	ErrAlreadyCancelled = errors.New("booking: already cancelled")
	ErrNotBookingGuest  = errors.New("booking: acting guest does not own this booking")
	ErrBookingNotFound  = errors.New("booking: not found")
)

// ConflictError is the expected rejection when requested dates overlap
// existing reservations. It carries the conflicting records so callers can
// tell the guest exactly which stays block the request.
type ConflictError struct {
	Conflicts []room.ReservationRecord
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("booking: dates conflict with %d existing reservation(s)", len(e.Conflicts))
}

// PriceMismatchError reports a client-submitted total outside the accepted
// tolerance of the server-computed one.
type PriceMismatchError struct {
	Expected int64
	Received int64
}

func (e *PriceMismatchError) Error() string {
	return fmt.Sprintf("booking: total amount mismatch: expected %d, received %d", e.Expected, e.Received)
}

// CancellationWindowError reports a cancellation attempted inside the hard
// cutoff before check-in.
type CancellationWindowError struct {
	HoursUntilCheckIn float64
	MinNoticeHours    float64
}

func (e *CancellationWindowError) Error() string {
	return fmt.Sprintf("booking: cancellation not allowed within %.0fh of check-in (%.1fh remain)",
		e.MinNoticeHours, e.HoursUntilCheckIn)
}

// ModificationWindowError reports a date change attempted too close to
// check-in.
type ModificationWindowError struct {
	HoursUntilCheckIn float64
	MinNoticeHours    float64
}

func (e *ModificationWindowError) Error() string {
	return fmt.Sprintf("booking: modifications not allowed within %.0fh of check-in (%.1fh remain)",
		e.MinNoticeHours, e.HoursUntilCheckIn)
}
