package room

import "stayhub/internal/domain/shared/daterange"

// Checker decides which existing records conflict with a candidate range.
// The default is the linear scan below; a caller with very large reservation
// lists can swap in an interval-tree backed implementation.
type Checker func(records []ReservationRecord, candidate daterange.DateRange) []ReservationRecord

// FindConflicts returns every confirmed record whose range shares at least
// one night with the candidate. Cancelled records never block availability.
// Pure and deterministic; an empty result means the room is free.
func FindConflicts(records []ReservationRecord, candidate daterange.DateRange) []ReservationRecord {
	var conflicts []ReservationRecord
	for _, rec := range records {
		if rec.Status == ReservationCancelled {
			continue
		}
		if rec.Range.Overlaps(candidate) {
			conflicts = append(conflicts, rec)
		}
	}
	return conflicts
}

// Conflicts runs the default checker against the room's own records.
func (r *Room) Conflicts(candidate daterange.DateRange) []ReservationRecord {
	return FindConflicts(r.Reservations, candidate)
}

// ConflictsExcluding ignores the record belonging to bookingID; used when a
// booking is rescheduled so it does not collide with itself.
func (r *Room) ConflictsExcluding(bookingID string, candidate daterange.DateRange) []ReservationRecord {
	others := make([]ReservationRecord, 0, len(r.Reservations))
	for _, rec := range r.Reservations {
		if rec.BookingID == bookingID {
			continue
		}
		others = append(others, rec)
	}
	return FindConflicts(others, candidate)
}
