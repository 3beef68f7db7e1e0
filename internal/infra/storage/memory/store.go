package memory

import (
	"sync"

	domainbooking "stayhub/internal/domain/booking"
	domainpricing "stayhub/internal/domain/pricing"
	domainroom "stayhub/internal/domain/room"
	"stayhub/internal/domain/shared/events"
)

// Store holds the committed state shared by every unit of work. Reads hand
// out clones so in-flight handler mutations never leak into committed state;
// writes land only through a Unit commit, which verifies aggregate versions
// under the store lock. That makes the booking+room dual write atomic and
// turns lost races into uow.ErrConcurrentUpdate for the handler retry loop.
type Store struct {
	mu       sync.RWMutex
	rooms    map[domainroom.RoomID]*domainroom.Room
	bookings map[domainbooking.BookingID]*domainbooking.Booking
}

func NewStore() *Store {
	return &Store{
		rooms:    make(map[domainroom.RoomID]*domainroom.Room),
		bookings: make(map[domainbooking.BookingID]*domainbooking.Booking),
	}
}

// SeedRoom installs a room directly into committed state; fixtures and tests
// only.
func (s *Store) SeedRoom(rm *domainroom.Room) {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := cloneRoom(rm)
	if clone.Version == 0 {
		clone.Version = 1
	}
	s.rooms[clone.ID] = clone
	rm.Version = clone.Version
}

func cloneRoom(r *domainroom.Room) *domainroom.Room {
	clone := *r
	clone.Reservations = append([]domainroom.ReservationRecord(nil), r.Reservations...)
	return &clone
}

func cloneBooking(b *domainbooking.Booking) *domainbooking.Booking {
	clone := *b
	clone.EventRecorder = events.EventRecorder{}
	clone.Modifications = append([]domainbooking.ModificationEntry(nil), b.Modifications...)
	clone.Price.AddOns = append([]domainpricing.AddOn(nil), b.Price.AddOns...)
	if b.Cancellation != nil {
		c := *b.Cancellation
		clone.Cancellation = &c
	}
	return &clone
}
