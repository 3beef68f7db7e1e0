package memory

import (
	"context"
	"errors"
	"fmt"

	"stayhub/internal/app/uow"
	domainbooking "stayhub/internal/domain/booking"
	domainroom "stayhub/internal/domain/room"
)

// ErrFactoryMisconfigured indicates a missing backing store.
var ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")

// Factory hands out units of work over one shared Store.
type Factory struct {
	Store *Store
}

func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.Store == nil {
		return nil, ErrFactoryMisconfigured
	}
	return &Unit{
		store:          f.Store,
		stagedRooms:    make(map[domainroom.RoomID]*domainroom.Room),
		stagedBookings: make(map[domainbooking.BookingID]*domainbooking.Booking),
	}, nil
}

// Unit stages writes until Commit. Commit re-verifies every staged
// aggregate's version under the store lock and applies all writes or none.
type Unit struct {
	store          *Store
	stagedRooms    map[domainroom.RoomID]*domainroom.Room
	stagedBookings map[domainbooking.BookingID]*domainbooking.Booking
	done           bool
}

func (u *Unit) Rooms() domainroom.Repository { return &unitRoomRepo{unit: u} }

func (u *Unit) Bookings() domainbooking.Repository { return &unitBookingRepo{unit: u} }

func (u *Unit) Commit(ctx context.Context) error {
	if u.done {
		return nil
	}
	s := u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, rm := range u.stagedRooms {
		if cur, ok := s.rooms[id]; ok && cur.Version != rm.Version {
			return fmt.Errorf("memory: room %s version %d stale: %w", id, rm.Version, uow.ErrConcurrentUpdate)
		}
	}
	for id, b := range u.stagedBookings {
		if cur, ok := s.bookings[id]; ok && cur.Version != b.Version {
			return fmt.Errorf("memory: booking %s version %d stale: %w", id, b.Version, uow.ErrConcurrentUpdate)
		}
	}

	for id, rm := range u.stagedRooms {
		clone := cloneRoom(rm)
		clone.Version = rm.Version + 1
		s.rooms[id] = clone
		rm.Version = clone.Version
	}
	for id, b := range u.stagedBookings {
		clone := cloneBooking(b)
		clone.Version = b.Version + 1
		s.bookings[id] = clone
		b.Version = clone.Version
	}
	u.done = true
	return nil
}

func (u *Unit) Rollback(ctx context.Context) error {
	if u.done {
		return nil
	}
	u.stagedRooms = make(map[domainroom.RoomID]*domainroom.Room)
	u.stagedBookings = make(map[domainbooking.BookingID]*domainbooking.Booking)
	u.done = true
	return nil
}

type unitRoomRepo struct {
	unit *Unit
}

func (r *unitRoomRepo) ByID(ctx context.Context, id domainroom.RoomID) (*domainroom.Room, error) {
	if staged, ok := r.unit.stagedRooms[id]; ok {
		return staged, nil
	}
	s := r.unit.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	rm, ok := s.rooms[id]
	if !ok {
		return nil, domainroom.ErrRoomNotFound
	}
	return cloneRoom(rm), nil
}

func (r *unitRoomRepo) Save(ctx context.Context, rm *domainroom.Room) error {
	r.unit.stagedRooms[rm.ID] = rm
	return nil
}

func (r *unitRoomRepo) List(ctx context.Context) ([]*domainroom.Room, error) {
	s := r.unit.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domainroom.Room, 0, len(s.rooms))
	for _, rm := range s.rooms {
		out = append(out, cloneRoom(rm))
	}
	return out, nil
}

type unitBookingRepo struct {
	unit *Unit
}

func (r *unitBookingRepo) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	if staged, ok := r.unit.stagedBookings[id]; ok {
		return staged, nil
	}
	s := r.unit.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, domainbooking.ErrBookingNotFound
	}
	return cloneBooking(b), nil
}

func (r *unitBookingRepo) Save(ctx context.Context, b *domainbooking.Booking) error {
	r.unit.stagedBookings[b.ID] = b
	return nil
}

func (r *unitBookingRepo) ListByGuest(ctx context.Context, guestID string) ([]*domainbooking.Booking, error) {
	s := r.unit.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domainbooking.Booking
	for _, b := range s.bookings {
		if b.GuestID == guestID {
			out = append(out, cloneBooking(b))
		}
	}
	return out, nil
}
