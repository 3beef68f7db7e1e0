package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"stayhub/internal/app/uow"
	domainroom "stayhub/internal/domain/room"
	domainrange "stayhub/internal/domain/shared/daterange"
)

type RoomRepository struct {
	col *mongo.Collection
}

func NewRoomRepository(db *mongo.Database) *RoomRepository {
	return &RoomRepository{col: db.Collection("agg_room")}
}

func (r *RoomRepository) ByID(ctx context.Context, id domainroom.RoomID) (*domainroom.Room, error) {
	var doc roomDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domainroom.ErrRoomNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

// Save performs a versioned upsert: the filter matches the version the
// aggregate was loaded at, so a racing writer loses with ErrConcurrentUpdate
// instead of silently clobbering the reservation list.
func (r *RoomRepository) Save(ctx context.Context, rm *domainroom.Room) error {
	doc := newRoomDocument(rm)
	filter := bson.M{"_id": doc.ID, "version": rm.Version}
	doc.Version = rm.Version + 1
	opts := options.Update().SetUpsert(true)
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": doc}, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("mongo: room %s: %w", rm.ID, uow.ErrConcurrentUpdate)
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return fmt.Errorf("mongo: room %s: %w", rm.ID, uow.ErrConcurrentUpdate)
	}
	rm.Version = doc.Version
	return nil
}

func (r *RoomRepository) List(ctx context.Context) ([]*domainroom.Room, error) {
	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*domainroom.Room
	for cur.Next(ctx) {
		var doc roomDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cur.Err()
}

type roomDocument struct {
	ID           string                `bson:"_id"`
	Name         string                `bson:"name"`
	Type         string                `bson:"type"`
	NightlyRate  int64                 `bson:"nightly_rate"`
	MaxGuests    int                   `bson:"max_guests"`
	IsActive     bool                  `bson:"is_active"`
	Reservations []reservationDocument `bson:"reservations"`
	CreatedAt    int64                 `bson:"created_at"`
	UpdatedAt    int64                 `bson:"updated_at"`
	Version      int64                 `bson:"version"`
}

type reservationDocument struct {
	ID        string        `bson:"_id"`
	BookingID string        `bson:"booking_id"`
	GuestID   string        `bson:"guest_id"`
	Range     rangeDocument `bson:"range"`
	Status    string        `bson:"status"`
	CreatedAt int64         `bson:"created_at"`
}

type rangeDocument struct {
	CheckIn  int64 `bson:"check_in"`
	CheckOut int64 `bson:"check_out"`
}

func newRoomDocument(rm *domainroom.Room) roomDocument {
	doc := roomDocument{
		ID:          string(rm.ID),
		Name:        rm.Name,
		Type:        rm.Type,
		NightlyRate: rm.NightlyRate,
		MaxGuests:   rm.MaxGuests,
		IsActive:    rm.IsActive,
		CreatedAt:   rm.CreatedAt.UnixMilli(),
		UpdatedAt:   rm.UpdatedAt.UnixMilli(),
		Version:     rm.Version,
	}
	for _, rec := range rm.Reservations {
		doc.Reservations = append(doc.Reservations, reservationDocument{
			ID:        rec.ID,
			BookingID: rec.BookingID,
			GuestID:   rec.GuestID,
			Range:     rangeDocument{CheckIn: rec.Range.CheckIn.UnixMilli(), CheckOut: rec.Range.CheckOut.UnixMilli()},
			Status:    string(rec.Status),
			CreatedAt: rec.CreatedAt.UnixMilli(),
		})
	}
	return doc
}

func (d roomDocument) toAggregate() *domainroom.Room {
	rm := &domainroom.Room{
		ID:          domainroom.RoomID(d.ID),
		Name:        d.Name,
		Type:        d.Type,
		NightlyRate: d.NightlyRate,
		MaxGuests:   d.MaxGuests,
		IsActive:    d.IsActive,
		CreatedAt:   timestampToTime(d.CreatedAt),
		UpdatedAt:   timestampToTime(d.UpdatedAt),
		Version:     d.Version,
	}
	for _, rec := range d.Reservations {
		rm.Reservations = append(rm.Reservations, domainroom.ReservationRecord{
			ID:        rec.ID,
			BookingID: rec.BookingID,
			GuestID:   rec.GuestID,
			Range:     domainrange.DateRange{CheckIn: timestampToTime(rec.Range.CheckIn), CheckOut: timestampToTime(rec.Range.CheckOut)},
			Status:    domainroom.ReservationStatus(rec.Status),
			CreatedAt: timestampToTime(rec.CreatedAt),
		})
	}
	return rm
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
