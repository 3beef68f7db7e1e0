package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"stayhub/internal/app/uow"
	domainbooking "stayhub/internal/domain/booking"
	domainpricing "stayhub/internal/domain/pricing"
	domainroom "stayhub/internal/domain/room"
	domainrange "stayhub/internal/domain/shared/daterange"
)

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{col: db.Collection("agg_booking")}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	var doc bookingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domainbooking.ErrBookingNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	doc := newBookingDocument(b)
	filter := bson.M{"_id": doc.ID, "version": b.Version}
	doc.Version = b.Version + 1
	opts := options.Update().SetUpsert(true)
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": doc}, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("mongo: booking %s: %w", b.ID, uow.ErrConcurrentUpdate)
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return fmt.Errorf("mongo: booking %s: %w", b.ID, uow.ErrConcurrentUpdate)
	}
	b.Version = doc.Version
	return nil
}

func (r *BookingRepository) ListByGuest(ctx context.Context, guestID string) ([]*domainbooking.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"guest_id": guestID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*domainbooking.Booking
	for cur.Next(ctx) {
		var doc bookingDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cur.Err()
}

type bookingDocument struct {
	ID            string                 `bson:"_id"`
	Reference     string                 `bson:"reference"`
	RoomID        string                 `bson:"room_id"`
	GuestID       string                 `bson:"guest_id"`
	Range         rangeDocument          `bson:"range"`
	Adults        int                    `bson:"adults"`
	Children      int                    `bson:"children"`
	Pricing       pricingDocument        `bson:"pricing"`
	Payment       paymentDocument        `bson:"payment"`
	State         string                 `bson:"state"`
	Cancellation  *cancellationDocument  `bson:"cancellation,omitempty"`
	Modifications []modificationDocument `bson:"modifications,omitempty"`
	CreatedAt     int64                  `bson:"created_at"`
	UpdatedAt     int64                  `bson:"updated_at"`
	Version       int64                  `bson:"version"`
}

type pricingDocument struct {
	RoomRate   int64           `bson:"room_rate"`
	Nights     int             `bson:"nights"`
	Subtotal   int64           `bson:"subtotal"`
	AddOns     []addOnDocument `bson:"add_ons,omitempty"`
	AddOnTotal int64           `bson:"add_on_total"`
	Taxes      int64           `bson:"taxes"`
	ServiceFee int64           `bson:"service_fee"`
	Total      int64           `bson:"total"`
}

type addOnDocument struct {
	Name     string `bson:"name"`
	Price    int64  `bson:"price"`
	Quantity int    `bson:"quantity"`
}

type paymentDocument struct {
	Method        string `bson:"method"`
	Status        string `bson:"status"`
	TransactionID string `bson:"transaction_id"`
	RefundAmount  int64  `bson:"refund_amount"`
}

type cancellationDocument struct {
	CancelledAt   int64  `bson:"cancelled_at"`
	Reason        string `bson:"reason"`
	RefundAmount  int64  `bson:"refund_amount"`
	RefundPercent int    `bson:"refund_percent"`
}

type modificationDocument struct {
	ModifiedAt      int64         `bson:"modified_at"`
	PreviousRange   rangeDocument `bson:"previous_range"`
	NewRange        rangeDocument `bson:"new_range"`
	PriceDifference int64         `bson:"price_difference"`
}

func newBookingDocument(b *domainbooking.Booking) bookingDocument {
	doc := bookingDocument{
		ID:        string(b.ID),
		Reference: b.Reference,
		RoomID:    string(b.RoomID),
		GuestID:   b.GuestID,
		Range:     rangeDocument{CheckIn: b.Range.CheckIn.UnixMilli(), CheckOut: b.Range.CheckOut.UnixMilli()},
		Adults:    b.Guests.Adults,
		Children:  b.Guests.Children,
		Pricing: pricingDocument{
			RoomRate:   b.Price.RoomRate,
			Nights:     b.Price.Nights,
			Subtotal:   b.Price.Subtotal,
			AddOnTotal: b.Price.AddOnTotal,
			Taxes:      b.Price.Taxes,
			ServiceFee: b.Price.ServiceFee,
			Total:      b.Price.Total,
		},
		Payment: paymentDocument{
			Method:        b.Payment.Method,
			Status:        b.Payment.Status,
			TransactionID: b.Payment.TransactionID,
			RefundAmount:  b.Payment.RefundAmount,
		},
		State:     string(b.State),
		CreatedAt: b.CreatedAt.UnixMilli(),
		UpdatedAt: b.UpdatedAt.UnixMilli(),
		Version:   b.Version,
	}
	for _, a := range b.Price.AddOns {
		doc.Pricing.AddOns = append(doc.Pricing.AddOns, addOnDocument{Name: a.Name, Price: a.Price, Quantity: a.Quantity})
	}
	if b.Cancellation != nil {
		doc.Cancellation = &cancellationDocument{
			CancelledAt:   b.Cancellation.CancelledAt.UnixMilli(),
			Reason:        b.Cancellation.Reason,
			RefundAmount:  b.Cancellation.RefundAmount,
			RefundPercent: b.Cancellation.RefundPercent,
		}
	}
	for _, m := range b.Modifications {
		doc.Modifications = append(doc.Modifications, modificationDocument{
			ModifiedAt:      m.ModifiedAt.UnixMilli(),
			PreviousRange:   rangeDocument{CheckIn: m.PreviousRange.CheckIn.UnixMilli(), CheckOut: m.PreviousRange.CheckOut.UnixMilli()},
			NewRange:        rangeDocument{CheckIn: m.NewRange.CheckIn.UnixMilli(), CheckOut: m.NewRange.CheckOut.UnixMilli()},
			PriceDifference: m.PriceDifference,
		})
	}
	return doc
}

func (d bookingDocument) toAggregate() *domainbooking.Booking {
	b := &domainbooking.Booking{
		ID:        domainbooking.BookingID(d.ID),
		Reference: d.Reference,
		RoomID:    domainroom.RoomID(d.RoomID),
		GuestID:   d.GuestID,
		Range:     domainrange.DateRange{CheckIn: timestampToTime(d.Range.CheckIn), CheckOut: timestampToTime(d.Range.CheckOut)},
		Guests:    domainbooking.GuestCount{Adults: d.Adults, Children: d.Children},
		Price: domainpricing.Breakdown{
			RoomRate:   d.Pricing.RoomRate,
			Nights:     d.Pricing.Nights,
			Subtotal:   d.Pricing.Subtotal,
			AddOnTotal: d.Pricing.AddOnTotal,
			Taxes:      d.Pricing.Taxes,
			ServiceFee: d.Pricing.ServiceFee,
			Total:      d.Pricing.Total,
		},
		Payment: domainbooking.PaymentInfo{
			Method:        d.Payment.Method,
			Status:        d.Payment.Status,
			TransactionID: d.Payment.TransactionID,
			RefundAmount:  d.Payment.RefundAmount,
		},
		State:     domainbooking.State(d.State),
		CreatedAt: timestampToTime(d.CreatedAt),
		UpdatedAt: timestampToTime(d.UpdatedAt),
		Version:   d.Version,
	}
	for _, a := range d.Pricing.AddOns {
		b.Price.AddOns = append(b.Price.AddOns, domainpricing.AddOn{Name: a.Name, Price: a.Price, Quantity: a.Quantity})
	}
	if d.Cancellation != nil {
		b.Cancellation = &domainbooking.CancellationInfo{
			CancelledAt:   timestampToTime(d.Cancellation.CancelledAt),
			Reason:        d.Cancellation.Reason,
			RefundAmount:  d.Cancellation.RefundAmount,
			RefundPercent: d.Cancellation.RefundPercent,
		}
	}
	for _, m := range d.Modifications {
		b.Modifications = append(b.Modifications, domainbooking.ModificationEntry{
			ModifiedAt:      timestampToTime(m.ModifiedAt),
			PreviousRange:   domainrange.DateRange{CheckIn: timestampToTime(m.PreviousRange.CheckIn), CheckOut: timestampToTime(m.PreviousRange.CheckOut)},
			NewRange:        domainrange.DateRange{CheckIn: timestampToTime(m.NewRange.CheckIn), CheckOut: timestampToTime(m.NewRange.CheckOut)},
			PriceDifference: m.PriceDifference,
		})
	}
	return b
}
