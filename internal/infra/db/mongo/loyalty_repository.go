package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	silverThreshold   = 25000
	goldThreshold     = 50000
	platinumThreshold = 100000
)

// LoyaltyRepository keeps per-guest loyalty balances in the "guests" collection.
type LoyaltyRepository struct {
	col *mongo.Collection
}

func NewLoyaltyRepository(db *mongo.Database) *LoyaltyRepository {
	return &LoyaltyRepository{col: db.Collection("guests")}
}

type guestDocument struct {
	ID         string `bson:"_id"`
	Points     int64  `bson:"loyalty_points"`
	TotalSpent int64  `bson:"total_spent"`
	Level      string `bson:"loyalty_level"`
}

func (r *LoyaltyRepository) CreditPoints(ctx context.Context, guestID string, points, spent int64) error {
	return r.adjust(ctx, guestID, points, spent)
}

func (r *LoyaltyRepository) DebitPoints(ctx context.Context, guestID string, points, spent int64) error {
	return r.adjust(ctx, guestID, -points, -spent)
}

func (r *LoyaltyRepository) adjust(ctx context.Context, guestID string, points, spent int64) error {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	update := bson.M{"$inc": bson.M{"loyalty_points": points, "total_spent": spent}}
	var doc guestDocument
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": guestID}, update, opts).Decode(&doc); err != nil {
		return err
	}
	fix := bson.M{}
	if doc.Points < 0 {
		fix["loyalty_points"] = int64(0)
	}
	if doc.TotalSpent < 0 {
		fix["total_spent"] = int64(0)
		doc.TotalSpent = 0
	}
	fix["loyalty_level"] = levelFor(doc.TotalSpent)
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": guestID}, bson.M{"$set": fix})
	return err
}

func levelFor(totalSpent int64) string {
	switch {
	case totalSpent >= platinumThreshold:
		return "Platinum"
	case totalSpent >= goldThreshold:
		return "Gold"
	case totalSpent >= silverThreshold:
		return "Silver"
	default:
		return "Bronze"
	}
}
