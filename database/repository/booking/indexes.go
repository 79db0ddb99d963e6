package bookingRepo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the booking collection indexes.
//
// The partial unique index on (providerId, date, start) restricted to
// active bookings is what closes the create race: of two concurrent creates
// for the same slot, exactly one insert succeeds and the other fails with a
// duplicate key error. Terminal bookings drop out of the index when the
// transition flips active to false, freeing the slot for rebooking.
func (repo *MongoBookingRepo) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "providerId", Value: 1},
				{Key: "date", Value: 1},
				{Key: "start", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"active": true}).
				SetName("uniq_active_slot"),
		},
		{
			Keys:    bson.D{{Key: "confirmationCode", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_confirmation_code"),
		},
		{
			Keys: bson.D{
				{Key: "providerId", Value: 1},
				{Key: "date", Value: 1},
				{Key: "status", Value: 1},
			},
			Options: options.Index().SetName("provider_date_status"),
		},
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "endAt", Value: 1},
			},
			Options: options.Index().SetName("status_end_at"),
		},
	}

	if _, err := repo.coll.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}
	return nil
}
