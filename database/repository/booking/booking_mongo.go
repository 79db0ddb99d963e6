package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"github.com/tech282/ecosystem-platform-api/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBookingRepo implements BookingRepository backed by MongoDB.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

func NewMongoBookingRepo(db *mongo.Database) *MongoBookingRepo {
	return &MongoBookingRepo{coll: db.Collection("bookings")}
}

func activeStatusFilter() bson.M {
	return bson.M{"$in": bson.A{models.StatusPending, models.StatusConfirmed}}
}

func (repo *MongoBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	if _, err := repo.coll.InsertOne(ctx, booking); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrSlotTaken
		}
		return fmt.Errorf("insert booking failed: %w", err)
	}
	return nil
}

func (repo *MongoBookingRepo) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	var booking models.Booking
	err := repo.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find booking by id failed: %w", err)
	}
	return &booking, nil
}

func (repo *MongoBookingRepo) FindByConfirmationCode(ctx context.Context, code string) (*models.Booking, error) {
	var booking models.Booking
	err := repo.coll.FindOne(ctx, bson.M{"confirmationCode": code}).Decode(&booking)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find booking by confirmation code failed: %w", err)
	}
	return &booking, nil
}

func (repo *MongoBookingRepo) FindByPaymentRef(ctx context.Context, paymentRef string) (*models.Booking, error) {
	var booking models.Booking
	err := repo.coll.FindOne(ctx, bson.M{"paymentRef": paymentRef}).Decode(&booking)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find booking by payment ref failed: %w", err)
	}
	return &booking, nil
}

func (repo *MongoBookingRepo) FindActiveOverlapping(ctx context.Context, providerID, date string, start, end int) ([]models.Booking, error) {
	// Half-open overlap: existing.start < end && existing.end > start.
	filter := bson.M{
		"providerId": providerID,
		"date":       date,
		"status":     activeStatusFilter(),
		"start":      bson.M{"$lt": end},
		"end":        bson.M{"$gt": start},
	}
	return repo.findSorted(ctx, filter)
}

func (repo *MongoBookingRepo) FindActiveBetween(ctx context.Context, providerID, fromDate, toDate string) ([]models.Booking, error) {
	filter := bson.M{
		"providerId": providerID,
		"status":     activeStatusFilter(),
		"date":       bson.M{"$gte": fromDate, "$lte": toDate},
	}
	return repo.findSorted(ctx, filter)
}

func (repo *MongoBookingRepo) findSorted(ctx context.Context, filter bson.M) ([]models.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "start", Value: 1}})
	cursor, err := repo.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find bookings failed: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("decode bookings failed: %w", err)
	}
	return bookings, nil
}

// ApplyTransition performs a status-preconditioned single-document update.
// Transitions on one booking are thereby serialized: of two concurrent
// transitions only one matches the precondition, the other gets ErrStaleStatus.
func (repo *MongoBookingRepo) ApplyTransition(ctx context.Context, id string, from models.BookingStatus, upd TransitionUpdate) (*models.Booking, error) {
	set := bson.M{
		"status":    upd.To,
		"active":    upd.Active,
		"updatedAt": time.Now().UTC(),
	}
	if upd.CancellationReason != "" {
		set["cancellationReason"] = upd.CancellationReason
	}
	if upd.CancelledBy != "" {
		set["cancelledBy"] = upd.CancelledBy
	}
	if upd.CancelledAt != nil {
		set["cancelledAt"] = upd.CancelledAt
	}
	if upd.CompletedAt != nil {
		set["completedAt"] = upd.CompletedAt
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var booking models.Booking
	err := repo.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": set},
		opts,
	).Decode(&booking)
	if err == mongo.ErrNoDocuments {
		return nil, ErrStaleStatus
	}
	if err != nil {
		return nil, fmt.Errorf("apply transition failed: %w", err)
	}
	return &booking, nil
}

func (repo *MongoBookingRepo) ListByCustomer(ctx context.Context, userID string) ([]models.Booking, error) {
	return repo.findSorted(ctx, bson.M{"customer.userId": userID})
}

func (repo *MongoBookingRepo) ListByProvider(ctx context.Context, providerID string) ([]models.Booking, error) {
	return repo.findSorted(ctx, bson.M{"providerId": providerID})
}

func (repo *MongoBookingRepo) FindEligibleForCompletion(ctx context.Context, asOf time.Time) ([]models.Booking, error) {
	return repo.findSorted(ctx, bson.M{
		"status": models.StatusConfirmed,
		"endAt":  bson.M{"$lte": asOf},
	})
}

func (repo *MongoBookingRepo) FindEligibleForNoShow(ctx context.Context, asOf time.Time) ([]models.Booking, error) {
	return repo.findSorted(ctx, bson.M{
		"status":  models.StatusConfirmed,
		"startAt": bson.M{"$lte": asOf},
	})
}

func (repo *MongoBookingRepo) CountByProviderAndStatus(ctx context.Context, providerID string, statuses []models.BookingStatus) (int64, error) {
	count, err := repo.coll.CountDocuments(ctx, bson.M{
		"providerId": providerID,
		"status":     bson.M{"$in": statuses},
	})
	if err != nil {
		return 0, fmt.Errorf("count bookings failed: %w", err)
	}
	return count, nil
}

func (repo *MongoBookingRepo) CountUpcoming(ctx context.Context, providerID string, asOf time.Time) (int64, error) {
	count, err := repo.coll.CountDocuments(ctx, bson.M{
		"providerId": providerID,
		"status":     activeStatusFilter(),
		"startAt":    bson.M{"$gte": asOf},
	})
	if err != nil {
		return 0, fmt.Errorf("count upcoming bookings failed: %w", err)
	}
	return count, nil
}

// SumPayoutByStatus aggregates provider payouts over bookings in one status.
func (repo *MongoBookingRepo) SumPayoutByStatus(ctx context.Context, providerID string, status models.BookingStatus) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"providerId": providerID,
			"status":     status,
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$providerPayout"},
		}}},
	}
	cursor, err := repo.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("aggregation error: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, fmt.Errorf("error decoding aggregation result: %w", err)
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}
