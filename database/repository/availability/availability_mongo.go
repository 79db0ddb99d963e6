package availabilityRepo

import (
	"context"
	"fmt"
	"time"

	"github.com/tech282/ecosystem-platform-api/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoAvailabilityRepo implements AvailabilityRepository backed by MongoDB.
type MongoAvailabilityRepo struct {
	rulesColl   *mongo.Collection
	blockedColl *mongo.Collection
}

func NewMongoAvailabilityRepo(db *mongo.Database) *MongoAvailabilityRepo {
	return &MongoAvailabilityRepo{
		rulesColl:   db.Collection("availability_rules"),
		blockedColl: db.Collection("blocked_slots"),
	}
}

func (repo *MongoAvailabilityRepo) RulesForProvider(ctx context.Context, providerID string) ([]models.AvailabilityRule, error) {
	opts := options.Find().SetSort(bson.D{{Key: "dayOfWeek", Value: 1}, {Key: "start", Value: 1}})
	cursor, err := repo.rulesColl.Find(ctx, bson.M{"providerId": providerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find availability rules failed: %w", err)
	}
	defer cursor.Close(ctx)

	var rules []models.AvailabilityRule
	if err := cursor.All(ctx, &rules); err != nil {
		return nil, fmt.Errorf("decode availability rules failed: %w", err)
	}
	return rules, nil
}

func (repo *MongoAvailabilityRepo) CreateRule(ctx context.Context, rule *models.AvailabilityRule) error {
	rule.CreatedAt = time.Now().UTC()
	if _, err := repo.rulesColl.InsertOne(ctx, rule); err != nil {
		return fmt.Errorf("insert availability rule failed: %w", err)
	}
	return nil
}

func (repo *MongoAvailabilityRepo) DeleteRule(ctx context.Context, providerID, ruleID string) error {
	res, err := repo.rulesColl.DeleteOne(ctx, bson.M{"_id": ruleID, "providerId": providerID})
	if err != nil {
		return fmt.Errorf("delete availability rule failed: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (repo *MongoAvailabilityRepo) BlockedInRange(ctx context.Context, providerID string, from, to time.Time) ([]models.BlockedSlot, error) {
	// Half-open overlap with [from, to).
	filter := bson.M{
		"providerId": providerID,
		"startAt":    bson.M{"$lt": to},
		"endAt":      bson.M{"$gt": from},
	}
	opts := options.Find().SetSort(bson.D{{Key: "startAt", Value: 1}})
	cursor, err := repo.blockedColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find blocked slots failed: %w", err)
	}
	defer cursor.Close(ctx)

	var slots []models.BlockedSlot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("decode blocked slots failed: %w", err)
	}
	return slots, nil
}

func (repo *MongoAvailabilityRepo) CreateBlocked(ctx context.Context, slot *models.BlockedSlot) error {
	slot.CreatedAt = time.Now().UTC()
	if _, err := repo.blockedColl.InsertOne(ctx, slot); err != nil {
		return fmt.Errorf("insert blocked slot failed: %w", err)
	}
	return nil
}

func (repo *MongoAvailabilityRepo) DeleteBlocked(ctx context.Context, providerID, slotID string) error {
	res, err := repo.blockedColl.DeleteOne(ctx, bson.M{"_id": slotID, "providerId": providerID})
	if err != nil {
		return fmt.Errorf("delete blocked slot failed: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
