package providerRepo

import (
	"context"
	"fmt"
	"time"

	"github.com/tech282/ecosystem-platform-api/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoProviderRepo implements ProviderRepository backed by MongoDB.
type MongoProviderRepo struct {
	coll *mongo.Collection
}

func NewMongoProviderRepo(db *mongo.Database) *MongoProviderRepo {
	return &MongoProviderRepo{coll: db.Collection("providers")}
}

func (repo *MongoProviderRepo) Create(ctx context.Context, provider *models.Provider) error {
	now := time.Now().UTC()
	provider.CreatedAt = now
	provider.UpdatedAt = now
	if _, err := repo.coll.InsertOne(ctx, provider); err != nil {
		return fmt.Errorf("insert provider failed: %w", err)
	}
	return nil
}

func (repo *MongoProviderRepo) FindByID(ctx context.Context, id string) (*models.Provider, error) {
	var provider models.Provider
	err := repo.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&provider)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find provider by id failed: %w", err)
	}
	return &provider, nil
}

func (repo *MongoProviderRepo) FindByUserID(ctx context.Context, userID string) (*models.Provider, error) {
	var provider models.Provider
	err := repo.coll.FindOne(ctx, bson.M{"userId": userID}).Decode(&provider)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find provider by user id failed: %w", err)
	}
	return &provider, nil
}

func (repo *MongoProviderRepo) Update(ctx context.Context, provider *models.Provider) error {
	provider.UpdatedAt = time.Now().UTC()
	res, err := repo.coll.ReplaceOne(ctx, bson.M{"_id": provider.ID}, provider)
	if err != nil {
		return fmt.Errorf("update provider failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (repo *MongoProviderRepo) Delete(ctx context.Context, id string) error {
	res, err := repo.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete provider failed: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (repo *MongoProviderRepo) IncrementCompletedBookings(ctx context.Context, id string) error {
	res, err := repo.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{
			"$inc": bson.M{"completedBookings": 1},
			"$set": bson.M{"updatedAt": time.Now().UTC()},
		},
	)
	if err != nil {
		return fmt.Errorf("increment completed bookings failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
