package db

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"revuverse-backend-go/internal/models"
)

// mongoSubscriptionRepository implements SubscriptionRepository using MongoDB.
type mongoSubscriptionRepository struct {
	coll *mongo.Collection
}

// NewMongoSubscriptionRepository creates a new instance of mongoSubscriptionRepository.
func NewMongoSubscriptionRepository(database *mongo.Database) SubscriptionRepository {
	return &mongoSubscriptionRepository{coll: database.Collection(subscriptionsCollection)}
}

func (r *mongoSubscriptionRepository) Create(ctx context.Context, sub *models.Subscription) (string, error) {
	sub.ID = newMongoID()
	if _, err := r.coll.InsertOne(ctx, sub); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", fmt.Errorf("subscription for user '%s' already exists: %w", sub.UserID, ErrDuplicateKey)
		}
		return "", fmt.Errorf("failed to create subscription: %w", err)
	}
	return sub.ID, nil
}

func (r *mongoSubscriptionRepository) GetByUserID(ctx context.Context, userID string) (*models.Subscription, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty for GetByUserID operation")
	}
	var sub models.Subscription
	if err := mongoFindOne(ctx, r.coll, bson.M{"user": userID}, &sub, fmt.Sprintf("subscription for user '%s'", userID)); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *mongoSubscriptionRepository) Update(ctx context.Context, sub *models.Subscription) error {
	return mongoReplace(ctx, r.coll, sub.ID, sub, "subscription")
}
