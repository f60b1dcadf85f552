package db

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"revuverse-backend-go/internal/models"
)

// mongoBusinessRepository implements BusinessRepository using MongoDB.
type mongoBusinessRepository struct {
	coll *mongo.Collection
}

// NewMongoBusinessRepository creates a new instance of mongoBusinessRepository.
func NewMongoBusinessRepository(database *mongo.Database) BusinessRepository {
	return &mongoBusinessRepository{coll: database.Collection(businessesCollection)}
}

// Create assigns a new ObjectID-style ID and inserts the business.
func (r *mongoBusinessRepository) Create(ctx context.Context, business *models.Business) (string, error) {
	business.ID = newMongoID()
	if _, err := r.coll.InsertOne(ctx, business); err != nil {
		return "", fmt.Errorf("failed to create business: %w", err)
	}
	return business.ID, nil
}

func (r *mongoBusinessRepository) GetByID(ctx context.Context, businessID string) (*models.Business, error) {
	if businessID == "" {
		return nil, errors.New("businessID cannot be empty for GetByID operation")
	}
	var business models.Business
	if err := mongoFindOne(ctx, r.coll, bson.M{"_id": businessID}, &business, fmt.Sprintf("business '%s'", businessID)); err != nil {
		return nil, err
	}
	return &business, nil
}

func (r *mongoBusinessRepository) GetByOwnerID(ctx context.Context, ownerID string) ([]*models.Business, error) {
	if ownerID == "" {
		return nil, errors.New("ownerID cannot be empty for GetByOwnerID operation")
	}
	cursor, err := r.coll.Find(ctx, bson.M{"user": ownerID}, newestFirst())
	if err != nil {
		return nil, fmt.Errorf("failed to list businesses for owner '%s': %w", ownerID, err)
	}
	businesses := []*models.Business{}
	if err := cursor.All(ctx, &businesses); err != nil {
		return nil, fmt.Errorf("failed to decode businesses for owner '%s': %w", ownerID, err)
	}
	return businesses, nil
}

func (r *mongoBusinessRepository) Update(ctx context.Context, business *models.Business) error {
	return mongoReplace(ctx, r.coll, business.ID, business, "business")
}

func (r *mongoBusinessRepository) Delete(ctx context.Context, businessID string) error {
	return mongoDelete(ctx, r.coll, businessID, "business")
}

func (r *mongoBusinessRepository) CountByOwnerID(ctx context.Context, ownerID string) (int, error) {
	if ownerID == "" {
		return 0, errors.New("ownerID cannot be empty for CountByOwnerID operation")
	}
	count, err := r.coll.CountDocuments(ctx, bson.M{"user": ownerID})
	if err != nil {
		return 0, fmt.Errorf("failed to count businesses for owner '%s': %w", ownerID, err)
	}
	return int(count), nil
}
