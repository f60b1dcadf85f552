package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"revuverse-backend-go/internal/models"
)

// mongoReviewRequestRepository implements ReviewRequestRepository using MongoDB.
// uniqueId uniqueness is enforced by the index created in EnsureMongoIndexes.
type mongoReviewRequestRepository struct {
	coll *mongo.Collection
}

// NewMongoReviewRequestRepository creates a new instance of mongoReviewRequestRepository.
func NewMongoReviewRequestRepository(database *mongo.Database) ReviewRequestRepository {
	return &mongoReviewRequestRepository{coll: database.Collection(reviewRequestsCollection)}
}

func (r *mongoReviewRequestRepository) Create(ctx context.Context, req *models.ReviewRequest) (string, error) {
	req.ID = newMongoID()
	if _, err := r.coll.InsertOne(ctx, req); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", fmt.Errorf("review request token collision: %w", ErrDuplicateKey)
		}
		return "", fmt.Errorf("failed to create review request: %w", err)
	}
	return req.ID, nil
}

func (r *mongoReviewRequestRepository) GetByID(ctx context.Context, requestID string) (*models.ReviewRequest, error) {
	if requestID == "" {
		return nil, errors.New("requestID cannot be empty for GetByID operation")
	}
	var req models.ReviewRequest
	if err := mongoFindOne(ctx, r.coll, bson.M{"_id": requestID}, &req, fmt.Sprintf("review request '%s'", requestID)); err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *mongoReviewRequestRepository) GetByUniqueID(ctx context.Context, uniqueID string) (*models.ReviewRequest, error) {
	if uniqueID == "" {
		return nil, errors.New("uniqueID cannot be empty for GetByUniqueID operation")
	}
	var req models.ReviewRequest
	if err := mongoFindOne(ctx, r.coll, bson.M{"uniqueId": uniqueID}, &req, "review request by token"); err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *mongoReviewRequestRepository) ListByBusinessIDs(ctx context.Context, businessIDs []string) ([]*models.ReviewRequest, error) {
	if len(businessIDs) == 0 {
		return []*models.ReviewRequest{}, nil
	}
	return r.find(ctx, bson.M{"business": bson.M{"$in": businessIDs}})
}

func (r *mongoReviewRequestRepository) ListByBusinessSince(ctx context.Context, businessID string, since time.Time) ([]*models.ReviewRequest, error) {
	return r.find(ctx, bson.M{"business": businessID, "createdAt": bson.M{"$gte": since}})
}

func (r *mongoReviewRequestRepository) CountByBusinessSince(ctx context.Context, businessID string, since time.Time) (int, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{"business": businessID, "createdAt": bson.M{"$gte": since}})
	if err != nil {
		return 0, fmt.Errorf("failed to count review requests for business '%s': %w", businessID, err)
	}
	return int(count), nil
}

func (r *mongoReviewRequestRepository) Update(ctx context.Context, req *models.ReviewRequest) error {
	return mongoReplace(ctx, r.coll, req.ID, req, "review request")
}

func (r *mongoReviewRequestRepository) Delete(ctx context.Context, requestID string) error {
	return mongoDelete(ctx, r.coll, requestID, "review request")
}

func (r *mongoReviewRequestRepository) find(ctx context.Context, filter bson.M) ([]*models.ReviewRequest, error) {
	cursor, err := r.coll.Find(ctx, filter, newestFirst())
	if err != nil {
		return nil, fmt.Errorf("failed to query review requests: %w", err)
	}
	requests := []*models.ReviewRequest{}
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("failed to decode review requests: %w", err)
	}
	return requests, nil
}
