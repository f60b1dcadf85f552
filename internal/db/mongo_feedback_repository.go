package db

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"revuverse-backend-go/internal/models"
)

// mongoFeedbackRepository implements FeedbackRepository using MongoDB.
type mongoFeedbackRepository struct {
	coll *mongo.Collection
}

// NewMongoFeedbackRepository creates a new instance of mongoFeedbackRepository.
func NewMongoFeedbackRepository(database *mongo.Database) FeedbackRepository {
	return &mongoFeedbackRepository{coll: database.Collection(feedbackCollection)}
}

func (r *mongoFeedbackRepository) Create(ctx context.Context, feedback *models.Feedback) (string, error) {
	feedback.ID = newMongoID()
	if _, err := r.coll.InsertOne(ctx, feedback); err != nil {
		return "", fmt.Errorf("failed to create feedback: %w", err)
	}
	return feedback.ID, nil
}

func (r *mongoFeedbackRepository) GetByID(ctx context.Context, feedbackID string) (*models.Feedback, error) {
	if feedbackID == "" {
		return nil, errors.New("feedbackID cannot be empty for GetByID operation")
	}
	var feedback models.Feedback
	if err := mongoFindOne(ctx, r.coll, bson.M{"_id": feedbackID}, &feedback, fmt.Sprintf("feedback '%s'", feedbackID)); err != nil {
		return nil, err
	}
	return &feedback, nil
}

func (r *mongoFeedbackRepository) ListByBusinessIDs(ctx context.Context, businessIDs []string) ([]*models.Feedback, error) {
	if len(businessIDs) == 0 {
		return []*models.Feedback{}, nil
	}
	cursor, err := r.coll.Find(ctx, bson.M{"business": bson.M{"$in": businessIDs}}, newestFirst())
	if err != nil {
		return nil, fmt.Errorf("failed to query feedback: %w", err)
	}
	feedback := []*models.Feedback{}
	if err := cursor.All(ctx, &feedback); err != nil {
		return nil, fmt.Errorf("failed to decode feedback: %w", err)
	}
	return feedback, nil
}

func (r *mongoFeedbackRepository) Update(ctx context.Context, feedback *models.Feedback) error {
	return mongoReplace(ctx, r.coll, feedback.ID, feedback, "feedback")
}

func (r *mongoFeedbackRepository) Delete(ctx context.Context, feedbackID string) error {
	return mongoDelete(ctx, r.coll, feedbackID, "feedback")
}
