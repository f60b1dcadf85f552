package db

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"

	"revuverse-backend-go/internal/models"
)

type firestoreFeedbackRepository struct {
	coll *firestore.CollectionRef
}

// NewFirestoreFeedbackRepository creates a FeedbackRepository backed by Firestore.
func NewFirestoreFeedbackRepository(client *firestore.Client) FeedbackRepository {
	return &firestoreFeedbackRepository{coll: client.Collection(feedbackCollection)}
}

func (r *firestoreFeedbackRepository) Create(ctx context.Context, feedback *models.Feedback) (string, error) {
	docRef := r.coll.NewDoc()
	feedback.ID = docRef.ID
	if _, err := docRef.Create(ctx, feedback); err != nil {
		return "", fmt.Errorf("failed to create feedback: %w", err)
	}
	return docRef.ID, nil
}

func (r *firestoreFeedbackRepository) GetByID(ctx context.Context, feedbackID string) (*models.Feedback, error) {
	var feedback models.Feedback
	if err := firestoreGet(ctx, r.coll, feedbackID, &feedback, "feedback"); err != nil {
		return nil, err
	}
	feedback.ID = feedbackID
	return &feedback, nil
}

func (r *firestoreFeedbackRepository) ListByBusinessIDs(ctx context.Context, businessIDs []string) ([]*models.Feedback, error) {
	feedback := []*models.Feedback{}
	for _, chunk := range chunkIDs(businessIDs) {
		err := firestoreAll(ctx, r.coll.Where("business", "in", chunk), func(doc *firestore.DocumentSnapshot) error {
			var f models.Feedback
			if err := doc.DataTo(&f); err != nil {
				return err
			}
			f.ID = doc.Ref.ID
			feedback = append(feedback, &f)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to query feedback: %w", err)
		}
	}
	sortNewestFirst(feedback, func(f *models.Feedback) time.Time { return f.CreatedAt })
	return feedback, nil
}

func (r *firestoreFeedbackRepository) Update(ctx context.Context, feedback *models.Feedback) error {
	return firestoreSet(ctx, r.coll, feedback.ID, feedback, "feedback")
}

func (r *firestoreFeedbackRepository) Delete(ctx context.Context, feedbackID string) error {
	return firestoreDelete(ctx, r.coll, feedbackID, "feedback")
}
