package db

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"revuverse-backend-go/internal/models"
)

// firestoreSubscriptionRepository stores one subscription per user, keyed by the user ID
// so the one-per-user rule is enforced by the document key.
type firestoreSubscriptionRepository struct {
	coll *firestore.CollectionRef
}

// NewFirestoreSubscriptionRepository creates a new instance of firestoreSubscriptionRepository.
func NewFirestoreSubscriptionRepository(client *firestore.Client) SubscriptionRepository {
	return &firestoreSubscriptionRepository{coll: client.Collection(subscriptionsCollection)}
}

func (r *firestoreSubscriptionRepository) Create(ctx context.Context, sub *models.Subscription) (string, error) {
	if sub.UserID == "" {
		return "", errors.New("subscription user cannot be empty for Create operation")
	}
	sub.ID = sub.UserID
	if _, err := r.coll.Doc(sub.ID).Create(ctx, sub); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return "", fmt.Errorf("subscription for user '%s' already exists: %w", sub.UserID, ErrDuplicateKey)
		}
		return "", fmt.Errorf("failed to create subscription: %w", err)
	}
	return sub.ID, nil
}

func (r *firestoreSubscriptionRepository) GetByUserID(ctx context.Context, userID string) (*models.Subscription, error) {
	var sub models.Subscription
	if err := firestoreGet(ctx, r.coll, userID, &sub, "subscription"); err != nil {
		return nil, err
	}
	sub.ID = userID
	return &sub, nil
}

func (r *firestoreSubscriptionRepository) Update(ctx context.Context, sub *models.Subscription) error {
	return firestoreSet(ctx, r.coll, sub.ID, sub, "subscription")
}
