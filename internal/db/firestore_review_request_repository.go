package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"revuverse-backend-go/internal/models"
)

// reviewRequestTokensCollection holds one document per uniqueId. Creating it in the same
// transaction as the request makes a token collision fail the whole insert.
const reviewRequestTokensCollection = "reviewrequest_tokens"

type firestoreReviewRequestRepository struct {
	client *firestore.Client
	coll   *firestore.CollectionRef
	tokens *firestore.CollectionRef
}

// NewFirestoreReviewRequestRepository creates a ReviewRequestRepository backed by Firestore.
func NewFirestoreReviewRequestRepository(client *firestore.Client) ReviewRequestRepository {
	return &firestoreReviewRequestRepository{
		client: client,
		coll:   client.Collection(reviewRequestsCollection),
		tokens: client.Collection(reviewRequestTokensCollection),
	}
}

func (r *firestoreReviewRequestRepository) Create(ctx context.Context, req *models.ReviewRequest) (string, error) {
	if req.UniqueID == "" {
		return "", errors.New("review request uniqueId cannot be empty for Create operation")
	}
	docRef := r.coll.NewDoc()
	tokenRef := r.tokens.Doc(req.UniqueID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if err := tx.Create(tokenRef, map[string]interface{}{"requestId": docRef.ID}); err != nil {
			return err
		}
		return tx.Create(docRef, req)
	})
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return "", fmt.Errorf("review request token collision: %w", ErrDuplicateKey)
		}
		return "", fmt.Errorf("failed to create review request: %w", err)
	}
	req.ID = docRef.ID
	return docRef.ID, nil
}

func (r *firestoreReviewRequestRepository) GetByID(ctx context.Context, requestID string) (*models.ReviewRequest, error) {
	var req models.ReviewRequest
	if err := firestoreGet(ctx, r.coll, requestID, &req, "review request"); err != nil {
		return nil, err
	}
	req.ID = requestID
	return &req, nil
}

func (r *firestoreReviewRequestRepository) GetByUniqueID(ctx context.Context, uniqueID string) (*models.ReviewRequest, error) {
	if uniqueID == "" {
		return nil, errors.New("uniqueID cannot be empty for GetByUniqueID operation")
	}
	var req models.ReviewRequest
	id, err := firestoreFirst(ctx, r.coll.Where("uniqueId", "==", uniqueID), &req, "review request by token")
	if err != nil {
		return nil, err
	}
	req.ID = id
	return &req, nil
}

func (r *firestoreReviewRequestRepository) ListByBusinessIDs(ctx context.Context, businessIDs []string) ([]*models.ReviewRequest, error) {
	requests := []*models.ReviewRequest{}
	for _, chunk := range chunkIDs(businessIDs) {
		part, err := r.list(ctx, r.coll.Where("business", "in", chunk))
		if err != nil {
			return nil, err
		}
		requests = append(requests, part...)
	}
	sortNewestFirst(requests, func(req *models.ReviewRequest) time.Time { return req.CreatedAt })
	return requests, nil
}

func (r *firestoreReviewRequestRepository) ListByBusinessSince(ctx context.Context, businessID string, since time.Time) ([]*models.ReviewRequest, error) {
	query := r.coll.Where("business", "==", businessID).Where("createdAt", ">=", since).OrderBy("createdAt", firestore.Desc)
	return r.list(ctx, query)
}

func (r *firestoreReviewRequestRepository) CountByBusinessSince(ctx context.Context, businessID string, since time.Time) (int, error) {
	count, err := firestoreCount(ctx, r.coll.Where("business", "==", businessID).Where("createdAt", ">=", since))
	if err != nil {
		return 0, fmt.Errorf("failed to count review requests for business '%s': %w", businessID, err)
	}
	return count, nil
}

func (r *firestoreReviewRequestRepository) Update(ctx context.Context, req *models.ReviewRequest) error {
	return firestoreSet(ctx, r.coll, req.ID, req, "review request")
}

// Delete removes the request and releases its token document.
func (r *firestoreReviewRequestRepository) Delete(ctx context.Context, requestID string) error {
	existing, err := r.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	err = r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if err := tx.Delete(r.tokens.Doc(existing.UniqueID)); err != nil {
			return err
		}
		return tx.Delete(r.coll.Doc(requestID))
	})
	if err != nil {
		return fmt.Errorf("failed to delete review request with ID '%s': %w", requestID, err)
	}
	return nil
}

func (r *firestoreReviewRequestRepository) list(ctx context.Context, query firestore.Query) ([]*models.ReviewRequest, error) {
	requests := []*models.ReviewRequest{}
	err := firestoreAll(ctx, query, func(doc *firestore.DocumentSnapshot) error {
		var req models.ReviewRequest
		if err := doc.DataTo(&req); err != nil {
			return err
		}
		req.ID = doc.Ref.ID
		requests = append(requests, &req)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query review requests: %w", err)
	}
	return requests, nil
}
