package db

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"

	"revuverse-backend-go/internal/models"
)

// firestoreBusinessRepository implements the BusinessRepository interface using Firestore.
type firestoreBusinessRepository struct {
	coll *firestore.CollectionRef
}

// NewFirestoreBusinessRepository creates a new instance of firestoreBusinessRepository.
func NewFirestoreBusinessRepository(client *firestore.Client) BusinessRepository {
	return &firestoreBusinessRepository{coll: client.Collection(businessesCollection)}
}

// Create adds a new business document with an auto-generated ID.
func (r *firestoreBusinessRepository) Create(ctx context.Context, business *models.Business) (string, error) {
	docRef := r.coll.NewDoc()
	business.ID = docRef.ID
	if _, err := docRef.Create(ctx, business); err != nil {
		return "", fmt.Errorf("failed to create business: %w", err)
	}
	return docRef.ID, nil
}

// GetByID retrieves a business document by its ID.
func (r *firestoreBusinessRepository) GetByID(ctx context.Context, businessID string) (*models.Business, error) {
	var business models.Business
	if err := firestoreGet(ctx, r.coll, businessID, &business, "business"); err != nil {
		return nil, err
	}
	business.ID = businessID
	return &business, nil
}

// GetByOwnerID retrieves all businesses owned by a user, newest first.
func (r *firestoreBusinessRepository) GetByOwnerID(ctx context.Context, ownerID string) ([]*models.Business, error) {
	if ownerID == "" {
		return nil, errors.New("ownerID cannot be empty for GetByOwnerID operation")
	}
	query := r.coll.Where("user", "==", ownerID).OrderBy("createdAt", firestore.Desc)

	businesses := []*models.Business{}
	err := firestoreAll(ctx, query, func(doc *firestore.DocumentSnapshot) error {
		var business models.Business
		if err := doc.DataTo(&business); err != nil {
			return err
		}
		business.ID = doc.Ref.ID
		businesses = append(businesses, &business)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list businesses for owner '%s': %w", ownerID, err)
	}
	return businesses, nil
}

// Update overwrites an existing business document.
func (r *firestoreBusinessRepository) Update(ctx context.Context, business *models.Business) error {
	return firestoreSet(ctx, r.coll, business.ID, business, "business")
}

// Delete removes a business document. Review requests and feedback are left in place.
func (r *firestoreBusinessRepository) Delete(ctx context.Context, businessID string) error {
	return firestoreDelete(ctx, r.coll, businessID, "business")
}

// CountByOwnerID counts businesses owned by a user with an aggregation query.
func (r *firestoreBusinessRepository) CountByOwnerID(ctx context.Context, ownerID string) (int, error) {
	if ownerID == "" {
		return 0, errors.New("ownerID cannot be empty for CountByOwnerID operation")
	}
	return firestoreCount(ctx, r.coll.Where("user", "==", ownerID))
}

// firestoreCount runs a COUNT aggregation over query.
func firestoreCount(ctx context.Context, query firestore.Query) (int, error) {
	results, err := query.NewAggregationQuery().WithCount("all").Get(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to run count aggregation: %w", err)
	}
	count, ok := results["all"]
	if !ok {
		return 0, errors.New("aggregation count 'all' not found in results")
	}
	value, ok := count.(*firestorepb.Value)
	if !ok {
		return 0, fmt.Errorf("unexpected type %T for aggregation count", count)
	}
	return int(value.GetIntegerValue()), nil
}
