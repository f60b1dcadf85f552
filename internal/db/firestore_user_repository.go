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

// firestoreUserRepository implements the UserRepository interface using Firestore.
type firestoreUserRepository struct {
	coll *firestore.CollectionRef
}

// NewFirestoreUserRepository creates a new instance of firestoreUserRepository.
func NewFirestoreUserRepository(client *firestore.Client) UserRepository {
	return &firestoreUserRepository{coll: client.Collection(usersCollection)}
}

// Create adds a new user document. The user.ID (identity subject) is the document ID.
func (r *firestoreUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		return errors.New("user ID cannot be empty for Create operation")
	}
	if _, err := r.coll.Doc(user.ID).Create(ctx, user); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return fmt.Errorf("user with ID '%s' already exists: %w", user.ID, ErrDuplicateKey)
		}
		return fmt.Errorf("failed to create user with ID '%s': %w", user.ID, err)
	}
	return nil
}

// GetByID retrieves a user document by its ID.
func (r *firestoreUserRepository) GetByID(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	if err := firestoreGet(ctx, r.coll, userID, &user, "user"); err != nil {
		return nil, err
	}
	user.ID = userID
	return &user, nil
}

// GetByStripeCustomerID resolves the user a billing webhook refers to.
func (r *firestoreUserRepository) GetByStripeCustomerID(ctx context.Context, customerID string) (*models.User, error) {
	if customerID == "" {
		return nil, errors.New("customerID cannot be empty for GetByStripeCustomerID operation")
	}
	var user models.User
	id, err := firestoreFirst(ctx, r.coll.Where("stripeCustomerId", "==", customerID), &user,
		fmt.Sprintf("user with stripe customer '%s'", customerID))
	if err != nil {
		return nil, err
	}
	user.ID = id
	return &user, nil
}

// Update overwrites an existing user document.
func (r *firestoreUserRepository) Update(ctx context.Context, user *models.User) error {
	return firestoreSet(ctx, r.coll, user.ID, user, "user")
}
