package db

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"revuverse-backend-go/internal/models"
)

// mongoUserRepository implements UserRepository using MongoDB.
type mongoUserRepository struct {
	coll *mongo.Collection
}

// NewMongoUserRepository creates a new instance of mongoUserRepository.
func NewMongoUserRepository(database *mongo.Database) UserRepository {
	return &mongoUserRepository{coll: database.Collection(usersCollection)}
}

// Create inserts a user keyed by the identity provider's subject.
func (r *mongoUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		return errors.New("user ID cannot be empty for Create operation")
	}
	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("user with ID '%s' already exists: %w", user.ID, ErrDuplicateKey)
		}
		return fmt.Errorf("failed to create user with ID '%s': %w", user.ID, err)
	}
	return nil
}

func (r *mongoUserRepository) GetByID(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty for GetByID operation")
	}
	var user models.User
	if err := mongoFindOne(ctx, r.coll, bson.M{"_id": userID}, &user, fmt.Sprintf("user '%s'", userID)); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *mongoUserRepository) GetByStripeCustomerID(ctx context.Context, customerID string) (*models.User, error) {
	if customerID == "" {
		return nil, errors.New("customerID cannot be empty for GetByStripeCustomerID operation")
	}
	var user models.User
	what := fmt.Sprintf("user with stripe customer '%s'", customerID)
	if err := mongoFindOne(ctx, r.coll, bson.M{"stripeCustomerId": customerID}, &user, what); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *mongoUserRepository) Update(ctx context.Context, user *models.User) error {
	return mongoReplace(ctx, r.coll, user.ID, user, "user")
}
