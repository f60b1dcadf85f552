package db

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"revuverse-backend-go/internal/config"
)

// Store bundles the repositories of the selected database driver.
type Store struct {
	Users          UserRepository
	Businesses     BusinessRepository
	Subscriptions  SubscriptionRepository
	ReviewRequests ReviewRequestRepository
	Feedback       FeedbackRepository
	Audit          AuditRepository

	closeFn func(ctx context.Context) error
}

// Close releases the underlying database client.
func (s *Store) Close(ctx context.Context) error {
	if s.closeFn == nil {
		return nil
	}
	return s.closeFn(ctx)
}

// NewMongoStore wires every repository to database.
func NewMongoStore(client *mongo.Client, database *mongo.Database) *Store {
	return &Store{
		Users:          NewMongoUserRepository(database),
		Businesses:     NewMongoBusinessRepository(database),
		Subscriptions:  NewMongoSubscriptionRepository(database),
		ReviewRequests: NewMongoReviewRequestRepository(database),
		Feedback:       NewMongoFeedbackRepository(database),
		Audit:          NewMongoAuditRepository(database),
		closeFn:        client.Disconnect,
	}
}

// NewFirestoreStore wires every repository to client.
func NewFirestoreStore(client *firestore.Client) *Store {
	return &Store{
		Users:          NewFirestoreUserRepository(client),
		Businesses:     NewFirestoreBusinessRepository(client),
		Subscriptions:  NewFirestoreSubscriptionRepository(client),
		ReviewRequests: NewFirestoreReviewRequestRepository(client),
		Feedback:       NewFirestoreFeedbackRepository(client),
		Audit:          NewFirestoreAuditRepository(client),
		closeFn:        func(context.Context) error { return client.Close() },
	}
}

// Open connects to the database named by cfg.DatabaseDriver. app is only used by the
// Firestore driver and may be nil otherwise.
func Open(ctx context.Context, cfg *config.Config, app *firebase.App, logger *zap.Logger) (*Store, error) {
	switch cfg.DatabaseDriver {
	case config.DriverMongo:
		client, err := ConnectMongo(ctx, cfg.MongoURI, logger)
		if err != nil {
			return nil, err
		}
		database := client.Database(cfg.MongoDatabase)
		if err := EnsureMongoIndexes(ctx, database); err != nil {
			logger.Warn("Failed to ensure MongoDB indexes", zap.Error(err))
		}
		return NewMongoStore(client, database), nil
	case config.DriverFirestore:
		if app == nil {
			return nil, fmt.Errorf("firestore driver requires an initialized Firebase app")
		}
		client, err := NewFirestoreClient(ctx, app)
		if err != nil {
			return nil, err
		}
		logger.Info("Firestore client initialized")
		return NewFirestoreStore(client), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}
}
