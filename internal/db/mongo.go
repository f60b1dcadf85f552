package db

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Collection names shared by the Mongo and Firestore implementations.
const (
	usersCollection          = "users"
	businessesCollection     = "businesses"
	subscriptionsCollection  = "subscriptions"
	reviewRequestsCollection = "reviewrequests"
	feedbackCollection       = "feedbacks"
	auditLogsCollection      = "audit_logs"
)

// ConnectMongo opens a client for uri and verifies it with a ping.
func ConnectMongo(ctx context.Context, uri string, logger *zap.Logger) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}
	logger.Info("Connected to MongoDB")
	return client, nil
}

// EnsureMongoIndexes creates the indexes the repositories rely on. The unique index on
// reviewrequests.uniqueId is what turns a token collision into ErrDuplicateKey.
func EnsureMongoIndexes(ctx context.Context, database *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		reviewRequestsCollection: {
			{Keys: bson.D{{Key: "uniqueId", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "business", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		businessesCollection: {
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		subscriptionsCollection: {
			{Keys: bson.D{{Key: "user", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		feedbackCollection: {
			{Keys: bson.D{{Key: "business", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		usersCollection: {
			{Keys: bson.D{{Key: "stripeCustomerId", Value: 1}}, Options: options.Index().SetSparse(true)},
		},
	}
	for collection, indexes := range specs {
		if _, err := database.Collection(collection).Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", collection, err)
		}
	}
	return nil
}

// newMongoID returns a fresh document id in ObjectID hex form.
func newMongoID() string {
	return primitive.NewObjectID().Hex()
}

// mongoFindOne decodes the first document matching filter into out.
func mongoFindOne(ctx context.Context, coll *mongo.Collection, filter bson.M, out interface{}, what string) error {
	err := coll.FindOne(ctx, filter).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%s not found: %w", what, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to get %s: %w", what, err)
	}
	return nil
}

// mongoReplace overwrites the document with the given id.
func mongoReplace(ctx context.Context, coll *mongo.Collection, id string, doc interface{}, what string) error {
	if id == "" {
		return fmt.Errorf("%s ID cannot be empty for Update operation", what)
	}
	res, err := coll.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return fmt.Errorf("failed to update %s with ID '%s': %w", what, id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s with ID '%s' not found for update: %w", what, id, ErrNotFound)
	}
	return nil
}

// mongoDelete removes the document with the given id.
func mongoDelete(ctx context.Context, coll *mongo.Collection, id string, what string) error {
	if id == "" {
		return fmt.Errorf("%s ID cannot be empty for Delete operation", what)
	}
	res, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete %s with ID '%s': %w", what, id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%s with ID '%s' not found for deletion: %w", what, id, ErrNotFound)
	}
	return nil
}

// newestFirst is the sort used by every list query.
func newestFirst() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
}
