package db

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"revuverse-backend-go/internal/config"
)

// firestoreInLimit is the maximum number of values Firestore accepts in an "in" filter.
const firestoreInLimit = 30

// NewFirebaseApp initializes the Firebase Admin SDK. Credentials come from a service
// account file, a Base64 encoded service account JSON, or Application Default Credentials.
func NewFirebaseApp(ctx context.Context, appConfig *config.Config, logger *zap.Logger) (*firebase.App, error) {
	if appConfig == nil {
		return nil, errors.New("NewFirebaseApp: appConfig cannot be nil")
	}

	var opts []option.ClientOption
	switch {
	case appConfig.GoogleApplicationCredentials != "":
		logger.Info("Initializing Firebase with credentials file", zap.String("path", appConfig.GoogleApplicationCredentials))
		if _, err := os.Stat(appConfig.GoogleApplicationCredentials); os.IsNotExist(err) {
			logger.Warn("Credentials file does not exist", zap.String("path", appConfig.GoogleApplicationCredentials))
		}
		opts = append(opts, option.WithCredentialsFile(appConfig.GoogleApplicationCredentials))
	case appConfig.FirebaseServiceAccountJSONBase64 != "":
		logger.Info("Initializing Firebase with Base64 encoded service account JSON")
		decodedJSON, err := base64.StdEncoding.DecodeString(appConfig.FirebaseServiceAccountJSONBase64)
		if err != nil {
			return nil, fmt.Errorf("failed to decode FIREBASE_SERVICE_ACCOUNT_JSON_BASE64: %w", err)
		}
		opts = append(opts, option.WithCredentialsJSON(decodedJSON))
	default:
		logger.Info("Initializing Firebase using Application Default Credentials (ADC)")
	}

	var fbConfig *firebase.Config
	if appConfig.FirebaseProjectID != "" {
		fbConfig = &firebase.Config{ProjectID: appConfig.FirebaseProjectID}
	}

	app, err := firebase.NewApp(ctx, fbConfig, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase.NewApp: %w", err)
	}
	return app, nil
}

// NewFirestoreClient returns the Firestore client of an initialized Firebase app.
func NewFirestoreClient(ctx context.Context, app *firebase.App) (*firestore.Client, error) {
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("app.Firestore: %w", err)
	}
	return client, nil
}

// notFoundOr maps a gRPC NotFound to ErrNotFound and wraps everything else.
func notFoundOr(err error, what string) error {
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("%s not found: %w", what, ErrNotFound)
	}
	return fmt.Errorf("failed to get %s: %w", what, err)
}

// firestoreGet loads a document by ID into out and returns the snapshot ID.
func firestoreGet(ctx context.Context, coll *firestore.CollectionRef, id string, out interface{}, what string) error {
	if id == "" {
		return fmt.Errorf("%s ID cannot be empty for GetByID operation", what)
	}
	snap, err := coll.Doc(id).Get(ctx)
	if err != nil {
		return notFoundOr(err, fmt.Sprintf("%s '%s'", what, id))
	}
	if err := snap.DataTo(out); err != nil {
		return fmt.Errorf("failed to decode %s '%s': %w", what, id, err)
	}
	return nil
}

// firestoreFirst decodes the first document of query into out and returns its ID.
func firestoreFirst(ctx context.Context, query firestore.Query, out interface{}, what string) (string, error) {
	iter := query.Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if errors.Is(err, iterator.Done) {
		return "", fmt.Errorf("%s not found: %w", what, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to query %s: %w", what, err)
	}
	if err := doc.DataTo(out); err != nil {
		return "", fmt.Errorf("failed to decode %s: %w", what, err)
	}
	return doc.Ref.ID, nil
}

// firestoreAll iterates query and calls decode for every document.
func firestoreAll(ctx context.Context, query firestore.Query, decode func(*firestore.DocumentSnapshot) error) error {
	iter := query.Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := decode(doc); err != nil {
			return fmt.Errorf("failed to decode document '%s': %w", doc.Ref.ID, err)
		}
	}
}

// firestoreSet overwrites a whole document. Missing documents are reported as ErrNotFound.
func firestoreSet(ctx context.Context, coll *firestore.CollectionRef, id string, doc interface{}, what string) error {
	if id == "" {
		return fmt.Errorf("%s ID cannot be empty for Update operation", what)
	}
	ref := coll.Doc(id)
	if _, err := ref.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("%s with ID '%s' not found for update: %w", what, id, ErrNotFound)
		}
		return fmt.Errorf("failed to load %s '%s' for update: %w", what, id, err)
	}
	if _, err := ref.Set(ctx, doc); err != nil {
		return fmt.Errorf("failed to update %s with ID '%s': %w", what, id, err)
	}
	return nil
}

// firestoreDelete removes a document, reporting a missing one as ErrNotFound.
func firestoreDelete(ctx context.Context, coll *firestore.CollectionRef, id string, what string) error {
	if id == "" {
		return fmt.Errorf("%s ID cannot be empty for Delete operation", what)
	}
	if _, err := coll.Doc(id).Delete(ctx, firestore.Exists); err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("%s with ID '%s' not found for deletion: %w", what, id, ErrNotFound)
		}
		return fmt.Errorf("failed to delete %s with ID '%s': %w", what, id, err)
	}
	return nil
}

// chunkIDs splits ids into groups small enough for an "in" filter.
func chunkIDs(ids []string) [][]string {
	var chunks [][]string
	for len(ids) > firestoreInLimit {
		chunks = append(chunks, ids[:firestoreInLimit])
		ids = ids[firestoreInLimit:]
	}
	if len(ids) > 0 {
		chunks = append(chunks, ids)
	}
	return chunks
}

// sortNewestFirst orders items by the timestamp returned by createdAt.
func sortNewestFirst[T any](items []T, createdAt func(T) time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		return createdAt(items[i]).After(createdAt(items[j]))
	})
}
