package db

import (
	"context"
	"errors"
	"time"

	"revuverse-backend-go/internal/models"
)

// ErrNotFound is returned by every repository when the requested document does not exist.
var ErrNotFound = errors.New("document not found")

// ErrDuplicateKey is returned when a write violates a uniqueness constraint.
var ErrDuplicateKey = errors.New("duplicate key")

// UserRepository defines the interface for user data storage operations.
type UserRepository interface {
	GetByID(ctx context.Context, userID string) (*models.User, error)
	GetByStripeCustomerID(ctx context.Context, customerID string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
}

// BusinessRepository defines the interface for business data storage operations.
type BusinessRepository interface {
	Create(ctx context.Context, business *models.Business) (string, error) // Returns new business ID
	GetByID(ctx context.Context, businessID string) (*models.Business, error)
	GetByOwnerID(ctx context.Context, ownerID string) ([]*models.Business, error) // Newest first
	Update(ctx context.Context, business *models.Business) error
	Delete(ctx context.Context, businessID string) error
	CountByOwnerID(ctx context.Context, ownerID string) (int, error) // For plan limits
}

// SubscriptionRepository defines the interface for subscription data storage operations.
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *models.Subscription) (string, error)
	GetByUserID(ctx context.Context, userID string) (*models.Subscription, error)
	Update(ctx context.Context, sub *models.Subscription) error
}

// ReviewRequestRepository defines the interface for review request data storage operations.
type ReviewRequestRepository interface {
	// Create persists a new request. A uniqueId collision yields ErrDuplicateKey.
	Create(ctx context.Context, req *models.ReviewRequest) (string, error)
	GetByID(ctx context.Context, requestID string) (*models.ReviewRequest, error)
	GetByUniqueID(ctx context.Context, uniqueID string) (*models.ReviewRequest, error)
	ListByBusinessIDs(ctx context.Context, businessIDs []string) ([]*models.ReviewRequest, error) // Newest first
	ListByBusinessSince(ctx context.Context, businessID string, since time.Time) ([]*models.ReviewRequest, error)
	CountByBusinessSince(ctx context.Context, businessID string, since time.Time) (int, error)
	Update(ctx context.Context, req *models.ReviewRequest) error
	Delete(ctx context.Context, requestID string) error
}

// FeedbackRepository defines the interface for feedback data storage operations.
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *models.Feedback) (string, error)
	GetByID(ctx context.Context, feedbackID string) (*models.Feedback, error)
	ListByBusinessIDs(ctx context.Context, businessIDs []string) ([]*models.Feedback, error) // Newest first
	Update(ctx context.Context, feedback *models.Feedback) error
	Delete(ctx context.Context, feedbackID string) error
}

// AuditRepository defines the interface for audit log data storage operations.
type AuditRepository interface {
	Create(ctx context.Context, logEntry models.AuditLog) error
}
