package core

import (
	"context"

	"revuverse-backend-go/internal/models"
	"revuverse-backend-go/internal/notify"
	"revuverse-backend-go/internal/payment"
)

// Identity is what the authentication layer knows about the caller before a User exists.
type Identity struct {
	UserID      string
	Email       string
	DisplayName string
	PhotoURL    string
	FirstName   string
	LastName    string
}

// UserProfile is the current user together with their subscription.
type UserProfile struct {
	User         *models.User         `json:"user"`
	Subscription *models.Subscription `json:"subscription,omitempty"`
}

// UserService defines the interface for user-related operations.
type UserService interface {
	// GetOrCreate loads the user, creating it with a free subscription on first sight.
	// The bool reports whether the user was created.
	GetOrCreate(ctx context.Context, identity Identity) (*models.User, bool, error)
	GetByID(ctx context.Context, userID string) (*models.User, error)
	Profile(ctx context.Context, userID string) (*UserProfile, error)
}

// BusinessService defines the Business Registry operations.
type BusinessService interface {
	Create(ctx context.Context, caller models.Caller, input models.BusinessInput) (*models.Business, error)
	List(ctx context.Context, caller models.Caller) ([]*models.Business, error)
	Get(ctx context.Context, caller models.Caller, businessID string) (*models.Business, error)
	Update(ctx context.Context, caller models.Caller, businessID string, input models.BusinessInput) (*models.Business, error)
	Delete(ctx context.Context, caller models.Caller, businessID string) error
}

// SubscriptionService defines the Subscription Ledger operations.
type SubscriptionService interface {
	Get(ctx context.Context, userID string) (*models.Subscription, error)
	ChangePlan(ctx context.Context, userID, plan string) (*models.Subscription, error)
	CheckReviewRequestQuota(ctx context.Context, userID, businessID string) error
	// HandleWebhook verifies payload against signature before applying it.
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
	ApplyBillingEvent(ctx context.Context, event payment.BillingEvent) error
	Cancel(ctx context.Context, userID string) (*models.Subscription, error)
	CreateCheckout(ctx context.Context, userID, plan string) (*payment.CheckoutSession, error)
}

// ReviewRequestService defines the Review Request Workflow operations.
type ReviewRequestService interface {
	Create(ctx context.Context, caller models.Caller, req models.CreateReviewRequestRequest) (*models.ReviewRequest, error)
	List(ctx context.Context, caller models.Caller) ([]*models.ReviewRequest, error)
	ListByBusiness(ctx context.Context, caller models.Caller, businessID string) ([]*models.ReviewRequest, error)
	Get(ctx context.Context, caller models.Caller, requestID string) (*models.ReviewRequest, error)
	Update(ctx context.Context, caller models.Caller, requestID string, req models.UpdateReviewRequestRequest) (*models.ReviewRequest, error)
	Delete(ctx context.Context, caller models.Caller, requestID string) error
	SendEmail(ctx context.Context, caller models.Caller, requestID string) error
	SendSMS(ctx context.Context, caller models.Caller, requestID string) error
	Remind(ctx context.Context, caller models.Caller, requestID string) error
	Analytics(ctx context.Context, caller models.Caller, businessID string) (*models.ReviewRequestAnalytics, error)
	// Form resolves a public token and marks a sent request as clicked.
	Form(ctx context.Context, token string) (*models.ReviewRequestForm, error)
	// SubmitFeedback records the customer's feedback for a token and completes the request.
	SubmitFeedback(ctx context.Context, token string, req models.SubmitFeedbackRequest) (*models.Feedback, error)
}

// FeedbackService defines the Feedback Intake operations.
type FeedbackService interface {
	Submit(ctx context.Context, businessID string, req models.SubmitFeedbackRequest) (*models.Feedback, error)
	SubmitForReviewRequest(ctx context.Context, reviewRequest *models.ReviewRequest, req models.SubmitFeedbackRequest) (*models.Feedback, error)
	ListForOwner(ctx context.Context, caller models.Caller, businessID string) ([]*models.Feedback, error)
	Get(ctx context.Context, caller models.Caller, feedbackID string) (*models.Feedback, error)
	UpdateStatus(ctx context.Context, caller models.Caller, feedbackID, status string) (*models.Feedback, error)
	Respond(ctx context.Context, caller models.Caller, feedbackID, response string) (*models.Feedback, error)
	Delete(ctx context.Context, caller models.Caller, feedbackID string) error
	Analytics(ctx context.Context, caller models.Caller, businessID string) (*models.FeedbackAnalytics, error)
}

// NotificationService renders and dispatches review request and owner notifications.
type NotificationService interface {
	// DispatchReviewRequest sends on every channel of req.RequestMethod whose contact is present.
	DispatchReviewRequest(ctx context.Context, req *models.ReviewRequest, businessName string, reminder bool) error
	SendReviewRequestEmail(ctx context.Context, req *models.ReviewRequest, businessName string) error
	SendReviewRequestSMS(ctx context.Context, req *models.ReviewRequest, businessName string) error
	NotifyOwnerOfFeedback(ctx context.Context, ownerEmail, businessName string, feedback *models.Feedback) error
}

// PhoneService exposes the SMS utility endpoints.
type PhoneService interface {
	SendSMS(ctx context.Context, to, message string) (*notify.Receipt, error)
	StartVerification(ctx context.Context, phoneNumber string) (*notify.Receipt, error)
	CheckVerification(ctx context.Context, phoneNumber, code string) (*notify.Receipt, error)
	Account(ctx context.Context) (*notify.Account, error)
}

// AuditService defines the interface for audit logging operations.
type AuditService interface {
	CreateAuditLog(ctx context.Context, logEntry models.AuditLog) error
}
