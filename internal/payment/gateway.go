package payment

import (
	"context"
	"errors"
)

// Billing event types the subscription ledger reacts to.
const (
	EventCheckoutCompleted   = "checkout.session.completed"
	EventSubscriptionDeleted = "customer.subscription.deleted"
)

var (
	// ErrGateway wraps every failed call to the payment provider.
	ErrGateway = errors.New("payment provider error")
	// ErrInvalidSignature is returned when a webhook payload fails verification.
	ErrInvalidSignature = errors.New("webhook signature verification failed")
)

// CheckoutRequest describes a hosted checkout for a recurring price.
type CheckoutRequest struct {
	CustomerID         string
	ProductName        string
	ProductDescription string
	Currency           string
	UnitAmountCents    int64
	Interval           string
	SuccessURL         string
	CancelURL          string
}

// CheckoutSession is what the client needs to redirect to the hosted checkout.
type CheckoutSession struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// BillingEvent is a verified webhook event reduced to the fields the ledger uses.
type BillingEvent struct {
	ID             string
	Type           string
	CustomerID     string
	SubscriptionID string
}

// Gateway is the billing provider boundary.
type Gateway interface {
	CreateCustomer(ctx context.Context, email, name string) (string, error)
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	CancelSubscription(ctx context.Context, subscriptionID string) error
	ParseWebhook(payload []byte, signature string) (*BillingEvent, error)
}
