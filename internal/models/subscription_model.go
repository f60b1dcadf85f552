package models

import "time"

// Plans.
const (
	PlanFree    = "free"
	PlanPremium = "premium"
)

// Subscription statuses. StatusInactive is written by the downgrade path.
const (
	StatusActive   = "active"
	StatusCanceled = "canceled"
	StatusExpired  = "expired"
	StatusTrial    = "trial"
	StatusInactive = "inactive"
)

// UnlimitedReviewRequests is the reviewRequestsLimit value that disables the quota.
const UnlimitedReviewRequests = -1

// Features are derived from the plan and never set independently.
type Features struct {
	ReviewRequestsLimit int  `json:"reviewRequestsLimit" bson:"reviewRequestsLimit" firestore:"reviewRequestsLimit"`
	APIIntegrations     bool `json:"apiIntegrations" bson:"apiIntegrations" firestore:"apiIntegrations"`
	AdvancedAnalytics   bool `json:"advancedAnalytics" bson:"advancedAnalytics" firestore:"advancedAnalytics"`
	MultipleBusinesses  bool `json:"multipleBusinesses" bson:"multipleBusinesses" firestore:"multipleBusinesses"`
}

// Subscription is the billing state of a user (one per user).
type Subscription struct {
	ID                   string     `json:"id" bson:"_id" firestore:"-"`
	UserID               string     `json:"user" bson:"user" firestore:"user"`
	Plan                 string     `json:"plan" bson:"plan" firestore:"plan"`
	Status               string     `json:"status" bson:"status" firestore:"status"`
	StripeSubscriptionID string     `json:"stripeSubscriptionId,omitempty" bson:"stripeSubscriptionId,omitempty" firestore:"stripeSubscriptionId"`
	StripePriceID        string     `json:"stripePriceId,omitempty" bson:"stripePriceId,omitempty" firestore:"stripePriceId,omitempty"`
	StripeCustomerID     string     `json:"stripeCustomerId,omitempty" bson:"stripeCustomerId,omitempty" firestore:"stripeCustomerId,omitempty"`
	CurrentPeriodStart   *time.Time `json:"currentPeriodStart,omitempty" bson:"currentPeriodStart,omitempty" firestore:"currentPeriodStart,omitempty"`
	CurrentPeriodEnd     *time.Time `json:"currentPeriodEnd,omitempty" bson:"currentPeriodEnd,omitempty" firestore:"currentPeriodEnd,omitempty"`
	CancelAtPeriodEnd    bool       `json:"cancelAtPeriodEnd" bson:"cancelAtPeriodEnd" firestore:"cancelAtPeriodEnd"`
	CanceledAt           *time.Time `json:"canceledAt,omitempty" bson:"canceledAt,omitempty" firestore:"canceledAt,omitempty"`
	Features             Features   `json:"features" bson:"features" firestore:"features"`
	CreatedAt            time.Time  `json:"createdAt" bson:"createdAt" firestore:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt" bson:"updatedAt" firestore:"updatedAt"`
}
