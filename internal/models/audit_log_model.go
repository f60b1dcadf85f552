package models

import "time"

// Audit actions recorded by the services.
const (
	ActionBusinessCreate         = "BUSINESS_CREATE"
	ActionBusinessUpdate         = "BUSINESS_UPDATE"
	ActionBusinessDelete         = "BUSINESS_DELETE"
	ActionReviewRequestCreate    = "REVIEW_REQUEST_CREATE"
	ActionReviewRequestRemind    = "REVIEW_REQUEST_REMIND"
	ActionReviewRequestDelete    = "REVIEW_REQUEST_DELETE"
	ActionFeedbackSubmit         = "FEEDBACK_SUBMIT"
	ActionSubscriptionPlanChange = "SUBSCRIPTION_PLAN_CHANGE"
	ActionSubscriptionCancel     = "SUBSCRIPTION_CANCEL"
	ActionBillingEvent           = "BILLING_EVENT"
)

// AuditLog represents an audit trail event.
type AuditLog struct {
	ID         string                 `json:"id" bson:"_id" firestore:"-"`
	Timestamp  time.Time              `json:"timestamp" bson:"timestamp" firestore:"timestamp"`
	UserID     string                 `json:"userId" bson:"userId" firestore:"userId"` // who performed the action; empty for public callers
	Action     string                 `json:"action" bson:"action" firestore:"action"`
	TargetType string                 `json:"targetType,omitempty" bson:"targetType,omitempty" firestore:"targetType,omitempty"`
	TargetID   string                 `json:"targetId,omitempty" bson:"targetId,omitempty" firestore:"targetId,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty" bson:"details,omitempty" firestore:"details,omitempty"`
}
