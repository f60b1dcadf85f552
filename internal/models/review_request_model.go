package models

import "time"

// Review request delivery methods.
const (
	MethodEmail = "email"
	MethodSMS   = "sms"
	MethodBoth  = "both"
)

// Review request statuses. A request moves pending -> sent -> clicked -> completed,
// or ends in failed when the first dispatch fails.
const (
	RequestPending   = "pending"
	RequestSent      = "sent"
	RequestClicked   = "clicked"
	RequestCompleted = "completed"
	RequestFailed    = "failed"
)

// Customer is the snapshot of the person asked for a review.
type Customer struct {
	Name  string `json:"name" bson:"name" firestore:"name"`
	Email string `json:"email,omitempty" bson:"email,omitempty" firestore:"email,omitempty"`
	Phone string `json:"phone,omitempty" bson:"phone,omitempty" firestore:"phone,omitempty"`
}

// ReviewRequest asks a customer of a business to leave feedback. UniqueID is the
// public capability token embedded in the feedback link.
type ReviewRequest struct {
	ID             string     `json:"id" bson:"_id" firestore:"-"`
	BusinessID     string     `json:"business" bson:"business" firestore:"business"`
	Customer       Customer   `json:"customer" bson:"customer" firestore:"customer"`
	RequestMethod  string     `json:"requestMethod" bson:"requestMethod" firestore:"requestMethod"`
	Message        string     `json:"message,omitempty" bson:"message,omitempty" firestore:"message,omitempty"`
	Status         string     `json:"status" bson:"status" firestore:"status"`
	SentAt         *time.Time `json:"sentAt,omitempty" bson:"sentAt,omitempty" firestore:"sentAt,omitempty"`
	ClickedAt      *time.Time `json:"clickedAt,omitempty" bson:"clickedAt,omitempty" firestore:"clickedAt,omitempty"`
	CompletedAt    *time.Time `json:"completedAt,omitempty" bson:"completedAt,omitempty" firestore:"completedAt,omitempty"`
	FeedbackID     string     `json:"feedback,omitempty" bson:"feedback,omitempty" firestore:"feedback,omitempty"`
	ReminderSent   bool       `json:"reminderSent" bson:"reminderSent" firestore:"reminderSent"`
	ReminderSentAt *time.Time `json:"reminderSentAt,omitempty" bson:"reminderSentAt,omitempty" firestore:"reminderSentAt,omitempty"`
	UniqueID       string     `json:"uniqueId" bson:"uniqueId" firestore:"uniqueId"`
	CreatedAt      time.Time  `json:"createdAt" bson:"createdAt" firestore:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt" bson:"updatedAt" firestore:"updatedAt"`
}

// WantsEmail reports whether the request method includes the email channel.
func (r *ReviewRequest) WantsEmail() bool {
	return r.RequestMethod == MethodEmail || r.RequestMethod == MethodBoth
}

// WantsSMS reports whether the request method includes the SMS channel.
func (r *ReviewRequest) WantsSMS() bool {
	return r.RequestMethod == MethodSMS || r.RequestMethod == MethodBoth
}

// ReviewRequestForm is what an unauthenticated customer sees for a request token.
type ReviewRequestForm struct {
	BusinessName string `json:"businessName"`
	Message      string `json:"message"`
}
