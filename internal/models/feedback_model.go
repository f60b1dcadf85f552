package models

import "time"

// Sentiments derived from a rating.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// Feedback statuses. Any status may be assigned from any other.
const (
	FeedbackNew        = "new"
	FeedbackInProgress = "in_progress"
	FeedbackResolved   = "resolved"
	FeedbackIgnored    = "ignored"
)

// Platforms feedback can originate from.
const (
	PlatformGoogle      = "google"
	PlatformFacebook    = "facebook"
	PlatformYelp        = "yelp"
	PlatformTripAdvisor = "tripadvisor"
	PlatformTrustpilot  = "trustpilot"
	PlatformInternal    = "internal"
	PlatformOther       = "other"
)

// BusinessResponse is the owner's public reply to a piece of feedback.
type BusinessResponse struct {
	Content     string     `json:"content,omitempty" bson:"content,omitempty" firestore:"content,omitempty"`
	RespondedAt *time.Time `json:"respondedAt,omitempty" bson:"respondedAt,omitempty" firestore:"respondedAt,omitempty"`
	RespondedBy string     `json:"respondedBy,omitempty" bson:"respondedBy,omitempty" firestore:"respondedBy,omitempty"`
}

// Feedback is a rating and comment left by a customer for a business.
type Feedback struct {
	ID                 string           `json:"id" bson:"_id" firestore:"-"`
	BusinessID         string           `json:"business" bson:"business" firestore:"business"`
	ReviewRequestID    string           `json:"reviewRequest,omitempty" bson:"reviewRequest,omitempty" firestore:"reviewRequest,omitempty"`
	Customer           Customer         `json:"customer" bson:"customer" firestore:"customer"`
	Rating             int              `json:"rating" bson:"rating" firestore:"rating"`
	Comment            string           `json:"comment,omitempty" bson:"comment,omitempty" firestore:"comment,omitempty"`
	Sentiment          string           `json:"sentiment" bson:"sentiment" firestore:"sentiment"`
	Status             string           `json:"status" bson:"status" firestore:"status"`
	IsPublic           bool             `json:"isPublic" bson:"isPublic" firestore:"isPublic"`
	RedirectedToReview bool             `json:"redirectedToReview" bson:"redirectedToReview" firestore:"redirectedToReview"`
	Platform           string           `json:"platform" bson:"platform" firestore:"platform"`
	BusinessResponse   BusinessResponse `json:"businessResponse" bson:"businessResponse" firestore:"businessResponse"`
	Tags               []string         `json:"tags" bson:"tags" firestore:"tags"`
	CreatedAt          time.Time        `json:"createdAt" bson:"createdAt" firestore:"createdAt"`
	UpdatedAt          time.Time        `json:"updatedAt" bson:"updatedAt" firestore:"updatedAt"`
}
