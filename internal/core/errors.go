package core

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Handlers map them to HTTP statuses with errors.Is.
var (
	ErrValidation               = errors.New("validation failed")
	ErrUnauthenticated          = errors.New("not authenticated")
	ErrForbiddenAccess          = errors.New("user does not have permission for this action")
	ErrBusinessNotFound         = errors.New("business not found")
	ErrReviewRequestNotFound    = errors.New("review request not found")
	ErrFeedbackNotFound         = errors.New("feedback not found")
	ErrSubscriptionNotFound     = errors.New("subscription not found")
	ErrUserNotFound             = errors.New("user not found")
	ErrBusinessLimitReached     = errors.New("free plan business limit reached")
	ErrQuotaExceeded            = errors.New("monthly review request limit reached")
	ErrQuotaSubscriptionMissing = errors.New("no subscription for quota check")
	ErrInvalidPlan              = errors.New("invalid subscription plan")
	ErrNoActiveSubscription     = errors.New("no active subscription to cancel")
	ErrReminderAlreadySent      = errors.New("reminder already sent")
	ErrRequestCompleted         = errors.New("review request already completed")
	ErrFeedbackAlreadySubmitted = errors.New("feedback already submitted for review request")
	ErrMissingContact           = errors.New("missing customer contact")
	ErrWebhookSignature         = errors.New("webhook signature verification failed")
	ErrProvider                 = errors.New("upstream provider error")
)

// userMessages is the caller-facing text of kinds returned without an *Error.
var userMessages = []struct {
	kind    error
	message string
}{
	{ErrUnauthenticated, "Not authorized"},
	{ErrForbiddenAccess, "Not authorized"},
	{ErrBusinessNotFound, "Business not found"},
	{ErrReviewRequestNotFound, "Review request not found"},
	{ErrFeedbackNotFound, "Feedback not found"},
	{ErrSubscriptionNotFound, "Subscription not found"},
	{ErrUserNotFound, "User not found"},
	{ErrBusinessLimitReached, "Free tier users can only create one business. Please upgrade to premium."},
	{ErrQuotaSubscriptionMissing, "Subscription not found"},
	{ErrInvalidPlan, "Invalid subscription plan"},
	{ErrNoActiveSubscription, "No active subscription to cancel"},
	{ErrReminderAlreadySent, "Reminder has already been sent for this review request"},
	{ErrRequestCompleted, "Cannot send reminder for a completed review request"},
	{ErrFeedbackAlreadySubmitted, "Feedback has already been submitted for this review request"},
}

// Error is a failure whose Message is safe to return to the caller. Kind is one of the
// sentinels above.
type Error struct {
	Kind    error
	Message string
	Fields  []string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// validationError lists the offending fields in both Message and Fields.
func validationError(fields ...string) *Error {
	return &Error{
		Kind:    ErrValidation,
		Message: "Validation failed: " + strings.Join(fields, ", "),
		Fields:  fields,
	}
}

// providerError wraps a vendor failure. Message keeps the vendor text for non-production responses.
func providerError(err error) *Error {
	return &Error{Kind: ErrProvider, Message: err.Error()}
}

// MessageOf returns the caller-facing message of err: the *Error message when there is one,
// else the text registered for its kind, else fallback.
func MessageOf(err error, fallback string) string {
	var ce *Error
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message
	}
	for _, m := range userMessages {
		if errors.Is(err, m.kind) {
			return m.message
		}
	}
	return fallback
}
