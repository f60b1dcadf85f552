package core

import (
	"context"
	"fmt"
	"html"
	"strings"

	"go.uber.org/zap"

	"revuverse-backend-go/internal/models"
	"revuverse-backend-go/internal/notify"
)

// notificationService renders review request and owner messages and hands them to the channels.
type notificationService struct {
	sender      notify.NotificationSender
	templateID  string
	frontendURL string
	logger      *zap.Logger
}

// NewNotificationService creates a new NotificationService. templateID is the optional
// provider template used for every email; without it the text and HTML bodies are sent.
func NewNotificationService(sender notify.NotificationSender, templateID, frontendURL string, logger *zap.Logger) NotificationService {
	return &notificationService{
		sender:      sender,
		templateID:  templateID,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		logger:      logger,
	}
}

// FeedbackURL is the public link a customer follows to leave feedback.
func FeedbackURL(frontendURL, uniqueID string) string {
	return strings.TrimRight(frontendURL, "/") + "/feedback/" + uniqueID
}

func (s *notificationService) feedbackURL(req *models.ReviewRequest) string {
	return FeedbackURL(s.frontendURL, req.UniqueID)
}

// DispatchReviewRequest sends on each channel of the request method. A channel whose
// contact is absent is skipped without error.
func (s *notificationService) DispatchReviewRequest(ctx context.Context, req *models.ReviewRequest, businessName string, reminder bool) error {
	if req.WantsEmail() && req.Customer.Email != "" {
		if err := s.sendEmail(ctx, req, businessName, reminder); err != nil {
			return err
		}
	}
	if req.WantsSMS() && req.Customer.Phone != "" {
		if err := s.sendSMS(ctx, req, businessName, reminder); err != nil {
			return err
		}
	}
	return nil
}

func (s *notificationService) SendReviewRequestEmail(ctx context.Context, req *models.ReviewRequest, businessName string) error {
	if req.Customer.Email == "" {
		return newError(ErrMissingContact, "Customer email is required to send an email")
	}
	return s.sendEmail(ctx, req, businessName, false)
}

func (s *notificationService) SendReviewRequestSMS(ctx context.Context, req *models.ReviewRequest, businessName string) error {
	if req.Customer.Phone == "" {
		return newError(ErrMissingContact, "Customer phone number is required to send an SMS")
	}
	return s.sendSMS(ctx, req, businessName, false)
}

func (s *notificationService) sendEmail(ctx context.Context, req *models.ReviewRequest, businessName string, reminder bool) error {
	url := s.feedbackURL(req)
	subject := fmt.Sprintf("%s would like your feedback", businessName)
	intro := fmt.Sprintf("%s would like to hear about your experience.", businessName)
	if reminder {
		subject = fmt.Sprintf("Reminder: %s would appreciate your feedback", businessName)
		intro = fmt.Sprintf("%s would still appreciate hearing about your experience. It only takes a minute.", businessName)
	}
	if req.Message != "" {
		intro = req.Message
	}

	msg := notify.EmailMessage{
		To:         req.Customer.Email,
		ToName:     req.Customer.Name,
		Subject:    subject,
		TemplateID: s.templateID,
		TemplateData: map[string]interface{}{
			"customerName": req.Customer.Name,
			"businessName": businessName,
			"feedbackUrl":  url,
		},
		Text: fmt.Sprintf("Hi %s,\n\n%s\n\nShare your feedback: %s\n", req.Customer.Name, intro, url),
		HTML: fmt.Sprintf(`<p>Hi %s,</p><p>%s</p><p><a href="%s">Share your feedback</a></p>`,
			html.EscapeString(req.Customer.Name), html.EscapeString(intro), html.EscapeString(url)),
	}
	if _, err := s.sender.SendEmail(ctx, msg); err != nil {
		s.logger.Error("Failed to send review request email",
			zap.String("request_id", req.ID), zap.Bool("reminder", reminder), zap.Error(err))
		return providerError(err)
	}
	return nil
}

func (s *notificationService) sendSMS(ctx context.Context, req *models.ReviewRequest, businessName string, reminder bool) error {
	url := s.feedbackURL(req)
	body := fmt.Sprintf("%s would like your feedback! Please take a moment to share your experience: %s", businessName, url)
	if reminder {
		body = fmt.Sprintf("Reminder: %s would appreciate your feedback! It only takes a minute: %s", businessName, url)
	}
	if _, err := s.sender.SendSMS(ctx, req.Customer.Phone, body); err != nil {
		s.logger.Error("Failed to send review request SMS",
			zap.String("request_id", req.ID), zap.Bool("reminder", reminder), zap.Error(err))
		return providerError(err)
	}
	return nil
}

// NotifyOwnerOfFeedback emails the business owner about a new piece of feedback.
func (s *notificationService) NotifyOwnerOfFeedback(ctx context.Context, ownerEmail, businessName string, feedback *models.Feedback) error {
	if ownerEmail == "" {
		return newError(ErrMissingContact, "Business owner has no email address")
	}
	dashboardURL := s.frontendURL + "/dashboard/feedback/" + feedback.ID
	msg := notify.EmailMessage{
		To:         ownerEmail,
		Subject:    fmt.Sprintf("New Feedback for %s", businessName),
		TemplateID: s.templateID,
		TemplateData: map[string]interface{}{
			"businessName": businessName,
			"customerName": feedback.Customer.Name,
			"rating":       feedback.Rating,
			"comment":      feedback.Comment,
			"dashboardUrl": dashboardURL,
		},
		Text: fmt.Sprintf("%s left a %d-star rating for %s.\n\n%s\n\nView it: %s\n",
			feedback.Customer.Name, feedback.Rating, businessName, feedback.Comment, dashboardURL),
		HTML: fmt.Sprintf(`<p>%s left a %d-star rating for %s.</p><blockquote>%s</blockquote><p><a href="%s">View in dashboard</a></p>`,
			html.EscapeString(feedback.Customer.Name), feedback.Rating, html.EscapeString(businessName),
			html.EscapeString(feedback.Comment), html.EscapeString(dashboardURL)),
	}
	if _, err := s.sender.SendEmail(ctx, msg); err != nil {
		return providerError(err)
	}
	return nil
}
