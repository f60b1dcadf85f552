package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"revuverse-backend-go/internal/db"
	"revuverse-backend-go/internal/models"
)

// feedbackService implements the FeedbackService interface.
type feedbackService struct {
	feedbackRepo  db.FeedbackRepository
	businessRepo  db.BusinessRepository
	userRepo      db.UserRepository
	notifications NotificationService
	auditService  AuditService
	logger        *zap.Logger
	now           func() time.Time
}

// NewFeedbackService creates a new FeedbackService instance.
func NewFeedbackService(
	fr db.FeedbackRepository,
	br db.BusinessRepository,
	ur db.UserRepository,
	ns NotificationService,
	as AuditService,
	logger *zap.Logger,
) FeedbackService {
	return &feedbackService{
		feedbackRepo:  fr,
		businessRepo:  br,
		userRepo:      ur,
		notifications: ns,
		auditService:  as,
		logger:        logger,
		now:           time.Now,
	}
}

// Submit records public feedback for a business and notifies its owner.
func (s *feedbackService) Submit(ctx context.Context, businessID string, req models.SubmitFeedbackRequest) (*models.Feedback, error) {
	business, err := loadBusiness(ctx, s.businessRepo, businessID)
	if err != nil {
		return nil, err
	}
	return s.create(ctx, business, "", req)
}

// SubmitForReviewRequest records feedback left through a review request link.
func (s *feedbackService) SubmitForReviewRequest(ctx context.Context, reviewRequest *models.ReviewRequest, req models.SubmitFeedbackRequest) (*models.Feedback, error) {
	business, err := loadBusiness(ctx, s.businessRepo, reviewRequest.BusinessID)
	if err != nil {
		return nil, err
	}
	return s.create(ctx, business, reviewRequest.ID, req)
}

func (s *feedbackService) create(ctx context.Context, business *models.Business, reviewRequestID string, req models.SubmitFeedbackRequest) (*models.Feedback, error) {
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.CustomerEmail = strings.TrimSpace(req.CustomerEmail)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	platform := req.Platform
	if platform == "" {
		platform = models.PlatformInternal
	}

	now := s.now().UTC()
	feedback := &models.Feedback{
		BusinessID:      business.ID,
		ReviewRequestID: reviewRequestID,
		Customer: models.Customer{
			Name:  req.CustomerName,
			Email: req.CustomerEmail,
			Phone: strings.TrimSpace(req.CustomerPhone),
		},
		Rating:    req.Rating,
		Comment:   strings.TrimSpace(req.Text()),
		Sentiment: SentimentForRating(req.Rating),
		Status:    models.FeedbackNew,
		IsPublic:  req.IsPublic,
		Platform:  platform,
		Tags:      []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	feedbackID, err := s.feedbackRepo.Create(ctx, feedback)
	if err != nil {
		return nil, fmt.Errorf("failed to create feedback for business '%s': %w", business.ID, err)
	}
	feedback.ID = feedbackID

	recordAudit(ctx, s.auditService, s.logger, models.AuditLog{
		Action:     models.ActionFeedbackSubmit,
		TargetType: "FEEDBACK",
		TargetID:   feedback.ID,
		Timestamp:  now,
		Details:    map[string]interface{}{"business": business.ID, "rating": feedback.Rating},
	})
	s.notifyOwner(ctx, business, feedback)
	return feedback, nil
}

// notifyOwner is best-effort. Failures are logged only.
func (s *feedbackService) notifyOwner(ctx context.Context, business *models.Business, feedback *models.Feedback) {
	if s.notifications == nil || s.userRepo == nil {
		return
	}
	owner, err := s.userRepo.GetByID(ctx, business.UserID)
	if err != nil {
		s.logger.Warn("Could not resolve business owner for feedback notification",
			zap.String("business_id", business.ID), zap.Error(err))
		return
	}
	if err := s.notifications.NotifyOwnerOfFeedback(ctx, owner.Email, business.Name, feedback); err != nil {
		s.logger.Warn("Failed to notify business owner of feedback",
			zap.String("business_id", business.ID), zap.String("feedback_id", feedback.ID), zap.Error(err))
	}
}

// ListForOwner returns feedback across the caller's businesses, or for one business when
// businessID is set.
func (s *feedbackService) ListForOwner(ctx context.Context, caller models.Caller, businessID string) ([]*models.Feedback, error) {
	var businessIDs []string
	if businessID != "" {
		business, err := loadOwnedBusiness(ctx, s.businessRepo, caller, businessID)
		if err != nil {
			return nil, err
		}
		businessIDs = []string{business.ID}
	} else {
		businesses, err := s.businessRepo.GetByOwnerID(ctx, caller.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to list businesses for user '%s': %w", caller.UserID, err)
		}
		for _, b := range businesses {
			businessIDs = append(businessIDs, b.ID)
		}
	}

	feedback, err := s.feedbackRepo.ListByBusinessIDs(ctx, businessIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	return feedback, nil
}

func (s *feedbackService) Get(ctx context.Context, caller models.Caller, feedbackID string) (*models.Feedback, error) {
	return s.loadOwned(ctx, caller, feedbackID)
}

// UpdateStatus assigns any status to any other; the enum is the only restriction.
func (s *feedbackService) UpdateStatus(ctx context.Context, caller models.Caller, feedbackID, status string) (*models.Feedback, error) {
	if err := validateStruct(models.UpdateFeedbackStatusRequest{Status: status}); err != nil {
		return nil, err
	}
	feedback, err := s.loadOwned(ctx, caller, feedbackID)
	if err != nil {
		return nil, err
	}
	feedback.Status = status
	if err := s.save(ctx, feedback); err != nil {
		return nil, err
	}
	return feedback, nil
}

func (s *feedbackService) Respond(ctx context.Context, caller models.Caller, feedbackID, response string) (*models.Feedback, error) {
	response = strings.TrimSpace(response)
	if response == "" {
		return nil, validationError("response")
	}
	feedback, err := s.loadOwned(ctx, caller, feedbackID)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	feedback.BusinessResponse = models.BusinessResponse{
		Content:     response,
		RespondedAt: &now,
		RespondedBy: caller.UserID,
	}
	if err := s.save(ctx, feedback); err != nil {
		return nil, err
	}
	return feedback, nil
}

func (s *feedbackService) Delete(ctx context.Context, caller models.Caller, feedbackID string) error {
	if _, err := s.loadOwned(ctx, caller, feedbackID); err != nil {
		return err
	}
	if err := s.feedbackRepo.Delete(ctx, feedbackID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrFeedbackNotFound
		}
		return fmt.Errorf("failed to delete feedback '%s': %w", feedbackID, err)
	}
	return nil
}

func (s *feedbackService) Analytics(ctx context.Context, caller models.Caller, businessID string) (*models.FeedbackAnalytics, error) {
	if _, err := loadOwnedBusiness(ctx, s.businessRepo, caller, businessID); err != nil {
		return nil, err
	}
	feedback, err := s.feedbackRepo.ListByBusinessIDs(ctx, []string{businessID})
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback for business '%s': %w", businessID, err)
	}
	analytics := ComputeFeedbackAnalytics(feedback)
	return &analytics, nil
}

// loadOwned loads the feedback and checks the caller owns its business. Feedback whose
// business is gone is visible to admins only.
func (s *feedbackService) loadOwned(ctx context.Context, caller models.Caller, feedbackID string) (*models.Feedback, error) {
	if feedbackID == "" {
		return nil, ErrFeedbackNotFound
	}
	feedback, err := s.feedbackRepo.GetByID(ctx, feedbackID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrFeedbackNotFound
		}
		return nil, fmt.Errorf("failed to get feedback '%s': %w", feedbackID, err)
	}
	if caller.IsAdmin() {
		return feedback, nil
	}
	business, err := loadBusiness(ctx, s.businessRepo, feedback.BusinessID)
	if err != nil {
		if errors.Is(err, ErrBusinessNotFound) {
			return nil, ErrForbiddenAccess
		}
		return nil, err
	}
	if !business.OwnedBy(caller) {
		return nil, ErrForbiddenAccess
	}
	return feedback, nil
}

func (s *feedbackService) save(ctx context.Context, feedback *models.Feedback) error {
	feedback.Sentiment = SentimentForRating(feedback.Rating)
	feedback.UpdatedAt = s.now().UTC()
	if err := s.feedbackRepo.Update(ctx, feedback); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrFeedbackNotFound
		}
		return fmt.Errorf("failed to update feedback '%s': %w", feedback.ID, err)
	}
	return nil
}
