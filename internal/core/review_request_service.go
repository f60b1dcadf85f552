package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"revuverse-backend-go/internal/crypto"
	"revuverse-backend-go/internal/db"
	"revuverse-backend-go/internal/models"
	"revuverse-backend-go/pkg/cache"
)

// maxTokenAttempts bounds how often Create redraws a colliding uniqueId.
const maxTokenAttempts = 3

// reviewRequestService implements the ReviewRequestService interface.
type reviewRequestService struct {
	requestRepo   db.ReviewRequestRepository
	businessRepo  db.BusinessRepository
	subscriptions SubscriptionService
	feedback      FeedbackService
	notifications NotificationService
	auditService  AuditService
	locker        cache.Locker
	lockTTL       time.Duration
	logger        *zap.Logger
	now           func() time.Time
	newToken      func() (string, error)
}

// NewReviewRequestService creates a new ReviewRequestService instance. locker may be nil.
func NewReviewRequestService(
	rr db.ReviewRequestRepository,
	br db.BusinessRepository,
	subs SubscriptionService,
	fs FeedbackService,
	ns NotificationService,
	as AuditService,
	locker cache.Locker,
	lockTTL time.Duration,
	logger *zap.Logger,
) ReviewRequestService {
	return &reviewRequestService{
		requestRepo:   rr,
		businessRepo:  br,
		subscriptions: subs,
		feedback:      fs,
		notifications: ns,
		auditService:  as,
		locker:        locker,
		lockTTL:       lockTTL,
		logger:        logger,
		now:           time.Now,
		newToken:      crypto.NewReviewToken,
	}
}

// validateContact requires the contact of each single-channel method. "both" needs at least
// one contact since dispatch skips the absent channel.
func validateContact(method string, customer models.Customer) error {
	var missing []string
	switch {
	case customer.Email == "" && customer.Phone == "":
		missing = append(missing, "customerEmail", "customerPhone")
	case method == models.MethodEmail && customer.Email == "":
		missing = append(missing, "customerEmail")
	case method == models.MethodSMS && customer.Phone == "":
		missing = append(missing, "customerPhone")
	}
	if customer.Email != "" && !IsValidCustomerEmail(customer.Email) {
		missing = append(missing, "customerEmail")
	}
	if len(missing) > 0 {
		return validationError(missing...)
	}
	return nil
}

// Create persists a pending request, dispatches it and marks it sent. A dispatch failure
// leaves the request failed and surfaces the provider error.
func (s *reviewRequestService) Create(ctx context.Context, caller models.Caller, in models.CreateReviewRequestRequest) (*models.ReviewRequest, error) {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.CustomerEmail = strings.TrimSpace(in.CustomerEmail)
	in.CustomerPhone = strings.TrimSpace(in.CustomerPhone)

	if err := validateStruct(in); err != nil {
		return nil, err
	}
	customer := models.Customer{Name: in.CustomerName, Email: in.CustomerEmail, Phone: in.CustomerPhone}
	if err := validateContact(in.RequestMethod, customer); err != nil {
		return nil, err
	}
	business, err := loadOwnedBusiness(ctx, s.businessRepo, caller, in.BusinessID)
	if err != nil {
		return nil, err
	}

	req, err := s.persistWithinQuota(ctx, caller, business, customer, in)
	if err != nil {
		return nil, err
	}

	recordAudit(ctx, s.auditService, s.logger, models.AuditLog{
		UserID:     caller.UserID,
		Action:     models.ActionReviewRequestCreate,
		TargetType: "REVIEW_REQUEST",
		TargetID:   req.ID,
		Timestamp:  req.CreatedAt,
		Details:    map[string]interface{}{"business": business.ID, "requestMethod": req.RequestMethod},
	})

	if err := s.notifications.DispatchReviewRequest(ctx, req, business.Name, false); err != nil {
		req.Status = models.RequestFailed
		req.UpdatedAt = s.now().UTC()
		if updErr := s.requestRepo.Update(context.WithoutCancel(ctx), req); updErr != nil {
			s.logger.Warn("Failed to mark review request as failed", zap.String("request_id", req.ID), zap.Error(updErr))
		}
		return nil, err
	}

	sentAt := s.now().UTC()
	req.Status = models.RequestSent
	req.SentAt = &sentAt
	req.UpdatedAt = sentAt
	if err := s.requestRepo.Update(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to mark review request '%s' as sent: %w", req.ID, err)
	}
	return req, nil
}

// persistWithinQuota runs the free plan quota check and the insert under the business lock
// when one is configured.
func (s *reviewRequestService) persistWithinQuota(
	ctx context.Context,
	caller models.Caller,
	business *models.Business,
	customer models.Customer,
	in models.CreateReviewRequestRequest,
) (*models.ReviewRequest, error) {
	if caller.Plan == models.PlanFree {
		if s.locker != nil {
			release, err := s.locker.Acquire(ctx, "quota:"+business.ID, s.lockTTL)
			if err != nil {
				return nil, fmt.Errorf("failed to lock review request quota for business '%s': %w", business.ID, err)
			}
			defer func() {
				if err := release(context.WithoutCancel(ctx)); err != nil {
					s.logger.Warn("Failed to release quota lock", zap.String("business_id", business.ID), zap.Error(err))
				}
			}()
		}
		if err := s.subscriptions.CheckReviewRequestQuota(ctx, caller.UserID, business.ID); err != nil {
			return nil, err
		}
	}

	now := s.now().UTC()
	req := &models.ReviewRequest{
		BusinessID:    business.ID,
		Customer:      customer,
		RequestMethod: in.RequestMethod,
		Message:       in.Message,
		Status:        models.RequestPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for attempt := 1; ; attempt++ {
		token, err := s.newToken()
		if err != nil {
			return nil, err
		}
		req.UniqueID = token
		id, err := s.requestRepo.Create(ctx, req)
		if err == nil {
			req.ID = id
			return req, nil
		}
		if !errors.Is(err, db.ErrDuplicateKey) || attempt >= maxTokenAttempts {
			return nil, fmt.Errorf("failed to create review request: %w", err)
		}
		s.logger.Warn("Review request token collision, retrying", zap.Int("attempt", attempt))
	}
}

// List returns the requests of every business the caller owns, newest first.
func (s *reviewRequestService) List(ctx context.Context, caller models.Caller) ([]*models.ReviewRequest, error) {
	businesses, err := s.businessRepo.GetByOwnerID(ctx, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list businesses for user '%s': %w", caller.UserID, err)
	}
	ids := make([]string, 0, len(businesses))
	for _, b := range businesses {
		ids = append(ids, b.ID)
	}
	requests, err := s.requestRepo.ListByBusinessIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list review requests: %w", err)
	}
	return requests, nil
}

func (s *reviewRequestService) ListByBusiness(ctx context.Context, caller models.Caller, businessID string) ([]*models.ReviewRequest, error) {
	if _, err := loadOwnedBusiness(ctx, s.businessRepo, caller, businessID); err != nil {
		return nil, err
	}
	requests, err := s.requestRepo.ListByBusinessIDs(ctx, []string{businessID})
	if err != nil {
		return nil, fmt.Errorf("failed to list review requests for business '%s': %w", businessID, err)
	}
	return requests, nil
}

func (s *reviewRequestService) Get(ctx context.Context, caller models.Caller, requestID string) (*models.ReviewRequest, error) {
	req, _, err := s.loadOwned(ctx, caller, requestID)
	return req, err
}

// Update applies the non-nil fields. Business and uniqueId never change.
func (s *reviewRequestService) Update(ctx context.Context, caller models.Caller, requestID string, in models.UpdateReviewRequestRequest) (*models.ReviewRequest, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	req, _, err := s.loadOwned(ctx, caller, requestID)
	if err != nil {
		return nil, err
	}

	if in.CustomerName != nil {
		req.Customer.Name = strings.TrimSpace(*in.CustomerName)
	}
	if in.CustomerEmail != nil {
		req.Customer.Email = strings.TrimSpace(*in.CustomerEmail)
	}
	if in.CustomerPhone != nil {
		req.Customer.Phone = strings.TrimSpace(*in.CustomerPhone)
	}
	if in.RequestMethod != nil {
		req.RequestMethod = *in.RequestMethod
	}
	if in.Message != nil {
		req.Message = *in.Message
	}
	if in.Status != nil {
		req.Status = *in.Status
	}
	if req.Customer.Name == "" {
		return nil, validationError("customerName")
	}
	if err := validateContact(req.RequestMethod, req.Customer); err != nil {
		return nil, err
	}

	req.UpdatedAt = s.now().UTC()
	if err := s.requestRepo.Update(ctx, req); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrReviewRequestNotFound
		}
		return nil, fmt.Errorf("failed to update review request '%s': %w", requestID, err)
	}
	return req, nil
}

// Delete removes the request whatever its state.
func (s *reviewRequestService) Delete(ctx context.Context, caller models.Caller, requestID string) error {
	req, _, err := s.loadOwned(ctx, caller, requestID)
	if err != nil {
		return err
	}
	if err := s.requestRepo.Delete(ctx, req.ID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrReviewRequestNotFound
		}
		return fmt.Errorf("failed to delete review request '%s': %w", requestID, err)
	}
	recordAudit(ctx, s.auditService, s.logger, models.AuditLog{
		UserID:     caller.UserID,
		Action:     models.ActionReviewRequestDelete,
		TargetType: "REVIEW_REQUEST",
		TargetID:   req.ID,
		Timestamp:  s.now().UTC(),
	})
	return nil
}

func (s *reviewRequestService) SendEmail(ctx context.Context, caller models.Caller, requestID string) error {
	req, business, err := s.loadDispatchable(ctx, caller, requestID)
	if err != nil {
		return err
	}
	return s.notifications.SendReviewRequestEmail(ctx, req, business.Name)
}

func (s *reviewRequestService) SendSMS(ctx context.Context, caller models.Caller, requestID string) error {
	req, business, err := s.loadDispatchable(ctx, caller, requestID)
	if err != nil {
		return err
	}
	return s.notifications.SendReviewRequestSMS(ctx, req, business.Name)
}

// Remind re-dispatches with the reminder templates. It succeeds at most once per request.
func (s *reviewRequestService) Remind(ctx context.Context, caller models.Caller, requestID string) error {
	req, business, err := s.loadDispatchable(ctx, caller, requestID)
	if err != nil {
		return err
	}
	if req.ReminderSent {
		return ErrReminderAlreadySent
	}
	if req.Status == models.RequestCompleted {
		return ErrRequestCompleted
	}
	if err := s.notifications.DispatchReviewRequest(ctx, req, business.Name, true); err != nil {
		return err
	}

	now := s.now().UTC()
	req.ReminderSent = true
	req.ReminderSentAt = &now
	req.UpdatedAt = now
	if err := s.requestRepo.Update(ctx, req); err != nil {
		return fmt.Errorf("failed to mark reminder sent on review request '%s': %w", requestID, err)
	}
	recordAudit(ctx, s.auditService, s.logger, models.AuditLog{
		UserID:     caller.UserID,
		Action:     models.ActionReviewRequestRemind,
		TargetType: "REVIEW_REQUEST",
		TargetID:   req.ID,
		Timestamp:  now,
	})
	return nil
}

// Analytics aggregates the business's requests created in the trailing window.
func (s *reviewRequestService) Analytics(ctx context.Context, caller models.Caller, businessID string) (*models.ReviewRequestAnalytics, error) {
	if _, err := loadOwnedBusiness(ctx, s.businessRepo, caller, businessID); err != nil {
		return nil, err
	}
	requests, err := s.requestRepo.ListByBusinessSince(ctx, businessID, s.now().UTC().Add(-analyticsWindow))
	if err != nil {
		return nil, fmt.Errorf("failed to list review requests for business '%s': %w", businessID, err)
	}
	analytics := ComputeReviewRequestAnalytics(requests)
	return &analytics, nil
}

func (s *reviewRequestService) Form(ctx context.Context, token string) (*models.ReviewRequestForm, error) {
	req, err := s.loadByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	business, err := loadBusiness(ctx, s.businessRepo, req.BusinessID)
	if err != nil {
		return nil, err
	}

	if req.Status == models.RequestSent {
		now := s.now().UTC()
		req.Status = models.RequestClicked
		req.ClickedAt = &now
		req.UpdatedAt = now
		if err := s.requestRepo.Update(ctx, req); err != nil {
			s.logger.Warn("Failed to mark review request as clicked", zap.String("request_id", req.ID), zap.Error(err))
		}
	}
	return &models.ReviewRequestForm{BusinessName: business.Name, Message: req.Message}, nil
}

// SubmitFeedback creates the feedback for token, links it and completes the request.
func (s *reviewRequestService) SubmitFeedback(ctx context.Context, token string, in models.SubmitFeedbackRequest) (*models.Feedback, error) {
	req, err := s.loadByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if req.Status == models.RequestCompleted || req.FeedbackID != "" {
		return nil, ErrFeedbackAlreadySubmitted
	}

	feedback, err := s.feedback.SubmitForReviewRequest(ctx, req, in)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	req.FeedbackID = feedback.ID
	req.Status = models.RequestCompleted
	req.CompletedAt = &now
	req.UpdatedAt = now
	if err := s.requestRepo.Update(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to complete review request '%s': %w", req.ID, err)
	}
	return feedback, nil
}

func (s *reviewRequestService) loadByToken(ctx context.Context, token string) (*models.ReviewRequest, error) {
	if !crypto.IsReviewToken(token) {
		return nil, ErrReviewRequestNotFound
	}
	req, err := s.requestRepo.GetByUniqueID(ctx, token)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrReviewRequestNotFound
		}
		return nil, fmt.Errorf("failed to get review request by token: %w", err)
	}
	return req, nil
}

// loadOwned loads the request and its business, checking ownership through the business.
// A request whose business is gone is visible to admins only, with a nil business.
func (s *reviewRequestService) loadOwned(ctx context.Context, caller models.Caller, requestID string) (*models.ReviewRequest, *models.Business, error) {
	if requestID == "" {
		return nil, nil, ErrReviewRequestNotFound
	}
	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, nil, ErrReviewRequestNotFound
		}
		return nil, nil, fmt.Errorf("failed to get review request '%s': %w", requestID, err)
	}
	business, err := loadBusiness(ctx, s.businessRepo, req.BusinessID)
	if err != nil {
		if !errors.Is(err, ErrBusinessNotFound) {
			return nil, nil, err
		}
		if !caller.IsAdmin() {
			return nil, nil, ErrForbiddenAccess
		}
		return req, nil, nil
	}
	if !business.OwnedBy(caller) {
		return nil, nil, ErrForbiddenAccess
	}
	return req, business, nil
}

// loadDispatchable is loadOwned for operations that message the customer, which need the
// business to still exist.
func (s *reviewRequestService) loadDispatchable(ctx context.Context, caller models.Caller, requestID string) (*models.ReviewRequest, *models.Business, error) {
	req, business, err := s.loadOwned(ctx, caller, requestID)
	if err != nil {
		return nil, nil, err
	}
	if business == nil {
		return nil, nil, ErrBusinessNotFound
	}
	return req, business, nil
}
