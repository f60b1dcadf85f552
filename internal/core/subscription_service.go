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
	"revuverse-backend-go/internal/payment"
)

// Premium checkout line item.
const (
	premiumProductName        = "Revuverse Premium Subscription"
	premiumProductDescription = "Unlimited review requests, API integrations, and advanced analytics"
	premiumPriceCents         = 1999
	premiumCurrency           = "usd"
	premiumInterval           = "month"
)

// subscriptionService implements the SubscriptionService interface.
type subscriptionService struct {
	subRepo      db.SubscriptionRepository
	userRepo     db.UserRepository
	requestRepo  db.ReviewRequestRepository
	gateway      payment.Gateway
	auditService AuditService
	frontendURL  string
	logger       *zap.Logger
	now          func() time.Time
}

// NewSubscriptionService creates a new SubscriptionService instance. gateway may be nil when
// billing is not configured; the provider-backed operations then fail with ErrProvider.
func NewSubscriptionService(
	subRepo db.SubscriptionRepository,
	userRepo db.UserRepository,
	requestRepo db.ReviewRequestRepository,
	gateway payment.Gateway,
	auditService AuditService,
	frontendURL string,
	logger *zap.Logger,
) SubscriptionService {
	return &subscriptionService{
		subRepo:      subRepo,
		userRepo:     userRepo,
		requestRepo:  requestRepo,
		gateway:      gateway,
		auditService: auditService,
		frontendURL:  strings.TrimRight(frontendURL, "/"),
		logger:       logger,
		now:          time.Now,
	}
}

func (s *subscriptionService) Get(ctx context.Context, userID string) (*models.Subscription, error) {
	sub, err := s.subRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("failed to get subscription for user '%s': %w", userID, err)
	}
	return sub, nil
}

// ChangePlan moves the subscription to plan and re-derives its features in the same write.
func (s *subscriptionService) ChangePlan(ctx context.Context, userID, plan string) (*models.Subscription, error) {
	if !IsValidPlan(plan) {
		return nil, ErrInvalidPlan
	}
	sub, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	previous := sub.Plan
	sub.Plan = plan
	sub.Features = FeaturesForPlan(plan)
	if err := s.save(ctx, sub); err != nil {
		return nil, err
	}

	recordAudit(ctx, s.auditService, s.logger, models.AuditLog{
		UserID:     userID,
		Action:     models.ActionSubscriptionPlanChange,
		TargetType: "SUBSCRIPTION",
		TargetID:   sub.ID,
		Timestamp:  sub.UpdatedAt,
		Details:    map[string]interface{}{"from": previous, "to": plan},
	})
	return sub, nil
}

// CheckReviewRequestQuota fails when businessID already has limit requests this UTC month.
func (s *subscriptionService) CheckReviewRequestQuota(ctx context.Context, userID, businessID string) error {
	sub, err := s.subRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrQuotaSubscriptionMissing
		}
		return fmt.Errorf("failed to get subscription for user '%s': %w", userID, err)
	}
	limit := sub.Features.ReviewRequestsLimit
	if limit == models.UnlimitedReviewRequests {
		return nil
	}

	count, err := s.requestRepo.CountByBusinessSince(ctx, businessID, StartOfMonthUTC(s.now()))
	if err != nil {
		return fmt.Errorf("failed to count review requests for business '%s': %w", businessID, err)
	}
	if count >= limit {
		return newError(ErrQuotaExceeded,
			"You have reached your monthly limit of %d review requests. Please upgrade to premium.", limit)
	}
	return nil
}

// HandleWebhook verifies the payload before anything is read from it.
func (s *subscriptionService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if s.gateway == nil {
		return providerError(errors.New("billing is not configured"))
	}
	event, err := s.gateway.ParseWebhook(payload, signature)
	if err != nil {
		return &Error{Kind: ErrWebhookSignature, Message: err.Error()}
	}
	return s.ApplyBillingEvent(ctx, *event)
}

// ApplyBillingEvent upgrades on a completed checkout and downgrades on a deleted subscription.
// Other event types are acknowledged without mutation.
func (s *subscriptionService) ApplyBillingEvent(ctx context.Context, event payment.BillingEvent) error {
	var apply func(*models.Subscription)
	switch event.Type {
	case payment.EventCheckoutCompleted:
		apply = func(sub *models.Subscription) {
			sub.Plan = models.PlanPremium
			sub.Status = models.StatusActive
			sub.StripeSubscriptionID = event.SubscriptionID
			sub.StripeCustomerID = event.CustomerID
			sub.CancelAtPeriodEnd = false
			sub.CanceledAt = nil
		}
	case payment.EventSubscriptionDeleted:
		apply = s.downgrade
	default:
		s.logger.Debug("Ignoring billing event", zap.String("type", event.Type), zap.String("event_id", event.ID))
		return nil
	}

	if event.CustomerID == "" {
		s.logger.Warn("Billing event without customer", zap.String("type", event.Type), zap.String("event_id", event.ID))
		return nil
	}
	user, err := s.userRepo.GetByStripeCustomerID(ctx, event.CustomerID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			s.logger.Warn("Billing event for unknown customer",
				zap.String("type", event.Type), zap.String("customer_id", event.CustomerID))
			return nil
		}
		return fmt.Errorf("failed to resolve customer '%s': %w", event.CustomerID, err)
	}
	sub, err := s.Get(ctx, user.ID)
	if err != nil {
		return err
	}

	apply(sub)
	sub.Features = FeaturesForPlan(sub.Plan)
	if err := s.save(ctx, sub); err != nil {
		return err
	}

	recordAudit(ctx, s.auditService, s.logger, models.AuditLog{
		UserID:     user.ID,
		Action:     models.ActionBillingEvent,
		TargetType: "SUBSCRIPTION",
		TargetID:   sub.ID,
		Timestamp:  sub.UpdatedAt,
		Details:    map[string]interface{}{"eventId": event.ID, "type": event.Type, "plan": sub.Plan},
	})
	return nil
}

// Cancel cancels the provider subscription and downgrades to free.
func (s *subscriptionService) Cancel(ctx context.Context, userID string) (*models.Subscription, error) {
	sub, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sub.StripeSubscriptionID == "" {
		return nil, ErrNoActiveSubscription
	}
	if s.gateway == nil {
		return nil, providerError(errors.New("billing is not configured"))
	}
	if err := s.gateway.CancelSubscription(ctx, sub.StripeSubscriptionID); err != nil {
		s.logger.Error("Failed to cancel subscription", zap.String("user_id", userID), zap.Error(err))
		return nil, providerError(err)
	}

	canceled := sub.StripeSubscriptionID
	s.downgrade(sub)
	sub.Features = FeaturesForPlan(sub.Plan)
	if err := s.save(ctx, sub); err != nil {
		return nil, err
	}

	recordAudit(ctx, s.auditService, s.logger, models.AuditLog{
		UserID:     userID,
		Action:     models.ActionSubscriptionCancel,
		TargetType: "SUBSCRIPTION",
		TargetID:   sub.ID,
		Timestamp:  sub.UpdatedAt,
		Details:    map[string]interface{}{"stripeSubscriptionId": canceled},
	})
	return sub, nil
}

// CreateCheckout opens a hosted checkout for the premium plan, creating the provider
// customer on first use.
func (s *subscriptionService) CreateCheckout(ctx context.Context, userID, plan string) (*payment.CheckoutSession, error) {
	if plan != models.PlanPremium {
		return nil, ErrInvalidPlan
	}
	if s.gateway == nil {
		return nil, providerError(errors.New("billing is not configured"))
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user '%s': %w", userID, err)
	}

	if user.StripeCustomerID == "" {
		customerID, err := s.gateway.CreateCustomer(ctx, user.Email, user.FullName())
		if err != nil {
			s.logger.Error("Failed to create billing customer", zap.String("user_id", userID), zap.Error(err))
			return nil, providerError(err)
		}
		user.StripeCustomerID = customerID
		user.UpdatedAt = s.now().UTC()
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to store customer id for user '%s': %w", userID, err)
		}
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, payment.CheckoutRequest{
		CustomerID:         user.StripeCustomerID,
		ProductName:        premiumProductName,
		ProductDescription: premiumProductDescription,
		Currency:           premiumCurrency,
		UnitAmountCents:    premiumPriceCents,
		Interval:           premiumInterval,
		SuccessURL:         s.frontendURL + "/dashboard?subscription=success",
		CancelURL:          s.frontendURL + "/dashboard?subscription=cancel",
	})
	if err != nil {
		s.logger.Error("Failed to create checkout session", zap.String("user_id", userID), zap.Error(err))
		return nil, providerError(err)
	}
	return session, nil
}

func (s *subscriptionService) downgrade(sub *models.Subscription) {
	now := s.now().UTC()
	sub.Plan = models.PlanFree
	sub.Status = models.StatusInactive
	sub.StripeSubscriptionID = ""
	sub.CanceledAt = &now
}

// save persists sub and mirrors its plan onto the owning User.
func (s *subscriptionService) save(ctx context.Context, sub *models.Subscription) error {
	now := s.now().UTC()
	sub.UpdatedAt = now
	if err := s.subRepo.Update(ctx, sub); err != nil {
		return fmt.Errorf("failed to update subscription '%s': %w", sub.ID, err)
	}

	user, err := s.userRepo.GetByID(ctx, sub.UserID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			s.logger.Warn("Subscription owner missing", zap.String("user_id", sub.UserID))
			return nil
		}
		return fmt.Errorf("failed to load user '%s' for plan mirror: %w", sub.UserID, err)
	}
	if user.Subscription == sub.Plan {
		return nil
	}
	user.Subscription = sub.Plan
	user.UpdatedAt = now
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to mirror plan onto user '%s': %w", sub.UserID, err)
	}
	return nil
}
