package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"revuverse-backend-go/internal/models"
	"revuverse-backend-go/internal/payment"
)

func TestFeaturesForPlan(t *testing.T) {
	assert.Equal(t, models.Features{ReviewRequestsLimit: 50}, FeaturesForPlan(models.PlanFree))
	assert.Equal(t, models.Features{
		ReviewRequestsLimit: models.UnlimitedReviewRequests,
		APIIntegrations:     true,
		AdvancedAnalytics:   true,
		MultipleBusinesses:  true,
	}, FeaturesForPlan(models.PlanPremium))
}

func TestChangePlan_RoundTripRestoresFreeFeatures(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.signUp("owner-1")

	sub, err := f.subscriptions.ChangePlan(ctx, owner.UserID, models.PlanPremium)
	require.NoError(t, err)
	assert.Equal(t, models.UnlimitedReviewRequests, sub.Features.ReviewRequestsLimit)
	assert.True(t, sub.Features.AdvancedAnalytics)

	user, err := f.users.GetByID(ctx, owner.UserID)
	require.NoError(t, err)
	assert.Equal(t, models.PlanPremium, user.Subscription)

	sub, err = f.subscriptions.ChangePlan(ctx, owner.UserID, models.PlanFree)
	require.NoError(t, err)
	assert.Equal(t, FeaturesForPlan(models.PlanFree), sub.Features)

	user, err = f.users.GetByID(ctx, owner.UserID)
	require.NoError(t, err)
	assert.Equal(t, models.PlanFree, user.Subscription)
}

func TestChangePlan_RejectsUnknownPlan(t *testing.T) {
	f := newFixture()
	owner := f.signUp("owner-1")

	_, err := f.subscriptions.ChangePlan(context.Background(), owner.UserID, "enterprise")
	assert.ErrorIs(t, err, ErrInvalidPlan)
	assert.Equal(t, "Invalid subscription plan", err.Error())
}

func TestGetSubscription_NotFound(t *testing.T) {
	f := newFixture()
	_, err := f.subscriptions.Get(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrSubscriptionNotFound)
}

func TestCheckReviewRequestQuota(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.signUp("owner-1")
	business := f.addBusiness(owner, "Cafe")

	seed := func(n int, createdAt time.Time) {
		for i := 0; i < n; i++ {
			_, err := memRequests{f.store}.Create(ctx, &models.ReviewRequest{
				BusinessID: business.ID,
				UniqueID:   fmt.Sprintf("seed-%d-%d", createdAt.Unix(), i),
				CreatedAt:  createdAt,
			})
			require.NoError(t, err)
		}
	}

	// Last month's requests do not count.
	seed(10, time.Date(2024, time.February, 29, 23, 59, 0, 0, time.UTC))
	seed(49, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, f.subscriptions.CheckReviewRequestQuota(ctx, owner.UserID, business.ID))

	seed(1, f.now)
	err := f.subscriptions.CheckReviewRequestQuota(ctx, owner.UserID, business.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrQuotaExceeded))
	assert.Equal(t, "You have reached your monthly limit of 50 review requests. Please upgrade to premium.", err.Error())

	_, err = f.subscriptions.ChangePlan(ctx, owner.UserID, models.PlanPremium)
	require.NoError(t, err)
	assert.NoError(t, f.subscriptions.CheckReviewRequestQuota(ctx, owner.UserID, business.ID))
}

func TestCheckReviewRequestQuota_MissingSubscription(t *testing.T) {
	f := newFixture()
	err := f.subscriptions.CheckReviewRequestQuota(context.Background(), "ghost", "biz")
	assert.ErrorIs(t, err, ErrQuotaSubscriptionMissing)
	assert.Equal(t, "Subscription not found", MessageOf(err, ""))
}

func TestApplyBillingEvent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.signUp("owner-1")
	f.store.users[owner.UserID].StripeCustomerID = "cus_42"

	require.NoError(t, f.subscriptions.ApplyBillingEvent(ctx, payment.BillingEvent{
		ID: "evt_1", Type: payment.EventCheckoutCompleted, CustomerID: "cus_42", SubscriptionID: "sub_42",
	}))
	sub, err := f.subscriptions.Get(ctx, owner.UserID)
	require.NoError(t, err)
	assert.Equal(t, models.PlanPremium, sub.Plan)
	assert.Equal(t, models.StatusActive, sub.Status)
	assert.Equal(t, "sub_42", sub.StripeSubscriptionID)
	assert.Equal(t, models.UnlimitedReviewRequests, sub.Features.ReviewRequestsLimit)
	assert.Equal(t, models.PlanPremium, f.store.users[owner.UserID].Subscription)

	require.NoError(t, f.subscriptions.ApplyBillingEvent(ctx, payment.BillingEvent{
		ID: "evt_2", Type: "invoice.paid", CustomerID: "cus_42",
	}))
	sub, _ = f.subscriptions.Get(ctx, owner.UserID)
	assert.Equal(t, models.PlanPremium, sub.Plan)

	require.NoError(t, f.subscriptions.ApplyBillingEvent(ctx, payment.BillingEvent{
		ID: "evt_3", Type: payment.EventSubscriptionDeleted, CustomerID: "cus_42", SubscriptionID: "sub_42",
	}))
	sub, _ = f.subscriptions.Get(ctx, owner.UserID)
	assert.Equal(t, models.PlanFree, sub.Plan)
	assert.Equal(t, models.StatusInactive, sub.Status)
	assert.Empty(t, sub.StripeSubscriptionID)
	assert.Equal(t, FeaturesForPlan(models.PlanFree), sub.Features)
	assert.Equal(t, models.PlanFree, f.store.users[owner.UserID].Subscription)
}

func TestHandleWebhook_BadSignatureMutatesNothing(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.signUp("owner-1")
	f.store.users[owner.UserID].StripeCustomerID = "cus_42"
	f.gateway.webhookError = true
	f.gateway.event = &payment.BillingEvent{Type: payment.EventCheckoutCompleted, CustomerID: "cus_42"}

	err := f.subscriptions.HandleWebhook(ctx, []byte(`{}`), "t=1,v1=bad")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWebhookSignature)

	sub, _ := f.subscriptions.Get(ctx, owner.UserID)
	assert.Equal(t, models.PlanFree, sub.Plan)
	assert.Empty(t, f.store.audit)
}

func TestCancel(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.signUp("owner-1")

	_, err := f.subscriptions.Cancel(ctx, owner.UserID)
	assert.ErrorIs(t, err, ErrNoActiveSubscription)
	assert.Empty(t, f.gateway.canceled)

	f.store.users[owner.UserID].StripeCustomerID = "cus_42"
	require.NoError(t, f.subscriptions.ApplyBillingEvent(ctx, payment.BillingEvent{
		Type: payment.EventCheckoutCompleted, CustomerID: "cus_42", SubscriptionID: "sub_42",
	}))

	sub, err := f.subscriptions.Cancel(ctx, owner.UserID)
	require.NoError(t, err)
	assert.Equal(t, []string{"sub_42"}, f.gateway.canceled)
	assert.Equal(t, models.PlanFree, sub.Plan)
	assert.Equal(t, models.StatusInactive, sub.Status)
	assert.NotNil(t, sub.CanceledAt)
}

func TestCancel_ProviderFailureKeepsPlan(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.signUp("owner-1")
	f.store.users[owner.UserID].StripeCustomerID = "cus_42"
	require.NoError(t, f.subscriptions.ApplyBillingEvent(ctx, payment.BillingEvent{
		Type: payment.EventCheckoutCompleted, CustomerID: "cus_42", SubscriptionID: "sub_42",
	}))
	f.gateway.cancelErr = errors.New("stripe down")

	_, err := f.subscriptions.Cancel(ctx, owner.UserID)
	assert.ErrorIs(t, err, ErrProvider)
	sub, _ := f.subscriptions.Get(ctx, owner.UserID)
	assert.Equal(t, models.PlanPremium, sub.Plan)
}

func TestCreateCheckout(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.signUp("owner-1")
	f.store.users[owner.UserID].FirstName = "Ada"
	f.store.users[owner.UserID].LastName = "Lovelace"

	_, err := f.subscriptions.CreateCheckout(ctx, owner.UserID, models.PlanFree)
	assert.ErrorIs(t, err, ErrInvalidPlan)

	session, err := f.subscriptions.CreateCheckout(ctx, owner.UserID, models.PlanPremium)
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", session.SessionID)
	assert.Equal(t, "cus_1", f.store.users[owner.UserID].StripeCustomerID)

	req := f.gateway.checkout
	require.NotNil(t, req)
	assert.Equal(t, int64(1999), req.UnitAmountCents)
	assert.Equal(t, "usd", req.Currency)
	assert.Equal(t, "month", req.Interval)
	assert.Equal(t, "Revuverse Premium Subscription", req.ProductName)
	assert.Equal(t, testFrontendURL+"/dashboard?subscription=success", req.SuccessURL)
	assert.Equal(t, testFrontendURL+"/dashboard?subscription=cancel", req.CancelURL)

	// The stored customer is reused.
	_, err = f.subscriptions.CreateCheckout(ctx, owner.UserID, models.PlanPremium)
	require.NoError(t, err)
	assert.Equal(t, 1, f.gateway.customers)
}
