package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"revuverse-backend-go/internal/models"
)

func TestSubmitFeedback_NegativeRatingNotifiesOwner(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.signUp("owner-1")
	business := f.addBusiness(owner, "Cafe")

	fb, err := f.feedback.Submit(ctx, business.ID, models.SubmitFeedbackRequest{
		Rating: 2, Content: "slow service", CustomerName: "Ann", CustomerEmail: "ann@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, models.SentimentNegative, fb.Sentiment)
	assert.Equal(t, models.FeedbackNew, fb.Status)
	assert.Equal(t, models.PlatformInternal, fb.Platform)
	assert.Equal(t, "slow service", fb.Comment)
	assert.False(t, fb.IsPublic)
	assert.NotNil(t, fb.Tags)

	emails := f.recorder.Emails()
	require.Len(t, emails, 1)
	assert.Equal(t, "owner-1@owner.test", emails[0].To)
	assert.Equal(t, "New Feedback for Cafe", emails[0].Subject)
	assert.Equal(t, testFrontendURL+"/dashboard/feedback/"+fb.ID, emails[0].TemplateData["dashboardUrl"])
}

func TestSubmitFeedback_NotificationFailureIsNotSurfaced(t *testing.T) {
	f := newFixture()
	owner := f.signUp("owner-1")
	business := f.addBusiness(owner, "Cafe")
	sender := &failingSender{}
	f.feedback.notifications = NewNotificationService(sender, "", testFrontendURL, zap.NewNop())

	fb, err := f.feedback.Submit(context.Background(), business.ID, models.SubmitFeedbackRequest{
		Rating: 4, CustomerName: "Ann", CustomerEmail: "ann@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, sender.calls)
	assert.Contains(t, f.store.feedback, fb.ID)
}

func TestSubmitFeedback_Rejections(t *testing.T) {
	f := newFixture()
	owner := f.signUp("owner-1")
	business := f.addBusiness(owner, "Cafe")
	ctx := context.Background()

	_, err := f.feedback.Submit(ctx, "missing", models.SubmitFeedbackRequest{Rating: 5, CustomerName: "Ann", CustomerEmail: "ann@example.com"})
	assert.ErrorIs(t, err, ErrBusinessNotFound)

	for _, bad := range []models.SubmitFeedbackRequest{
		{Rating: 0, CustomerName: "Ann", CustomerEmail: "ann@example.com"},
		{Rating: 6, CustomerName: "Ann", CustomerEmail: "ann@example.com"},
		{Rating: 3, CustomerName: "Ann", CustomerEmail: "not-an-email"},
		{Rating: 3, CustomerEmail: "ann@example.com"},
		{Rating: 3, CustomerName: "Ann", CustomerEmail: "ann@example.com", Platform: "myspace"},
	} {
		_, err := f.feedback.Submit(ctx, business.ID, bad)
		assert.ErrorIs(t, err, ErrValidation)
	}
	assert.Empty(t, f.store.feedback)
}

func TestSentimentForRating(t *testing.T) {
	want := map[int]string{
		1: models.SentimentNegative,
		2: models.SentimentNegative,
		3: models.SentimentNeutral,
		4: models.SentimentPositive,
		5: models.SentimentPositive,
	}
	for rating, sentiment := range want {
		assert.Equal(t, sentiment, SentimentForRating(rating), "rating %d", rating)
	}
}

func TestFeedbackOwnerOperations(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.signUp("owner-1")
	stranger := f.signUp("owner-2")
	business := f.addBusiness(owner, "Cafe")
	fb, err := f.feedback.Submit(ctx, business.ID, models.SubmitFeedbackRequest{
		Rating: 3, CustomerName: "Ann", CustomerEmail: "ann@example.com",
	})
	require.NoError(t, err)

	_, err = f.feedback.Get(ctx, stranger, fb.ID)
	assert.ErrorIs(t, err, ErrForbiddenAccess)
	_, err = f.feedback.Get(ctx, owner, "missing")
	assert.ErrorIs(t, err, ErrFeedbackNotFound)

	updated, err := f.feedback.UpdateStatus(ctx, owner, fb.ID, models.FeedbackResolved)
	require.NoError(t, err)
	assert.Equal(t, models.FeedbackResolved, updated.Status)
	updated, err = f.feedback.UpdateStatus(ctx, owner, fb.ID, models.FeedbackNew)
	require.NoError(t, err)
	assert.Equal(t, models.FeedbackNew, updated.Status)
	_, err = f.feedback.UpdateStatus(ctx, owner, fb.ID, "closed")
	assert.ErrorIs(t, err, ErrValidation)

	responded, err := f.feedback.Respond(ctx, owner, fb.ID, "Thanks for the honest review")
	require.NoError(t, err)
	assert.Equal(t, "Thanks for the honest review", responded.BusinessResponse.Content)
	assert.Equal(t, owner.UserID, responded.BusinessResponse.RespondedBy)
	require.NotNil(t, responded.BusinessResponse.RespondedAt)

	_, err = f.feedback.UpdateStatus(ctx, stranger, fb.ID, models.FeedbackIgnored)
	assert.ErrorIs(t, err, ErrForbiddenAccess)
	assert.ErrorIs(t, f.feedback.Delete(ctx, stranger, fb.ID), ErrForbiddenAccess)
	require.NoError(t, f.feedback.Delete(ctx, owner, fb.ID))
	assert.Empty(t, f.store.feedback)
}

func TestFeedbackListAndAnalytics(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.signUp("owner-1")
	owner.Plan = models.PlanPremium
	first := f.addBusiness(owner, "Cafe")
	second := f.addBusiness(owner, "Bar")
	other := f.signUp("owner-2")
	foreign := f.addBusiness(other, "Elsewhere")

	for _, sub := range []struct {
		business string
		rating   int
	}{{first.ID, 5}, {first.ID, 4}, {first.ID, 1}, {second.ID, 3}, {foreign.ID, 5}} {
		_, err := f.feedback.Submit(ctx, sub.business, models.SubmitFeedbackRequest{
			Rating: sub.rating, CustomerName: "C", CustomerEmail: "c@example.com",
		})
		require.NoError(t, err)
	}

	all, err := f.feedback.ListForOwner(ctx, owner, "")
	require.NoError(t, err)
	assert.Len(t, all, 4)

	one, err := f.feedback.ListForOwner(ctx, owner, second.ID)
	require.NoError(t, err)
	assert.Len(t, one, 1)

	_, err = f.feedback.ListForOwner(ctx, owner, foreign.ID)
	assert.ErrorIs(t, err, ErrForbiddenAccess)

	analytics, err := f.feedback.Analytics(ctx, owner, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, analytics.Total)
	assert.InDelta(t, 10.0/3.0, analytics.AverageRating, 0.0001)
	assert.Equal(t, map[int]int{1: 1, 2: 0, 3: 0, 4: 1, 5: 1}, analytics.RatingDistribution)
}

func TestComputeFeedbackAnalytics_Empty(t *testing.T) {
	got := ComputeFeedbackAnalytics(nil)
	assert.Equal(t, 0, got.Total)
	assert.Equal(t, 0.0, got.AverageRating)
	assert.Len(t, got.RatingDistribution, 5)
}

func TestStartOfMonthUTC(t *testing.T) {
	in := time.Date(2024, time.March, 1, 0, 30, 0, 0, time.FixedZone("CET", 3600))
	assert.Equal(t, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), StartOfMonthUTC(in))
}
