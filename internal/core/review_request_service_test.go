package core

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"revuverse-backend-go/internal/crypto"
	"revuverse-backend-go/internal/models"
	"revuverse-backend-go/pkg/cache"
)

func emailRequest(businessID string) models.CreateReviewRequestRequest {
	return models.CreateReviewRequestRequest{
		BusinessID:    businessID,
		CustomerName:  "Ann Customer",
		CustomerEmail: "ann@example.com",
		RequestMethod: models.MethodEmail,
	}
}

func TestCreateReviewRequest_DispatchesAndMarksSent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.signUp("owner-1")
	business := f.addBusiness(owner, "Cafe Uno")

	req, err := f.requests.Create(ctx, owner, emailRequest(business.ID))
	require.NoError(t, err)
	assert.Equal(t, models.RequestSent, req.Status)
	require.NotNil(t, req.SentAt)
	assert.True(t, crypto.IsReviewToken(req.UniqueID))

	emails := f.recorder.Emails()
	require.Len(t, emails, 1)
	assert.Equal(t, "ann@example.com", emails[0].To)
	assert.Equal(t, "Cafe Uno would like your feedback", emails[0].Subject)
	assert.Equal(t, testFrontendURL+"/feedback/"+req.UniqueID, emails[0].TemplateData["feedbackUrl"])
	assert.Empty(t, f.recorder.SMS())
}

func TestCreateReviewRequest_BothWithEmailOnlySkipsSMS(t *testing.T) {
	f := newFixture()
	owner := f.signUp("owner-1")
	business := f.addBusiness(owner, "Cafe")
	in := emailRequest(business.ID)
	in.RequestMethod = models.MethodBoth

	req, err := f.requests.Create(context.Background(), owner, in)
	require.NoError(t, err)
	assert.Equal(t, models.RequestSent, req.Status)
	assert.Len(t, f.recorder.Emails(), 1)
	assert.Empty(t, f.recorder.SMS())
}

func TestCreateReviewRequest_SMSBody(t *testing.T) {
	f := newFixture()
	owner := f.signUp("owner-1")
	business := f.addBusiness(owner, "Cafe")

	req, err := f.requests.Create(context.Background(), owner, models.CreateReviewRequestRequest{
		BusinessID: business.ID, CustomerName: "Bo", CustomerPhone: "+15550001111", RequestMethod: models.MethodSMS,
	})
	require.NoError(t, err)
	sms := f.recorder.SMS()
	require.Len(t, sms, 1)
	assert.Equal(t, "+15550001111", sms[0].To)
	assert.Equal(t,
		"Cafe would like your feedback! Please take a moment to share your experience: "+testFrontendURL+"/feedback/"+req.UniqueID,
		sms[0].Body)
}

func TestCreateReviewRequest_Validation(t *testing.T) {
	f := newFixture()
	owner := f.signUp("owner-1")
	business := f.addBusiness(owner, "Cafe")

	cases := []struct {
		name   string
		mutate func(*models.CreateReviewRequestRequest)
		field  string
	}{
		{"email method without email", func(r *models.CreateReviewRequestRequest) { r.CustomerEmail = ""; r.CustomerPhone = "+1555" }, "customerEmail"},
		{"sms method without phone", func(r *models.CreateReviewRequestRequest) { r.RequestMethod = models.MethodSMS }, "customerPhone"},
		{"no contact at all", func(r *models.CreateReviewRequestRequest) { r.CustomerEmail = ""; r.RequestMethod = models.MethodBoth }, "customerPhone"},
		{"malformed email", func(r *models.CreateReviewRequestRequest) { r.CustomerEmail = "ann@@example" }, "customerEmail"},
		{"unknown method", func(r *models.CreateReviewRequestRequest) { r.RequestMethod = "pigeon" }, "requestMethod"},
		{"missing name", func(r *models.CreateReviewRequestRequest) { r.CustomerName = "  " }, "customerName"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := emailRequest(business.ID)
			tc.mutate(&in)
			_, err := f.requests.Create(context.Background(), owner, in)
			require.Error(t, err)
			var ce *Error
			require.True(t, errors.As(err, &ce))
			assert.ErrorIs(t, err, ErrValidation)
			assert.Contains(t, ce.Fields, tc.field)
		})
	}
	assert.Empty(t, f.store.requests)
}

func TestCreateReviewRequest_Ownership(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.signUp("owner-1")
	stranger := f.signUp("owner-2")
	business := f.addBusiness(owner, "Cafe")

	_, err := f.requests.Create(ctx, stranger, emailRequest(business.ID))
	assert.ErrorIs(t, err, ErrForbiddenAccess)

	_, err = f.requests.Create(ctx, owner, emailRequest("missing"))
	assert.ErrorIs(t, err, ErrBusinessNotFound)
	assert.Empty(t, f.store.requests)
}

func TestCreateReviewRequest_QuotaBoundary(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.signUp("owner-1")
	business := f.addBusiness(owner, "Cafe")
	f.requests.locker = cache.NewMemoryCache()

	for i := 0; i < 50; i++ {
		_, err := f.requests.Create(ctx, owner, emailRequest(business.ID))
		require.NoError(t, err, "request %d", i+1)
	}

	_, err := f.requests.Create(ctx, owner, emailRequest(business.ID))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrQuotaExceeded)
	assert.Contains(t, err.Error(), "limit of 50 review requests")
	assert.Len(t, f.store.requests, 50)
	assert.Len(t, f.recorder.Emails(), 50)
}

func TestCreateReviewRequest_DispatchFailureMarksFailed(t *testing.T) {
	f := newFixture()
	owner := f.signUp("owner-1")
	business := f.addBusiness(owner, "Cafe")
	sender := &failingSender{}
	f.requests.notifications = NewNotificationService(sender, "", testFrontendURL, zap.NewNop())

	_, err := f.requests.Create(context.Background(), owner, emailRequest(business.ID))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProvider)
	assert.Equal(t, "Failed to send email: Bad Request", MessageOf(err, ""))

	require.Len(t, f.store.requests, 1)
	for _, stored := range f.store.requests {
		assert.Equal(t, models.RequestFailed, stored.Status)
		assert.Nil(t, stored.SentAt)
	}
}

func TestCreateReviewRequest_TokenCollisionRedraws(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.signUp("owner-1")
	business := f.addBusiness(owner, "Cafe")

	fixed := strings.Repeat("ab", crypto.TokenBytes)
	tokens := []string{fixed, fixed, strings.Repeat("cd", crypto.TokenBytes)}
	f.requests.newToken = func() (string, error) {
		tok := tokens[0]
		tokens = tokens[1:]
		return tok, nil
	}

	first, err := f.requests.Create(ctx, owner, emailRequest(business.ID))
	require.NoError(t, err)
	second, err := f.requests.Create(ctx, owner, emailRequest(business.ID))
	require.NoError(t, err)
	assert.NotEqual(t, first.UniqueID, second.UniqueID)
	assert.Len(t, f.store.requests, 2)
}

func TestRemind(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.signUp("owner-1")
	business := f.addBusiness(owner, "Cafe")
	req, err := f.requests.Create(ctx, owner, emailRequest(business.ID))
	require.NoError(t, err)

	require.NoError(t, f.requests.Remind(ctx, owner, req.ID))
	emails := f.recorder.Emails()
	require.Len(t, emails, 2)
	assert.Equal(t, "Reminder: Cafe would appreciate your feedback", emails[1].Subject)

	stored := f.store.requests[req.ID]
	assert.True(t, stored.ReminderSent)
	require.NotNil(t, stored.ReminderSentAt)

	err = f.requests.Remind(ctx, owner, req.ID)
	assert.ErrorIs(t, err, ErrReminderAlreadySent)
	assert.Equal(t, "Reminder has already been sent for this review request", err.Error())
	assert.Len(t, f.recorder.Emails(), 2)
}

func TestRemind_CompletedRequestSendsNothing(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.signUp("owner-1")
	business := f.addBusiness(owner, "Cafe")
	req, err := f.requests.Create(ctx, owner, emailRequest(business.ID))
	require.NoError(t, err)
	f.store.requests[req.ID].Status = models.RequestCompleted

	err = f.requests.Remind(ctx, owner, req.ID)
	assert.ErrorIs(t, err, ErrRequestCompleted)
	assert.Len(t, f.recorder.Emails(), 1)
	assert.False(t, f.store.requests[req.ID].ReminderSent)
}

func TestSendSingleChannel_MissingContact(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.signUp("owner-1")
	business := f.addBusiness(owner, "Cafe")
	req, err := f.requests.Create(ctx, owner, emailRequest(business.ID))
	require.NoError(t, err)

	assert.ErrorIs(t, f.requests.SendSMS(ctx, owner, req.ID), ErrMissingContact)
	require.NoError(t, f.requests.SendEmail(ctx, owner, req.ID))
	assert.Len(t, f.recorder.Emails(), 2)
}

func TestPublicFormAndSubmit(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.signUp("owner-1")
	business := f.addBusiness(owner, "Cafe")
	in := emailRequest(business.ID)
	in.Message = "Thanks for visiting!"
	req, err := f.requests.Create(ctx, owner, in)
	require.NoError(t, err)

	form, err := f.requests.Form(ctx, req.UniqueID)
	require.NoError(t, err)
	assert.Equal(t, "Cafe", form.BusinessName)
	assert.Equal(t, "Thanks for visiting!", form.Message)
	assert.Equal(t, models.RequestClicked, f.store.requests[req.ID].Status)
	assert.NotNil(t, f.store.requests[req.ID].ClickedAt)

	submission := models.SubmitFeedbackRequest{Rating: 5, Comment: " Lovely ", CustomerName: "Ann", CustomerEmail: "ann@example.com"}
	fb, err := f.requests.SubmitFeedback(ctx, req.UniqueID, submission)
	require.NoError(t, err)
	assert.Equal(t, req.ID, fb.ReviewRequestID)
	assert.Equal(t, "Lovely", fb.Comment)
	assert.Equal(t, models.SentimentPositive, fb.Sentiment)

	stored := f.store.requests[req.ID]
	assert.Equal(t, models.RequestCompleted, stored.Status)
	assert.Equal(t, fb.ID, stored.FeedbackID)
	assert.NotNil(t, stored.CompletedAt)

	_, err = f.requests.SubmitFeedback(ctx, req.UniqueID, submission)
	assert.ErrorIs(t, err, ErrFeedbackAlreadySubmitted)
	assert.Len(t, f.store.feedback, 1)

	_, err = f.requests.Form(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrReviewRequestNotFound)
}

func TestUpdateReviewRequest(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.signUp("owner-1")
	business := f.addBusiness(owner, "Cafe")
	req, err := f.requests.Create(ctx, owner, emailRequest(business.ID))
	require.NoError(t, err)

	status := "archived"
	_, err = f.requests.Update(ctx, owner, req.ID, models.UpdateReviewRequestRequest{Status: &status})
	assert.ErrorIs(t, err, ErrValidation)

	phone, method, completed := "+15550002222", models.MethodSMS, models.RequestCompleted
	updated, err := f.requests.Update(ctx, owner, req.ID, models.UpdateReviewRequestRequest{
		CustomerPhone: &phone, RequestMethod: &method, Status: &completed,
	})
	require.NoError(t, err)
	assert.Equal(t, req.UniqueID, updated.UniqueID)
	assert.Equal(t, business.ID, updated.BusinessID)
	assert.Equal(t, models.MethodSMS, updated.RequestMethod)
	assert.Equal(t, models.RequestCompleted, updated.Status)

	require.NoError(t, f.requests.Delete(ctx, owner, req.ID))
	_, err = f.requests.Get(ctx, owner, req.ID)
	assert.ErrorIs(t, err, ErrReviewRequestNotFound)
}

func TestOrphanedReviewRequest_AdminOnly(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.signUp("owner-1")
	admin := models.Caller{UserID: "admin-1", Role: models.RoleAdmin, Plan: models.PlanPremium}
	business := f.addBusiness(owner, "Cafe")
	req, err := f.requests.Create(ctx, owner, emailRequest(business.ID))
	require.NoError(t, err)
	require.NoError(t, f.businesses.Delete(ctx, owner, business.ID))

	_, err = f.requests.Get(ctx, owner, req.ID)
	assert.ErrorIs(t, err, ErrForbiddenAccess)

	got, err := f.requests.Get(ctx, admin, req.ID)
	require.NoError(t, err)
	assert.Equal(t, req.ID, got.ID)

	assert.ErrorIs(t, f.requests.Remind(ctx, admin, req.ID), ErrBusinessNotFound)
	assert.ErrorIs(t, f.requests.SendEmail(ctx, admin, req.ID), ErrBusinessNotFound)
	assert.Len(t, f.recorder.Emails(), 1)

	assert.ErrorIs(t, f.requests.Delete(ctx, owner, req.ID), ErrForbiddenAccess)
	require.NoError(t, f.requests.Delete(ctx, admin, req.ID))
	_, err = f.requests.Get(ctx, admin, req.ID)
	assert.ErrorIs(t, err, ErrReviewRequestNotFound)
}

func TestReviewRequestAnalytics(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.signUp("owner-1")
	business := f.addBusiness(owner, "Cafe")

	empty, err := f.requests.Analytics(ctx, owner, business.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.TotalRequests)
	assert.Equal(t, 0.0, empty.ResponseRate)

	for i := 0; i < 4; i++ {
		_, err := f.requests.Create(ctx, owner, emailRequest(business.ID))
		require.NoError(t, err)
	}
	for _, stored := range f.store.requests {
		stored.Status = models.RequestCompleted
		break
	}

	got, err := f.requests.Analytics(ctx, owner, business.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.TotalRequests)
	assert.Equal(t, 1, got.CompletedRequests)
	assert.Equal(t, 3, got.PendingRequests)
	assert.InDelta(t, 25.0, got.ResponseRate, 0.001)
	assert.Equal(t, 4, got.RequestsByMethod.Email)
}
