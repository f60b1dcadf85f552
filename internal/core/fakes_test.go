package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"revuverse-backend-go/internal/db"
	"revuverse-backend-go/internal/models"
	"revuverse-backend-go/internal/notify"
	"revuverse-backend-go/internal/payment"
)

// memStore is an in-memory implementation of every repository the services use.
type memStore struct {
	mu         sync.Mutex
	seq        int
	users      map[string]*models.User
	businesses map[string]*models.Business
	subs       map[string]*models.Subscription
	requests   map[string]*models.ReviewRequest
	feedback   map[string]*models.Feedback
	audit      []models.AuditLog
}

func newMemStore() *memStore {
	return &memStore{
		users:      map[string]*models.User{},
		businesses: map[string]*models.Business{},
		subs:       map[string]*models.Subscription{},
		requests:   map[string]*models.ReviewRequest{},
		feedback:   map[string]*models.Feedback{},
	}
}

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

type memUsers struct{ *memStore }

func (r memUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r memUsers) GetByStripeCustomerID(_ context.Context, customerID string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.StripeCustomerID == customerID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, db.ErrNotFound
}

func (r memUsers) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; ok {
		return db.ErrDuplicateKey
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r memUsers) Update(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return db.ErrNotFound
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

type memBusinesses struct{ *memStore }

func (r memBusinesses) Create(_ context.Context, b *models.Business) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b.ID = r.nextID("biz")
	cp := *b
	r.businesses[b.ID] = &cp
	return b.ID, nil
}

func (r memBusinesses) GetByID(_ context.Context, id string) (*models.Business, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.businesses[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (r memBusinesses) GetByOwnerID(_ context.Context, ownerID string) ([]*models.Business, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.Business{}
	for _, b := range r.businesses {
		if b.UserID == ownerID {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r memBusinesses) Update(_ context.Context, b *models.Business) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.businesses[b.ID]; !ok {
		return db.ErrNotFound
	}
	cp := *b
	r.businesses[b.ID] = &cp
	return nil
}

func (r memBusinesses) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.businesses[id]; !ok {
		return db.ErrNotFound
	}
	delete(r.businesses, id)
	return nil
}

func (r memBusinesses) CountByOwnerID(_ context.Context, ownerID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, b := range r.businesses {
		if b.UserID == ownerID {
			n++
		}
	}
	return n, nil
}

type memSubscriptions struct{ *memStore }

func (r memSubscriptions) Create(_ context.Context, s *models.Subscription) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.subs {
		if existing.UserID == s.UserID {
			return "", db.ErrDuplicateKey
		}
	}
	s.ID = r.nextID("sub")
	cp := *s
	r.subs[s.ID] = &cp
	return s.ID, nil
}

func (r memSubscriptions) GetByUserID(_ context.Context, userID string) (*models.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.subs {
		if s.UserID == userID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, db.ErrNotFound
}

func (r memSubscriptions) Update(_ context.Context, s *models.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.subs[s.ID]; !ok {
		return db.ErrNotFound
	}
	cp := *s
	r.subs[s.ID] = &cp
	return nil
}

type memRequests struct{ *memStore }

func (r memRequests) Create(_ context.Context, req *models.ReviewRequest) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.requests {
		if existing.UniqueID == req.UniqueID {
			return "", db.ErrDuplicateKey
		}
	}
	req.ID = r.nextID("rr")
	cp := *req
	r.requests[req.ID] = &cp
	return req.ID, nil
}

func (r memRequests) GetByID(_ context.Context, id string) (*models.ReviewRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	cp := *req
	return &cp, nil
}

func (r memRequests) GetByUniqueID(_ context.Context, uniqueID string) (*models.ReviewRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, req := range r.requests {
		if req.UniqueID == uniqueID {
			cp := *req
			return &cp, nil
		}
	}
	return nil, db.ErrNotFound
}

func (r memRequests) filter(keep func(*models.ReviewRequest) bool) []*models.ReviewRequest {
	out := []*models.ReviewRequest{}
	for _, req := range r.requests {
		if keep(req) {
			cp := *req
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r memRequests) ListByBusinessIDs(_ context.Context, ids []string) ([]*models.ReviewRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set := map[string]bool{}
	for _, id := range ids {
		set[id] = true
	}
	return r.filter(func(req *models.ReviewRequest) bool { return set[req.BusinessID] }), nil
}

func (r memRequests) ListByBusinessSince(_ context.Context, businessID string, since time.Time) ([]*models.ReviewRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filter(func(req *models.ReviewRequest) bool {
		return req.BusinessID == businessID && !req.CreatedAt.Before(since)
	}), nil
}

func (r memRequests) CountByBusinessSince(ctx context.Context, businessID string, since time.Time) (int, error) {
	list, err := r.ListByBusinessSince(ctx, businessID, since)
	return len(list), err
}

func (r memRequests) Update(_ context.Context, req *models.ReviewRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.requests[req.ID]; !ok {
		return db.ErrNotFound
	}
	cp := *req
	r.requests[req.ID] = &cp
	return nil
}

func (r memRequests) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.requests[id]; !ok {
		return db.ErrNotFound
	}
	delete(r.requests, id)
	return nil
}

type memFeedback struct{ *memStore }

func (r memFeedback) Create(_ context.Context, f *models.Feedback) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f.ID = r.nextID("fb")
	cp := *f
	r.feedback[f.ID] = &cp
	return f.ID, nil
}

func (r memFeedback) GetByID(_ context.Context, id string) (*models.Feedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.feedback[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (r memFeedback) ListByBusinessIDs(_ context.Context, ids []string) ([]*models.Feedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set := map[string]bool{}
	for _, id := range ids {
		set[id] = true
	}
	out := []*models.Feedback{}
	for _, f := range r.feedback {
		if set[f.BusinessID] {
			cp := *f
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r memFeedback) Update(_ context.Context, f *models.Feedback) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.feedback[f.ID]; !ok {
		return db.ErrNotFound
	}
	cp := *f
	r.feedback[f.ID] = &cp
	return nil
}

func (r memFeedback) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.feedback[id]; !ok {
		return db.ErrNotFound
	}
	delete(r.feedback, id)
	return nil
}

type memAudit struct{ *memStore }

func (r memAudit) Create(_ context.Context, entry models.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.audit = append(r.audit, entry)
	return nil
}

// failingSender rejects every message with a provider error.
type failingSender struct{ calls int }

func (f *failingSender) SendEmail(context.Context, notify.EmailMessage) (*notify.Receipt, error) {
	f.calls++
	return nil, &notify.DeliveryError{Message: "Failed to send email: Bad Request"}
}

func (f *failingSender) SendSMS(context.Context, string, string) (*notify.Receipt, error) {
	f.calls++
	return nil, &notify.DeliveryError{Message: "Failed to send SMS message: unreachable"}
}

// fakeGateway records calls instead of reaching the billing provider.
type fakeGateway struct {
	customers    int
	checkout     *payment.CheckoutRequest
	canceled     []string
	cancelErr    error
	event        *payment.BillingEvent
	webhookError bool
}

func (g *fakeGateway) CreateCustomer(context.Context, string, string) (string, error) {
	g.customers++
	return fmt.Sprintf("cus_%d", g.customers), nil
}

func (g *fakeGateway) CreateCheckoutSession(_ context.Context, req payment.CheckoutRequest) (*payment.CheckoutSession, error) {
	g.checkout = &req
	return &payment.CheckoutSession{SessionID: "cs_test_1", URL: "https://checkout.example/cs_test_1"}, nil
}

func (g *fakeGateway) CancelSubscription(_ context.Context, id string) error {
	if g.cancelErr != nil {
		return g.cancelErr
	}
	g.canceled = append(g.canceled, id)
	return nil
}

func (g *fakeGateway) ParseWebhook([]byte, string) (*payment.BillingEvent, error) {
	if g.webhookError {
		return nil, fmt.Errorf("%w: no signatures found matching the expected signature", payment.ErrInvalidSignature)
	}
	if g.event == nil {
		return nil, errors.New("no event configured")
	}
	return g.event, nil
}

// fixture wires every service over one memStore.
type fixture struct {
	store         *memStore
	recorder      *notify.Recorder
	gateway       *fakeGateway
	now           time.Time
	users         *userService
	businesses    *businessService
	subscriptions *subscriptionService
	notifications *notificationService
	feedback      *feedbackService
	requests      *reviewRequestService
}

const testFrontendURL = "https://app.revuverse.test"

func newFixture() *fixture {
	logger := zap.NewNop()
	store := newMemStore()
	f := &fixture{
		store:    store,
		recorder: notify.NewRecorder(logger),
		gateway:  &fakeGateway{},
		now:      time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC),
	}
	clock := func() time.Time { return f.now }

	audit := NewAuditService(memAudit{store}, nil, logger)
	f.users = NewUserService(memUsers{store}, memSubscriptions{store}, logger).(*userService)
	f.users.now = clock
	f.businesses = NewBusinessService(memBusinesses{store}, audit, nil, 0, logger).(*businessService)
	f.businesses.now = clock
	f.subscriptions = NewSubscriptionService(memSubscriptions{store}, memUsers{store}, memRequests{store},
		f.gateway, audit, testFrontendURL+"/", logger).(*subscriptionService)
	f.subscriptions.now = clock
	f.notifications = NewNotificationService(f.recorder, "", testFrontendURL, logger).(*notificationService)
	f.feedback = NewFeedbackService(memFeedback{store}, memBusinesses{store}, memUsers{store},
		f.notifications, audit, logger).(*feedbackService)
	f.feedback.now = clock
	f.requests = NewReviewRequestService(memRequests{store}, memBusinesses{store}, f.subscriptions,
		f.feedback, f.notifications, audit, nil, 0, logger).(*reviewRequestService)
	f.requests.now = clock
	return f
}

// signUp creates a user with its free subscription and returns the matching caller.
func (f *fixture) signUp(id string) models.Caller {
	user, _, err := f.users.GetOrCreate(context.Background(), Identity{UserID: id, Email: id + "@owner.test"})
	if err != nil {
		panic(err)
	}
	return models.Caller{UserID: user.ID, Role: user.Role, Plan: user.Subscription}
}

func (f *fixture) addBusiness(caller models.Caller, name string) *models.Business {
	b, err := f.businesses.Create(context.Background(), caller, models.BusinessInput{Name: name, Category: models.CategoryRestaurant})
	if err != nil {
		panic(err)
	}
	return b
}
