package payment

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"
	"go.uber.org/zap"
)

const testSecret = "whsec_test"

func signed(t *testing.T, payload string) (body []byte, header string) {
	t.Helper()
	sp := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(payload),
		Secret:    testSecret,
		Timestamp: time.Now(),
	})
	return sp.Payload, sp.Header
}

func TestParseWebhook_CheckoutCompleted(t *testing.T) {
	body, header := signed(t, `{
		"id": "evt_1",
		"object": "event",
		"type": "checkout.session.completed",
		"data": {"object": {"id": "cs_1", "object": "checkout.session", "customer": "cus_123", "subscription": "sub_456"}}
	}`)

	event, err := parseWebhook(body, header, testSecret)
	require.NoError(t, err)
	assert.Equal(t, EventCheckoutCompleted, event.Type)
	assert.Equal(t, "cus_123", event.CustomerID)
	assert.Equal(t, "sub_456", event.SubscriptionID)
}

func TestParseWebhook_SubscriptionDeleted(t *testing.T) {
	body, header := signed(t, `{
		"id": "evt_2",
		"object": "event",
		"type": "customer.subscription.deleted",
		"data": {"object": {"id": "sub_456", "object": "subscription", "customer": "cus_123"}}
	}`)

	event, err := parseWebhook(body, header, testSecret)
	require.NoError(t, err)
	assert.Equal(t, EventSubscriptionDeleted, event.Type)
	assert.Equal(t, "cus_123", event.CustomerID)
	assert.Equal(t, "sub_456", event.SubscriptionID)
}

func TestParseWebhook_UnknownTypePassesThrough(t *testing.T) {
	body, header := signed(t, `{"id": "evt_3", "object": "event", "type": "invoice.paid", "data": {"object": {"id": "in_1"}}}`)
	event, err := parseWebhook(body, header, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "invoice.paid", event.Type)
	assert.Empty(t, event.CustomerID)
}

func TestParseWebhook_BadSignature(t *testing.T) {
	body, _ := signed(t, `{"id": "evt_4", "object": "event", "type": "checkout.session.completed", "data": {"object": {}}}`)
	_, err := parseWebhook(body, "t=1,v1=deadbeef", testSecret)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestMapStripeError(t *testing.T) {
	g := &StripeGateway{logger: zap.NewNop()}

	err := g.mapStripeError("cancel subscription", &stripe.Error{Msg: "No such subscription", HTTPStatusCode: 404})
	assert.ErrorIs(t, err, ErrGateway)
	assert.Contains(t, err.Error(), "No such subscription")

	err = g.mapStripeError("create customer", &stripe.Error{Msg: "boom", HTTPStatusCode: 502})
	assert.ErrorIs(t, err, ErrGateway)
	assert.Contains(t, err.Error(), "provider unavailable")

	err = g.mapStripeError("create customer", errors.New("dial tcp"))
	assert.ErrorIs(t, err, ErrGateway)
}
