package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"revuverse-backend-go/internal/core"
	"revuverse-backend-go/internal/models"
)

// maxWebhookBytes caps the webhook body read before verification.
const maxWebhookBytes = 65536

// SubscriptionHandler handles the Subscription Ledger endpoints and the billing webhook.
type SubscriptionHandler struct {
	*responder
	subscriptionService core.SubscriptionService
}

// NewSubscriptionHandler creates a new SubscriptionHandler.
func NewSubscriptionHandler(r *responder, ss core.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{responder: r, subscriptionService: ss}
}

// GetSubscription handles GET /subscription
func (h *SubscriptionHandler) GetSubscription(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	sub, err := h.subscriptionService.Get(c.Request.Context(), caller.UserID)
	if err != nil {
		h.fail(c, err, "Server error")
		return
	}
	c.JSON(http.StatusOK, dataResponse(sub))
}

// UpdateSubscription handles PUT /subscription
func (h *SubscriptionHandler) UpdateSubscription(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	var body models.ChangePlanRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.badRequest(c, "Invalid request payload", err)
		return
	}
	sub, err := h.subscriptionService.ChangePlan(c.Request.Context(), caller.UserID, body.Plan)
	if err != nil {
		h.fail(c, err, "Server error")
		return
	}
	c.JSON(http.StatusOK, dataResponse(sub))
}

// CreateCheckoutSession handles POST /subscription/checkout
func (h *SubscriptionHandler) CreateCheckoutSession(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	var body models.ChangePlanRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.badRequest(c, "Invalid request payload", err)
		return
	}
	session, err := h.subscriptionService.CreateCheckout(c.Request.Context(), caller.UserID, body.Plan)
	if err != nil {
		h.fail(c, err, "Server error")
		return
	}
	c.JSON(http.StatusOK, dataResponse(session))
}

// CancelSubscription handles POST /subscription/cancel
func (h *SubscriptionHandler) CancelSubscription(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	sub, err := h.subscriptionService.Cancel(c.Request.Context(), caller.UserID)
	if err != nil {
		h.fail(c, err, "Server error")
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Message: "Subscription cancelled successfully", Data: sub})
}

// HandleStripeWebhook handles the public POST /subscription/webhook. The raw body is needed
// for signature verification.
func (h *SubscriptionHandler) HandleStripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBytes))
	if err != nil {
		h.badRequest(c, "Webhook Error: unable to read request body", err)
		return
	}
	signature := c.GetHeader("Stripe-Signature")
	if err := h.subscriptionService.HandleWebhook(c.Request.Context(), payload, signature); err != nil {
		h.fail(c, err, "Server error")
		return
	}
	c.JSON(http.StatusOK, WebhookAck{Received: true})
}
