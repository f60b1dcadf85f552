package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"revuverse-backend-go/internal/core"
	"revuverse-backend-go/internal/models"
)

// SMSHandler exposes the SMS utility endpoints.
type SMSHandler struct {
	*responder
	phoneService core.PhoneService
}

// NewSMSHandler creates a new SMSHandler.
func NewSMSHandler(r *responder, ps core.PhoneService) *SMSHandler {
	return &SMSHandler{responder: r, phoneService: ps}
}

// failSMS surfaces the provider's message; the adapter already rewrote the known trial
// account errors into actionable text.
func (h *SMSHandler) failSMS(c *gin.Context, err error, fallback string) {
	if errors.Is(err, core.ErrProvider) {
		h.fail(c, err, core.MessageOf(err, fallback))
		return
	}
	h.fail(c, err, fallback)
}

// SendSMS handles POST /sms/send
func (h *SMSHandler) SendSMS(c *gin.Context) {
	var body models.SendSMSRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.badRequest(c, "Phone number and message are required", err)
		return
	}
	receipt, err := h.phoneService.SendSMS(c.Request.Context(), body.To, body.Message)
	if err != nil {
		h.failSMS(c, err, "Failed to send SMS")
		return
	}
	c.JSON(http.StatusOK, dataResponse(receipt))
}

// SendVerification handles POST /sms/verify/send
func (h *SMSHandler) SendVerification(c *gin.Context) {
	var body models.PhoneVerificationRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.badRequest(c, "Phone number is required", err)
		return
	}
	receipt, err := h.phoneService.StartVerification(c.Request.Context(), body.PhoneNumber)
	if err != nil {
		h.failSMS(c, err, "Failed to send verification code")
		return
	}
	c.JSON(http.StatusOK, dataResponse(receipt))
}

// CheckVerification handles POST /sms/verify/check
func (h *SMSHandler) CheckVerification(c *gin.Context) {
	var body models.PhoneVerificationRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.badRequest(c, "Phone number and verification code are required", err)
		return
	}
	receipt, err := h.phoneService.CheckVerification(c.Request.Context(), body.PhoneNumber, body.Code)
	if err != nil {
		h.failSMS(c, err, "Failed to verify code")
		return
	}
	c.JSON(http.StatusOK, dataResponse(receipt))
}

// TestConfig handles GET /sms/test-config
func (h *SMSHandler) TestConfig(c *gin.Context) {
	account, err := h.phoneService.Account(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Twilio configuration test failed")
		return
	}
	c.JSON(http.StatusOK, SMSConfigResponse{
		Success:       true,
		Message:       "Twilio configuration is valid",
		AccountName:   account.FriendlyName,
		AccountStatus: account.Status,
	})
}
