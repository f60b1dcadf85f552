package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"revuverse-backend-go/internal/core"
	"revuverse-backend-go/internal/middleware"
	"revuverse-backend-go/internal/models"
)

// errorStatus lists the error kinds handlers translate, in match order.
var errorStatus = []struct {
	kind   error
	status int
}{
	{core.ErrValidation, http.StatusBadRequest},
	{core.ErrUnauthenticated, http.StatusUnauthorized},
	{core.ErrForbiddenAccess, http.StatusForbidden},
	{core.ErrBusinessNotFound, http.StatusNotFound},
	{core.ErrReviewRequestNotFound, http.StatusNotFound},
	{core.ErrFeedbackNotFound, http.StatusNotFound},
	{core.ErrSubscriptionNotFound, http.StatusNotFound},
	{core.ErrUserNotFound, http.StatusNotFound},
	{core.ErrBusinessLimitReached, http.StatusBadRequest},
	{core.ErrQuotaExceeded, http.StatusBadRequest},
	{core.ErrQuotaSubscriptionMissing, http.StatusBadRequest},
	{core.ErrInvalidPlan, http.StatusBadRequest},
	{core.ErrNoActiveSubscription, http.StatusBadRequest},
	{core.ErrReminderAlreadySent, http.StatusBadRequest},
	{core.ErrRequestCompleted, http.StatusBadRequest},
	{core.ErrFeedbackAlreadySubmitted, http.StatusBadRequest},
	{core.ErrMissingContact, http.StatusBadRequest},
	{core.ErrWebhookSignature, http.StatusBadRequest},
}

// responder writes envelopes and maps service errors to statuses.
type responder struct {
	logger     *zap.Logger
	production bool
}

func newResponder(logger *zap.Logger, production bool) *responder {
	return &responder{logger: logger, production: production}
}

// fail maps err to a status. Business rule errors keep their own message; anything else is a
// 500 with fallback as message and the error text as detail outside production.
func (r *responder) fail(c *gin.Context, err error, fallback string) {
	for _, m := range errorStatus {
		if errors.Is(err, m.kind) {
			message := core.MessageOf(err, m.kind.Error())
			if m.kind == core.ErrWebhookSignature {
				message = "Webhook Error: " + message
			}
			c.JSON(m.status, ErrorResponse{Message: message})
			return
		}
	}

	if errors.Is(err, core.ErrProvider) {
		r.logger.Error("Provider call failed", zap.String("path", c.FullPath()), zap.Error(err))
	} else {
		r.logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	resp := ErrorResponse{Message: fallback}
	if !r.production {
		resp.Error = err.Error()
	}
	c.JSON(http.StatusInternalServerError, resp)
}

// badRequest reports a malformed body.
func (r *responder) badRequest(c *gin.Context, message string, err error) {
	resp := ErrorResponse{Message: message}
	if err != nil && !r.production {
		resp.Error = err.Error()
	}
	c.JSON(http.StatusBadRequest, resp)
}

// caller returns the authenticated caller or writes a 401.
func (r *responder) caller(c *gin.Context) (models.Caller, bool) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Not authorized"})
		return models.Caller{}, false
	}
	return caller, true
}
