package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"revuverse-backend-go/internal/core"
	"revuverse-backend-go/internal/models"
)

// ReviewRequestHandler handles the review request endpoints, including the public form.
type ReviewRequestHandler struct {
	*responder
	requestService core.ReviewRequestService
}

// NewReviewRequestHandler creates a new ReviewRequestHandler.
func NewReviewRequestHandler(r *responder, rs core.ReviewRequestService) *ReviewRequestHandler {
	return &ReviewRequestHandler{responder: r, requestService: rs}
}

// CreateReviewRequest handles POST /review-request
func (h *ReviewRequestHandler) CreateReviewRequest(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	var req models.CreateReviewRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "Invalid request payload", err)
		return
	}
	created, err := h.requestService.Create(c.Request.Context(), caller, req)
	if err != nil {
		h.fail(c, err, "Server error")
		return
	}
	c.JSON(http.StatusCreated, dataResponse(created))
}

// ListReviewRequests handles GET /review-request
func (h *ReviewRequestHandler) ListReviewRequests(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	requests, err := h.requestService.List(c.Request.Context(), caller)
	if err != nil {
		h.fail(c, err, "Server error")
		return
	}
	c.JSON(http.StatusOK, listResponse(requests))
}

// ListBusinessReviewRequests handles GET /review-request/business/:businessId
func (h *ReviewRequestHandler) ListBusinessReviewRequests(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	requests, err := h.requestService.ListByBusiness(c.Request.Context(), caller, c.Param("businessId"))
	if err != nil {
		h.fail(c, err, "Server error")
		return
	}
	c.JSON(http.StatusOK, listResponse(requests))
}

// GetReviewRequest handles GET /review-request/:id
func (h *ReviewRequestHandler) GetReviewRequest(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	req, err := h.requestService.Get(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		h.fail(c, err, "Server error")
		return
	}
	c.JSON(http.StatusOK, dataResponse(req))
}

// UpdateReviewRequest handles PUT /review-request/:id
func (h *ReviewRequestHandler) UpdateReviewRequest(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	var body models.UpdateReviewRequestRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.badRequest(c, "Invalid request payload", err)
		return
	}
	updated, err := h.requestService.Update(c.Request.Context(), caller, c.Param("id"), body)
	if err != nil {
		h.fail(c, err, "Server error")
		return
	}
	c.JSON(http.StatusOK, dataResponse(updated))
}

// DeleteReviewRequest handles DELETE /review-request/:id
func (h *ReviewRequestHandler) DeleteReviewRequest(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	if err := h.requestService.Delete(c.Request.Context(), caller, c.Param("id")); err != nil {
		h.fail(c, err, "Server error")
		return
	}
	c.JSON(http.StatusOK, messageResponse("Review request deleted successfully"))
}

// SendEmail handles POST /review-request/:id/send-email
func (h *ReviewRequestHandler) SendEmail(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	if err := h.requestService.SendEmail(c.Request.Context(), caller, c.Param("id")); err != nil {
		h.fail(c, err, "Error sending review request email")
		return
	}
	c.JSON(http.StatusOK, messageResponse("Review request email sent successfully"))
}

// SendSMS handles POST /review-request/:id/send-sms
func (h *ReviewRequestHandler) SendSMS(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	if err := h.requestService.SendSMS(c.Request.Context(), caller, c.Param("id")); err != nil {
		h.fail(c, err, "Error sending review request SMS")
		return
	}
	c.JSON(http.StatusOK, messageResponse("Review request SMS sent successfully"))
}

// SendReminder handles POST /review-request/:id/remind
func (h *ReviewRequestHandler) SendReminder(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	if err := h.requestService.Remind(c.Request.Context(), caller, c.Param("id")); err != nil {
		h.fail(c, err, "Server error")
		return
	}
	c.JSON(http.StatusOK, messageResponse("Reminder sent successfully"))
}

// Analytics handles GET /review-request/analytics/:businessId
func (h *ReviewRequestHandler) Analytics(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	analytics, err := h.requestService.Analytics(c.Request.Context(), caller, c.Param("businessId"))
	if err != nil {
		h.fail(c, err, "Server error")
		return
	}
	c.JSON(http.StatusOK, dataResponse(analytics))
}

// GetForm handles the public GET /review-request/form/:requestId
func (h *ReviewRequestHandler) GetForm(c *gin.Context) {
	form, err := h.requestService.Form(c.Request.Context(), c.Param("requestId"))
	if err != nil {
		h.fail(c, err, "Server error")
		return
	}
	c.JSON(http.StatusOK, dataResponse(form))
}

// SubmitFormFeedback handles the public POST /review-request/form/:requestId/feedback
func (h *ReviewRequestHandler) SubmitFormFeedback(c *gin.Context) {
	var body models.SubmitFeedbackRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.badRequest(c, "Invalid request payload", err)
		return
	}
	feedback, err := h.requestService.SubmitFeedback(c.Request.Context(), c.Param("requestId"), body)
	if err != nil {
		h.fail(c, err, "Error submitting feedback")
		return
	}
	c.JSON(http.StatusCreated, dataResponse(feedback))
}
