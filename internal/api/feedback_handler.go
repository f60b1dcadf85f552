package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"revuverse-backend-go/internal/core"
	"revuverse-backend-go/internal/models"
)

// FeedbackHandler handles the Feedback Intake endpoints.
type FeedbackHandler struct {
	*responder
	feedbackService core.FeedbackService
}

// NewFeedbackHandler creates a new FeedbackHandler.
func NewFeedbackHandler(r *responder, fs core.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{responder: r, feedbackService: fs}
}

// SubmitFeedback handles the public POST /feedback/submit/:businessId
func (h *FeedbackHandler) SubmitFeedback(c *gin.Context) {
	var body models.SubmitFeedbackRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.badRequest(c, "Invalid request payload", err)
		return
	}
	feedback, err := h.feedbackService.Submit(c.Request.Context(), c.Param("businessId"), body)
	if err != nil {
		h.fail(c, err, "Error creating feedback")
		return
	}
	c.JSON(http.StatusCreated, dataResponse(feedback))
}

// ListFeedback handles GET /feedback and GET /feedback/business/:businessId
func (h *FeedbackHandler) ListFeedback(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	businessID := c.Param("businessId")
	if businessID == "" {
		businessID = c.Query("businessId")
	}
	feedback, err := h.feedbackService.ListForOwner(c.Request.Context(), caller, businessID)
	if err != nil {
		h.fail(c, err, "Error fetching feedback")
		return
	}
	c.JSON(http.StatusOK, listResponse(feedback))
}

// GetFeedback handles GET /feedback/:id
func (h *FeedbackHandler) GetFeedback(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	feedback, err := h.feedbackService.Get(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		h.fail(c, err, "Error fetching feedback")
		return
	}
	c.JSON(http.StatusOK, dataResponse(feedback))
}

// UpdateFeedbackStatus handles PUT /feedback/:id
func (h *FeedbackHandler) UpdateFeedbackStatus(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	var body models.UpdateFeedbackStatusRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.badRequest(c, "Invalid request payload", err)
		return
	}
	feedback, err := h.feedbackService.UpdateStatus(c.Request.Context(), caller, c.Param("id"), body.Status)
	if err != nil {
		h.fail(c, err, "Error updating feedback")
		return
	}
	c.JSON(http.StatusOK, dataResponse(feedback))
}

// RespondToFeedback handles POST /feedback/:id/respond
func (h *FeedbackHandler) RespondToFeedback(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	var body models.RespondFeedbackRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.badRequest(c, "Invalid request payload", err)
		return
	}
	feedback, err := h.feedbackService.Respond(c.Request.Context(), caller, c.Param("id"), body.Response)
	if err != nil {
		h.fail(c, err, "Error responding to feedback")
		return
	}
	c.JSON(http.StatusOK, dataResponse(feedback))
}

// DeleteFeedback handles DELETE /feedback/:id
func (h *FeedbackHandler) DeleteFeedback(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	if err := h.feedbackService.Delete(c.Request.Context(), caller, c.Param("id")); err != nil {
		h.fail(c, err, "Error deleting feedback")
		return
	}
	c.JSON(http.StatusOK, messageResponse("Feedback removed"))
}

// Analytics handles GET /feedback/analytics/:businessId
func (h *FeedbackHandler) Analytics(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	analytics, err := h.feedbackService.Analytics(c.Request.Context(), caller, c.Param("businessId"))
	if err != nil {
		h.fail(c, err, "Error fetching analytics")
		return
	}
	c.JSON(http.StatusOK, dataResponse(analytics))
}
