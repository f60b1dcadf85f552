package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"revuverse-backend-go/internal/core"
	"revuverse-backend-go/internal/models"
)

// BusinessHandler handles the Business Registry endpoints.
type BusinessHandler struct {
	*responder
	businessService core.BusinessService
}

// NewBusinessHandler creates a new BusinessHandler.
func NewBusinessHandler(r *responder, bs core.BusinessService) *BusinessHandler {
	return &BusinessHandler{responder: r, businessService: bs}
}

// CreateBusiness handles POST /business
func (h *BusinessHandler) CreateBusiness(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	var req models.BusinessInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "Invalid request payload", err)
		return
	}
	business, err := h.businessService.Create(c.Request.Context(), caller, req)
	if err != nil {
		h.fail(c, err, "Server error")
		return
	}
	c.JSON(http.StatusCreated, dataResponse(business))
}

// ListBusinesses handles GET /business
func (h *BusinessHandler) ListBusinesses(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	businesses, err := h.businessService.List(c.Request.Context(), caller)
	if err != nil {
		h.fail(c, err, "Server error")
		return
	}
	c.JSON(http.StatusOK, listResponse(businesses))
}

// GetBusiness handles GET /business/:id
func (h *BusinessHandler) GetBusiness(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	business, err := h.businessService.Get(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		h.fail(c, err, "Server error")
		return
	}
	c.JSON(http.StatusOK, dataResponse(business))
}

// UpdateBusiness handles PUT /business/:id
func (h *BusinessHandler) UpdateBusiness(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	var req models.BusinessInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "Invalid request payload", err)
		return
	}
	business, err := h.businessService.Update(c.Request.Context(), caller, c.Param("id"), req)
	if err != nil {
		h.fail(c, err, "Server error")
		return
	}
	c.JSON(http.StatusOK, dataResponse(business))
}

// DeleteBusiness handles DELETE /business/:id
func (h *BusinessHandler) DeleteBusiness(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	if err := h.businessService.Delete(c.Request.Context(), caller, c.Param("id")); err != nil {
		h.fail(c, err, "Server error")
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: gin.H{}})
}
