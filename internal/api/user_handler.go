package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"revuverse-backend-go/internal/core"
	"revuverse-backend-go/internal/middleware"
)

// UserHandler handles the user profile endpoints.
type UserHandler struct {
	*responder
	userService core.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(r *responder, us core.UserService) *UserHandler {
	return &UserHandler{responder: r, userService: us}
}

// InitializeUserProfile handles POST /users/initialize. The auth middleware already ran
// GetOrCreate; the status reports whether that call created the user.
func (h *UserHandler) InitializeUserProfile(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	profile, err := h.userService.Profile(c.Request.Context(), caller.UserID)
	if err != nil {
		h.fail(c, err, "Failed to initialize user profile")
		return
	}
	status := http.StatusOK
	if created, _ := c.Get(middleware.ContextUserCreatedKey); created == true {
		status = http.StatusCreated
	}
	c.JSON(status, dataResponse(profile))
}

// GetCurrentUserProfile handles GET /users/me
func (h *UserHandler) GetCurrentUserProfile(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	profile, err := h.userService.Profile(c.Request.Context(), caller.UserID)
	if err != nil {
		h.fail(c, err, "Failed to retrieve user profile")
		return
	}
	c.JSON(http.StatusOK, dataResponse(profile))
}
