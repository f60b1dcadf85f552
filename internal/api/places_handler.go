package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"googlemaps.github.io/maps"
)

// PlacesLookup is the Google Places surface the handler needs.
type PlacesLookup interface {
	Search(ctx context.Context, query string) ([]maps.PlacesSearchResult, error)
	Details(ctx context.Context, placeID string) (*maps.PlaceDetailsResult, error)
	Reviews(ctx context.Context, placeID string) ([]maps.PlaceReview, error)
}

var errPlacesDisabled = errors.New("GOOGLE_API_KEY is not configured")

// PlacesHandler handles the business lookup endpoints.
type PlacesHandler struct {
	*responder
	places PlacesLookup
}

// NewPlacesHandler creates a new PlacesHandler. places may be nil when no API key is set.
func NewPlacesHandler(r *responder, places PlacesLookup) *PlacesHandler {
	return &PlacesHandler{responder: r, places: places}
}

// Search handles GET /places/search?query=
func (h *PlacesHandler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		h.badRequest(c, "Search query is required", nil)
		return
	}
	if h.places == nil {
		h.fail(c, errPlacesDisabled, "Error searching places")
		return
	}
	results, err := h.places.Search(c.Request.Context(), query)
	if err != nil {
		h.fail(c, err, "Error searching places")
		return
	}
	c.JSON(http.StatusOK, dataResponse(results))
}

// Details handles GET /places/:placeId
func (h *PlacesHandler) Details(c *gin.Context) {
	if h.places == nil {
		h.fail(c, errPlacesDisabled, "Error fetching place details")
		return
	}
	details, err := h.places.Details(c.Request.Context(), c.Param("placeId"))
	if err != nil {
		h.fail(c, err, "Error fetching place details")
		return
	}
	c.JSON(http.StatusOK, dataResponse(details))
}

// Reviews handles GET /places/:placeId/reviews
func (h *PlacesHandler) Reviews(c *gin.Context) {
	if h.places == nil {
		h.fail(c, errPlacesDisabled, "Error fetching place reviews")
		return
	}
	reviews, err := h.places.Reviews(c.Request.Context(), c.Param("placeId"))
	if err != nil {
		h.fail(c, err, "Error fetching place reviews")
		return
	}
	c.JSON(http.StatusOK, listResponse(reviews))
}
