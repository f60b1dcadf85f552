package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"googlemaps.github.io/maps"

	"revuverse-backend-go/pkg/cache"
)

// ErrPlaces wraps every failed Google Places call.
var ErrPlaces = errors.New("google places error")

// detailFields are the place details requested from Google.
var detailFields = []string{
	"name", "formatted_address", "geometry", "url", "website",
	"formatted_phone_number", "rating", "reviews", "photos", "types",
}

// placesAPI is the part of *maps.Client used here.
type placesAPI interface {
	TextSearch(ctx context.Context, r *maps.TextSearchRequest) (maps.PlacesSearchResponse, error)
	PlaceDetails(ctx context.Context, r *maps.PlaceDetailsRequest) (maps.PlaceDetailsResult, error)
}

// Service looks up businesses on Google Places, caching results when a cache is given.
type Service struct {
	api    placesAPI
	fields []maps.PlaceDetailsFieldMask
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewService creates a Service for apiKey. c may be nil to disable caching.
func NewService(apiKey string, c cache.Cache, ttl time.Duration, logger *zap.Logger) (*Service, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create google maps client: %w", err)
	}
	return newService(client, c, ttl, logger)
}

func newService(api placesAPI, c cache.Cache, ttl time.Duration, logger *zap.Logger) (*Service, error) {
	fields := make([]maps.PlaceDetailsFieldMask, 0, len(detailFields))
	for _, f := range detailFields {
		mask, err := maps.ParsePlaceDetailsFieldMask(f)
		if err != nil {
			return nil, fmt.Errorf("invalid place details field %q: %w", f, err)
		}
		fields = append(fields, mask)
	}
	return &Service{api: api, fields: fields, cache: c, ttl: ttl, logger: logger}, nil
}

// Search runs a text search. Zero results is an empty slice, not an error.
func (s *Service) Search(ctx context.Context, query string) ([]maps.PlacesSearchResult, error) {
	var results []maps.PlacesSearchResult
	if s.fromCache(ctx, "places:search:"+query, &results) {
		return results, nil
	}

	resp, err := s.api.TextSearch(ctx, &maps.TextSearchRequest{Query: query})
	if err != nil {
		s.logger.Error("Error searching places", zap.String("query", query), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrPlaces, err)
	}
	results = resp.Results
	if results == nil {
		results = []maps.PlacesSearchResult{}
	}
	s.toCache(ctx, "places:search:"+query, results)
	return results, nil
}

// Details fetches a place by its Google place id.
func (s *Service) Details(ctx context.Context, placeID string) (*maps.PlaceDetailsResult, error) {
	var details maps.PlaceDetailsResult
	if s.fromCache(ctx, "places:details:"+placeID, &details) {
		return &details, nil
	}

	details, err := s.api.PlaceDetails(ctx, &maps.PlaceDetailsRequest{PlaceID: placeID, Fields: s.fields})
	if err != nil {
		s.logger.Error("Error fetching place details", zap.String("place_id", placeID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrPlaces, err)
	}
	s.toCache(ctx, "places:details:"+placeID, details)
	return &details, nil
}

// Reviews returns the reviews included in the place details.
func (s *Service) Reviews(ctx context.Context, placeID string) ([]maps.PlaceReview, error) {
	details, err := s.Details(ctx, placeID)
	if err != nil {
		return nil, err
	}
	if details.Reviews == nil {
		return []maps.PlaceReview{}, nil
	}
	return details.Reviews, nil
}

func (s *Service) fromCache(ctx context.Context, key string, out interface{}) bool {
	if s.cache == nil {
		return false
	}
	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil || !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		s.logger.Warn("Dropping undecodable places cache entry", zap.String("key", key), zap.Error(err))
		_ = s.cache.Delete(ctx, key)
		return false
	}
	return true
}

func (s *Service) toCache(ctx context.Context, key string, v interface{}) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.ttl); err != nil {
		s.logger.Warn("Failed to cache places result", zap.String("key", key), zap.Error(err))
	}
}
