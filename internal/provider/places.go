// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hanguk-labs/local-guide/internal/geo"
	"github.com/hanguk-labs/local-guide/internal/knowledge"
	"github.com/hanguk-labs/local-guide/internal/resilience"
	"github.com/hanguk-labs/local-guide/pkg/types"
)

// placeSearchBase overrides the search host derived from the application ID.
// Tests set this to an httptest server; in production it stays empty.
var placeSearchBase = ""

// PlaceSearch queries a hosted geo-aware search index for Seoul places.
// Like the other adapters it never fails outright: total provider failure
// degrades to the curated fallback dataset.
type PlaceSearch struct {
	client  *http.Client
	cfg     types.PlaceSearchConfig
	wrapper *resilience.Wrapper
	log     zerolog.Logger
}

// NewPlaceSearch builds the adapter with its own resilience wrapper.
func NewPlaceSearch(cfg types.PlaceSearchConfig, log zerolog.Logger) *PlaceSearch {
	if cfg.IndexName == "" {
		cfg.IndexName = "seoul_places"
	}
	if cfg.RadiusMeters <= 0 {
		cfg.RadiusMeters = 5000
	}
	return &PlaceSearch{
		client:  &http.Client{Timeout: cfg.Timeout},
		cfg:     cfg,
		wrapper: resilience.New("place_search", cfg.Resilience, log),
		log:     log.With().Str("source", "place_search").Logger(),
	}
}

// Name returns the adapter identifier.
func (s *PlaceSearch) Name() string { return "place_search" }

// Status reports the adapter's circuit state.
func (s *PlaceSearch) Status() types.ServiceStatus { return s.wrapper.Status() }

func (s *PlaceSearch) endpoint() string {
	if placeSearchBase != "" {
		return placeSearchBase + "/1/indexes/" + s.cfg.IndexName + "/query"
	}
	return fmt.Sprintf("https://%s-dsn.algolia.net/1/indexes/%s/query", s.cfg.AppID, s.cfg.IndexName)
}

// placeSearchRequest is the index query body.
type placeSearchRequest struct {
	Query        string `json:"query"`
	HitsPerPage  int    `json:"hitsPerPage"`
	AroundLatLng string `json:"aroundLatLng,omitempty"`
	AroundRadius int    `json:"aroundRadius,omitempty"`
	Filters      string `json:"filters,omitempty"`
}

// Search queries the place index. A geographic bias outside Korea is
// dropped with a warning rather than forwarded; the search still runs
// unbiased. The error return is always nil.
func (s *PlaceSearch) Search(ctx context.Context, q Query) ([]types.Recommendation, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = s.cfg.MaxResults
	}
	if limit <= 0 {
		limit = 6
	}

	body := placeSearchRequest{
		Query:       q.Text,
		HitsPerPage: limit,
	}
	if q.Location != nil {
		if geo.InKorea(q.Location.Lat, q.Location.Lng) {
			body.AroundLatLng = fmt.Sprintf("%f,%f", q.Location.Lat, q.Location.Lng)
			body.AroundRadius = s.cfg.RadiusMeters
		} else {
			s.log.Warn().
				Float64("lat", q.Location.Lat).
				Float64("lng", q.Location.Lng).
				Msg("location bias outside Korea, searching without it")
		}
	}
	if q.Kind != "" && q.Kind != "all" {
		body.Filters = "category:" + q.Kind
	}

	recs, err := s.query(ctx, body)
	if err != nil {
		s.log.Warn().Err(err).Msg("place search failed, serving fallback dataset")
		return PlaceFallback(q), nil
	}
	return recs, nil
}

// SearchNeighborhood returns places inside one named district. Unknown
// district names resolve through the alias table before giving up.
func (s *PlaceSearch) SearchNeighborhood(ctx context.Context, name, kind string) ([]types.Recommendation, error) {
	district := strings.ToLower(strings.TrimSpace(name))
	if !knowledge.Known(district) {
		if resolved := knowledge.NeighborhoodFocus(district); resolved != "" {
			district = resolved
		}
	}

	limit := s.cfg.MaxResults
	if limit <= 0 {
		limit = 6
	}
	body := placeSearchRequest{
		Query:       district,
		HitsPerPage: limit,
		Filters:     "neighborhood:" + district,
	}
	if kind != "" && kind != "all" {
		body.Filters += " AND category:" + kind
	}

	recs, err := s.query(ctx, body)
	if err != nil {
		s.log.Warn().Err(err).Str("neighborhood", district).
			Msg("neighborhood search failed, serving fallback dataset")
		return NeighborhoodFallback(district, kind, limit), nil
	}
	for i := range recs {
		if recs[i].Neighborhood == "" {
			recs[i].Neighborhood = district
		}
	}
	return recs, nil
}

// query runs one index request through the resilience wrapper.
func (s *PlaceSearch) query(ctx context.Context, body placeSearchRequest) ([]types.Recommendation, error) {
	if s.cfg.AppID == "" || s.cfg.APIKey == "" {
		return nil, fmt.Errorf("place search credentials not configured")
	}

	return resilience.Do(ctx, s.wrapper, func(ctx context.Context) ([]types.Recommendation, error) {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding query: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint(), bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Algolia-Application-Id", s.cfg.AppID)
		req.Header.Set("X-Algolia-API-Key", s.cfg.APIKey)
		req.Header.Set("User-Agent", s.cfg.UserAgent)

		resp, err := s.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("place index request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("place index returned HTTP %d", resp.StatusCode)
		}

		var pr placeSearchResponse
		if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
			return nil, fmt.Errorf("parsing place response: %w", err)
		}

		var recs []types.Recommendation
		for _, hit := range pr.Hits {
			if rec, ok := normalizePlaceHit(hit); ok {
				recs = append(recs, rec)
			}
		}
		return recs, nil
	})
}

// normalizePlaceHit maps one index hit to a Recommendation. Hits with no
// name are dropped; missing or out-of-world coordinates default to the
// Seoul city center.
func normalizePlaceHit(hit placeHit) (types.Recommendation, bool) {
	name := strings.TrimSpace(hit.Name)
	if name == "" {
		return types.Recommendation{}, false
	}

	loc := types.LatLng{Lat: hit.Location.Lat, Lng: hit.Location.Lng}
	if (loc.Lat == 0 && loc.Lng == 0) || !geo.ValidWorld(loc.Lat, loc.Lng) {
		loc = geo.DefaultCenter
	}

	category := firstNonEmpty(hit.Category, "place")
	neighborhood := strings.ToLower(strings.TrimSpace(hit.Neighborhood))
	if neighborhood == "" {
		neighborhood = geo.Neighborhood(loc.Lat, loc.Lng)
	}

	rec := types.Recommendation{
		ID:           firstNonEmpty(hit.ObjectID, recordID(types.SourceSearch, name)),
		Name:         name,
		Kind:         types.KindPlace,
		Category:     category,
		Location:     &loc,
		Context:      firstNonEmpty(hit.CulturalContext, hit.Description),
		Tags:         hit.CulturalTags,
		Source:       types.SourceSearch,
		Rating:       safeFloat(hit.Rating),
		Neighborhood: neighborhood,
	}
	rescore(&rec)
	return rec, true
}

// Place index JSON structures.
type placeSearchResponse struct {
	Hits []placeHit `json:"hits"`
}

type placeHit struct {
	ObjectID        string        `json:"objectID"`
	Name            string        `json:"name"`
	Category        string        `json:"category"`
	Location        placeLocation `json:"_geoloc"`
	Rating          any           `json:"rating"`
	PriceLevel      int           `json:"price_level"`
	CulturalContext string        `json:"cultural_context"`
	Neighborhood    string        `json:"neighborhood"`
	Description     string        `json:"description"`
	CulturalTags    []string      `json:"cultural_tags"`
	OpeningHours    []string      `json:"opening_hours"`
	Amenities       []string      `json:"amenities"`
}

type placeLocation struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
