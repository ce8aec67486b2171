// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hanguk-labs/local-guide/internal/geo"
	"github.com/hanguk-labs/local-guide/internal/resilience"
	"github.com/hanguk-labs/local-guide/internal/scoring"
	"github.com/hanguk-labs/local-guide/pkg/types"
)

// mapsAPIBase is the maps places endpoint. Declared as a var so tests can
// substitute an httptest server.
var mapsAPIBase = "https://maps.googleapis.com/maps/api/place"

// amenityKinds are the everyday-place types surfaced by Amenities, keyed by
// the label returned to the caller.
var amenityKinds = []struct {
	label string
	kind  string
}{
	{"convenience", "convenience_store"},
	{"transit", "subway_station"},
	{"pharmacy", "pharmacy"},
	{"atm", "atm"},
	{"food", "restaurant"},
	{"coffee", "cafe"},
}

// mapCategories translates provider place types to weight categories.
var mapCategories = map[string]string{
	"restaurant":         "restaurant",
	"cafe":               "cafe",
	"bar":                "bar",
	"night_club":         "bar",
	"tourist_attraction": "attraction",
	"museum":             "attraction",
	"park":               "park",
	"shopping_mall":      "shopping",
	"store":              "shopping",
}

// Maps looks up live attractions and everyday amenities around a point in
// Seoul. Results outside Seoul, or with no visible Korean connection, are
// filtered at the boundary. Provider failure degrades to the curated
// attraction fallback.
type Maps struct {
	client  *http.Client
	cfg     types.MapsConfig
	wrapper *resilience.Wrapper
	log     zerolog.Logger
}

// NewMaps builds the adapter with its own resilience wrapper.
func NewMaps(cfg types.MapsConfig, log zerolog.Logger) *Maps {
	if cfg.RadiusMeters <= 0 {
		cfg.RadiusMeters = 2000
	}
	return &Maps{
		client:  &http.Client{Timeout: cfg.Timeout},
		cfg:     cfg,
		wrapper: resilience.New("maps", cfg.Resilience, log),
		log:     log.With().Str("source", "maps").Logger(),
	}
}

// Name returns the adapter identifier.
func (m *Maps) Name() string { return "maps" }

// Status reports the adapter's circuit state.
func (m *Maps) Status() types.ServiceStatus { return m.wrapper.Status() }

// Search finds attractions near the query location (city center when none
// is given). The error return is always nil.
func (m *Maps) Search(ctx context.Context, q Query) ([]types.Recommendation, error) {
	center := geo.DefaultCenter
	if q.Location != nil && geo.InKorea(q.Location.Lat, q.Location.Lng) {
		center = *q.Location
	}

	keyword := q.Text
	if keyword == "" {
		keyword = "korean cultural attraction"
	}
	kind := q.Kind
	if kind == "" || kind == "all" {
		kind = "tourist_attraction"
	}

	recs, err := m.nearby(ctx, center, kind, keyword, true)
	if err != nil {
		m.log.Warn().Err(err).Msg("maps lookup failed, serving fallback dataset")
		return AttractionFallback(q), nil
	}

	limit := q.Limit
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

// Amenities finds everyday places (convenience stores, transit, pharmacies,
// ATMs, food, coffee) around a point, grouped by label. Failed lookups
// leave their group empty rather than failing the whole call.
func (m *Maps) Amenities(ctx context.Context, loc types.LatLng, perKind int) (map[string][]types.Recommendation, error) {
	if !geo.InKorea(loc.Lat, loc.Lng) {
		return nil, fmt.Errorf("amenity lookup outside Korea: %f,%f", loc.Lat, loc.Lng)
	}
	if perKind <= 0 {
		perKind = 3
	}

	out := make(map[string][]types.Recommendation, len(amenityKinds))
	for _, ak := range amenityKinds {
		recs, err := m.nearby(ctx, loc, ak.kind, "", false)
		if err != nil {
			m.log.Warn().Err(err).Str("kind", ak.kind).Msg("amenity lookup failed")
			out[ak.label] = nil
			continue
		}
		if len(recs) > perKind {
			recs = recs[:perKind]
		}
		out[ak.label] = recs
	}
	return out, nil
}

// nearby runs one nearby-search request through the resilience wrapper.
// requireCultural drops places with no visible Korean connection; amenity
// lookups pass false since a pharmacy needs none.
func (m *Maps) nearby(ctx context.Context, center types.LatLng, kind, keyword string, requireCultural bool) ([]types.Recommendation, error) {
	if m.cfg.APIKey == "" {
		return nil, fmt.Errorf("maps API key not configured")
	}

	return resilience.Do(ctx, m.wrapper, func(ctx context.Context) ([]types.Recommendation, error) {
		params := url.Values{
			"key":      {m.cfg.APIKey},
			"location": {fmt.Sprintf("%f,%f", center.Lat, center.Lng)},
			"radius":   {fmt.Sprintf("%d", m.cfg.RadiusMeters)},
			"type":     {kind},
		}
		if keyword != "" {
			params.Set("keyword", keyword)
		}
		reqURL := mapsAPIBase + "/nearbysearch/json?" + params.Encode()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("User-Agent", m.cfg.UserAgent)

		resp, err := m.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("maps API request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("maps API returned HTTP %d", resp.StatusCode)
		}

		var mr mapsResponse
		if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
			return nil, fmt.Errorf("parsing maps response: %w", err)
		}
		if mr.Status != "" && mr.Status != "OK" && mr.Status != "ZERO_RESULTS" {
			return nil, fmt.Errorf("maps API status %s", mr.Status)
		}

		var recs []types.Recommendation
		for _, place := range mr.Results {
			if rec, ok := normalizeMapsPlace(place, requireCultural); ok {
				recs = append(recs, rec)
			}
		}
		return recs, nil
	})
}

// normalizeMapsPlace maps one provider place to a Recommendation. Places
// outside Seoul are dropped, as are places with neither a Korean-relevant
// name nor a cultural place type when requireCultural is set.
func normalizeMapsPlace(place mapsPlace, requireCultural bool) (types.Recommendation, bool) {
	name := strings.TrimSpace(place.Name)
	if name == "" {
		return types.Recommendation{}, false
	}

	lat := place.Geometry.Location.Lat
	lng := place.Geometry.Location.Lng
	if !geo.InSeoul(lat, lng) {
		return types.Recommendation{}, false
	}

	category := "place"
	cultural := false
	for _, t := range place.Types {
		if mapped, ok := mapCategories[t]; ok {
			category = mapped
		}
		if t == "tourist_attraction" || t == "museum" || t == "place_of_worship" {
			cultural = true
		}
	}
	if requireCultural && !cultural && !scoring.MentionsCulture(name+" "+place.Vicinity) {
		return types.Recommendation{}, false
	}

	loc := types.LatLng{Lat: lat, Lng: lng}
	rec := types.Recommendation{
		ID:           firstNonEmpty(place.PlaceID, recordID(types.SourceMaps, name)),
		Name:         name,
		Kind:         types.KindPlace,
		Category:     category,
		Location:     &loc,
		Context:      place.Vicinity,
		Source:       types.SourceMaps,
		Rating:       place.Rating,
		Neighborhood: geo.Neighborhood(lat, lng),
	}
	rescore(&rec)
	return rec, true
}

// Maps API JSON structures.
type mapsResponse struct {
	Status  string      `json:"status"`
	Results []mapsPlace `json:"results"`
}

type mapsPlace struct {
	PlaceID  string       `json:"place_id"`
	Name     string       `json:"name"`
	Vicinity string       `json:"vicinity"`
	Rating   float64      `json:"rating"`
	Types    []string     `json:"types"`
	Geometry mapsGeometry `json:"geometry"`
}

type mapsGeometry struct {
	Location placeLocation `json:"location"`
}
