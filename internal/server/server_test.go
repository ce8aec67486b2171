// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/hanguk-labs/local-guide/internal/profile"
	"github.com/hanguk-labs/local-guide/pkg/types"
)

// stubGuide records the last recommendation call.
type stubGuide struct {
	lastQuery string
	lastP     *types.Personalization
	lastLoc   *types.LatLng
}

func (s *stubGuide) Recommend(_ context.Context, query string, p *types.Personalization, loc *types.LatLng) types.Result {
	s.lastQuery, s.lastP, s.lastLoc = query, p, loc
	return types.Result{
		RequestID:       "req-1",
		Response:        "<div>ok</div>",
		Recommendations: []types.Recommendation{{Name: "Gwangjang Market"}},
	}
}

func (s *stubGuide) Status() types.SystemStatus {
	return types.SystemStatus{Service: "local-guide", State: "healthy", Health: 1.0}
}

type stubProfiles struct {
	p         *types.Personalization
	loadErr   error
	visits    []profile.Visit
	favorites []string
}

func (s *stubProfiles) PersonalizationFor(context.Context, string) (*types.Personalization, error) {
	return s.p, s.loadErr
}

func (s *stubProfiles) UpdatePreferences(_ context.Context, _ string, p *types.Personalization) error {
	s.p = p
	return nil
}

func (s *stubProfiles) RecordVisit(_ context.Context, _ string, v profile.Visit) error {
	if v.PlaceName == "" {
		return fmt.Errorf("visit needs a place name")
	}
	s.visits = append(s.visits, v)
	return nil
}

func (s *stubProfiles) AddFavorite(_ context.Context, _ string, name string, _ types.Category) error {
	s.favorites = append(s.favorites, name)
	return nil
}

type stubAmenities struct{}

func (stubAmenities) Amenities(_ context.Context, loc types.LatLng, _ int) (map[string][]types.Recommendation, error) {
	if loc.Lat < 33 {
		return nil, fmt.Errorf("outside Korea")
	}
	return map[string][]types.Recommendation{"coffee": {{Name: "Fritz Coffee"}}}, nil
}

func newTestServer(g *stubGuide, p ProfileStore) *httptest.Server {
	s := New(g, p, stubAmenities{}, zerolog.Nop())
	return httptest.NewServer(s.Router())
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func TestHandleRecommend(t *testing.T) {
	g := &stubGuide{}
	ts := newTestServer(g, &stubProfiles{p: &types.Personalization{Interests: []string{"food"}}})
	defer ts.Close()

	resp := postJSON(t, ts.URL+"/v1/recommendations", map[string]any{
		"query":    "korean bbq",
		"user_id":  "mina",
		"location": map[string]float64{"lat": 37.55, "lng": 126.98},
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-Id") == "" {
		t.Error("missing X-Request-Id header")
	}

	var result types.Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.RequestID != "req-1" {
		t.Errorf("RequestID = %q", result.RequestID)
	}

	if g.lastQuery != "korean bbq" {
		t.Errorf("query = %q", g.lastQuery)
	}
	if g.lastP == nil || g.lastP.Interests[0] != "food" {
		t.Error("profile not loaded into the recommendation call")
	}
	if g.lastLoc == nil || g.lastLoc.Lat != 37.55 {
		t.Error("location not forwarded")
	}
}

func TestHandleRecommendValidation(t *testing.T) {
	ts := newTestServer(&stubGuide{}, nil)
	defer ts.Close()

	resp := postJSON(t, ts.URL+"/v1/recommendations", map[string]any{"query": ""})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestHandleRecommendProfileFailureIsNotFatal(t *testing.T) {
	g := &stubGuide{}
	ts := newTestServer(g, &stubProfiles{loadErr: fmt.Errorf("db locked")})
	defer ts.Close()

	resp := postJSON(t, ts.URL+"/v1/recommendations", map[string]any{
		"query":   "seoul tips",
		"user_id": "mina",
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, profile failure must not block", resp.StatusCode)
	}
	if g.lastP != nil {
		t.Error("failed profile load still passed personalization")
	}
}

func TestHandleStatus(t *testing.T) {
	ts := newTestServer(&stubGuide{}, nil)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/v1/status")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	var st types.SystemStatus
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st.State != "healthy" || st.Health != 1.0 {
		t.Errorf("status = %+v", st)
	}
}

func TestHandleNeighborhoods(t *testing.T) {
	ts := newTestServer(&stubGuide{}, nil)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/v1/neighborhoods/hongdae")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var insights types.NeighborhoodInsights
	if err := json.NewDecoder(resp.Body).Decode(&insights); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if insights.Character == "" {
		t.Error("empty insights for hongdae")
	}

	resp2, err := http.Get(ts.URL + "/v1/neighborhoods/atlantis")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404 for unknown district", resp2.StatusCode)
	}
}

func TestHandleAmenities(t *testing.T) {
	ts := newTestServer(&stubGuide{}, nil)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/v1/amenities?lat=37.55&lng=126.92")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var groups map[string][]types.Recommendation
	if err := json.NewDecoder(resp.Body).Decode(&groups); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(groups["coffee"]) != 1 {
		t.Errorf("groups = %v", groups)
	}

	resp2, err := http.Get(ts.URL + "/v1/amenities?lat=abc")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for bad coordinates", resp2.StatusCode)
	}
}

func TestProfileRoutes(t *testing.T) {
	profiles := &stubProfiles{p: &types.Personalization{}}
	ts := newTestServer(&stubGuide{}, profiles)
	defer ts.Close()

	resp := postJSON(t, ts.URL+"/v1/profiles/mina/visits", map[string]any{
		"place_name": "Gwangjang Market", "neighborhood": "seoul",
		"category": "food", "rating": 5,
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("visit status = %d", resp.StatusCode)
	}
	if len(profiles.visits) != 1 || profiles.visits[0].Rating != 5 {
		t.Errorf("visits = %+v", profiles.visits)
	}

	// Store validation surfaces as 400.
	resp2 := postJSON(t, ts.URL+"/v1/profiles/mina/visits", map[string]any{"rating": 4})
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusBadRequest {
		t.Errorf("invalid visit status = %d", resp2.StatusCode)
	}

	resp3 := postJSON(t, ts.URL+"/v1/profiles/mina/favorites", map[string]any{"place_name": "Insadong Tea House"})
	defer resp3.Body.Close()
	if resp3.StatusCode != http.StatusCreated {
		t.Errorf("favorite status = %d", resp3.StatusCode)
	}
	if len(profiles.favorites) != 1 {
		t.Errorf("favorites = %v", profiles.favorites)
	}
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(&stubGuide{}, nil)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
}
