// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/hanguk-labs/local-guide/pkg/types"
)

func testMapsConfig() types.MapsConfig {
	return types.MapsConfig{
		HTTPConfig:   types.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "local-guide-test/0.1"},
		APIKey:       "test-key",
		RadiusMeters: 2000,
		Resilience:   testResilience(),
	}
}

const sampleMapsJSON = `{
  "status": "OK",
  "results": [
    {
      "place_id": "g1",
      "name": "Gyeongbokgung Palace",
      "vicinity": "161 Sajik-ro, Jongno-gu",
      "rating": 4.5,
      "types": ["tourist_attraction", "point_of_interest"],
      "geometry": {"location": {"lat": 37.5796, "lng": 126.9770}}
    },
    {
      "place_id": "g2",
      "name": "Random Office Building",
      "vicinity": "Teheran-ro",
      "rating": 3.0,
      "types": ["point_of_interest"],
      "geometry": {"location": {"lat": 37.5000, "lng": 127.0300}}
    },
    {
      "place_id": "g3",
      "name": "Busan Tower",
      "vicinity": "Yongdusan Park, Busan",
      "rating": 4.2,
      "types": ["tourist_attraction"],
      "geometry": {"location": {"lat": 35.1010, "lng": 129.0324}}
    }
  ]
}`

func mapsTestServer(statusCode int, body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		fmt.Fprint(w, body)
	}))
}

func TestMapsSearch(t *testing.T) {
	ts := mapsTestServer(http.StatusOK, sampleMapsJSON)
	defer ts.Close()

	old := mapsAPIBase
	mapsAPIBase = ts.URL
	defer func() { mapsAPIBase = old }()

	m := NewMaps(testMapsConfig(), zerolog.Nop())
	recs, err := m.Search(context.Background(), Query{Text: "palace", Limit: 10})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	// The office building has no cultural marker and Busan Tower is
	// outside Seoul; only the palace survives.
	if len(recs) != 1 {
		t.Fatalf("len(recs) = %d, want 1", len(recs))
	}
	r := recs[0]
	if r.Name != "Gyeongbokgung Palace" || r.Category != "attraction" {
		t.Errorf("unexpected record: %+v", r)
	}
	if r.Source != types.SourceMaps {
		t.Errorf("Source = %q, want maps", r.Source)
	}
	if r.Neighborhood != "seoul" {
		t.Errorf("Neighborhood = %q, want seoul", r.Neighborhood)
	}
}

func TestMapsSearchFallbackOnAPIStatus(t *testing.T) {
	ts := mapsTestServer(http.StatusOK, `{"status": "OVER_QUERY_LIMIT", "results": []}`)
	defer ts.Close()

	old := mapsAPIBase
	mapsAPIBase = ts.URL
	defer func() { mapsAPIBase = old }()

	m := NewMaps(testMapsConfig(), zerolog.Nop())
	recs, err := m.Search(context.Background(), Query{Text: "palace"})
	if err != nil {
		t.Fatalf("Search must not fail: %v", err)
	}
	if len(recs) == 0 {
		t.Fatal("expected curated attractions on provider failure")
	}
	for _, rec := range recs {
		if rec.Source != types.SourceFallback {
			t.Errorf("record %q Source = %q, want fallback", rec.Name, rec.Source)
		}
	}
}

func TestMapsAmenities(t *testing.T) {
	ts := mapsTestServer(http.StatusOK, `{
	  "status": "OK",
	  "results": [
	    {"place_id": "a1", "name": "GS25", "vicinity": "Mapo-gu", "rating": 4.0,
	     "types": ["convenience_store"], "geometry": {"location": {"lat": 37.5550, "lng": 126.9240}}}
	  ]
	}`)
	defer ts.Close()

	old := mapsAPIBase
	mapsAPIBase = ts.URL
	defer func() { mapsAPIBase = old }()

	m := NewMaps(testMapsConfig(), zerolog.Nop())
	groups, err := m.Amenities(context.Background(), types.LatLng{Lat: 37.5552, Lng: 126.9238}, 3)
	if err != nil {
		t.Fatalf("Amenities: %v", err)
	}

	for _, label := range []string{"convenience", "transit", "pharmacy", "atm", "food", "coffee"} {
		group, ok := groups[label]
		if !ok {
			t.Errorf("missing amenity group %q", label)
			continue
		}
		// Amenities skip the cultural filter, so the store is kept.
		if len(group) != 1 || group[0].Name != "GS25" {
			t.Errorf("group %q = %v, want single GS25 record", label, group)
		}
	}
}

func TestMapsAmenitiesRejectsOutOfKorea(t *testing.T) {
	m := NewMaps(testMapsConfig(), zerolog.Nop())
	if _, err := m.Amenities(context.Background(), types.LatLng{Lat: 35.6762, Lng: 139.6503}, 3); err == nil {
		t.Fatal("expected error for coordinates outside Korea")
	}
}
