// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"testing"

	"github.com/hanguk-labs/local-guide/pkg/types"
)

func TestFallbackDatasetParses(t *testing.T) {
	if len(fallback.Media) == 0 || len(fallback.Experiences) == 0 ||
		len(fallback.Places) == 0 || len(fallback.Attractions) == 0 {
		t.Fatalf("embedded fallback dataset incomplete: %+v", fallback)
	}
}

func TestCulturalFallbackKindFilter(t *testing.T) {
	recs := CulturalFallback(Query{Kind: "music", Limit: 10})
	if len(recs) == 0 {
		t.Fatal("no music fallback entries")
	}
	for _, rec := range recs {
		if rec.Category != "music" {
			t.Errorf("record %q Category = %q, want music", rec.Name, rec.Category)
		}
		if rec.Kind != types.KindMediaContent {
			t.Errorf("record %q Kind = %q, want media_content", rec.Name, rec.Kind)
		}
		if rec.Source != types.SourceFallback {
			t.Errorf("record %q Source = %q, want fallback", rec.Name, rec.Source)
		}
	}
}

func TestCulturalFallbackExperienceKind(t *testing.T) {
	recs := CulturalFallback(Query{Kind: "experience", Limit: 10})
	if len(recs) == 0 {
		t.Fatal("no experience fallback entries")
	}
	for _, rec := range recs {
		if rec.Kind != types.KindCulturalExperience {
			t.Errorf("record %q Kind = %q, want cultural_experience", rec.Name, rec.Kind)
		}
	}
}

func TestCapMatchesKeepsAllWhenNothingMatches(t *testing.T) {
	recs := PlaceFallback(Query{Text: "zzzz qqqq", Limit: 3})
	if len(recs) != 3 {
		t.Fatalf("len(recs) = %d, want unfiltered list capped at 3", len(recs))
	}
}

func TestNeighborhoodFallbackFiltersDistrict(t *testing.T) {
	recs := NeighborhoodFallback("hongdae", "", 10)
	if len(recs) == 0 {
		t.Fatal("no hongdae fallback entries")
	}
	for _, rec := range recs {
		if rec.Neighborhood != "hongdae" {
			t.Errorf("record %q Neighborhood = %q", rec.Name, rec.Neighborhood)
		}
	}

	if got := NeighborhoodFallback("nowhere", "", 10); len(got) != 0 {
		t.Errorf("unknown district returned %d records, want 0", len(got))
	}
}

func TestFallbackScoresRecomputed(t *testing.T) {
	for _, rec := range CulturalFallback(Query{Limit: 20}) {
		if rec.CulturalRelevance < 0 || rec.CulturalRelevance > 1 {
			t.Errorf("record %q relevance %v out of range", rec.Name, rec.CulturalRelevance)
		}
		if rec.AuthenticityScore < 0.5 || rec.AuthenticityScore > 1 {
			t.Errorf("record %q authenticity %v out of range", rec.Name, rec.AuthenticityScore)
		}
	}
}
