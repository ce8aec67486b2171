// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package knowledge

import (
	"reflect"
	"strings"
	"testing"
)

func TestDetectThemes(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"food query", "where should I eat tonight", []string{ThemeFood, ThemeNightlife}},
		{"traditional", "visit a palace and temple", []string{ThemeTraditional}},
		{"multiple themes", "kpop concert and shopping", []string{ThemeModern, ThemeShopping, ThemeEntertainment}},
		{"no match defaults to general", "hello there", []string{ThemeGeneral}},
		{"empty query", "", []string{ThemeGeneral}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectThemes(tt.query); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DetectThemes(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestNeighborhoodFocus(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"direct match", "Where should I eat in Hongdae?", "hongdae"},
		{"alias hongik", "cafes near hongik station", "hongdae"},
		{"alias luxury", "luxury dining options", "gangnam"},
		{"no focus", "best korean bbq", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NeighborhoodFocus(tt.query); got != tt.want {
				t.Errorf("NeighborhoodFocus(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}

func TestInsights(t *testing.T) {
	for _, name := range Names() {
		n, ok := Insights(name)
		if !ok {
			t.Fatalf("Insights(%q) missing", name)
		}
		if n.Character == "" || n.CulturalSignificance == "" {
			t.Errorf("Insights(%q) has empty fields", name)
		}
		if len(n.BestFor) == 0 || len(n.AuthenticExperiences) == 0 {
			t.Errorf("Insights(%q) has empty lists", name)
		}
	}
	if _, ok := Insights("atlantis"); ok {
		t.Error("unknown district should not resolve")
	}
	if _, ok := Insights("  Hongdae "); !ok {
		t.Error("Insights should trim and lower-case input")
	}
}

func TestContextFacts(t *testing.T) {
	facts := ContextFacts([]string{ThemeFood}, "hongdae")
	if len(facts) < 4 {
		t.Fatalf("len(facts) = %d, want >= 4", len(facts))
	}
	if facts[0] != FoodCulture["banchan"] {
		t.Errorf("first fact = %q, want banchan fact", facts[0])
	}

	// No themes, no district: still returns baseline norms plus slang.
	base := ContextFacts(nil, "")
	if len(base) != 2+len(Slang) {
		t.Errorf("len(base facts) = %d, want %d", len(base), 2+len(Slang))
	}
	joined := strings.Join(base, "\n")
	for term, meaning := range Slang {
		if !strings.Contains(joined, term) || !strings.Contains(joined, meaning) {
			t.Errorf("facts missing slang entry %q", term)
		}
	}
}
