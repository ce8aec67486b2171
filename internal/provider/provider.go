// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package provider contains the adapters for the external recommendation
// sources: cultural-similarity discovery, geo-indexed place search, and
// maps/places. Each adapter builds its provider-specific request, calls it
// through a resilience wrapper, and normalizes the payload into the common
// Recommendation shape before it crosses the package boundary. On total
// failure every adapter serves its curated fallback dataset instead; the
// search itself never fails.
package provider

import (
	"context"
	"strconv"
	"strings"

	"github.com/hanguk-labs/local-guide/internal/scoring"
	"github.com/hanguk-labs/local-guide/pkg/types"
)

// Query holds the normalized search parameters handed to an adapter.
type Query struct {
	// Text is the free-text query.
	Text string

	// Location biases the search geographically when set and valid.
	Location *types.LatLng

	// Kind optionally narrows results to one provider content type
	// (movie, music, restaurant, ...). Empty means all.
	Kind string

	// Limit caps the result count. Zero means the adapter default.
	Limit int
}

// Source is implemented by every recommendation adapter.
type Source interface {
	Name() string
	Search(ctx context.Context, q Query) ([]types.Recommendation, error)
}

// firstNonEmpty returns the first non-blank string. Used by the per-adapter
// field-mapping tables to collapse duck-typed payload aliases
// (Name/name, Type/type) into one canonical value.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// recordID derives a stable per-call identifier from the source and name.
func recordID(source types.Source, name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ' || r == '-' || r == '_':
			return '_'
		default:
			return -1
		}
	}, slug)
	return string(source) + ":" + slug
}

// rescore recomputes both content scores from the record's own text.
// Adapters call this as the last normalization step so scores from an
// external payload never survive the boundary.
func rescore(rec *types.Recommendation) {
	text := rec.Text()
	rec.CulturalRelevance = scoring.CulturalRelevance(text)
	rec.AuthenticityScore = scoring.Authenticity(text)
}

// safeFloat coerces the loosely-typed rating fields providers return.
func safeFloat(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
