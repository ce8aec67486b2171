// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	_ "embed"
	"fmt"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/hanguk-labs/local-guide/pkg/types"
)

//go:embed fallback.yaml
var fallbackYAML []byte

// fallbackEntry is one curated record as stored in fallback.yaml.
type fallbackEntry struct {
	Name         string   `yaml:"name"`
	Kind         string   `yaml:"kind"`
	Category     string   `yaml:"category"`
	Lat          float64  `yaml:"lat"`
	Lng          float64  `yaml:"lng"`
	Rating       float64  `yaml:"rating"`
	Neighborhood string   `yaml:"neighborhood"`
	Context      string   `yaml:"context"`
	Tags         []string `yaml:"tags"`
}

type fallbackData struct {
	Media       []fallbackEntry `yaml:"media"`
	Experiences []fallbackEntry `yaml:"experiences"`
	Places      []fallbackEntry `yaml:"places"`
	Attractions []fallbackEntry `yaml:"attractions"`
}

var fallback fallbackData

func init() {
	if err := yaml.Unmarshal(fallbackYAML, &fallback); err != nil {
		panic(fmt.Sprintf("parsing embedded fallback dataset: %v", err))
	}
}

// CulturalFallback returns curated media and experience records, filtered
// the same way a live cultural result would be: by the query's kind and
// keywords, capped at the query limit.
func CulturalFallback(q Query) []types.Recommendation {
	limit := q.Limit
	if limit <= 0 {
		limit = 8
	}

	entries := append([]fallbackEntry{}, fallback.Media...)
	entries = append(entries, fallback.Experiences...)

	var recs []types.Recommendation
	for _, e := range entries {
		if q.Kind != "" && q.Kind != "all" && e.Kind != q.Kind {
			continue
		}
		rec := types.Recommendation{
			ID:       recordID(types.SourceFallback, e.Name),
			Name:     e.Name,
			Kind:     types.KindMediaContent,
			Category: e.Kind,
			Context:  e.Context,
			Tags:     e.Tags,
			Source:   types.SourceFallback,
		}
		if e.Kind == "experience" {
			rec.Kind = types.KindCulturalExperience
		}
		rescore(&rec)
		recs = append(recs, rec)
	}
	return capMatches(recs, q.Text, limit)
}

// PlaceFallback returns curated Seoul places matched against the query.
func PlaceFallback(q Query) []types.Recommendation {
	limit := q.Limit
	if limit <= 0 {
		limit = 6
	}

	var recs []types.Recommendation
	for _, e := range fallback.Places {
		if q.Kind != "" && q.Kind != "all" && e.Category != q.Kind {
			continue
		}
		recs = append(recs, placeFromEntry(e, types.SourceFallback))
	}
	return capMatches(recs, q.Text, limit)
}

// NeighborhoodFallback returns curated places inside one district.
func NeighborhoodFallback(name, kind string, limit int) []types.Recommendation {
	if limit <= 0 {
		limit = 6
	}
	district := strings.ToLower(strings.TrimSpace(name))

	var recs []types.Recommendation
	for _, e := range fallback.Places {
		if e.Neighborhood != district {
			continue
		}
		if kind != "" && kind != "all" && e.Category != kind {
			continue
		}
		recs = append(recs, placeFromEntry(e, types.SourceFallback))
	}
	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs
}

// AttractionFallback returns the curated attraction set for failed maps
// lookups.
func AttractionFallback(q Query) []types.Recommendation {
	limit := q.Limit
	if limit <= 0 {
		limit = 6
	}

	var recs []types.Recommendation
	for _, e := range fallback.Attractions {
		recs = append(recs, placeFromEntry(e, types.SourceFallback))
	}
	return capMatches(recs, q.Text, limit)
}

func placeFromEntry(e fallbackEntry, source types.Source) types.Recommendation {
	loc := types.LatLng{Lat: e.Lat, Lng: e.Lng}
	rec := types.Recommendation{
		ID:           recordID(source, e.Name),
		Name:         e.Name,
		Kind:         types.KindPlace,
		Category:     e.Category,
		Location:     &loc,
		Context:      e.Context,
		Tags:         e.Tags,
		Source:       source,
		Rating:       e.Rating,
		Neighborhood: e.Neighborhood,
	}
	rescore(&rec)
	return rec
}

// capMatches prefers records whose text shares a word with the query, then
// caps the list. When no record matches, the unfiltered list is kept so a
// degraded search still returns something useful.
func capMatches(recs []types.Recommendation, query string, limit int) []types.Recommendation {
	words := queryWords(query)
	if len(words) > 0 {
		var matched []types.Recommendation
		for _, rec := range recs {
			text := strings.ToLower(rec.Text())
			for _, w := range words {
				if strings.Contains(text, w) {
					matched = append(matched, rec)
					break
				}
			}
		}
		if len(matched) > 0 {
			recs = matched
		}
	}
	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs
}

// queryWords splits a query into lower-cased words long enough to be
// meaningful match terms.
func queryWords(query string) []string {
	var words []string
	for _, w := range strings.Fields(strings.ToLower(query)) {
		if len(w) > 3 {
			words = append(words, w)
		}
	}
	return words
}
