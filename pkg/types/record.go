// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the local-guide service.
package types

// Kind classifies what a recommendation points at.
type Kind string

const (
	KindPlace              Kind = "place"
	KindCulturalExperience Kind = "cultural_experience"
	KindMediaContent       Kind = "media_content"
)

// Source identifies which provider produced a recommendation.
type Source string

const (
	SourceCulturalDiscovery Source = "cultural_discovery"
	SourceSearch            Source = "search"
	SourceMaps              Source = "maps"
	SourceFallback          Source = "fallback"
	SourceNeighborhood      Source = "neighborhood"
)

// LatLng is a WGS84 coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// Recommendation is the common currency between all providers and the
// orchestrator. Every adapter normalizes its provider's payload into this
// shape before the value crosses the adapter boundary, and recomputes
// CulturalRelevance and AuthenticityScore from the textual content; scores
// supplied by an external API are never trusted as-is.
type Recommendation struct {
	// ID is a stable identifier, unique within one orchestration call.
	ID string `json:"id" yaml:"id"`

	// Name is the display name. Required; non-empty after trimming.
	Name string `json:"name" yaml:"name"`

	Kind Kind `json:"kind" yaml:"kind"`

	// Category is the provider-level category (restaurant, attraction,
	// cafe, ...). Used by the food-restriction filter and the
	// personalization weight lookup.
	Category string `json:"category,omitempty" yaml:"category,omitempty"`

	// Location is set only when the provider supplied coordinates within
	// world bounds. Adapters that require a city context substitute the
	// configured default center instead of leaving this nil.
	Location *LatLng `json:"location,omitempty" yaml:"location,omitempty"`

	// Context is the merged free-text description (teaser, description,
	// cultural context) used for scoring and display.
	Context string `json:"context" yaml:"context"`

	// Tags is an order-irrelevant set of cultural/topic tags.
	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty"`

	Source Source `json:"source" yaml:"source"`

	// Rating is the provider rating, 0.0 when missing.
	Rating float64 `json:"rating" yaml:"rating"`

	// CulturalRelevance is a content-based score in [0.0, 1.0].
	CulturalRelevance float64 `json:"cultural_relevance" yaml:"cultural_relevance"`

	// AuthenticityScore is derived from the same text, in [0.0, 1.0].
	AuthenticityScore float64 `json:"authenticity_score" yaml:"authenticity_score"`

	// PersonalizationScore is an additive boost from matched user
	// interests and preferences. Unbounded; used only for sort ordering,
	// never for the reported authenticity aggregate.
	PersonalizationScore float64 `json:"personalization_score" yaml:"personalization_score"`

	// Neighborhood is one of the known district names, "seoul" for
	// city-wide results, or "unknown".
	Neighborhood string `json:"neighborhood,omitempty" yaml:"neighborhood,omitempty"`

	// Insights is attached during neighborhood enrichment when the
	// record sits in a known district.
	Insights *NeighborhoodInsights `json:"neighborhood_insights,omitempty" yaml:"neighborhood_insights,omitempty"`
}

// Text returns the combined lower-cased-comparable text block used by the
// scoring and filtering code. Field joining mirrors normalization at the
// adapter boundary: name, context, then tags.
func (r Recommendation) Text() string {
	s := r.Name + " " + r.Context
	for _, t := range r.Tags {
		s += " " + t
	}
	return s
}

// NeighborhoodInsights holds the fixed per-district knowledge attached to
// recommendations during enrichment.
type NeighborhoodInsights struct {
	Character            string   `json:"character" yaml:"character"`
	BestFor              []string `json:"best_for" yaml:"best_for"`
	CulturalSignificance string   `json:"cultural_significance" yaml:"cultural_significance"`
	AuthenticExperiences []string `json:"authentic_experiences" yaml:"authentic_experiences"`
	AvoidTouristTraps    []string `json:"avoid_tourist_traps" yaml:"avoid_tourist_traps"`
}
