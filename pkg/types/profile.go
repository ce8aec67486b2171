// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Category is a fixed recommendation category tracked per user weights.
type Category string

const (
	CategoryFood      Category = "food"
	CategoryCulture   Category = "culture"
	CategoryNightlife Category = "nightlife"
	CategoryShopping  Category = "shopping"
	CategoryNature    Category = "nature"
)

// Categories lists all weight categories in a stable order.
var Categories = []Category{
	CategoryFood, CategoryCulture, CategoryNightlife, CategoryShopping, CategoryNature,
}

// Weight bounds. Weights start at 1.0 and are clamped to this range by the
// profile store on every adjustment.
const (
	MinWeight = 0.1
	MaxWeight = 2.0
)

// BudgetRange values.
const (
	BudgetLow  = "budget"
	BudgetMid  = "mid-range"
	BudgetHigh = "luxury"
)

// TravelStyle values.
const (
	StyleSolo   = "solo"
	StyleCouple = "couple"
	StyleFamily = "family"
	StyleGroup  = "group"
)

// Personalization is the read-only personalization context handed to the
// orchestrator. It is owned by the profile store; the orchestrator never
// writes it back.
type Personalization struct {
	Interests           []string `json:"interests" yaml:"interests"`
	FoodRestrictions    []string `json:"food_restrictions" yaml:"food_restrictions"`
	CulturalPreferences []string `json:"cultural_preferences" yaml:"cultural_preferences"`

	BudgetRange string `json:"budget_range" yaml:"budget_range"`
	TravelStyle string `json:"travel_style" yaml:"travel_style"`

	// VisitedPlaces and FavoritePlaces suppress repeat recommendations.
	VisitedPlaces  []string `json:"visited_places" yaml:"visited_places"`
	FavoritePlaces []string `json:"favorite_places" yaml:"favorite_places"`

	// RecommendationWeights maps each Category to a weight in
	// [MinWeight, MaxWeight], initialized to 1.0.
	RecommendationWeights map[Category]float64 `json:"recommendation_weights" yaml:"recommendation_weights"`

	// PreferredNeighborhoods is derived from visit frequency, most
	// visited first. Informational, not authoritative.
	PreferredNeighborhoods []string `json:"preferred_neighborhoods" yaml:"preferred_neighborhoods"`
}

// DefaultWeights returns the initial weight table.
func DefaultWeights() map[Category]float64 {
	w := make(map[Category]float64, len(Categories))
	for _, c := range Categories {
		w[c] = 1.0
	}
	return w
}

// Weight returns the weight for a category, defaulting to 1.0 for unknown
// or unset categories.
func (p *Personalization) Weight(c Category) float64 {
	if p == nil || p.RecommendationWeights == nil {
		return 1.0
	}
	if w, ok := p.RecommendationWeights[c]; ok {
		return w
	}
	return 1.0
}
