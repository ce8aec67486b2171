// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package guide

import (
	"sort"
	"strings"

	"github.com/hanguk-labs/local-guide/pkg/types"
)

const (
	interestBoost  = 0.3
	culturalBoost  = 0.2
	relevanceBoost = 0.1
)

// restrictionKeywords maps each dietary restriction to the food words that
// disqualify a restaurant recommendation.
var restrictionKeywords = map[string][]string{
	"vegetarian":  {"meat", "beef", "pork", "chicken", "fish", "seafood", "bbq", "barbecue", "galbi", "samgyeopsal"},
	"vegan":       {"meat", "beef", "pork", "chicken", "fish", "seafood", "bbq", "barbecue", "dairy", "cheese", "egg"},
	"no_spicy":    {"spicy", "hot", "chili", "gochujang", "buldak", "fire"},
	"halal":       {"pork", "samgyeopsal", "alcohol", "soju", "makgeolli", "beer", "wine"},
	"gluten_free": {"wheat", "noodle", "bread", "flour", "dumpling", "pancake"},
}

// weightCategories translates a record's category label to the profile
// weight category. Unlisted labels count as culture.
var weightCategories = map[string]types.Category{
	"restaurant": types.CategoryFood,
	"cafe":       types.CategoryFood,
	"food":       types.CategoryFood,
	"bar":        types.CategoryNightlife,
	"club":       types.CategoryNightlife,
	"shopping":   types.CategoryShopping,
	"market":     types.CategoryShopping,
	"park":       types.CategoryNature,
	"nature":     types.CategoryNature,
}

// personalize filters and scores records against a traveler profile, then
// orders them by personalization score, best first. Records the traveler
// already visited or favorited are dropped as repeats; restaurants
// conflicting with a dietary restriction are dropped outright.
func personalize(recs []types.Recommendation, p *types.Personalization) []types.Recommendation {
	known := nameSet(p.VisitedPlaces)
	for _, n := range p.FavoritePlaces {
		known[strings.ToLower(n)] = struct{}{}
	}

	out := recs[:0]
	for _, rec := range recs {
		if _, repeat := known[strings.ToLower(rec.Name)]; repeat {
			continue
		}
		if violatesRestriction(rec, p.FoodRestrictions) {
			continue
		}
		rec.PersonalizationScore = personalScore(rec, p)
		out = append(out, rec)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PersonalizationScore > out[j].PersonalizationScore
	})
	return out
}

// personalScore computes the unbounded personalization score: interest and
// cultural-preference matches plus a relevance share, scaled by the
// learned category weight. The score only orders records, so no cap is
// applied.
func personalScore(rec types.Recommendation, p *types.Personalization) float64 {
	text := strings.ToLower(rec.Text())

	score := 0.0
	for _, interest := range p.Interests {
		if interest != "" && strings.Contains(text, strings.ToLower(interest)) {
			score += interestBoost
		}
	}
	for _, pref := range p.CulturalPreferences {
		if pref != "" && strings.Contains(text, strings.ToLower(pref)) {
			score += culturalBoost
		}
	}
	score += relevanceBoost * rec.CulturalRelevance

	return score * p.Weight(weightCategory(rec))
}

// violatesRestriction reports whether a restaurant-kind record conflicts
// with any declared dietary restriction. Non-food records never do.
func violatesRestriction(rec types.Recommendation, restrictions []string) bool {
	if weightCategory(rec) != types.CategoryFood {
		return false
	}
	text := strings.ToLower(rec.Text())
	for _, restriction := range restrictions {
		for _, word := range restrictionKeywords[normalizeRestriction(restriction)] {
			if strings.Contains(text, word) {
				return true
			}
		}
	}
	return false
}

// normalizeRestriction accepts both "no spicy" and "no_spicy" spellings.
func normalizeRestriction(r string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(r)), " ", "_")
}

func weightCategory(rec types.Recommendation) types.Category {
	if c, ok := weightCategories[strings.ToLower(rec.Category)]; ok {
		return c
	}
	return types.CategoryCulture
}

func nameSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[strings.ToLower(n)] = struct{}{}
	}
	return set
}
