// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package knowledge holds the fixed Korean cultural knowledge tables:
// per-district insights, cultural norms, food culture facts, the slang
// glossary, and the query theme vocabulary. The tables are process
// constants; nothing here touches the network.
package knowledge

import (
	"sort"
	"strings"

	"github.com/hanguk-labs/local-guide/pkg/types"
)

// Theme names detected in queries.
const (
	ThemeFood          = "food_culture"
	ThemeTraditional   = "traditional_culture"
	ThemeModern        = "modern_culture"
	ThemeNightlife     = "nightlife"
	ThemeShopping      = "shopping"
	ThemeNature        = "nature"
	ThemeEntertainment = "entertainment"
	ThemeGeneral       = "general_culture"
)

// themeKeywords maps each theme to its trigger keywords. Matching is not
// exclusive; a query can carry several themes.
var themeKeywords = map[string][]string{
	ThemeFood:          {"food", "eat", "restaurant", "cuisine", "dining", "korean food", "bbq", "kimchi"},
	ThemeTraditional:   {"traditional", "temple", "palace", "hanbok", "heritage", "history"},
	ThemeModern:        {"k-pop", "kpop", "modern", "trendy", "fashion", "technology"},
	ThemeNightlife:     {"nightlife", "bar", "club", "night", "party", "drink"},
	ThemeShopping:      {"shopping", "buy", "store", "market", "cosmetics", "fashion"},
	ThemeNature:        {"park", "nature", "hiking", "mountain", "river", "outdoor"},
	ThemeEntertainment: {"music", "movie", "show", "performance", "concert", "theater"},
}

// themeOrder keeps DetectThemes output deterministic.
var themeOrder = []string{
	ThemeFood, ThemeTraditional, ThemeModern, ThemeNightlife,
	ThemeShopping, ThemeNature, ThemeEntertainment,
}

// neighborhoods is the per-district knowledge table.
var neighborhoods = map[string]types.NeighborhoodInsights{
	"hongdae": {
		Character:            "Youth culture, street food, nightlife",
		BestFor:              []string{"nightlife", "indie music", "street performances", "young crowd"},
		CulturalSignificance: "University area representing Korean youth culture",
		AuthenticExperiences: []string{"Live music venues", "Street food after 9 PM", "Indie shops"},
		AvoidTouristTraps:    []string{"Overpriced themed cafes", "Chain restaurants in main area"},
	},
	"myeongdong": {
		Character:            "Shopping and tourist street food",
		BestFor:              []string{"shopping", "cosmetics", "street food", "first-time visitors"},
		CulturalSignificance: "Major commercial district showcasing Korean consumer culture",
		AuthenticExperiences: []string{"Korean cosmetics shopping", "Street food stalls", "Department stores"},
		AvoidTouristTraps:    []string{"Overpriced restaurants targeting tourists", "Generic souvenir shops"},
	},
	"itaewon": {
		Character:            "International food and nightlife",
		BestFor:              []string{"international cuisine", "nightlife", "multicultural experience"},
		CulturalSignificance: "International district showing Korea's global connections",
		AuthenticExperiences: []string{"Halal Korean fusion", "International bars", "Multicultural events"},
		AvoidTouristTraps:    []string{"Generic Western food", "Overpriced foreigner-targeted venues"},
	},
	"gangnam": {
		Character:            "Cafés, fine dining, upscale shopping",
		BestFor:              []string{"luxury shopping", "high-end dining", "modern Korean lifestyle"},
		CulturalSignificance: "Represents modern Korean affluence and K-pop culture",
		AuthenticExperiences: []string{"High-end Korean BBQ", "Designer shopping", "Trendy cafes"},
		AvoidTouristTraps:    []string{"K-pop tourist shops", "Overpriced themed restaurants"},
	},
	"jongno": {
		Character:            "Historic district with traditional culture",
		BestFor:              []string{"history", "traditional culture", "palaces", "temples"},
		CulturalSignificance: "Historic heart of Seoul with traditional Korean culture",
		AuthenticExperiences: []string{"Palace visits", "Traditional tea houses", "Hanbok rental"},
		AvoidTouristTraps:    []string{"Tourist-focused traditional restaurants", "Overpriced hanbok rentals"},
	},
	"insadong": {
		Character:            "Traditional arts and crafts with tea culture",
		BestFor:              []string{"traditional arts", "crafts shopping", "tea culture", "cultural experiences"},
		CulturalSignificance: "Traditional arts district preserving Korean cultural heritage",
		AuthenticExperiences: []string{"Traditional tea ceremonies", "Artisan workshops", "Antique shopping"},
		AvoidTouristTraps:    []string{`Mass-produced "traditional" items`, "Tourist-focused tea houses"},
	},
}

// neighborhoodAliases map indirect query terms to a district.
var neighborhoodAliases = []struct {
	alias string
	name  string
}{
	{"hongik", "hongdae"},
	{"university", "hongdae"},
	{"shopping", "myeongdong"},
	{"international", "itaewon"},
	{"foreigner", "itaewon"},
	{"rich", "gangnam"},
	{"luxury", "gangnam"},
	{"palace", "jongno"},
	{"traditional", "insadong"},
	{"art", "insadong"},
}

// CulturalNorms are general etiquette facts keyed by topic.
var CulturalNorms = map[string]string{
	"tipping":            "Tipping is not customary in South Korea",
	"punctuality":        "Koreans value punctuality and personal space",
	"transport":          "Public transport is preferred over taxis for short distances",
	"subway_etiquette":   "Speaking loudly on subways is considered rude",
	"restaurant_culture": "Restaurants often specialize in only one dish",
	"closing_hours":      "Many places close between 3-5 PM",
}

// FoodCulture facts keyed by topic.
var FoodCulture = map[string]string{
	"banchan":            "Korean meals often include shared side dishes (banchan)",
	"street_food_timing": "Street food is best explored after sunset",
	"samgyeopsal":        "Samgyeopsal is a social meal eaten in groups, usually at night",
	"tteokbokki":         "Tteokbokki is a spicy-sweet street food popular among students",
}

// Slang is the small glossary surfaced to the composer; slangOrder keeps
// the context-fact lines deterministic.
var Slang = map[string]string{
	"daebak":   "Amazing",
	"hwaiting": "Encouragement/Fighting!",
	"maknae":   "Youngest person in a group",
}

var slangOrder = []string{"daebak", "hwaiting", "maknae"}

// Greeting opens every composed response.
const Greeting = "안녕하세요! (Hello!)"

// Insights returns the knowledge entry for a district.
func Insights(name string) (types.NeighborhoodInsights, bool) {
	n, ok := neighborhoods[strings.ToLower(strings.TrimSpace(name))]
	return n, ok
}

// Known reports whether name is a known district.
func Known(name string) bool {
	_, ok := Insights(name)
	return ok
}

// Names returns all district names sorted.
func Names() []string {
	names := make([]string, 0, len(neighborhoods))
	for n := range neighborhoods {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// DetectThemes returns the cultural themes matched by the query keywords.
// An empty match falls back to the single general theme.
func DetectThemes(query string) []string {
	q := strings.ToLower(query)
	var themes []string
	for _, theme := range themeOrder {
		for _, kw := range themeKeywords[theme] {
			if strings.Contains(q, kw) {
				themes = append(themes, theme)
				break
			}
		}
	}
	if len(themes) == 0 {
		themes = []string{ThemeGeneral}
	}
	return themes
}

// NeighborhoodFocus detects a district the query is asking about, first by
// direct name match, then through the alias table. Returns "" when the
// query has no district focus.
func NeighborhoodFocus(query string) string {
	q := strings.ToLower(query)
	for _, name := range Names() {
		if strings.Contains(q, name) {
			return name
		}
	}
	for _, a := range neighborhoodAliases {
		if strings.Contains(q, a.alias) {
			return a.name
		}
	}
	return ""
}

// ContextFacts assembles the cultural-context lines handed to the
// composer: theme-matched food facts, the focused district's character,
// baseline norms, then the slang glossary.
func ContextFacts(themes []string, neighborhood string) []string {
	var facts []string
	for _, th := range themes {
		if th == ThemeFood {
			facts = append(facts, FoodCulture["banchan"], FoodCulture["street_food_timing"])
			break
		}
	}
	if n, ok := Insights(neighborhood); ok {
		facts = append(facts, Title(neighborhood)+": "+n.Character)
	}
	facts = append(facts, CulturalNorms["tipping"], CulturalNorms["punctuality"])
	for _, term := range slangOrder {
		facts = append(facts, "Local slang: \""+term+"\" means "+Slang[term])
	}
	return facts
}

// Title upper-cases the first letter of a district name for display.
func Title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
