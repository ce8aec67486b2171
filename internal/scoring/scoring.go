// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scoring computes cultural-relevance and authenticity scores from
// recommendation text. Both functions are pure: identical input yields
// identical output, and results are always in [0.0, 1.0]. Every adapter
// passes its records through Score before they leave the adapter boundary,
// so scores arriving from an external API are never trusted.
package scoring

import (
	"math"
	"strings"
)

// weightedTerm pairs a vocabulary term with its score contribution.
// Matching is substring-based over the lower-cased text, so "korea" also
// fires inside "korean food"; the tables are ordered and scoring sums every
// hit, mirroring the vocabulary's tiered design.
type weightedTerm struct {
	term   string
	weight float64
}

// culturalVocabulary tiers: core country terms, cultural-wave terms, major
// cities, then the broader vocabulary.
var culturalVocabulary = []weightedTerm{
	{"korean", 0.4},
	{"korea", 0.4},
	{"k-pop", 0.3},
	{"kpop", 0.3},
	{"kdrama", 0.3},
	{"seoul", 0.2},
	{"busan", 0.2},
	{"korean food", 0.1},
	{"korean culture", 0.1},
	{"korean music", 0.1},
	{"korean film", 0.1},
	{"hallyu", 0.1},
	{"korean wave", 0.1},
	{"korean traditional", 0.1},
	{"korean modern", 0.1},
	{"korean entertainment", 0.1},
	{"korean art", 0.1},
	{"korean history", 0.1},
}

// culturalIndicators are generic cultural adjectives, weighted low.
var culturalIndicators = []string{
	"traditional", "modern", "contemporary", "authentic", "cultural",
	"heritage", "history", "art", "music", "film", "literature",
}

// iconicElements are specific cultural-element nouns worth a flat bonus.
var iconicElements = []string{
	"hanbok", "kimchi", "bulgogi", "bibimbap", "taekwondo", "hallyu",
	"chaebol", "soju", "makgeolli", "temple", "palace", "hanok",
}

// regionalTerms are wider cultural-sphere indicators.
var regionalTerms = []string{
	"asian", "asia", "east asian", "oriental", "confucian", "buddhist",
}

// genericCultureTerms floor the score at 0.15 when nothing else matched.
var genericCultureTerms = []string{
	"culture", "traditional", "modern", "art", "music", "film",
}

// authenticTerms raise the authenticity score by 0.1 each.
var authenticTerms = []string{
	"traditional", "heritage", "historical", "authentic", "original",
	"classical", "folk", "indigenous", "ancestral", "ceremonial",
}

// modernTerms raise the authenticity score by 0.05 each.
var modernTerms = []string{
	"contemporary", "modern", "current", "trendy", "popular", "mainstream",
}

// CulturalRelevance scores how strongly text relates to the target
// culture's vocabulary. The result is in [0.0, 1.0].
func CulturalRelevance(text string) float64 {
	t := strings.ToLower(text)
	score := 0.0

	for _, wt := range culturalVocabulary {
		if strings.Contains(t, wt.term) {
			score += wt.weight
		}
	}
	for _, term := range culturalIndicators {
		if strings.Contains(t, term) {
			score += 0.05
		}
	}
	for _, term := range iconicElements {
		if strings.Contains(t, term) {
			score += 0.15
		}
	}
	for _, term := range regionalTerms {
		if strings.Contains(t, term) {
			score += 0.1
		}
	}

	if score == 0.0 {
		for _, term := range genericCultureTerms {
			if strings.Contains(t, term) {
				score = 0.15
				break
			}
		}
	}

	return math.Min(score, 1.0)
}

// MentionsCulture reports whether the text names the target culture
// directly, using the tiered vocabulary (not the generic indicators).
func MentionsCulture(text string) bool {
	t := strings.ToLower(text)
	for _, wt := range culturalVocabulary {
		if strings.Contains(t, wt.term) {
			return true
		}
	}
	return false
}

// Authenticity scores how strongly text favors traditional/heritage
// language over generic or tourist language. Base 0.5, capped at 1.0.
func Authenticity(text string) float64 {
	t := strings.ToLower(text)
	score := 0.5

	for _, term := range authenticTerms {
		if strings.Contains(t, term) {
			score += 0.1
		}
	}
	for _, term := range modernTerms {
		if strings.Contains(t, term) {
			score += 0.05
		}
	}

	return math.Min(score, 1.0)
}
