// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package compose turns a ranked recommendation list into the final
// response text. Three layers, tried in order: generative writing, then
// classifier-selected templates, then a fixed emergency response. Compose
// never fails; every layer below the first exists to absorb the one above
// it going wrong.
package compose

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hanguk-labs/local-guide/internal/genai"
	"github.com/hanguk-labs/local-guide/internal/knowledge"
	"github.com/hanguk-labs/local-guide/pkg/types"
)

// promptRecommendationCap bounds how many records are quoted in the
// generative prompt.
const promptRecommendationCap = 8

// Composer writes the response text for a recommendation set.
type Composer struct {
	gen genai.Generator
	log zerolog.Logger
}

// New builds a Composer. gen may be nil, in which case composition starts
// at the template layer.
func New(gen genai.Generator, log zerolog.Logger) *Composer {
	return &Composer{gen: gen, log: log.With().Str("component", "composer").Logger()}
}

// Compose renders the response for a query. The second return reports
// whether a non-generative layer produced the text.
func (c *Composer) Compose(ctx context.Context, query string, recs []types.Recommendation, facts []string, p *types.Personalization) (text string, fellBack bool) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error().Interface("panic", r).Msg("composer panicked, serving emergency response")
			text = emergencyResponse()
			fellBack = true
		}
	}()

	if c.gen != nil {
		generated, err := c.gen.Generate(ctx, buildPrompt(query, recs, facts, p))
		if err == nil && strings.TrimSpace(generated) != "" {
			return wrapResponse(generated), false
		}
		if err != nil {
			c.log.Warn().Err(err).Msg("generative composition failed, rendering template")
		}
	}

	return c.renderTemplate(query, recs, facts), true
}

// buildPrompt assembles the generative prompt: the query, the top
// recommendations, the cultural context, and the traveler's preferences.
func buildPrompt(query string, recs []types.Recommendation, facts []string, p *types.Personalization) string {
	var b strings.Builder
	b.WriteString("You are a knowledgeable Seoul local guide helping a traveler.\n")
	b.WriteString("Write a warm, concise recommendation response in HTML (use <div>, <h3>, <ul>, <li>).\n")
	b.WriteString("Open with the greeting " + knowledge.Greeting + "\n\n")
	b.WriteString("Traveler's question: " + query + "\n\n")

	if len(recs) > 0 {
		b.WriteString("Recommendations to present:\n")
		n := len(recs)
		if n > promptRecommendationCap {
			n = promptRecommendationCap
		}
		for _, rec := range recs[:n] {
			fmt.Fprintf(&b, "- %s (%s)", rec.Name, rec.Category)
			if rec.Neighborhood != "" && rec.Neighborhood != "unknown" {
				fmt.Fprintf(&b, " in %s", knowledge.Title(rec.Neighborhood))
			}
			if rec.Context != "" {
				b.WriteString(": " + rec.Context)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(facts) > 0 {
		b.WriteString("Cultural context to weave in:\n")
		for _, fact := range facts {
			b.WriteString("- " + fact + "\n")
		}
		b.WriteString("\n")
	}

	if p != nil {
		if len(p.Interests) > 0 {
			b.WriteString("Traveler's interests: " + strings.Join(p.Interests, ", ") + "\n")
		}
		if len(p.FoodRestrictions) > 0 {
			b.WriteString("Dietary restrictions: " + strings.Join(p.FoodRestrictions, ", ") + "\n")
		}
		if p.BudgetRange != "" {
			b.WriteString("Budget: " + p.BudgetRange + "\n")
		}
		if p.TravelStyle != "" {
			b.WriteString("Travel style: " + p.TravelStyle + "\n")
		}
		if len(p.PreferredNeighborhoods) > 0 {
			b.WriteString("Neighborhoods the traveler frequents: " + strings.Join(p.PreferredNeighborhoods, ", ") + "\n")
		}
	}

	b.WriteString("\nPresent every listed recommendation, explain briefly why each fits, and do not invent places that are not listed.")
	return b.String()
}

// wrapResponse puts generated text inside the response container div when
// the model did not produce one itself.
func wrapResponse(text string) string {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "<div") {
		return trimmed
	}
	return `<div class="local-guide-response">` + "\n" + trimmed + "\n</div>"
}
