// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package genai

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/hanguk-labs/local-guide/internal/scoring"
)

// intentPromptTmpl asks the model for a line-oriented analysis of the user
// query. The fixed KEY: value format keeps parsing trivial and tolerant of
// extra prose the model may add around it.
var intentPromptTmpl = template.Must(template.New("intent").Parse(`Analyze this travel recommendation query and answer in exactly this format, one field per line:

ENTITY: the main subject of the query (a place, food, artist, or activity)
TYPE: one of place, food, media, activity, general
INTENT: one short phrase describing what the user wants
KOREAN_RELATED: yes or no

Query: {{.Query}}
`))

// Intent is the structured reading of a user query.
type Intent struct {
	Entity        string
	Type          string
	Intent        string
	KoreanRelated bool
}

// ExtractIntent asks the model to classify the query. On any failure the
// keyword-based FallbackIntent is returned instead, so intent analysis
// never blocks a recommendation.
func (c *Client) ExtractIntent(ctx context.Context, query string) (Intent, error) {
	prompt, err := renderIntentPrompt(query)
	if err != nil {
		return FallbackIntent(query), nil
	}

	text, err := c.Generate(ctx, prompt)
	if err != nil {
		c.log.Debug().Err(err).Msg("intent extraction failed, using keyword fallback")
		return FallbackIntent(query), nil
	}

	intent, ok := parseIntent(text)
	if !ok {
		return FallbackIntent(query), nil
	}
	return intent, nil
}

// parseIntent reads the KEY: value lines out of a model response. Lines
// that are not in the expected format are skipped.
func parseIntent(text string) (Intent, bool) {
	var (
		intent Intent
		found  bool
	)
	for _, line := range strings.Split(text, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.ToUpper(strings.TrimSpace(key)) {
		case "ENTITY":
			intent.Entity = value
			found = true
		case "TYPE":
			intent.Type = strings.ToLower(value)
			found = true
		case "INTENT":
			intent.Intent = value
			found = true
		case "KOREAN_RELATED":
			intent.KoreanRelated = strings.EqualFold(value, "yes")
			found = true
		}
	}
	return intent, found
}

// FallbackIntent classifies a query with keyword rules when the model is
// unavailable.
func FallbackIntent(query string) Intent {
	q := strings.ToLower(query)
	intent := Intent{
		Entity:        strings.TrimSpace(query),
		Type:          "general",
		Intent:        "recommendation",
		KoreanRelated: scoring.MentionsCulture(query),
	}

	switch {
	case containsAny(q, "eat", "food", "restaurant", "hungry", "meal", "dinner", "lunch", "bbq", "snack"):
		intent.Type = "food"
	case containsAny(q, "watch", "movie", "drama", "show", "listen", "music", "song", "book", "read"):
		intent.Type = "media"
	case containsAny(q, "visit", "go to", "place", "where", "area", "neighborhood", "district"):
		intent.Type = "place"
	case containsAny(q, "do", "activity", "experience", "try", "class"):
		intent.Type = "activity"
	}
	return intent
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func renderIntentPrompt(query string) (string, error) {
	var buf bytes.Buffer
	if err := intentPromptTmpl.Execute(&buf, struct{ Query string }{Query: query}); err != nil {
		return "", fmt.Errorf("rendering intent prompt: %w", err)
	}
	return buf.String(), nil
}
