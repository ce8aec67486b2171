// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hanguk-labs/local-guide/internal/resilience"
	"github.com/hanguk-labs/local-guide/internal/scoring"
	"github.com/hanguk-labs/local-guide/pkg/types"
)

// culturalAPIBase is the cultural-similarity discovery endpoint. Declared as
// a var so tests can substitute an httptest server.
var culturalAPIBase = "https://tastedive.com/api/similar"

// culturalKinds are the provider content types queried when the caller does
// not narrow the search.
var culturalKinds = []string{"movie", "music", "show", "book"}

// CulturalDiscovery finds Korean media and experience recommendations
// through a similarity API. It always returns a usable list: when the
// provider is unreachable or the circuit is open it serves the curated
// fallback dataset instead.
type CulturalDiscovery struct {
	client  *http.Client
	cfg     types.CulturalConfig
	wrapper *resilience.Wrapper
	log     zerolog.Logger
}

// NewCulturalDiscovery builds the adapter with its own resilience wrapper.
func NewCulturalDiscovery(cfg types.CulturalConfig, log zerolog.Logger) *CulturalDiscovery {
	return &CulturalDiscovery{
		client:  &http.Client{Timeout: cfg.Timeout},
		cfg:     cfg,
		wrapper: resilience.New("cultural_discovery", cfg.Resilience, log),
		log:     log.With().Str("source", "cultural_discovery").Logger(),
	}
}

// Name returns the adapter identifier.
func (c *CulturalDiscovery) Name() string { return "cultural_discovery" }

// Status reports the adapter's circuit state.
func (c *CulturalDiscovery) Status() types.ServiceStatus { return c.wrapper.Status() }

// Search queries the similarity API across the requested content kinds and
// returns results ordered by cultural relevance. The error return is always
// nil; per-kind failures are logged and degrade to the fallback dataset.
func (c *CulturalDiscovery) Search(ctx context.Context, q Query) ([]types.Recommendation, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = c.cfg.MaxResults
	}
	if limit <= 0 {
		limit = 8
	}

	kinds := culturalKinds
	if q.Kind != "" && q.Kind != "all" {
		kinds = []string{q.Kind}
	}
	perKind := limit/len(kinds) + 1

	var (
		results  []types.Recommendation
		failures int
	)
	for _, kind := range kinds {
		recs, err := c.searchKind(ctx, q.Text, kind, perKind)
		if err != nil {
			failures++
			c.log.Warn().Err(err).Str("kind", kind).Msg("cultural lookup failed")
			continue
		}
		results = append(results, recs...)
	}

	if failures == len(kinds) {
		c.log.Warn().Msg("all cultural lookups failed, serving fallback dataset")
		return CulturalFallback(q), nil
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].CulturalRelevance > results[j].CulturalRelevance
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// searchKind runs one content-type lookup through the resilience wrapper.
func (c *CulturalDiscovery) searchKind(ctx context.Context, text, kind string, limit int) ([]types.Recommendation, error) {
	if c.cfg.APIKey == "" {
		return nil, fmt.Errorf("cultural discovery API key not configured")
	}

	return resilience.Do(ctx, c.wrapper, func(ctx context.Context) ([]types.Recommendation, error) {
		params := url.Values{
			"q":     {koreanize(text)},
			"type":  {kind},
			"limit": {fmt.Sprintf("%d", limit*2)},
			"info":  {"1"},
			"k":     {c.cfg.APIKey},
		}
		reqURL := culturalAPIBase + "?" + params.Encode()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("User-Agent", c.cfg.UserAgent)

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("cultural API request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("cultural API returned HTTP %d", resp.StatusCode)
		}

		var cr culturalResponse
		if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
			return nil, fmt.Errorf("parsing cultural response: %w", err)
		}

		koreanQuery := scoring.MentionsCulture(text)
		var recs []types.Recommendation
		for _, item := range cr.items() {
			if rec, ok := normalizeCulturalItem(item, kind, koreanQuery); ok {
				recs = append(recs, rec)
			}
		}
		if len(recs) > limit {
			recs = recs[:limit]
		}
		return recs, nil
	})
}

// koreanize biases a free-text query toward Korean culture when the text
// does not mention it already.
func koreanize(text string) string {
	if scoring.MentionsCulture(text) {
		return text
	}
	if strings.TrimSpace(text) == "" {
		return "korean culture"
	}
	return "korean " + text
}

// normalizeCulturalItem maps one provider item to a Recommendation. Items
// with no name, or no plausible Korean connection, are dropped.
func normalizeCulturalItem(item culturalItem, kind string, koreanQuery bool) (types.Recommendation, bool) {
	name := firstNonEmpty(item.Name, item.NameLower)
	if name == "" {
		return types.Recommendation{}, false
	}
	teaser := firstNonEmpty(item.Teaser, item.Description)
	itemKind := strings.ToLower(firstNonEmpty(item.Type, item.TypeLower, kind))

	rec := types.Recommendation{
		ID:       recordID(types.SourceCulturalDiscovery, name),
		Name:     name,
		Kind:     types.KindMediaContent,
		Category: itemKind,
		Context:  teaser,
		Source:   types.SourceCulturalDiscovery,
	}
	if itemKind == "experience" || itemKind == "activity" {
		rec.Kind = types.KindCulturalExperience
	}
	rescore(&rec)

	// A Korean-phrased query vouches for borderline matches the scorer
	// cannot see from the item text alone.
	if koreanQuery && rec.CulturalRelevance < 0.2 {
		rec.CulturalRelevance = 0.2
	}
	if rec.CulturalRelevance <= 0.1 {
		return types.Recommendation{}, false
	}
	return rec, true
}

// Cultural-similarity API JSON structures. The provider has shipped both
// capitalized and lowercase field names, so both spellings are mapped and
// collapsed during normalization.
type culturalResponse struct {
	Similar      culturalSimilar  `json:"Similar"`
	SimilarLower *culturalSimilar `json:"similar"`
}

func (r culturalResponse) items() []culturalItem {
	if len(r.Similar.Results) > 0 {
		return r.Similar.Results
	}
	if r.SimilarLower != nil {
		if len(r.SimilarLower.Results) > 0 {
			return r.SimilarLower.Results
		}
		return r.SimilarLower.ResultsLower
	}
	return r.Similar.ResultsLower
}

type culturalSimilar struct {
	Results      []culturalItem `json:"Results"`
	ResultsLower []culturalItem `json:"results"`
}

type culturalItem struct {
	Name        string `json:"Name"`
	NameLower   string `json:"name"`
	Type        string `json:"Type"`
	TypeLower   string `json:"type"`
	Teaser      string `json:"wTeaser"`
	Description string `json:"description"`
}
