// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package guide orchestrates one recommendation request end to end: intent
// analysis, parallel source fan-out, merge and dedupe, personalization,
// authenticity ranking, knowledge enrichment, and response composition.
// Recommend never fails; each stage degrades independently and the worst
// case is the fixed emergency set.
package guide

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hanguk-labs/local-guide/internal/compose"
	"github.com/hanguk-labs/local-guide/internal/genai"
	"github.com/hanguk-labs/local-guide/internal/knowledge"
	"github.com/hanguk-labs/local-guide/internal/provider"
	"github.com/hanguk-labs/local-guide/internal/scoring"
	"github.com/hanguk-labs/local-guide/pkg/types"
)

// NeighborhoodSearcher finds places inside one named district.
type NeighborhoodSearcher interface {
	SearchNeighborhood(ctx context.Context, name, kind string) ([]types.Recommendation, error)
}

// IntentAnalyzer classifies a user query.
type IntentAnalyzer interface {
	ExtractIntent(ctx context.Context, query string) (genai.Intent, error)
}

// Composer writes the response text.
type Composer interface {
	Compose(ctx context.Context, query string, recs []types.Recommendation, facts []string, p *types.Personalization) (string, bool)
}

// StatusReporter exposes one service's circuit state.
type StatusReporter interface {
	Name() string
	Status() types.ServiceStatus
}

// Guide coordinates the recommendation sources.
type Guide struct {
	cultural      provider.Source
	places        provider.Source
	neighborhoods NeighborhoodSearcher
	intents       IntentAnalyzer
	composer      Composer
	reporters     []StatusReporter
	cfg           types.GuideConfig
	log           zerolog.Logger
}

// New builds a Guide. intents may be nil (keyword intent analysis is used)
// and neighborhoods may be nil (district-focused queries then rely on the
// general sources).
func New(cultural, places provider.Source, neighborhoods NeighborhoodSearcher, intents IntentAnalyzer, composer Composer, reporters []StatusReporter, cfg types.GuideConfig, log zerolog.Logger) *Guide {
	if cfg.MaxRecommendations <= 0 {
		cfg.MaxRecommendations = 10
	}
	if cfg.CulturalLimit <= 0 {
		cfg.CulturalLimit = 8
	}
	if cfg.PlaceLimit <= 0 {
		cfg.PlaceLimit = 6
	}
	if cfg.NeighborhoodLimit <= 0 {
		cfg.NeighborhoodLimit = 4
	}
	return &Guide{
		cultural:      cultural,
		places:        places,
		neighborhoods: neighborhoods,
		intents:       intents,
		composer:      composer,
		reporters:     reporters,
		cfg:           cfg,
		log:           log.With().Str("component", "guide").Logger(),
	}
}

// Recommend runs the full pipeline for one query. It always returns a
// complete Result; an unexpected panic anywhere below degrades to the
// emergency set.
func (g *Guide) Recommend(ctx context.Context, query string, p *types.Personalization, loc *types.LatLng) (result types.Result) {
	requestID := uuid.NewString()
	log := g.log.With().Str("request_id", requestID).Logger()

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("recommendation pipeline panicked, serving emergency set")
			result = g.emergencyResult(requestID, query)
		}
	}()

	intent := g.analyzeIntent(ctx, query)
	themes := knowledge.DetectThemes(query)
	focus := knowledge.NeighborhoodFocus(query)
	log.Debug().
		Str("intent_type", intent.Type).
		Strs("themes", themes).
		Str("neighborhood", focus).
		Msg("query analyzed")

	cultural, places, neighborhood := g.fanOut(ctx, query, intent, focus, loc, log)

	recs := g.merge(cultural, places, neighborhood)
	recs = dedupe(recs)

	if p != nil {
		recs = personalize(recs, p)
	}
	recs = rankByAuthenticity(recs)

	if len(recs) > g.cfg.MaxRecommendations {
		recs = recs[:g.cfg.MaxRecommendations]
	}

	insights := enrich(recs)
	facts := knowledge.ContextFacts(themes, focus)

	response, composerFellBack := g.composer.Compose(ctx, query, recs, facts, p)

	return types.Result{
		RequestID:              requestID,
		Response:               response,
		Recommendations:        recs,
		CulturalContext:        themes,
		NeighborhoodInsights:   insights,
		AuthenticityScore:      meanAuthenticity(recs),
		PersonalizationApplied: p != nil,
		FallbackUsed:           composerFellBack || anyFallbackSource(recs),
	}
}

// analyzeIntent asks the model-backed analyzer when one is wired, keyword
// rules otherwise.
func (g *Guide) analyzeIntent(ctx context.Context, query string) genai.Intent {
	if g.intents == nil {
		return genai.FallbackIntent(query)
	}
	intent, err := g.intents.ExtractIntent(ctx, query)
	if err != nil {
		return genai.FallbackIntent(query)
	}
	return intent
}

// fanOut queries the sources in parallel. The cultural and place sources
// always run; the neighborhood search runs only when the query names a
// district. A panicking or failing source contributes an empty slice.
func (g *Guide) fanOut(ctx context.Context, query string, intent genai.Intent, focus string, loc *types.LatLng, log zerolog.Logger) (cultural, places, neighborhood []types.Recommendation) {
	var wg sync.WaitGroup

	run := func(name string, dst *[]types.Recommendation, fn func() ([]types.Recommendation, error)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					log.Error().Interface("panic", r).Str("source", name).Msg("source panicked")
				}
			}()
			recs, err := fn()
			if err != nil {
				log.Warn().Err(err).Str("source", name).Msg("source failed")
				return
			}
			*dst = recs
		}()
	}

	run("cultural", &cultural, func() ([]types.Recommendation, error) {
		return g.cultural.Search(ctx, provider.Query{
			Text:  query,
			Kind:  culturalKind(intent),
			Limit: g.cfg.CulturalLimit,
		})
	})

	run("places", &places, func() ([]types.Recommendation, error) {
		return g.places.Search(ctx, provider.Query{
			Text:     query,
			Location: loc,
			Limit:    g.cfg.PlaceLimit,
		})
	})

	if focus != "" && g.neighborhoods != nil {
		run("neighborhood", &neighborhood, func() ([]types.Recommendation, error) {
			return g.neighborhoods.SearchNeighborhood(ctx, focus, placeKind(intent))
		})
	}

	wg.Wait()
	return cultural, places, neighborhood
}

// culturalKind narrows the cultural search for clearly typed queries.
func culturalKind(intent genai.Intent) string {
	if intent.Type == "media" {
		return "all"
	}
	return ""
}

// placeKind narrows a neighborhood search for food queries.
func placeKind(intent genai.Intent) string {
	if intent.Type == "food" {
		return "restaurant"
	}
	return ""
}

// merge concatenates the source slices in fixed order with per-source
// caps, so the final ordering is deterministic for identical inputs.
func (g *Guide) merge(cultural, places, neighborhood []types.Recommendation) []types.Recommendation {
	capped := func(recs []types.Recommendation, limit int) []types.Recommendation {
		if len(recs) > limit {
			return recs[:limit]
		}
		return recs
	}

	merged := make([]types.Recommendation, 0, len(cultural)+len(places)+len(neighborhood))
	merged = append(merged, capped(cultural, g.cfg.CulturalLimit)...)
	merged = append(merged, capped(places, g.cfg.PlaceLimit)...)
	merged = append(merged, capped(neighborhood, g.cfg.NeighborhoodLimit)...)
	return merged
}

// dedupe drops records whose exact name already appeared; the earlier
// source wins.
func dedupe(recs []types.Recommendation) []types.Recommendation {
	seen := make(map[string]struct{}, len(recs))
	out := recs[:0]
	for _, rec := range recs {
		if _, dup := seen[rec.Name]; dup {
			continue
		}
		seen[rec.Name] = struct{}{}
		out = append(out, rec)
	}
	return out
}

// rankByAuthenticity recomputes each record's authenticity from its own
// text and stable-sorts by authenticity, then cultural relevance. The
// stable sort preserves any personalization ordering between ties.
func rankByAuthenticity(recs []types.Recommendation) []types.Recommendation {
	for i := range recs {
		recs[i].AuthenticityScore = scoring.Authenticity(recs[i].Text())
	}
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].AuthenticityScore != recs[j].AuthenticityScore {
			return recs[i].AuthenticityScore > recs[j].AuthenticityScore
		}
		return recs[i].CulturalRelevance > recs[j].CulturalRelevance
	})
	return recs
}

// enrich attaches district insights to each record whose neighborhood is
// in the knowledge tables and returns the per-district map for the result.
func enrich(recs []types.Recommendation) map[string]types.NeighborhoodInsights {
	out := make(map[string]types.NeighborhoodInsights)
	for i := range recs {
		district := strings.ToLower(recs[i].Neighborhood)
		insights, ok := knowledge.Insights(district)
		if !ok {
			continue
		}
		recs[i].Insights = &insights
		out[district] = insights
	}
	return out
}

func meanAuthenticity(recs []types.Recommendation) float64 {
	if len(recs) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, rec := range recs {
		sum += rec.AuthenticityScore
	}
	return sum / float64(len(recs))
}

func anyFallbackSource(recs []types.Recommendation) bool {
	for _, rec := range recs {
		if rec.Source == types.SourceFallback {
			return true
		}
	}
	return false
}

// emergencyResult is the outermost degradation path: fixed records, fixed
// response, nothing read from any collaborator.
func (g *Guide) emergencyResult(requestID, query string) types.Result {
	recs := compose.EmergencyRecommendations()
	return types.Result{
		RequestID:         requestID,
		Response:          compose.EmergencyResponse(),
		Recommendations:   recs,
		CulturalContext:   knowledge.DetectThemes(query),
		AuthenticityScore: meanAuthenticity(recs),
		FallbackUsed:      true,
	}
}

// Status aggregates every wired service's circuit state. Health is the
// fraction of services currently available.
func (g *Guide) Status() types.SystemStatus {
	statuses := make([]types.ServiceStatus, 0, len(g.reporters))
	available := 0
	for _, r := range g.reporters {
		st := r.Status()
		if st.Service == "" {
			st.Service = r.Name()
		}
		if st.Available {
			available++
		}
		statuses = append(statuses, st)
	}

	state := "healthy"
	health := 1.0
	if len(g.reporters) > 0 {
		health = float64(available) / float64(len(g.reporters))
		switch {
		case available == 0:
			state = "unavailable"
		case available < len(g.reporters):
			state = "degraded"
		}
	}

	return types.SystemStatus{
		Service:  "local-guide",
		State:    state,
		Health:   health,
		Services: statuses,
	}
}
