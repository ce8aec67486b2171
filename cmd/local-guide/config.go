// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"time"

	"github.com/spf13/viper"

	"github.com/hanguk-labs/local-guide/internal/compose"
	"github.com/hanguk-labs/local-guide/internal/genai"
	"github.com/hanguk-labs/local-guide/internal/guide"
	"github.com/hanguk-labs/local-guide/internal/provider"
	"github.com/hanguk-labs/local-guide/pkg/types"
)

// loadConfig assembles the full service configuration from the config
// file, environment, and .secrets/ files, in that order of precedence.
func loadConfig() types.Config {
	http := types.HTTPConfig{
		Timeout:   viperDuration("http.timeout", 10*time.Second),
		UserAgent: viper.GetString("http.user_agent"),
	}
	if http.UserAgent == "" {
		http.UserAgent = "local-guide/" + version
	}

	// Standard provider resilience; fast providers get a shorter base
	// delay below.
	res := types.ResilienceConfig{
		FailureThreshold: uint32(viperInt("resilience.failure_threshold", 5)),
		RecoveryTimeout:  viperDuration("resilience.recovery_timeout", 60*time.Second),
		MaxRetries:       uint64(viperInt("resilience.max_retries", 3)),
		BaseDelay:        viperDuration("resilience.base_delay", time.Second),
		BackoffFactor:    2.0,
	}
	fastRes := res
	fastRes.MaxRetries = 2
	fastRes.BaseDelay = 100 * time.Millisecond

	return types.Config{
		Cultural: types.CulturalConfig{
			HTTPConfig: http,
			APIKey:     secretDefault("tastedive-api-key", viper.GetString("cultural.api_key")),
			MaxResults: viperInt("cultural.max_results", 8),
			Resilience: res,
		},
		PlaceSearch: types.PlaceSearchConfig{
			HTTPConfig:   http,
			AppID:        secretDefault("algolia-app-id", viper.GetString("place_search.app_id")),
			APIKey:       secretDefault("algolia-api-key", viper.GetString("place_search.api_key")),
			IndexName:    viperString("place_search.index_name", "seoul_places"),
			MaxResults:   viperInt("place_search.max_results", 6),
			RadiusMeters: viperInt("place_search.radius_meters", 5000),
			Resilience:   fastRes,
		},
		Maps: types.MapsConfig{
			HTTPConfig:   http,
			APIKey:       secretDefault("maps-api-key", viper.GetString("maps.api_key")),
			RadiusMeters: viperInt("maps.radius_meters", 2000),
			Resilience:   fastRes,
		},
		GenAI: types.GenAIConfig{
			HTTPConfig: http,
			APIKey:     secretDefault("genai-api-key", viper.GetString("genai.api_key")),
			Model:      viperString("genai.model", "gemini-2.0-flash"),
			Resilience: res,
		},
		Guide: types.GuideConfig{
			MaxRecommendations: viperInt("guide.max_recommendations", 10),
			CulturalLimit:      viperInt("guide.cultural_limit", 8),
			PlaceLimit:         viperInt("guide.place_limit", 6),
			NeighborhoodLimit:  viperInt("guide.neighborhood_limit", 4),
		},
		Profile: types.ProfileConfig{
			Path: viperString("profile.path", "data/profiles.db"),
		},
		Server: types.ServerConfig{
			Addr: viperString("server.addr", ":8080"),
		},
	}
}

// buildGuide is the composition root: it wires the adapters, intent
// analyzer, and composer into one Guide. The maps adapter is returned
// separately for the amenity routes.
func buildGuide(cfg types.Config) (*guide.Guide, *provider.Maps) {
	cultural := provider.NewCulturalDiscovery(cfg.Cultural, log)
	places := provider.NewPlaceSearch(cfg.PlaceSearch, log)
	maps := provider.NewMaps(cfg.Maps, log)
	ai := genai.NewClient(cfg.GenAI, log)

	// Without a key there is no point routing composition through the
	// model; the composer starts at the template layer.
	var gen genai.Generator
	var intents guide.IntentAnalyzer
	if cfg.GenAI.APIKey != "" {
		gen = ai
		intents = ai
	}
	composer := compose.New(gen, log)

	reporters := []guide.StatusReporter{cultural, places, maps, ai}
	g := guide.New(cultural, places, places, intents, composer, reporters, cfg.Guide, log)
	return g, maps
}

func viperInt(key string, fallback int) int {
	if viper.IsSet(key) {
		return viper.GetInt(key)
	}
	return fallback
}

func viperString(key, fallback string) string {
	if v := viper.GetString(key); v != "" {
		return v
	}
	return fallback
}

func viperDuration(key string, fallback time.Duration) time.Duration {
	if viper.IsSet(key) {
		return viper.GetDuration(key)
	}
	return fallback
}
