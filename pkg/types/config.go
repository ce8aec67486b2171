// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings for providers that make network
// requests.
type HTTPConfig struct {
	// Timeout is the per-request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "local-guide/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ResilienceConfig holds circuit breaker and retry settings for one
// provider. All values are read once at startup and fixed for the process
// lifetime.
type ResilienceConfig struct {
	// FailureThreshold is the consecutive-failure count that opens the
	// circuit (default 5).
	FailureThreshold uint32 `json:"failure_threshold" yaml:"failure_threshold"`

	// RecoveryTimeout is how long the circuit stays open before a probe
	// call is allowed through (default 60s).
	RecoveryTimeout time.Duration `json:"recovery_timeout" yaml:"recovery_timeout"`

	// MaxRetries is the retry count on top of the initial attempt (2-3
	// depending on provider).
	MaxRetries uint64 `json:"max_retries" yaml:"max_retries"`

	// BaseDelay is the first backoff delay; fast providers use smaller
	// bases (e.g. 100ms).
	BaseDelay time.Duration `json:"base_delay" yaml:"base_delay"`

	// BackoffFactor multiplies the delay each attempt (default 2.0).
	BackoffFactor float64 `json:"backoff_factor" yaml:"backoff_factor"`
}

// CulturalConfig configures the cultural-similarity provider.
type CulturalConfig struct {
	HTTPConfig `yaml:",inline"`

	APIKey     string           `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	MaxResults int              `json:"max_results" yaml:"max_results"`
	Resilience ResilienceConfig `json:"resilience" yaml:"resilience"`
}

// PlaceSearchConfig configures the geo-indexed place search provider.
type PlaceSearchConfig struct {
	HTTPConfig `yaml:",inline"`

	AppID        string           `json:"app_id,omitempty" yaml:"app_id,omitempty"`
	APIKey       string           `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	IndexName    string           `json:"index_name" yaml:"index_name"`
	MaxResults   int              `json:"max_results" yaml:"max_results"`
	RadiusMeters int              `json:"radius_meters" yaml:"radius_meters"`
	Resilience   ResilienceConfig `json:"resilience" yaml:"resilience"`
}

// MapsConfig configures the maps/places provider.
type MapsConfig struct {
	HTTPConfig `yaml:",inline"`

	APIKey       string           `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	RadiusMeters int              `json:"radius_meters" yaml:"radius_meters"`
	Resilience   ResilienceConfig `json:"resilience" yaml:"resilience"`
}

// GenAIConfig configures the generative-text provider.
type GenAIConfig struct {
	HTTPConfig `yaml:",inline"`

	APIKey     string           `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	Model      string           `json:"model" yaml:"model"`
	Resilience ResilienceConfig `json:"resilience" yaml:"resilience"`
}

// GuideConfig holds orchestrator limits. The per-adapter caps apply before
// the merge; MaxRecommendations caps the final list.
type GuideConfig struct {
	MaxRecommendations int `json:"max_recommendations" yaml:"max_recommendations"`
	CulturalLimit      int `json:"cultural_limit" yaml:"cultural_limit"`
	PlaceLimit         int `json:"place_limit" yaml:"place_limit"`
	NeighborhoodLimit  int `json:"neighborhood_limit" yaml:"neighborhood_limit"`
}

// ProfileConfig holds profile store settings.
type ProfileConfig struct {
	// Path is the SQLite database file (e.g. "data/profiles.db").
	Path string `json:"path" yaml:"path"`
}

// ServerConfig holds HTTP collaborator settings.
type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr"`
}

// Config groups all component configurations.
type Config struct {
	Cultural    CulturalConfig    `json:"cultural" yaml:"cultural"`
	PlaceSearch PlaceSearchConfig `json:"place_search" yaml:"place_search"`
	Maps        MapsConfig        `json:"maps" yaml:"maps"`
	GenAI       GenAIConfig       `json:"genai" yaml:"genai"`
	Guide       GuideConfig       `json:"guide" yaml:"guide"`
	Profile     ProfileConfig     `json:"profile" yaml:"profile"`
	Server      ServerConfig      `json:"server" yaml:"server"`
}
