// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Result is the structured outcome of one orchestration call. It is the
// only value the web layer consumes; every degradation path still produces
// a complete Result.
type Result struct {
	// RequestID identifies one orchestration call in logs and responses.
	RequestID string `json:"request_id" yaml:"request_id"`

	// Response is the composed natural-language answer (HTML fragment).
	Response string `json:"response" yaml:"response"`

	Recommendations []Recommendation `json:"recommendations" yaml:"recommendations"`

	// CulturalContext lists the cultural themes detected in the query.
	CulturalContext []string `json:"cultural_context" yaml:"cultural_context"`

	// NeighborhoodInsights maps each district that appears in the
	// recommendation list to its knowledge-table entry.
	NeighborhoodInsights map[string]NeighborhoodInsights `json:"neighborhood_insights" yaml:"neighborhood_insights"`

	// AuthenticityScore is the mean per-record authenticity, 0.0 when the
	// list is empty. Always in [0.0, 1.0].
	AuthenticityScore float64 `json:"authenticity_score" yaml:"authenticity_score"`

	// PersonalizationApplied reports whether a personalization context
	// was available for this call.
	PersonalizationApplied bool `json:"personalization_applied" yaml:"personalization_applied"`

	// FallbackUsed is true when the composer fell back to templates or
	// the orchestrator returned its emergency set.
	FallbackUsed bool `json:"fallback_used" yaml:"fallback_used"`
}

// ServiceStatus is the per-provider health contract surfaced to external
// monitoring.
type ServiceStatus struct {
	Service      string `json:"service" yaml:"service"`
	State        string `json:"state" yaml:"state"`
	FailureCount uint32 `json:"failure_count" yaml:"failure_count"`
	Available    bool   `json:"available" yaml:"available"`
}

// SystemStatus aggregates per-provider statuses with an overall health
// classification.
type SystemStatus struct {
	Service  string          `json:"service" yaml:"service"`
	State    string          `json:"state" yaml:"state"`
	Health   float64         `json:"system_health" yaml:"system_health"`
	Services []ServiceStatus `json:"services" yaml:"services"`
}
