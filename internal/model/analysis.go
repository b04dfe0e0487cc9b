package model

import "time"

// Urgency buckets days-to-deadline for notification priority.
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// Analysis is the relevance assessment attached to a record after the
// oracle (or its deterministic fallback) has scored it.
type Analysis struct {
	Relevant  bool     `json:"relevant"`
	Score     int      `json:"score"` // 0-100
	Urgency   Urgency  `json:"urgency"`
	KeyPoints []string `json:"key_points,omitempty"`
	Aspects   []string `json:"aspects,omitempty"`

	// Narrative is a short free-text rationale. When the oracle was
	// unreachable the fallback preserves the failure reason here.
	Narrative string `json:"narrative,omitempty"`

	// Fallback marks analyses produced by the deterministic keyword
	// scorer rather than the oracle.
	Fallback bool `json:"fallback,omitempty"`

	// Drafts holds generated response texts keyed by tone.
	Drafts map[string]string `json:"drafts,omitempty"`

	AnalyzedAt time.Time `json:"analyzed_at"`
}
