// Package oracle wraps the external generative-language service used for
// relevance scoring, document description, and draft generation. Every
// call site must tolerate an absent or failing provider: the deterministic
// fallbacks in this package always produce a plausible, bounded result.
package oracle

import (
	"context"
	"fmt"
	"strings"

	"github.com/openpaws/policyradar/internal/model"
)

// Classification is the oracle's relevance assessment for one record.
type Classification struct {
	Relevant  bool          `json:"relevant"`
	Score     int           `json:"score"` // 0-100
	Urgency   model.Urgency `json:"urgency"`
	KeyPoints []string      `json:"key_points"`
	Aspects   []string      `json:"aspects"`
	Narrative string        `json:"narrative"`
}

// Provider is the oracle contract. Implementations may be unavailable or
// erroring at any time; callers substitute deterministic fallbacks.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// Classify scores a policy document for animal-welfare relevance.
	Classify(ctx context.Context, title, description, ministry string) (*Classification, error)

	// Describe produces a human-readable summary for a document URL.
	Describe(ctx context.Context, documentURL string) (string, error)

	// Draft generates a response text in the given tone.
	Draft(ctx context.Context, rec model.PolicyRecord, tone Tone) (string, error)

	// IsAvailable checks if the provider is configured and reachable.
	IsAvailable(ctx context.Context) bool
}

// Config holds oracle provider configuration.
type Config struct {
	Provider  string
	Model     string
	APIKey    string
	BaseURL   string
	Timeout   int // seconds
	MaxTokens int
}

// ConfigFromModel converts the runtime LLM configuration.
func ConfigFromModel(c model.LLMConfig) Config {
	return Config{
		Provider:  c.Provider,
		Model:     c.Model,
		APIKey:    c.APIKey,
		BaseURL:   c.BaseURL,
		Timeout:   c.Timeout,
		MaxTokens: c.MaxTokens,
	}
}

// NewProvider creates a provider from configuration. An empty provider
// name disables the oracle and returns (nil, nil).
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config)
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown oracle provider: %s (supported: openai)", config.Provider)
	}
}
