package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/openpaws/policyradar/internal/model"
)

// OpenAIProvider implements the Provider interface on the OpenAI API.
type OpenAIProvider struct {
	client *openai.Client
	config Config
}

// NewOpenAIProvider creates a new OpenAI-backed oracle.
func NewOpenAIProvider(config Config) (*OpenAIProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// IsAvailable checks if the provider is configured and reachable.
func (p *OpenAIProvider) IsAvailable(ctx context.Context) bool {
	_, err := p.client.ListModels(ctx)
	return err == nil
}

// Classify scores a policy document for animal-welfare relevance.
func (p *OpenAIProvider) Classify(ctx context.Context, title, description, ministry string) (*Classification, error) {
	prompt := fmt.Sprintf(`Assess the following Indian government policy document for animal welfare relevance.

Title: %s
Ministry: %s
Description: %s

Respond with ONLY a JSON object in this exact shape:
{"relevant": true/false, "score": 0-100, "urgency": "low"|"medium"|"high", "key_points": ["..."], "aspects": ["..."], "narrative": "one short paragraph"}`,
		title, ministry, description)

	content, err := p.complete(ctx, "You assess government policy documents for animal welfare relevance. Respond only with JSON.", prompt)
	if err != nil {
		return nil, err
	}

	var c Classification
	if err := decodeLenientJSON(content, &c); err != nil {
		return nil, fmt.Errorf("parse classification: %w", err)
	}

	if c.Score < 0 {
		c.Score = 0
	}
	if c.Score > 100 {
		c.Score = 100
	}
	switch c.Urgency {
	case model.UrgencyLow, model.UrgencyMedium, model.UrgencyHigh:
	default:
		c.Urgency = model.UrgencyLow
	}

	return &c, nil
}

// Describe produces a human-readable summary for a document URL.
func (p *OpenAIProvider) Describe(ctx context.Context, documentURL string) (string, error) {
	prompt := fmt.Sprintf(`The following URL points to an Indian government PDF circular or notification:

%s

From the URL path and filename alone, write a 2-3 sentence plain-language description of what this document likely covers and who should respond to it. Do not invent specific dates or figures.`,
		documentURL)

	return p.complete(ctx, "You describe government documents concisely for policy watchers.", prompt)
}

// Draft generates a response text in the given tone.
func (p *OpenAIProvider) Draft(ctx context.Context, rec model.PolicyRecord, tone Tone) (string, error) {
	prompt := fmt.Sprintf(`Write a formal public response to this government consultation from an animal welfare advocacy perspective, in a %s register.

Title: %s
Ministry: %s
Description: %s
Response deadline: %s

Keep it under 400 words, addressed to the ministry, ready to submit.`,
		toneInstruction(tone), rec.Title, rec.Ministry, rec.Description, rec.Deadline)

	return p.complete(ctx, "You draft public consultation responses for an animal welfare organization.", prompt)
}

func toneInstruction(tone Tone) string {
	switch tone {
	case ToneEmotional:
		return "compassionate, emotionally resonant"
	case ToneDataBacked:
		return "evidence-led, citing categories of data"
	case ToneFinancial:
		return "fiscal-impact focused"
	case ToneBusiness:
		return "industry and business impact focused"
	case ToneLivelihood:
		return "rural livelihood and farmer impact focused"
	default:
		return "precise legal"
	}
}

func (p *OpenAIProvider) complete(ctx context.Context, system, prompt string) (string, error) {
	chatModel := p.config.Model
	if chatModel == "" {
		chatModel = openai.GPT4oMini
	}

	maxTokens := p.config.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1000
	}

	timeout := time.Duration(p.config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := p.client.CreateChatCompletion(ctxWithTimeout, openai.ChatCompletionRequest{
		Model: chatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// decodeLenientJSON extracts the first JSON object from text that may be
// wrapped in prose or code fences.
func decodeLenientJSON(text string, v interface{}) error {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return fmt.Errorf("no JSON object in response")
	}
	return json.Unmarshal([]byte(text[start:end+1]), v)
}
