package queryparser

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	apperrors "github.com/tutorcal/tutorcal/internal/errors"
	"github.com/tutorcal/tutorcal/server/availability"
	"github.com/tutorcal/tutorcal/server/queryengine"
)

// LLMConfig holds the LLM parser configuration. Any OpenAI-compatible
// endpoint works.
type LLMConfig struct {
	BaseURL           string
	APIKey            string
	Model             string
	Timeout           time.Duration
	RequestsPerMinute int
}

// DefaultLLMConfig returns the default configuration.
func DefaultLLMConfig() *LLMConfig {
	return &LLMConfig{
		BaseURL:           "https://api.openai.com/v1",
		Model:             "gpt-4o-mini",
		Timeout:           30 * time.Second,
		RequestsPerMinute: 30,
	}
}

const systemPromptTemplate = `You translate scheduling questions about an instructor's availability calendar into JSON queries.
Today is %s.
Respond with a single JSON object and nothing else:
{
  "intent": "find_days" | "find_slots" | "suggest_times",
  "dateRange": {"start": "yyyy-MM-dd", "end": "yyyy-MM-dd"},
  "timePreference": "morning" | "afternoon" | "evening" | "any",
  "slotDuration": "1hour" | "half-day" | "full-day",
  "count": positive integer, at most 1000
}
Omit timePreference, slotDuration, and count when the question does not imply them.
Keep the date range within 90 days.`

// LLMParser asks an OpenAI-compatible chat model to translate text into a
// structured query. Calls are rate limited; failures surface as
// PARSER_UNAVAILABLE so the caller can fall back to the pattern parser.
type LLMParser struct {
	client  *openai.Client
	config  *LLMConfig
	limiter *rate.Limiter
}

// NewLLMParser creates an LLM-backed parser.
func NewLLMParser(cfg *LLMConfig) (*LLMParser, error) {
	if cfg == nil {
		cfg = DefaultLLMConfig()
	}
	if cfg.APIKey == "" {
		return nil, apperrors.InvalidArgument("LLM parser requires an API key")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 30
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &LLMParser{
		client:  openai.NewClientWithConfig(clientConfig),
		config:  cfg,
		limiter: rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), cfg.RequestsPerMinute),
	}, nil
}

// Name implements Parser.
func (p *LLMParser) Name() string {
	return "llm"
}

// Parse implements Parser.
func (p *LLMParser) Parse(ctx context.Context, text string, today time.Time) (*queryengine.Query, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, apperrors.ParserUnavailable("rate limiter interrupted", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.config.Model,
		Temperature: 0,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: fmt.Sprintf(systemPromptTemplate, today.Format(availability.DateLayout)),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: text,
			},
		},
	})
	if err != nil {
		return nil, apperrors.ParserUnavailable("chat completion failed", err)
	}
	if len(resp.Choices) == 0 {
		return nil, apperrors.ParserUnavailable("chat completion returned no choices", nil)
	}

	return decodeQueryJSON(resp.Choices[0].Message.Content)
}

// decodeQueryJSON decodes the model output, tolerating markdown code
// fences. The result is only shape-decoded here; full validation is the
// engine's job.
func decodeQueryJSON(content string) (*queryengine.Query, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var q queryengine.Query
	if err := json.Unmarshal([]byte(content), &q); err != nil {
		return nil, apperrors.ParserUnavailable("model returned malformed JSON", err)
	}
	return &q, nil
}
