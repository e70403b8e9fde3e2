package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"net"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/generalux/achileads/internal/config"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// NoResponse is returned in place of an empty model answer.
const NoResponse = "No response generated"

// ProspectSystemPrompt asks for a market overview followed by a list of ten
// prospect companies in a shape the extractor can read.
const ProspectSystemPrompt = `You are a helpful assistant for GeneralUX, a platform that helps businesses find prospects and LinkedIn profiles for their target markets. When given a target industry or market, provide ONLY the following information:

1. Market Analysis: Brief overview of growth trends and current market stage
2. Prospect Companies: For each company, provide only:
   - Company name along with a 200 word introduction about the company, where it is based out of (eg. Bangalore, India), what year was it founded, if it is a SME or Large enterprise.
   - Domain name (e.g., example.com)

Do not include any additional information such as LinkedIn profiles, detailed company descriptions, emails, phone numbers, or other data. Keep the response concise and focused on these specific requirements only. Important: give 10 such prospects in the list.`

// Generator is a chat model that answers one prompt under a system instruction.
type Generator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

type LLMService struct {
	Client  Generator
	Timeout time.Duration
}

// NewLLMService builds the provider client named in cfg.
func NewLLMService(ctx context.Context, cfg config.LLMConfig) (*LLMService, error) {
	client, err := newGenerator(ctx, cfg)
	if err != nil {
		return nil, err
	}
	log.Printf("🤖 LLM provider %s (model %s) ready", cfg.Provider, cfg.Model)
	return &LLMService{Client: client, Timeout: cfg.Timeout}, nil
}

func newGenerator(ctx context.Context, cfg config.LLMConfig) (Generator, error) {
	if cfg.APIKey == "" && cfg.Provider != "ollama" {
		return nil, fmt.Errorf("%w: %s needs an API key (LLM_API_KEY)", ErrNotConfigured, cfg.Provider)
	}

	var (
		model llms.Model
		err   error
	)
	switch cfg.Provider {
	case "googleai":
		model, err = googleai.New(ctx,
			googleai.WithAPIKey(cfg.APIKey),
			googleai.WithDefaultModel(cfg.Model),
		)
	case "openai", "azure":
		opts := []openai.Option{openai.WithToken(cfg.APIKey), openai.WithModel(cfg.Model)}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		if cfg.Provider == "azure" {
			if cfg.BaseURL == "" {
				return nil, fmt.Errorf("%w: azure needs LLM_BASE_URL", ErrNotConfigured)
			}
			opts = append(opts, openai.WithAPIType(openai.APITypeAzure), openai.WithAPIVersion(cfg.APIVersion))
		}
		model, err = openai.New(opts...)
	case "ollama":
		opts := []ollama.Option{ollama.WithModel(cfg.Model)}
		if cfg.BaseURL != "" {
			opts = append(opts, ollama.WithServerURL(cfg.BaseURL))
		}
		model, err = ollama.New(opts...)
	case "anthropic":
		return NewAnthropicGenerator(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s client: %w", cfg.Provider, err)
	}
	return &LangChainGenerator{Model: model, MaxTokens: cfg.MaxTokens, Temperature: cfg.Temperature}, nil
}

// Generate sends prompt with the prospecting system instruction.
func (s *LLMService) Generate(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", ErrPromptRequired
	}
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := s.Client.Generate(ctx, ProspectSystemPrompt, prompt)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	log.Printf("🧠 LLM answered in %s (%d chars)", time.Since(start).Round(time.Millisecond), len(resp))
	if strings.TrimSpace(resp) == "" {
		return NoResponse, nil
	}
	return resp, nil
}

// LangChainGenerator adapts any langchaingo chat model.
type LangChainGenerator struct {
	Model       llms.Model
	MaxTokens   int
	Temperature float64
}

func (g *LangChainGenerator) Generate(ctx context.Context, system, prompt string) (string, error) {
	msgs := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, system),
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}
	resp, err := g.Model.GenerateContent(ctx, msgs,
		llms.WithMaxTokens(g.MaxTokens),
		llms.WithTemperature(g.Temperature),
	)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Content, nil
}

// AnthropicGenerator calls the Messages API, retrying rate limits and
// server errors with exponential backoff.
type AnthropicGenerator struct {
	client         anthropic.Client
	model          anthropic.Model
	maxTokens      int64
	temperature    float64
	maxRetries     int
	initialBackoff time.Duration
}

func NewAnthropicGenerator(cfg config.LLMConfig, opts ...option.RequestOption) *AnthropicGenerator {
	opts = append([]option.RequestOption{option.WithAPIKey(cfg.APIKey)}, opts...)
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &AnthropicGenerator{
		client:         anthropic.NewClient(opts...),
		model:          anthropic.Model(cfg.Model),
		maxTokens:      int64(cfg.MaxTokens),
		temperature:    cfg.Temperature,
		maxRetries:     3,
		initialBackoff: time.Second,
	}
}

func (g *AnthropicGenerator) Generate(ctx context.Context, system, prompt string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:       g.model,
		MaxTokens:   g.maxTokens,
		Temperature: anthropic.Float(g.temperature),
		System:      []anthropic.TextBlockParam{{Text: system}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}

	var lastErr error
	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := g.initialBackoff * time.Duration(math.Pow(2, float64(attempt-1)))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		message, err := g.client.Messages.New(ctx, params)
		if err == nil {
			var sb strings.Builder
			for _, block := range message.Content {
				if block.Type == "text" {
					sb.WriteString(block.Text)
				}
			}
			return sb.String(), nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if !isRetryable(err) {
			return "", fmt.Errorf("non-retryable error: %w", err)
		}
		log.Printf("⚠️ Anthropic API error: %v. Retrying...", err)
	}
	return "", fmt.Errorf("failed after %d attempts: %w", g.maxRetries+1, lastErr)
}

func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429 || apiErr.StatusCode >= 500
	}
	return false
}
