// Package llm wraps chat-completion providers behind a single prompt/response call.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"

	defaultOpenAIModel    = "gpt-4o-mini"
	defaultAnthropicModel = "claude-3-5-haiku-latest"
	defaultMaxTokens      = 256
	defaultTimeout        = 30 * time.Second
)

var (
	ErrMissingAPIKey    = errors.New("missing API key")
	ErrUnknownProvider  = errors.New("unknown LLM provider")
	ErrEmptyCompletion  = errors.New("empty completion")
	ErrProviderRejected = errors.New("provider request failed")
)

// Completer sends one system + user prompt pair and returns the text reply.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Config selects and configures a provider.
type Config struct {
	Provider  string
	Model     string
	APIKey    string
	BaseURL   string
	Timeout   time.Duration
	MaxTokens int
	// MaxRetries is passed to SDKs that retry on their own; negative keeps the SDK default.
	MaxRetries int
}

func (c Config) withDefaults() Config {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	if c.Provider == "" {
		c.Provider = ProviderOpenAI
	}
	if c.Model == "" {
		switch c.Provider {
		case ProviderAnthropic:
			c.Model = defaultAnthropicModel
		default:
			c.Model = defaultOpenAIModel
		}
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = defaultMaxTokens
	}
	return c
}

// ModelName returns the model that New would use for cfg.
func ModelName(cfg Config) string {
	return cfg.withDefaults().Model
}

// New builds the configured provider client wrapped in a circuit breaker.
func New(cfg Config, logger *zap.Logger) (Completer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg = cfg.withDefaults()

	var (
		inner Completer
		err   error
	)
	switch cfg.Provider {
	case ProviderOpenAI:
		inner, err = NewOpenAI(cfg)
	case ProviderAnthropic:
		inner, err = NewAnthropic(cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("LLM client initialized",
		zap.String("provider", cfg.Provider),
		zap.String("model", cfg.Model))
	return NewBreaker(cfg.Provider, inner, logger), nil
}
