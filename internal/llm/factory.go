package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/store"
)

// NewProvider creates a Provider from configuration.
// Real providers are wrapped with the event logging middleware. Requests
// are never retried.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, logger zerolog.Logger) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter, cfg.Timeout)
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic, cfg.Timeout)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI, cfg.Timeout)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini, cfg.Timeout)
	case "mock":
		mock := NewMockProvider()
		if cfg.Mock.Reply != "" {
			mock.SetDefault(MockResponse{Content: json.RawMessage(cfg.Mock.Reply)})
		}
		return mock, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	if eventRepo == nil {
		return base, nil
	}
	return WithLogging(base, cfg.Provider, eventRepo, logger), nil
}
