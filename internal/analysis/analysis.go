// Package analysis turns quiz answers into a named design profile with a
// short narrative, using a text-generation provider.
package analysis

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/llm"
)

// Analysis is the narrative half of a generated profile.
type Analysis struct {
	ProfileName string
	Text        string
}

// Config holds request settings.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns the product defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   1000,
		Temperature: 0.7,
	}
}

// Client requests and parses design analyses.
type Client struct {
	provider llm.Provider
	cfg      Config
	logger   zerolog.Logger
}

// NewClient creates an analysis client.
func NewClient(provider llm.Provider, cfg Config, logger zerolog.Logger) *Client {
	return &Client{provider: provider, cfg: cfg, logger: logger.With().Str("component", "analysis").Logger()}
}

// Analyze sends one request for labels (one comma-joined entry per step)
// and parses the reply. It is never retried.
func (c *Client) Analyze(ctx context.Context, labels []string) (Analysis, error) {
	ctx = llm.WithPurpose(ctx, "design-analysis")

	prompt, err := BuildPrompt(labels)
	if err != nil {
		return Analysis{}, err
	}

	resp, err := c.provider.Generate(ctx, llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: prompt},
		},
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	})
	if err != nil {
		return Analysis{}, &UpstreamError{
			Code:   CodeUpstreamFailed,
			Status: llm.HTTPStatus(err),
			Body:   err.Error(),
			Err:    err,
		}
	}

	raw := string(resp.Content)
	a, tier, err := parseReply(raw)
	if err != nil {
		c.logger.Error().Err(err).Msg("analysis reply has no JSON object")
		return Analysis{}, err
	}
	if tier == TierRegex {
		c.logger.Warn().
			Str("profile_name", a.ProfileName).
			Int("reply_len", len(raw)).
			Msg("analysis reply was not strict JSON, used field extraction")
	}
	return a, nil
}
