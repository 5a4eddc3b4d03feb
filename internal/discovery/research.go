package discovery

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/halo-ir/scout-cli/pkg/anthropic"
	"github.com/halo-ir/scout-cli/pkg/perplexity"
)

// Researcher issues one research-capable completion: a natural-language
// prompt answered with live web search behind it. The response is
// free-form text expected to contain a JSON value somewhere in its body.
type Researcher interface {
	Research(ctx context.Context, prompt string) (string, error)
}

// PerplexityResearcher backs Researcher with the Perplexity sonar API.
type PerplexityResearcher struct {
	Client perplexity.Client
	Model  string
}

func (r *PerplexityResearcher) Research(ctx context.Context, prompt string) (string, error) {
	maxTokens := 4096
	resp, err := r.Client.ChatCompletion(ctx, perplexity.ChatCompletionRequest{
		Model: r.Model,
		Messages: []perplexity.Message{
			{Role: "user", Content: prompt},
		},
		MaxTokens:        &maxTokens,
		WebSearchOptions: &perplexity.WebSearchOptions{SearchContextSize: "high"},
	})
	if err != nil {
		return "", eris.Wrap(err, "research: perplexity completion")
	}
	return resp.Text(), nil
}

// AnthropicResearcher backs Researcher with Claude plus the web_search
// tool.
type AnthropicResearcher struct {
	Client      anthropic.Client
	Model       string
	MaxSearches int64
}

func (r *AnthropicResearcher) Research(ctx context.Context, prompt string) (string, error) {
	maxSearches := r.MaxSearches
	if maxSearches <= 0 {
		maxSearches = 8
	}
	resp, err := r.Client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     r.Model,
		MaxTokens: 4096,
		Messages: []anthropic.Message{
			{Role: "user", Content: prompt},
		},
		EnableWebSearch: true,
		MaxSearches:     maxSearches,
	})
	if err != nil {
		return "", eris.Wrap(err, "research: anthropic completion")
	}
	return resp.Text(), nil
}

// FallbackResearcher tries the primary backend and falls back to the
// secondary on transport failure. Same shape as the crawl phase's
// primary/fallback provider pairing.
type FallbackResearcher struct {
	Primary  Researcher
	Fallback Researcher
}

func (r *FallbackResearcher) Research(ctx context.Context, prompt string) (string, error) {
	text, err := r.Primary.Research(ctx, prompt)
	if err == nil {
		return text, nil
	}
	if r.Fallback == nil || ctx.Err() != nil {
		return "", err
	}
	zap.L().Warn("research: primary backend failed, using fallback", zap.Error(err))
	return r.Fallback.Research(ctx, prompt)
}
