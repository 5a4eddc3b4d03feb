package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/halo-ir/scout-cli/internal/discovery"
	"github.com/halo-ir/scout-cli/internal/store"
	"github.com/halo-ir/scout-cli/pkg/anthropic"
	"github.com/halo-ir/scout-cli/pkg/perplexity"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		path := cfg.Store.SQLitePath
		if path == "" {
			path = "scout.db"
		}
		return store.NewSQLite(path)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// initResearcher builds the research provider chain: Perplexity sonar
// primary, Claude web search as fallback when both keys are configured.
func initResearcher() (discovery.Researcher, error) {
	if cfg.Perplexity.Key == "" {
		return nil, eris.New("perplexity API key is required (SCOUT_PERPLEXITY_KEY)")
	}

	opts := []perplexity.Option{
		perplexity.WithModel(cfg.Perplexity.Model),
	}
	if cfg.Perplexity.BaseURL != "" {
		opts = append(opts, perplexity.WithBaseURL(cfg.Perplexity.BaseURL))
	}
	if cfg.Perplexity.RPS > 0 {
		opts = append(opts, perplexity.WithRateLimit(cfg.Perplexity.RPS, 1))
	}
	primary := &discovery.PerplexityResearcher{
		Client: perplexity.NewClient(cfg.Perplexity.Key, opts...),
		Model:  cfg.Perplexity.Model,
	}

	if !cfg.Research.Fallback || cfg.Anthropic.Key == "" {
		return primary, nil
	}

	fallback := &discovery.AnthropicResearcher{
		Client:      anthropic.NewClient(cfg.Anthropic.Key),
		Model:       cfg.Anthropic.Model,
		MaxSearches: int64(cfg.Anthropic.MaxSearches),
	}
	return &discovery.FallbackResearcher{Primary: primary, Fallback: fallback}, nil
}

// initPipeline wires a ready-to-run discovery pipeline. The returned
// store is the caller's to close; it is nil when requireStore is false
// and no store could be opened.
func initPipeline(ctx context.Context, requireStore bool) (*discovery.Pipeline, store.Store, error) {
	researcher, err := initResearcher()
	if err != nil {
		return nil, nil, err
	}

	st, err := initStore(ctx)
	if err != nil {
		if requireStore {
			return nil, nil, err
		}
		// Discovery can run storeless; duplicates just go unflagged.
		zap.L().Warn("store unavailable, running without duplicate flagging", zap.Error(err))
		st = nil
	}
	if st != nil {
		if err := st.Migrate(ctx); err != nil {
			st.Close()
			return nil, nil, err
		}
	}

	return discovery.NewPipeline(researcher, cfg.Target, st), st, nil
}
