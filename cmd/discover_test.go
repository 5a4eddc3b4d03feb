package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/halo-ir/scout-cli/internal/config"
	"github.com/halo-ir/scout-cli/internal/model"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func resetDiscoverFlags() {
	discoverStrategies = nil
	discoverKeywords = nil
	discoverGeography = ""
	discoverStage = ""
	discoverMinScore = -1
	discoverMax = 0
	discoverConfigFile = ""
	discoverXLSXPath = ""
	discoverJSONPath = ""
}

func TestBuildRunConfig_Defaults(t *testing.T) {
	resetDiscoverFlags()
	cfg = &config.Config{}
	cfg.Discovery = model.DiscoveryConfig{MinFitScore: 50, MaxResults: 10}

	runCfg, err := buildRunConfig()
	require.NoError(t, err)

	assert.Equal(t, model.CanonicalStrategies, runCfg.Strategies)
	assert.Equal(t, 50, runCfg.MinFitScore)
	assert.Equal(t, 10, runCfg.MaxResults)
}

func TestBuildRunConfig_FlagsOverride(t *testing.T) {
	resetDiscoverFlags()
	cfg = &config.Config{}
	cfg.Discovery = model.DiscoveryConfig{MinFitScore: 50, MaxResults: 10}
	discoverStrategies = []string{"thesis", "news"}
	discoverGeography = "Southeast Asia"
	discoverMinScore = 70
	discoverMax = 3

	runCfg, err := buildRunConfig()
	require.NoError(t, err)

	assert.Equal(t, []model.Strategy{model.StrategyThesis, model.StrategyNews}, runCfg.Strategies)
	assert.Equal(t, "Southeast Asia", runCfg.GeographyFilter)
	assert.Equal(t, 70, runCfg.MinFitScore)
	assert.Equal(t, 3, runCfg.MaxResults)
}

func TestBuildRunConfig_UnknownStrategy(t *testing.T) {
	resetDiscoverFlags()
	cfg = &config.Config{}
	discoverStrategies = []string{"astrology"}

	_, err := buildRunConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown strategy")
}

func TestBuildRunConfig_FromFile(t *testing.T) {
	resetDiscoverFlags()
	cfg = &config.Config{}
	cfg.Discovery = model.DiscoveryConfig{MinFitScore: 50, MaxResults: 10}

	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
strategies: [portfolio]
min_fit_score: 60
max_results: 4
stage_filter: seed
`), 0o644))
	discoverConfigFile = path

	runCfg, err := buildRunConfig()
	require.NoError(t, err)

	assert.Equal(t, []model.Strategy{model.StrategyPortfolio}, runCfg.Strategies)
	assert.Equal(t, 60, runCfg.MinFitScore)
	assert.Equal(t, 4, runCfg.MaxResults)
	assert.Equal(t, "seed", runCfg.StageFilter)
}

func TestRenderRun_CollectsInvestors(t *testing.T) {
	events := make(chan model.DiscoveryEvent, 6)
	events <- model.DiscoveryEvent{Type: model.EventStatus, Message: "Searching"}
	events <- model.DiscoveryEvent{Type: model.EventStatus, Message: "Profiling Jane Roe (1 of 2)", Progress: &model.Progress{Current: 1, Total: 2}}
	events <- model.DiscoveryEvent{Type: model.EventInvestorProfiled, Message: "Profiled Jane Roe (fit score 85)"}
	events <- model.DiscoveryEvent{Type: model.EventInvestorSkipped, Message: "Skipped John Smith: fit score 30 below threshold 50"}
	events <- model.DiscoveryEvent{Type: model.EventComplete, Message: "Discovery complete", Stats: &model.Stats{Total: 1, Added: 1}}
	events <- model.DiscoveryEvent{Type: model.EventInvestorFound, Data: &model.DiscoveredInvestor{Name: "Jane Roe", Firm: "Acme Ventures", FitScore: 85}}
	close(events)

	var out strings.Builder
	investors, err := renderRun(&out, events)
	require.NoError(t, err)

	require.Len(t, investors, 1)
	assert.Equal(t, "Jane Roe", investors[0].Name)
	assert.Contains(t, out.String(), "[1/2] Profiling Jane Roe")
	assert.Contains(t, out.String(), "Discovery complete")
	assert.Contains(t, out.String(), "Acme Ventures")
}

func TestRenderRun_ErrorEvent(t *testing.T) {
	events := make(chan model.DiscoveryEvent, 1)
	events <- model.DiscoveryEvent{Type: model.EventError, Message: "Investor search failed: dial tcp"}
	close(events)

	var out strings.Builder
	_, err := renderRun(&out, events)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dial tcp")
}

func TestFormatInvestorTable_FlagsDuplicates(t *testing.T) {
	var out strings.Builder
	formatInvestorTable(&out, []model.DiscoveredInvestor{
		{Name: "Jane Roe", Firm: "Acme Ventures", FitScore: 85},
		{Name: "John Smith", Firm: "Beta Capital", FitScore: 60, AlreadyInPipeline: true},
	})

	assert.Contains(t, out.String(), "new")
	assert.Contains(t, out.String(), "in pipeline")
}

func TestWriteInvestorJSON_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	investors := []model.DiscoveredInvestor{{Name: "Jane Roe", FitScore: 85}}

	require.NoError(t, writeInvestorJSON(path, investors))

	back, err := readInvestorJSON(path)
	require.NoError(t, err)
	assert.Equal(t, investors, back)
}
