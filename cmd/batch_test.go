package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halo-ir/scout-cli/internal/model"
)

func TestReadBatchFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
runs:
  - name: sea-seed
    config:
      strategies: [thesis, geography]
      min_fit_score: 60
      max_results: 5
      geography_filter: Southeast Asia
  - config:
      strategies: [news]
      min_fit_score: 50
      max_results: 10
`), 0o644))

	specs, err := readBatchFile(path)
	require.NoError(t, err)
	require.Len(t, specs, 2)

	assert.Equal(t, "sea-seed", specs[0].Name)
	assert.Equal(t, []model.Strategy{model.StrategyThesis, model.StrategyGeography}, specs[0].Config.Strategies)
	assert.Equal(t, 60, specs[0].Config.MinFitScore)
	assert.Equal(t, "Southeast Asia", specs[0].Config.GeographyFilter)

	// Unnamed runs get positional names.
	assert.Equal(t, "run-2", specs[1].Name)
	assert.Equal(t, []model.Strategy{model.StrategyNews}, specs[1].Config.Strategies)
}

func TestReadBatchFile_Missing(t *testing.T) {
	_, err := readBatchFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read batch file")
}

func TestDrainRun_StatsFromComplete(t *testing.T) {
	events := make(chan model.DiscoveryEvent, 3)
	events <- model.DiscoveryEvent{Type: model.EventStatus, Message: "Searching"}
	events <- model.DiscoveryEvent{Type: model.EventComplete, Stats: &model.Stats{Total: 2, Added: 1, Duplicates: 1}}
	events <- model.DiscoveryEvent{Type: model.EventInvestorFound, Data: &model.DiscoveredInvestor{Name: "Jane Roe"}}
	close(events)

	stats, err := drainRun(events)
	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Duplicates)
}

func TestDrainRun_Error(t *testing.T) {
	events := make(chan model.DiscoveryEvent, 1)
	events <- model.DiscoveryEvent{Type: model.EventError, Message: "No discovery strategies selected"}
	close(events)

	_, err := drainRun(events)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "strategies")
}
