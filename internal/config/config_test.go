package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/halo-ir/scout-cli/internal/model"
)

func chTempDir(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	chTempDir(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "scout.db", cfg.Store.SQLitePath)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 3, cfg.Batch.MaxConcurrentRuns)
	assert.Equal(t, "https://api.perplexity.ai", cfg.Perplexity.BaseURL)
	assert.Equal(t, "sonar-pro", cfg.Perplexity.Model)
	assert.InDelta(t, 2.0, cfg.Perplexity.RPS, 0.001)
	assert.Equal(t, 8, cfg.Anthropic.MaxSearches)
	assert.True(t, cfg.Research.Fallback)
	assert.Equal(t, 50, cfg.Discovery.MinFitScore)
	assert.Equal(t, 10, cfg.Discovery.MaxResults)
}

func TestLoadFromYAML(t *testing.T) {
	chTempDir(t)

	yaml := `
store:
  driver: sqlite
  sqlite_path: /tmp/leads.db
log:
  level: debug
  format: console
server:
  port: 9090
discovery:
  strategies: [thesis, news]
  min_fit_score: 65
  max_results: 5
  geography_filter: Southeast Asia
target:
  company: Halo
  stage: seed
  sectors: [AI, logistics]
`
	require.NoError(t, os.WriteFile(filepath.Join(".", "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "/tmp/leads.db", cfg.Store.SQLitePath)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []model.Strategy{model.StrategyThesis, model.StrategyNews}, cfg.Discovery.Strategies)
	assert.Equal(t, 65, cfg.Discovery.MinFitScore)
	assert.Equal(t, 5, cfg.Discovery.MaxResults)
	assert.Equal(t, "Southeast Asia", cfg.Discovery.GeographyFilter)
	assert.Equal(t, "Halo", cfg.Target.Company)
	assert.Equal(t, "seed", cfg.Target.Stage)
	assert.Equal(t, []string{"AI", "logistics"}, cfg.Target.Sectors)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.NotNil(t, zap.L())

	require.NoError(t, InitLogger(LogConfig{Level: "warn", Format: "json"}))
	assert.True(t, zap.L().Core().Enabled(zap.WarnLevel))
	assert.False(t, zap.L().Core().Enabled(zap.InfoLevel))
}

func TestInitLogger_BadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "shout", Format: "json"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log level")
}
