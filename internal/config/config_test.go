package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ozfortress/slurwatch/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("", t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "https://ozfortress.com", cfg.Roster.BaseURL)
	assert.Equal(t, 300, cfg.Roster.MaxProbes)
	assert.Equal(t, 20, cfg.Roster.NotFoundStreak)
	assert.Equal(t, 200*time.Millisecond, cfg.Roster.ProbeDelay)

	assert.Equal(t, "https://slurs.tf", cfg.Slurs.BaseURL)
	assert.Equal(t, "total", cfg.Slurs.Category)
	assert.Equal(t, 10, cfg.Slurs.BatchSize)
	assert.Equal(t, 100, cfg.Slurs.PageLimit)
	assert.Equal(t, 1100*time.Millisecond, cfg.Slurs.PageDelay)
	assert.Equal(t, []time.Duration{10 * time.Second, 30 * time.Second, 5 * time.Minute, 15 * time.Minute}, cfg.Slurs.RetrySchedule)

	assert.Equal(t, 25, cfg.Ingest.LookbackHours)
	assert.False(t, cfg.Ingest.AllowlistDrop)
	assert.Equal(t, "reports", cfg.Report.OutputDir)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
debug: true
database:
  host: db.internal
  dbname: slurwatch
roster:
  max_probes: 50
slurs:
  batch_size: 5
ingest:
  allowlist_drop: true
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o600))

	cfg, err := config.Load(configPath, dir)
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 50, cfg.Roster.MaxProbes)
	assert.Equal(t, 5, cfg.Slurs.BatchSize)
	assert.True(t, cfg.Ingest.AllowlistDrop)

	// Untouched values keep their defaults
	assert.Equal(t, 20, cfg.Roster.NotFoundStreak)
}

func TestBatchSizeClamped(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("slurs:\n  batch_size: 50\n"), 0o600))

	cfg, err := config.Load(configPath, dir)
	require.NoError(t, err)

	assert.Equal(t, config.MaxBatchSize, cfg.Slurs.BatchSize)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("SLURWATCH_ROSTER_MAX_PROBES", "7")
	t.Setenv("SLURWATCH_DATABASE_HOST", "envhost")

	cfg, err := config.Load("", t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Roster.MaxProbes)
	assert.Equal(t, "envhost", cfg.Database.Host)
}

func TestDSN(t *testing.T) {
	c := config.DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "secret",
		DBName:   "slurwatch",
		SSLMode:  "disable",
	}

	assert.Equal(t, "host=localhost port=5432 user=postgres password=secret dbname=slurwatch sslmode=disable", c.DSN())
}
