package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/napolitain/rts-core/internal/engine"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rts.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultsMatchEngine(t *testing.T) {
	cfg := Default()
	require.NoError(t, ValidateConfig(cfg))

	assert.Equal(t, engine.DefaultOptions(), cfg.Simulation.EngineOptions())
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, 100*time.Millisecond, cfg.Observer.SnapshotInterval)
	assert.Equal(t, 32, cfg.Map.Width)
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
simulation:
  players: 3
  seed: 77
  refund_percent: 75
map:
  width: 48
logging:
  level: debug
  format: json
observer:
  snapshot_interval: 250ms
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Simulation.Players)
	assert.Equal(t, uint64(77), cfg.Simulation.Seed)
	assert.Equal(t, 75, cfg.Simulation.RefundPercent)
	assert.Equal(t, 30, cfg.Simulation.TickRate)
	assert.Equal(t, 48, cfg.Map.Width)
	assert.Equal(t, 32, cfg.Map.Height)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 250*time.Millisecond, cfg.Observer.SnapshotInterval)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "simulation:\n  tick_rate: 20\n")
	t.Setenv("RTS_SIMULATION_TICK_RATE", "60")
	t.Setenv("RTS_DATABASE_PATH", ":memory:")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.Simulation.TickRate)
	assert.Equal(t, ":memory:", cfg.Database.Path)
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"log level", "logging:\n  level: loud\n", "Logging.Level"},
		{"refund", "simulation:\n  refund_percent: 120\n", "Simulation.RefundPercent"},
		{"players", "simulation:\n  players: 9\n", "Simulation.Players"},
		{"address", "observer:\n  address: nowhere\n", "Observer.Address"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.ErrorContains(t, err, "invalid configuration")
			assert.ErrorContains(t, err, tt.field)
		})
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")
}
