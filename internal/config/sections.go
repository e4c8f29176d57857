package config

import (
	"time"

	"github.com/napolitain/rts-core/internal/engine"
)

// SimulationConfig holds the match rules that are not part of the ruleset tables
type SimulationConfig struct {
	Players                  int    `mapstructure:"players" validate:"min=1,max=4"`
	Seed                     uint64 `mapstructure:"seed"`
	TickRate                 int    `mapstructure:"tick_rate" validate:"min=1,max=1000"`
	MaxQueueLength           int    `mapstructure:"max_queue_length" validate:"min=1"`
	RefundPercent            int    `mapstructure:"refund_percent" validate:"min=0,max=100"`
	DepositTicks             int    `mapstructure:"deposit_ticks" validate:"min=1"`
	StartingWorkers          int    `mapstructure:"starting_workers" validate:"min=0"`
	ConstructionStartPercent int    `mapstructure:"construction_start_percent" validate:"min=1,max=100"`
}

// EngineOptions converts the section into engine options. Logger and recorder are
// left for the caller.
func (s SimulationConfig) EngineOptions() engine.Options {
	return engine.Options{
		Players:                  s.Players,
		Seed:                     s.Seed,
		TickRate:                 s.TickRate,
		MaxQueueLength:           s.MaxQueueLength,
		RefundPercent:            s.RefundPercent,
		DepositTicks:             s.DepositTicks,
		StartingWorkers:          s.StartingWorkers,
		ConstructionStartPercent: s.ConstructionStartPercent,
	}
}

// MapConfig selects a map file, or the size and seed of a generated one
type MapConfig struct {
	// Path of a map payload; empty generates a map
	Path   string `mapstructure:"path"`
	Width  int    `mapstructure:"width" validate:"min=8,max=4096"`
	Height int    `mapstructure:"height" validate:"min=8,max=4096"`
	Seed   uint64 `mapstructure:"seed"`
}

// RulesetConfig points at the YAML game data; empty uses the built-in tables
type RulesetConfig struct {
	Path string `mapstructure:"path"`
}

// DatabaseConfig holds the replay store location
type DatabaseConfig struct {
	// SQLite file path, or ":memory:"
	Path string `mapstructure:"path" validate:"required"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	// Log level: debug, info, warn, error
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`

	// Log format: json, text
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
}

// MetricsConfig holds Prometheus exposure configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required,startswith=/"`
}

// ObserverConfig holds the snapshot server configuration
type ObserverConfig struct {
	Address          string        `mapstructure:"address" validate:"required,hostname_port"`
	SnapshotInterval time.Duration `mapstructure:"snapshot_interval" validate:"min=10ms"`
}
