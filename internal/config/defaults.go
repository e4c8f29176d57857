package config

import (
	"time"

	"github.com/napolitain/rts-core/internal/engine"
)

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	def := engine.DefaultOptions()

	// Simulation defaults
	if cfg.Simulation.Players == 0 {
		cfg.Simulation.Players = def.Players
	}
	if cfg.Simulation.Seed == 0 {
		cfg.Simulation.Seed = def.Seed
	}
	if cfg.Simulation.TickRate == 0 {
		cfg.Simulation.TickRate = def.TickRate
	}
	if cfg.Simulation.MaxQueueLength == 0 {
		cfg.Simulation.MaxQueueLength = def.MaxQueueLength
	}
	if cfg.Simulation.RefundPercent == 0 {
		cfg.Simulation.RefundPercent = def.RefundPercent
	}
	if cfg.Simulation.DepositTicks == 0 {
		cfg.Simulation.DepositTicks = def.DepositTicks
	}
	if cfg.Simulation.StartingWorkers == 0 {
		cfg.Simulation.StartingWorkers = def.StartingWorkers
	}
	if cfg.Simulation.ConstructionStartPercent == 0 {
		cfg.Simulation.ConstructionStartPercent = def.ConstructionStartPercent
	}

	// Map defaults
	if cfg.Map.Width == 0 {
		cfg.Map.Width = 32
	}
	if cfg.Map.Height == 0 {
		cfg.Map.Height = 32
	}
	if cfg.Map.Seed == 0 {
		cfg.Map.Seed = 1
	}

	// Database defaults
	if cfg.Database.Path == "" {
		cfg.Database.Path = "rts-replays.db"
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}

	// Metrics defaults
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}

	// Observer defaults
	if cfg.Observer.Address == "" {
		cfg.Observer.Address = "localhost:8080"
	}
	if cfg.Observer.SnapshotInterval == 0 {
		cfg.Observer.SnapshotInterval = 100 * time.Millisecond
	}
}
