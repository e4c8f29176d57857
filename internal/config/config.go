// Package config loads match, storage and server settings from a YAML file,
// RTS_-prefixed environment variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the main configuration struct combining all sub-configs
type Config struct {
	Simulation SimulationConfig `mapstructure:"simulation"`
	Map        MapConfig        `mapstructure:"map"`
	Ruleset    RulesetConfig    `mapstructure:"ruleset"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Observer   ObserverConfig   `mapstructure:"observer"`
}

// LoadConfig loads configuration from multiple sources with priority:
// 1. Environment variables (highest priority)
// 2. Config file (rts.yaml)
// 3. Defaults (lowest priority)
func LoadConfig(configPath string) (*Config, error) {
	// a missing .env is fine
	_ = godotenv.Load()

	v := viper.New()
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("rts")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	v.SetEnvPrefix("RTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	SetDefaults(&cfg)

	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// bindEnv registers every key so AutomaticEnv sees variables for keys that are
// absent from the file
func bindEnv(v *viper.Viper) {
	for _, key := range []string{
		"simulation.players", "simulation.seed", "simulation.tick_rate", "simulation.max_queue_length",
		"simulation.refund_percent", "simulation.deposit_ticks", "simulation.starting_workers",
		"simulation.construction_start_percent",
		"map.path", "map.width", "map.height", "map.seed",
		"ruleset.path",
		"database.path",
		"logging.level", "logging.format",
		"metrics.enabled", "metrics.path",
		"observer.address", "observer.snapshot_interval",
	} {
		_ = v.BindEnv(key)
	}
}

// Default returns the configuration used when no file or environment is present
func Default() *Config {
	cfg := &Config{}
	SetDefaults(cfg)
	return cfg
}
