package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/napolitain/rts-core/internal/config"
	"github.com/napolitain/rts-core/internal/engine"
	"github.com/napolitain/rts-core/internal/grid"
	"github.com/napolitain/rts-core/internal/loader"
	"github.com/napolitain/rts-core/internal/logging"
	"github.com/napolitain/rts-core/internal/models"
	"github.com/napolitain/rts-core/internal/ruleset"
)

var (
	configFile string
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rts-sim",
		Short: "Deterministic tile RTS simulation",
		Long: `Runs, records and replays matches of the tile based RTS simulation,
generates maps and serves live match snapshots.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to YAML config file (default ./rts.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")

	rootCmd.AddCommand(
		newSimulateCmd(),
		newMapgenCmd(),
		newReplayCmd(),
		newMatchesCmd(),
		newServeCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

// setup loads the configuration and builds the logger every command shares
func setup() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	log := logging.New(cfg.Logging, os.Stderr)
	if verbose {
		log = log.Level(zerolog.DebugLevel)
	}
	return cfg, log, nil
}

// loadRules returns the ruleset and the YAML it came from; no path means the
// built-in tables and no YAML
func loadRules(path string) (*ruleset.Ruleset, []byte, error) {
	if path == "" {
		return ruleset.Default(), nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read ruleset %s: %w", path, err)
	}
	rules, err := parseRules(data)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load ruleset %s: %w", path, err)
	}
	return rules, data, nil
}

func parseRules(data []byte) (*ruleset.Ruleset, error) {
	if len(data) == 0 {
		return ruleset.Default(), nil
	}
	tables, err := loader.ParseTables(data)
	if err != nil {
		return nil, err
	}
	return ruleset.New(tables)
}

// loadMap decodes the configured map file or generates one for players
func loadMap(cfg config.MapConfig, players int) (*grid.Grid, error) {
	if cfg.Path == "" {
		return generateMap(cfg, players)
	}
	data, err := os.ReadFile(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read map %s: %w", cfg.Path, err)
	}
	g, err := grid.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode map %s: %w", cfg.Path, err)
	}
	return g, nil
}

func generateMap(cfg config.MapConfig, players int) (*grid.Grid, error) {
	opts := grid.DefaultGenerateOptions()
	opts.Width = cfg.Width
	opts.Height = cfg.Height
	opts.Players = players
	g, err := grid.Generate(opts, grid.NewRand(cfg.Seed))
	if err != nil {
		return nil, fmt.Errorf("failed to generate map: %w", err)
	}
	return g, nil
}

// newMatch starts an engine on g. The returned payload is the map as it was before
// the match took ownership of the grid.
func newMatch(sim config.SimulationConfig, g *grid.Grid, rules *ruleset.Ruleset, log zerolog.Logger, rec engine.Recorder) (*engine.Engine, []byte, error) {
	payload, err := g.MarshalBinary()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode map: %w", err)
	}
	opts := sim.EngineOptions()
	opts.Logger = &log
	opts.Recorder = rec
	e, err := engine.New(g, rules, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to start match: %w", err)
	}
	return e, payload, nil
}

func allPlayers(n int) []models.PlayerID {
	out := make([]models.PlayerID, n)
	for i := range out {
		out[i] = models.PlayerID(i)
	}
	return out
}
