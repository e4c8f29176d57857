package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/napolitain/rts-core/internal/autopilot"
	"github.com/napolitain/rts-core/internal/engine"
	"github.com/napolitain/rts-core/internal/replay"
	"github.com/napolitain/rts-core/internal/storage"
)

func newSimulateCmd() *cobra.Command {
	var (
		seconds int
		record  bool
		quiet   bool
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run an autopiloted match and print the outcome",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(cmd.Context(), seconds, record, quiet)
		},
	}
	cmd.Flags().IntVarP(&seconds, "seconds", "s", 120, "Game seconds to simulate")
	cmd.Flags().BoolVarP(&record, "record", "r", false, "Store the match in the replay database")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Only print the digest")
	return cmd
}

func runSimulate(ctx context.Context, seconds int, record, quiet bool) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	rules, rulesYAML, err := loadRules(cfg.Ruleset.Path)
	if err != nil {
		return err
	}
	g, err := loadMap(cfg.Map, cfg.Simulation.Players)
	if err != nil {
		return err
	}
	e, payload, err := newMatch(cfg.Simulation, g, rules, log, nil)
	if err != nil {
		return err
	}

	rec := replay.NewRecorder(e)
	pilot := autopilot.New(autopilot.DefaultOptions(), log, allPlayers(e.Players())...)
	counts := make(map[engine.EventType]int)
	ticks := int64(seconds) * int64(e.TickRate())
	for e.Tick() < ticks {
		pilot.Step(e, rec)
		e.AdvanceTick()
		for _, ev := range e.DrainEvents() {
			counts[ev.Type]++
		}
	}

	digest, err := replay.Digest(e)
	if err != nil {
		return err
	}
	if !quiet {
		printResources(e)
		printEvents(counts)
		stats := pilot.Stats()
		color.New(color.FgYellow).Printf("Orders: %d issued, %d rejected\n", stats.Issued, stats.Rejected)
	}
	color.New(color.FgGreen, color.Bold).Printf("Tick %d digest %s\n", e.Tick(), replay.FormatDigest(digest))

	if !record {
		return nil
	}
	db, err := storage.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	repo := storage.NewRepository(db)
	m := &storage.Match{Settings: cfg.Simulation, Map: payload, Rules: rulesYAML}
	if err := repo.CreateMatch(ctx, m); err != nil {
		return err
	}
	if err := repo.AppendCommands(ctx, m.ID, rec.Commands()); err != nil {
		return err
	}
	if err := repo.SaveDigest(ctx, m.ID, e.Tick(), replay.FormatDigest(digest)); err != nil {
		return err
	}
	color.New(color.FgCyan).Printf("Recorded match %s (%d commands)\n", m.ID, len(rec.Commands()))
	return nil
}

func printResources(e *engine.Engine) {
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Player", "Wood", "Meat", "Stone", "Metal", "Population", "Research"}),
	)
	for _, ps := range e.Snapshot().Players {
		s := ps.Ledger.Stock
		_ = table.Append([]string{
			strconv.Itoa(int(ps.Player)),
			strconv.Itoa(s.Wood),
			strconv.Itoa(s.Meat),
			strconv.Itoa(s.Stone),
			strconv.Itoa(s.Metal),
			fmt.Sprintf("%d/%d", ps.Ledger.Population, ps.Ledger.PopulationCap),
			strconv.Itoa(len(ps.Research)),
		})
	}
	_ = table.Render()
}

func printEvents(counts map[engine.EventType]int) {
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Event", "Count"}),
	)
	for _, et := range []engine.EventType{
		engine.EventUnitSpawned,
		engine.EventResourcesDeposited,
		engine.EventWorkCompleted,
		engine.EventBuildingCompleted,
		engine.EventResearchCompleted,
		engine.EventWorkCancelled,
		engine.EventBuildingDestroyed,
		engine.EventUnitDied,
	} {
		if counts[et] > 0 {
			_ = table.Append([]string{et.String(), strconv.Itoa(counts[et])})
		}
	}
	_ = table.Render()
}
