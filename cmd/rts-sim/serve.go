package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/napolitain/rts-core/internal/autopilot"
	"github.com/napolitain/rts-core/internal/config"
	"github.com/napolitain/rts-core/internal/engine"
	"github.com/napolitain/rts-core/internal/metrics"
	"github.com/napolitain/rts-core/internal/observer"
)

func newServeCmd() *cobra.Command {
	var pilot bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a real-time match and stream snapshots over websocket",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), pilot)
		},
	}
	cmd.Flags().BoolVar(&pilot, "autopilot", true, "Let the autopilot play every seat")
	return cmd
}

func runServe(parent context.Context, pilotOn bool) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	rules, _, err := loadRules(cfg.Ruleset.Path)
	if err != nil {
		return err
	}
	g, err := loadMap(cfg.Map, cfg.Simulation.Players)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector()
	if err := collector.Register(reg); err != nil {
		return err
	}
	e, _, err := newMatch(cfg.Simulation, g, rules, log, collector)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := observer.NewHub(log)
	go hub.Run(ctx)

	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	if cfg.Metrics.Enabled {
		mux.Handle(cfg.Metrics.Path, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}
	srv := &http.Server{Addr: cfg.Observer.Address, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	errc := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()
	color.New(color.FgCyan).Printf("Serving match on %s (ws /ws", cfg.Observer.Address)
	if cfg.Metrics.Enabled {
		color.New(color.FgCyan).Printf(", metrics %s", cfg.Metrics.Path)
	}
	color.New(color.FgCyan).Println(")")

	var p *autopilot.Pilot
	if pilotOn {
		p = autopilot.New(autopilot.DefaultOptions(), log, allPlayers(e.Players())...)
	}
	loopErr := simulationLoop(ctx, e, p, hub, cfg.Observer, log, errc)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("server shutdown")
	}
	return loopErr
}

// simulationLoop owns the engine: it feeds wall time into the clock at the tick
// rate and publishes snapshots and events on the observer interval
func simulationLoop(ctx context.Context, e *engine.Engine, p *autopilot.Pilot, hub *observer.Hub,
	cfg config.ObserverConfig, log zerolog.Logger, errc <-chan error) error {
	clock := time.NewTicker(time.Second / time.Duration(e.TickRate()))
	defer clock.Stop()
	publish := time.NewTicker(cfg.SnapshotInterval)
	defer publish.Stop()

	var pending []engine.Event
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			log.Info().Int64("tick", e.Tick()).Msg("match stopped")
			return nil

		case err := <-errc:
			return err

		case now := <-clock.C:
			if p != nil {
				p.Step(e, e)
			}
			e.UpdateTime(now.Sub(last))
			last = now
			pending = append(pending, e.DrainEvents()...)

		case <-publish.C:
			if err := hub.Publish(ctx, "snapshot", e.Tick(), e.Snapshot()); err != nil {
				if ctx.Err() != nil {
					continue
				}
				return err
			}
			if len(pending) > 0 {
				if err := hub.Publish(ctx, "events", e.Tick(), pending); err != nil && ctx.Err() == nil {
					return err
				}
				pending = nil
			}
		}
	}
}
