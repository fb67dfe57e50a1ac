package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/talgya/outpost/internal/api"
	"github.com/talgya/outpost/internal/engine"
	"github.com/talgya/outpost/internal/entropy"
	"github.com/talgya/outpost/internal/persistence"
	"github.com/talgya/outpost/internal/world"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the simulation and its HTTP API",
	Long: `Generate the outposts from the seed and run the simulation clock
together with the HTTP API until interrupted. Mission state, events and
the trade profit cache are journaled to SQLite once per sol.`,
	RunE: runSimulation,
}

func runSimulation(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if dir := filepath.Dir(tuning.Server.DB); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}
	db, err := persistence.Open(tuning.Server.DB)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer db.Close()
	slog.Info("journal opened", "path", tuning.Server.DB)

	seed := tuning.Seed
	if db.HasJournal() {
		prevSeed, prevTick, err := db.Resume()
		if err != nil {
			return fmt.Errorf("read journal: %w", err)
		}
		slog.Info("previous run found",
			"seed", prevSeed,
			"last_tick", humanize.Comma(int64(prevTick)),
			"mars_time", engine.MarsTime(prevTick),
		)
		if seed == 0 {
			seed = prevSeed
		}
	}
	if seed == 0 {
		seed = entropy.CryptoSeed()
	}

	sim, err := engine.Generate(tuning, seed)
	if err != nil {
		return fmt.Errorf("generate outposts: %w", err)
	}
	status := sim.Status()
	slog.Info("outposts ready",
		"seed", seed,
		"settlements", status.Settlements,
		"population", status.Stats.Population,
	)
	for t, c := range world.TerrainCounts(sim.Map) {
		slog.Debug("terrain", "type", world.TerrainName(t), "hexes", c)
	}

	eng := engine.NewEngine(tuning.Engine.Speed)
	sim.Attach(eng)
	eng.OnSol = func(tick uint64) {
		sim.TickSol(tick)
		if err := db.SaveSnapshot(sim.TakeSnapshot()); err != nil {
			slog.Error("journal snapshot failed", "tick", tick, "error", err)
		}
	}

	uptime := engine.NewUptime(eng.Tick)
	if tuning.Engine.Speed == 0 {
		uptime.Pause()
	}
	srv := &api.Server{
		Sim:      sim,
		Eng:      eng,
		DB:       db,
		Uptime:   uptime,
		Port:     tuning.Server.Port,
		AdminKey: tuning.Server.AdminKey,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := eng.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("engine: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return srv.ListenAndServe(gctx)
	})

	runErr := g.Wait()

	if err := db.SaveSnapshot(sim.TakeSnapshot()); err != nil {
		slog.Error("final snapshot failed", "error", err)
	}
	slog.Info("simulation stopped", "uptime", uptime.Report(sim.CurrentTick()))
	return runErr
}
