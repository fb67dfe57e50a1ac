package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/talgya/outpost/internal/config"
)

var (
	configPath string
	logLevel   string
	seedFlag   int64

	// tuning is loaded before any subcommand runs.
	tuning config.Tuning
)

var rootCmd = &cobra.Command{
	Use:   "outpost",
	Short: "Outpost - Mars settlement mission simulation",
	Long: `Outpost simulates a handful of Mars settlements whose crews plan,
provision and fly rover missions: field studies, trade runs and rescues.

Use "outpost run" to start the simulation and its HTTP API.`,
	PersistentPreRunE: setup,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

// Execute runs the root command with signal handling
func Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return rootCmd.ExecuteContext(ctx)
}

// setup configures logging and loads the tuning before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	level, err := parseLevel(logLevel)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	tuning, err = config.Load(configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("seed") {
		tuning.Seed = seedFlag
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Tuning YAML file (defaults apply when empty)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Int64Var(&seedFlag, "seed", 0, "World seed (overrides the tuning and OUTPOST_SEED)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(budgetCmd)
	rootCmd.AddCommand(missionsCmd)
}
