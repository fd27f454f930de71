// Package cli implements the boids command line.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pthm-cable/boids/config"
	"github.com/pthm-cable/boids/game"
	"github.com/pthm-cable/boids/telemetry"
)

// options holds flags shared by every subcommand.
type options struct {
	configPath string
	seed       int64
	outputDir  string
	logStats   bool
	logLevel   string
	workers    int
	maxTicks   int32
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "boids",
		Short:         "Spatially partitioned flocking simulation",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(cmd, opts.logLevel)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "Path to config.yaml (empty = use defaults)")
	pf.Int64Var(&opts.seed, "seed", 0, "RNG seed (0 = config seed, then time-based)")
	pf.StringVar(&opts.outputDir, "output-dir", "", "Output directory for CSV logs and config snapshot")
	pf.BoolVar(&opts.logStats, "log-stats", false, "Log window and perf stats via slog")
	pf.StringVar(&opts.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.IntVar(&opts.workers, "workers", -1, "Worker goroutines for the kernels (-1 = config, 0 = GOMAXPROCS)")

	root.AddCommand(newRunCommand(opts), newHeadlessCommand(opts), newBenchCommand(opts))
	return root
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		slog.Error("boids failed", "error", err)
		os.Exit(1)
	}
}

// setupLogging installs a JSON slog handler on the command's stdout.
func setupLogging(cmd *cobra.Command, level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logger := slog.New(slog.NewJSONHandler(cmd.OutOrStdout(), &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	return nil
}

// loadConfig loads the config file and applies flag overrides.
func (o *options) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if o.workers >= 0 {
		cfg.Parallel.Workers = o.workers
	}
	return cfg, nil
}

// newSimulation builds a populated simulation wired to CSV output.
// The caller must Close both the simulation and the output manager.
func (o *options) newSimulation(cfg *config.Config) (*game.Simulation, *telemetry.OutputManager, error) {
	output, err := telemetry.NewOutputManager(o.outputDir)
	if err != nil {
		return nil, nil, err
	}
	if err := output.WriteConfig(cfg); err != nil {
		output.Close()
		return nil, nil, err
	}

	sim, err := game.NewFromConfig(cfg, o.seed, func(so *game.Options) {
		so.Output = output
		so.LogStats = o.logStats
	})
	if err != nil {
		output.Close()
		return nil, nil, err
	}

	slog.Info("simulation created",
		"agents", sim.Store.ActiveCount(),
		"capacity", sim.Store.Cap(),
		"grid", fmt.Sprintf("%dx%d", sim.Grid.Cols(), sim.Grid.Rows()),
		"fused", sim.Fused(),
		"output_dir", output.Dir(),
	)
	return sim, output, nil
}
