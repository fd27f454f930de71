package cli

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

func newHeadlessCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "headless",
		Short: "Run the simulation without graphics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			sim, output, err := opts.newSimulation(cfg)
			if err != nil {
				return err
			}
			defer output.Close()
			defer sim.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			slog.Info("starting headless simulation", "max_ticks", opts.maxTicks)
			start := time.Now()

			err = sim.Run(ctx, opts.maxTicks)
			elapsed := time.Since(start)

			slog.Info("headless simulation stopped",
				"tick", sim.Tick(),
				"elapsed", elapsed.Round(time.Millisecond),
				"ticks_per_sec", float64(sim.Tick())/elapsed.Seconds(),
			)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().Int32Var(&opts.maxTicks, "max-ticks", 0, "Stop after N ticks (0 = until interrupted)")
	return cmd
}
