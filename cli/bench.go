package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/pthm-cable/boids/game"
	"github.com/pthm-cable/boids/telemetry"
)

func newBenchCommand(opts *options) *cobra.Command {
	var (
		ticks int32
		modes []string
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time the frame loop with separate and fused kernels",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			for _, mode := range modes {
				var fused bool
				switch mode {
				case "separate":
				case "fused":
					fused = true
				default:
					return fmt.Errorf("unknown kernel mode %q", mode)
				}

				sim, err := game.NewFromConfig(cfg, opts.seed, func(so *game.Options) {
					so.Fused = fused
					so.PerfWindow = int(ticks)
				})
				if err != nil {
					return err
				}

				start := time.Now()
				err = sim.Run(context.Background(), ticks)
				elapsed := time.Since(start)
				perf := sim.Perf()
				sim.Close()
				if err != nil {
					return err
				}

				slog.Info("bench",
					"mode", mode,
					"agents", sim.Store.ActiveCount(),
					"ticks", ticks,
					"elapsed", elapsed.Round(time.Millisecond),
					"within_budget", perf.WithinBudget(),
					"perf", perf,
				)
				fmt.Fprintf(cmd.OutOrStdout(), "%-9s %s/tick  %.0f ticks/s  %.1f%% over budget\n",
					mode, perf.AvgTickDuration.Round(time.Microsecond), perf.TicksPerSecond, perf.OverBudgetPct)
				for _, phase := range telemetry.Phases {
					if avg, ok := perf.PhaseAvg[phase]; ok {
						fmt.Fprintf(cmd.OutOrStdout(), "  %-13s %10s %5.1f%%\n",
							phase, avg.Round(time.Microsecond), perf.PhasePct[phase])
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().Int32Var(&ticks, "ticks", 600, "Ticks to run per mode")
	cmd.Flags().StringSliceVar(&modes, "modes", []string{"separate", "fused"}, "Kernel modes to time")
	return cmd
}
