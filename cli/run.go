package cli

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/spf13/cobra"

	"github.com/pthm-cable/boids/game"
)

func newRunCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open a window and run the simulation interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			rl.SetConfigFlags(rl.FlagWindowResizable)
			rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), cfg.Screen.Title)
			defer rl.CloseWindow()
			rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))
			rl.SetExitKey(rl.KeyEscape)

			sim, output, err := opts.newSimulation(cfg)
			if err != nil {
				return err
			}
			defer output.Close()
			defer sim.Close()

			g := game.NewGame(sim, cfg)
			defer g.Unload()

			for !rl.WindowShouldClose() {
				g.Update()
				g.Draw()

				if opts.maxTicks > 0 && g.Tick() >= opts.maxTicks {
					slog.Info("max ticks reached", "tick", g.Tick())
					break
				}
			}
			return nil
		},
	}
	cmd.Flags().Int32Var(&opts.maxTicks, "max-ticks", 0, "Stop after N ticks (0 = until the window closes)")
	return cmd
}
