// Command optimize searches steering weights that produce a polarized,
// cohesive flock, scoring headless runs.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/boids/config"
)

// evalRecord is one row of optimize_log.csv.
type evalRecord struct {
	Eval             int     `csv:"eval"`
	Fitness          float64 `csv:"fitness"`
	Polarization     float64 `csv:"polarization"`
	Neighbors        float64 `csv:"neighbors"`
	Spacing          float64 `csv:"spacing"`
	SeparationWeight float64 `csv:"separation_weight"`
	AlignmentWeight  float64 `csv:"alignment_weight"`
	CohesionWeight   float64 `csv:"cohesion_weight"`
}

type optimizeFlags struct {
	configPath string
	maxTicks   int32
	seeds      int
	maxEvals   int
	simplex    float64
	outputDir  string
}

// formatDuration formats a duration as HhMMmSSs or MmSSs for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))
	if err := newCommand().Execute(); err != nil {
		slog.Error("optimize failed", "error", err)
		os.Exit(1)
	}
}

func newCommand() *cobra.Command {
	f := &optimizeFlags{}
	cmd := &cobra.Command{
		Use:           "optimize",
		Short:         "Nelder-Mead search over separation, alignment and cohesion weights",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return run(ctx, cmd, f)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.configPath, "config", "", "Base config YAML file (empty = use defaults)")
	fl.Int32Var(&f.maxTicks, "max-ticks", 3000, "Ticks per run")
	fl.IntVar(&f.seeds, "seeds", 3, "Number of seeds per evaluation")
	fl.IntVar(&f.maxEvals, "max-evals", 100, "Maximum number of evaluations")
	fl.Float64Var(&f.simplex, "simplex", 0.15, "Initial simplex size in normalized units")
	fl.StringVar(&f.outputDir, "output", "", "Output directory for results (required)")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func run(ctx context.Context, cmd *cobra.Command, f *optimizeFlags) error {
	if f.seeds < 1 {
		return fmt.Errorf("--seeds must be at least 1, got %d", f.seeds)
	}
	if err := os.MkdirAll(f.outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	baseCfg, err := config.Load(f.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	params := NewParamVector()
	evalSeeds := make([]int64, f.seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}
	evaluator := NewFitnessEvaluator(params, f.maxTicks, evalSeeds, baseCfg)

	logFile, err := os.Create(filepath.Join(f.outputDir, "optimize_log.csv"))
	if err != nil {
		return fmt.Errorf("creating log file: %w", err)
	}
	defer logFile.Close()

	var (
		evalCount   int
		evalErr     error
		bestFitness = math.Inf(1)
		bestParams  = params.Extract(baseCfg)
		startTime   = time.Now()
		out         = cmd.OutOrStdout()
	)

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			if evalErr != nil {
				return math.Inf(1)
			}
			raw := params.Clamp(params.Denormalize(x))
			fitness, err := evaluator.Evaluate(ctx, raw)
			if err != nil {
				evalErr = err
				return math.Inf(1)
			}
			evalCount++

			if fitness < bestFitness {
				bestFitness = fitness
				bestParams = raw
			}

			score := evaluator.LastScore()
			rec := []evalRecord{{
				Eval:             evalCount,
				Fitness:          fitness,
				Polarization:     score.Polarization,
				Neighbors:        score.Neighbors,
				Spacing:          score.Spacing,
				SeparationWeight: raw[0],
				AlignmentWeight:  raw[1],
				CohesionWeight:   raw[2],
			}}
			if evalCount == 1 {
				err = gocsv.Marshal(rec, logFile)
			} else {
				err = gocsv.MarshalWithoutHeaders(rec, logFile)
			}
			if err != nil {
				slog.Warn("failed to write optimize log", "error", err)
			}

			elapsed := time.Since(startTime)
			remaining := time.Duration(f.maxEvals-evalCount) * (elapsed / time.Duration(evalCount))
			fmt.Fprintf(out, "Eval %d/%d: pol=%.3f nbr=%.3f sep=%.2f ali=%.2f coh=%.2f (best=%.3f) | elapsed: %s, ETA: %s\n",
				evalCount, f.maxEvals, score.Polarization, score.Neighbors,
				raw[0], raw[1], raw[2], -bestFitness,
				formatDuration(elapsed), formatDuration(remaining))
			return fitness
		},
	}

	settings := &optimize.Settings{
		FuncEvaluations: f.maxEvals,
		Concurrent:      0,
	}
	method := &optimize.NelderMead{SimplexSize: f.simplex}

	fmt.Fprintf(out, "Starting Nelder-Mead over %d weights, max_evals=%d, seeds=%d, ticks=%d\n",
		params.Dim(), f.maxEvals, f.seeds, f.maxTicks)

	initX := params.Normalize(params.Extract(baseCfg))
	if _, err := optimize.Minimize(problem, initX, settings, method); err != nil {
		slog.Info("optimization ended", "reason", err)
	}
	if evalErr != nil && !errors.Is(evalErr, context.Canceled) {
		return evalErr
	}

	fmt.Fprintf(out, "\nOptimization complete after %d evaluations in %s\n",
		evalCount, formatDuration(time.Since(startTime)))
	fmt.Fprintf(out, "Best score: %.4f\n", -bestFitness)
	for i, spec := range params.Specs {
		fmt.Fprintf(out, "  %s: %.4f\n", spec.Name, bestParams[i])
	}

	bestCfg, err := config.Load(f.configPath)
	if err != nil {
		return fmt.Errorf("reloading config: %w", err)
	}
	params.ApplyToConfig(bestCfg, bestParams)

	configOutPath := filepath.Join(f.outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		return err
	}
	fmt.Fprintf(out, "\nBest config saved to: %s\n", configOutPath)
	return nil
}
