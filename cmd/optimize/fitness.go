package main

import (
	"context"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/boids/config"
	"github.com/pthm-cable/boids/game"
	"github.com/pthm-cable/boids/telemetry"
	"github.com/pthm-cable/boids/vecmath"
)

// Score weights. Polarization dominates; neighbor cohesion keeps the search
// from rewarding agents that align while spread thin.
const (
	scoreWeightPolarization = 0.6
	scoreWeightNeighbors    = 0.3
	scoreWeightSpacing      = 0.1

	scoreWarmupWindows = 2 // skip the first windows while the flock forms
	neighborTarget     = 6 // neighbors within perception counted as fully cohesive
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params   *ParamVector
	maxTicks int32
	seeds    []int64
	base     *config.Config

	mu        sync.Mutex
	lastScore Score
}

// Score breaks a run's fitness into its parts, each in [0, 1].
type Score struct {
	Polarization float64
	Neighbors    float64
	Spacing      float64
}

// Total is the weighted sum of the parts.
func (s Score) Total() float64 {
	return scoreWeightPolarization*s.Polarization +
		scoreWeightNeighbors*s.Neighbors +
		scoreWeightSpacing*s.Spacing
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, base *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:   params,
		maxTicks: maxTicks,
		seeds:    seeds,
		base:     base,
	}
}

// LastScore returns the seed-averaged score from the most recent evaluation.
func (fe *FitnessEvaluator) LastScore() Score {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastScore
}

// Evaluate computes fitness for raw weights (lower = better).
// Seeds run in parallel, each with a single kernel worker.
func (fe *FitnessEvaluator) Evaluate(ctx context.Context, x []float64) (float64, error) {
	scores := make([]Score, len(fe.seeds))
	errs := make([]error, len(fe.seeds))

	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func() {
			defer wg.Done()
			scores[i], errs[i] = fe.runSimulation(ctx, x, seed)
		}()
	}
	wg.Wait()

	var avg Score
	for i, s := range scores {
		if errs[i] != nil {
			return 0, errs[i]
		}
		avg.Polarization += s.Polarization
		avg.Neighbors += s.Neighbors
		avg.Spacing += s.Spacing
	}
	n := float64(len(scores))
	avg.Polarization /= n
	avg.Neighbors /= n
	avg.Spacing /= n

	fe.mu.Lock()
	fe.lastScore = avg
	fe.mu.Unlock()

	return -avg.Total(), nil
}

// runSimulation executes a single headless run and scores it.
func (fe *FitnessEvaluator) runSimulation(ctx context.Context, x []float64, seed int64) (Score, error) {
	var windows []telemetry.WindowStats

	sim, err := game.NewFromConfig(fe.base, seed, func(o *game.Options) {
		fe.params.Apply(&o.Params, x)
		o.Workers = 1
		o.StatsCallback = func(w telemetry.WindowStats) {
			windows = append(windows, w)
		}
	})
	if err != nil {
		return Score{}, err
	}
	defer sim.Close()

	if err := sim.Run(ctx, fe.maxTicks); err != nil {
		return Score{}, err
	}

	score := windowScore(windows)
	snap := sim.Snapshot(nil)
	score.Neighbors = neighborScore(snap.Pos, sim.Params.PerceptionRadius)
	return score, nil
}

// windowScore averages polarization over windows past warmup, and scores
// spacing by how rarely separation met coincident pairs.
func windowScore(windows []telemetry.WindowStats) Score {
	if len(windows) <= scoreWarmupWindows {
		return Score{}
	}
	valid := windows[scoreWarmupWindows:]

	pol := make([]float64, 0, len(valid))
	coincident := make([]float64, 0, len(valid))
	for _, w := range valid {
		if w.Agents == 0 {
			continue
		}
		pol = append(pol, w.Polarization)
		coincident = append(coincident, float64(w.Coincident)/float64(w.Agents))
	}
	if len(pol) == 0 {
		return Score{}
	}

	return Score{
		Polarization: clamp01(stat.Mean(pol, nil)),
		Spacing:      math.Exp(-stat.Mean(coincident, nil)),
	}
}

// neighborScore is the mean over agents of min(neighbors, target)/target,
// counting neighbors within radius.
func neighborScore(pos []vecmath.Vec2, radius float32) float64 {
	if len(pos) < 2 || radius <= 0 {
		return 0
	}
	r2 := radius * radius

	var total float64
	for i, p := range pos {
		n := 0
		for j, q := range pos {
			if i == j {
				continue
			}
			if vecmath.DistSq(p, q) < r2 {
				n++
				if n == neighborTarget {
					break
				}
			}
		}
		total += float64(n) / neighborTarget
	}
	return total / float64(len(pos))
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	return min(max(x, 0), 1)
}
