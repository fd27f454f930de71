package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a window of ticks.
type WindowStats struct {
	WindowStartTick int32 `csv:"-"`
	WindowEndTick   int32 `csv:"window_end"`

	// Population at window end
	Agents int `csv:"agents"`

	// Soft degradation during the window
	Refused    int `csv:"refused"`     // Store creations rejected at capacity
	Dropped    int `csv:"dropped"`     // Grid inserts dropped by full cells, summed over rebuilds
	MaxDropped int `csv:"max_dropped"` // Worst single rebuild
	Truncated  int `csv:"truncated"`   // Neighbor queries cut at the result cap
	Coincident int `csv:"coincident"`  // Separation pairs skipped at zero distance

	// Speed distribution (sampled at window end)
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedP10  float64 `csv:"speed_p10"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`

	// Polarization is |mean heading unit vector|: 1 when all agents fly the
	// same way, near 0 when headings are uniform.
	Polarization float64 `csv:"polarization"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeSpeedStats calculates population mean, std, and percentiles of speeds.
func ComputeSpeedStats(values []float64) (mean, std, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0, 0
	}

	mean, std = stat.PopMeanStdDev(values, nil)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, std, p10, p50, p90
}

// ComputePolarization returns the magnitude of the mean unit heading.
// Agents with zero velocity have no heading and are skipped.
func ComputePolarization(vx, vy []float64) float64 {
	n := min(len(vx), len(vy))
	ux := make([]float64, 0, n)
	uy := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		mag := math.Hypot(vx[i], vy[i])
		if mag == 0 {
			continue
		}
		ux = append(ux, vx[i]/mag)
		uy = append(uy, vy[i]/mag)
	}
	if len(ux) == 0 {
		return 0
	}
	count := float64(len(ux))
	return math.Hypot(floats.Sum(ux)/count, floats.Sum(uy)/count)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Int("agents", s.Agents),
		slog.Int("refused", s.Refused),
		slog.Int("dropped", s.Dropped),
		slog.Int("max_dropped", s.MaxDropped),
		slog.Int("truncated", s.Truncated),
		slog.Int("coincident", s.Coincident),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_std", s.SpeedStd),
		slog.Float64("speed_p10", s.SpeedP10),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("polarization", s.Polarization),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"agents", s.Agents,
		"refused", s.Refused,
		"dropped", s.Dropped,
		"max_dropped", s.MaxDropped,
		"truncated", s.Truncated,
		"coincident", s.Coincident,
		"speed_mean", s.SpeedMean,
		"speed_std", s.SpeedStd,
		"speed_p50", s.SpeedP50,
		"polarization", s.Polarization,
	)
}
