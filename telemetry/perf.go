package telemetry

import (
	"context"
	"log/slog"
	"time"
)

// Phase names for the simulation step, in execution order.
const (
	PhaseSpatialGrid = "spatial_grid"
	PhaseReset       = "reset"
	PhaseSeparation  = "separation"
	PhaseAlignment   = "alignment"
	PhaseCohesion    = "cohesion"
	PhaseFlock       = "flock" // fused separation/alignment/cohesion
	PhaseIntegrate   = "integrate"
	PhaseWrap        = "wrap"
	PhaseTelemetry   = "telemetry"
)

// Phases lists every phase name in execution order.
var Phases = []string{
	PhaseSpatialGrid, PhaseReset,
	PhaseSeparation, PhaseAlignment, PhaseCohesion, PhaseFlock,
	PhaseIntegrate, PhaseWrap, PhaseTelemetry,
}

const numPhases = 9

var phaseIndex = func() map[string]int {
	m := make(map[string]int, len(Phases))
	for i, name := range Phases {
		m[name] = i
	}
	return m
}()

// DefaultTickBudget is the frame budget at 60 Hz.
const DefaultTickBudget = 16600 * time.Microsecond

// tickSample is one tick's wall time split by phase.
type tickSample struct {
	total  time.Duration
	phases [numPhases]time.Duration
	ran    uint16 // bit i set when Phases[i] started during the tick
}

// PerfCollector keeps a ring of recent tick timings. Phase durations are
// stored in fixed arrays indexed by position in Phases, so recording a tick
// does not allocate. Names outside Phases are not timed.
type PerfCollector struct {
	budget  time.Duration
	ring    []tickSample
	next    int
	filled  int
	current tickSample

	tickStart  time.Time
	phaseStart time.Time
	phase      int // index into Phases, -1 between phases

	lastFrame time.Time
	frame     time.Duration
}

// NewPerfCollector creates a collector averaging over the last windowSize
// ticks (60 if windowSize < 1).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		budget: DefaultTickBudget,
		ring:   make([]tickSample, windowSize),
		phase:  -1,
	}
}

// SetBudget sets the tick duration above which a tick counts as over budget.
// Non-positive values are ignored.
func (p *PerfCollector) SetBudget(d time.Duration) {
	if d > 0 {
		p.budget = d
	}
}

// StartTick begins timing a simulation tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.current = tickSample{}
	p.phase = -1
}

// StartPhase closes the running phase and starts timing the named one.
func (p *PerfCollector) StartPhase(name string) {
	now := time.Now()
	p.closePhase(now)
	idx, ok := phaseIndex[name]
	if !ok {
		return
	}
	p.phase = idx
	p.phaseStart = now
	p.current.ran |= 1 << idx
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase >= 0 {
		p.current.phases[p.phase] += now.Sub(p.phaseStart)
		p.phase = -1
	}
}

// EndTick closes the running phase and stores the tick in the ring.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.current.total = now.Sub(p.tickStart)

	p.ring[p.next] = p.current
	p.next = (p.next + 1) % len(p.ring)
	p.filled = min(p.filled+1, len(p.ring))
}

// RecordFrame marks a rendered frame. The interval between the last two
// calls gives the frame rate in windowed mode.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats summarizes the ticks currently in the window.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration

	// Average duration and share of the average tick per phase, only for
	// phases that ran at least once in the window.
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	TicksPerSecond float64

	Budget        time.Duration
	OverBudget    int
	OverBudgetPct float64

	// Windowed mode only; zero when headless.
	FrameDuration time.Duration
	FPS           float64
}

// WithinBudget reports whether the average tick fits the budget.
func (s PerfStats) WithinBudget() bool {
	return s.AvgTickDuration <= s.Budget
}

// perSecond converts an interval to a rate, 0 for a zero interval.
func perSecond(d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(time.Second) / float64(d)
}

// Stats aggregates the window in one pass.
func (p *PerfCollector) Stats() PerfStats {
	stats := PerfStats{
		PhaseAvg:      make(map[string]time.Duration),
		PhasePct:      make(map[string]float64),
		Budget:        p.budget,
		FrameDuration: p.frame,
		FPS:           perSecond(p.frame),
	}
	if p.filled == 0 {
		return stats
	}

	var total time.Duration
	var phaseSum [numPhases]time.Duration
	var ran uint16
	stats.MinTickDuration = p.ring[0].total
	for _, s := range p.ring[:p.filled] {
		total += s.total
		stats.MinTickDuration = min(stats.MinTickDuration, s.total)
		stats.MaxTickDuration = max(stats.MaxTickDuration, s.total)
		if s.total > p.budget {
			stats.OverBudget++
		}
		ran |= s.ran
		for i, d := range s.phases {
			phaseSum[i] += d
		}
	}

	n := time.Duration(p.filled)
	stats.AvgTickDuration = total / n
	stats.TicksPerSecond = perSecond(stats.AvgTickDuration)
	stats.OverBudgetPct = float64(stats.OverBudget) / float64(p.filled) * 100

	for i, name := range Phases {
		if ran&(1<<i) == 0 {
			continue
		}
		avg := phaseSum[i] / n
		stats.PhaseAvg[name] = avg
		if stats.AvgTickDuration > 0 {
			stats.PhasePct[name] = float64(avg) / float64(stats.AvgTickDuration) * 100
		}
	}
	return stats
}

// attrs lists the stats as slog attributes, phases in execution order.
func (s PerfStats) attrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
		slog.Int("over_budget", s.OverBudget),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}
	return attrs
}

// LogStats logs the stats at info level.
func (s PerfStats) LogStats() {
	slog.LogAttrs(context.Background(), slog.LevelInfo, "perf", s.attrs()...)
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	return slog.GroupValue(s.attrs()...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd      int32   `csv:"window_end"`
	AvgTickUS      int64   `csv:"avg_tick_us"`
	MinTickUS      int64   `csv:"min_tick_us"`
	MaxTickUS      int64   `csv:"max_tick_us"`
	TicksPerSec    float64 `csv:"ticks_per_sec"`
	OverBudgetPct  float64 `csv:"over_budget_pct"`
	FPS            float64 `csv:"fps"`
	SpatialGridPct float64 `csv:"spatial_grid_pct"`
	ResetPct       float64 `csv:"reset_pct"`
	SeparationPct  float64 `csv:"separation_pct"`
	AlignmentPct   float64 `csv:"alignment_pct"`
	CohesionPct    float64 `csv:"cohesion_pct"`
	FlockPct       float64 `csv:"flock_pct"`
	IntegratePct   float64 `csv:"integrate_pct"`
	WrapPct        float64 `csv:"wrap_pct"`
	TelemetryPct   float64 `csv:"telemetry_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:      windowEnd,
		AvgTickUS:      s.AvgTickDuration.Microseconds(),
		MinTickUS:      s.MinTickDuration.Microseconds(),
		MaxTickUS:      s.MaxTickDuration.Microseconds(),
		TicksPerSec:    s.TicksPerSecond,
		OverBudgetPct:  s.OverBudgetPct,
		FPS:            s.FPS,
		SpatialGridPct: s.PhasePct[PhaseSpatialGrid],
		ResetPct:       s.PhasePct[PhaseReset],
		SeparationPct:  s.PhasePct[PhaseSeparation],
		AlignmentPct:   s.PhasePct[PhaseAlignment],
		CohesionPct:    s.PhasePct[PhaseCohesion],
		FlockPct:       s.PhasePct[PhaseFlock],
		IntegratePct:   s.PhasePct[PhaseIntegrate],
		WrapPct:        s.PhasePct[PhaseWrap],
		TelemetryPct:   s.PhasePct[PhaseTelemetry],
	}
}
