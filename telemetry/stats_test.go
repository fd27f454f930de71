package telemetry

import (
	"math"
	"testing"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.9},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeSpeedStats(t *testing.T) {
	values := []float64{5, 1, 4, 2, 3}
	mean, std, p10, p50, p90 := ComputeSpeedStats(values)

	if math.Abs(mean-3) > 0.001 {
		t.Errorf("mean = %v, want 3", mean)
	}
	// Population std of 1..5 is sqrt(2)
	if math.Abs(std-math.Sqrt2) > 0.001 {
		t.Errorf("std = %v, want sqrt(2)", std)
	}
	if math.Abs(p10-1.4) > 0.001 {
		t.Errorf("p10 = %v, want 1.4", p10)
	}
	if math.Abs(p50-3) > 0.001 {
		t.Errorf("p50 = %v, want 3", p50)
	}
	if math.Abs(p90-4.6) > 0.001 {
		t.Errorf("p90 = %v, want 4.6", p90)
	}

	if values[0] != 5 {
		t.Error("input slice must not be sorted in place")
	}
}

func TestComputeSpeedStatsEmpty(t *testing.T) {
	mean, std, p10, p50, p90 := ComputeSpeedStats(nil)

	if mean != 0 || std != 0 || p10 != 0 || p50 != 0 || p90 != 0 {
		t.Error("empty slice should return all zeros")
	}
}

func TestComputePolarization(t *testing.T) {
	tests := []struct {
		name   string
		vx, vy []float64
		want   float64
	}{
		{"empty", nil, nil, 0},
		{"aligned", []float64{1, 3, 0.5}, []float64{0, 0, 0}, 1},
		{"opposed", []float64{1, -2}, []float64{0, 0}, 0},
		{"right angle", []float64{1, 0}, []float64{0, 4}, math.Sqrt2 / 2},
		{"stationary skipped", []float64{0, 2}, []float64{0, 0}, 1},
		{"all stationary", []float64{0, 0}, []float64{0, 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputePolarization(tt.vx, tt.vy)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ComputePolarization = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(10)

	if c.ShouldFlush(5) {
		t.Fatal("window not yet complete")
	}

	c.RecordGrid(3, 1)
	c.RecordGrid(7, 0)
	c.RecordRefused(2)
	c.RecordCoincident(4)

	if !c.ShouldFlush(10) {
		t.Fatal("window should be complete at tick 10")
	}

	stats := c.Flush(10, FlockSample{
		Agents: 2,
		Speeds: []float64{1, 3},
		VelX:   []float64{1, 3},
		VelY:   []float64{0, 0},
	})

	if stats.WindowStartTick != 0 || stats.WindowEndTick != 10 {
		t.Errorf("window = [%d, %d], want [0, 10]", stats.WindowStartTick, stats.WindowEndTick)
	}
	if stats.Dropped != 10 || stats.MaxDropped != 7 || stats.Truncated != 1 {
		t.Errorf("grid counters = %d/%d/%d, want 10/7/1", stats.Dropped, stats.MaxDropped, stats.Truncated)
	}
	if stats.Refused != 2 || stats.Coincident != 4 {
		t.Errorf("refused/coincident = %d/%d, want 2/4", stats.Refused, stats.Coincident)
	}
	if stats.SpeedMean != 2 || stats.Polarization != 1 {
		t.Errorf("speed mean %v polarization %v, want 2 and 1", stats.SpeedMean, stats.Polarization)
	}

	next := c.Flush(20, FlockSample{})
	if next.Dropped != 0 || next.Refused != 0 || next.WindowStartTick != 10 {
		t.Errorf("counters not reset: %+v", next)
	}
	if c.ShouldFlush(25) {
		t.Error("new window starts at the previous flush tick")
	}
}
