// Package telemetry provides flock statistics, performance timing, bookmarks, and CSV output.
package telemetry

// FlockSample is the per-agent state sampled when a window closes.
type FlockSample struct {
	Agents int
	Speeds []float64
	VelX   []float64
	VelY   []float64
}

// Collector accumulates degradation counters within windows of ticks and produces WindowStats.
type Collector struct {
	windowDurationTicks int32

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	refused    int
	dropped    int
	maxDropped int
	truncated  int
	coincident int
}

// NewCollector creates a new stats collector that flushes every windowTicks ticks.
func NewCollector(windowTicks int32) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{
		windowDurationTicks: windowTicks,
	}
}

// RecordGrid records one rebuild's dropped inserts and the frame's truncated queries.
func (c *Collector) RecordGrid(dropped, truncated int) {
	c.dropped += dropped
	if dropped > c.maxDropped {
		c.maxDropped = dropped
	}
	c.truncated += truncated
}

// RecordRefused records agents rejected by a full store.
func (c *Collector) RecordRefused(n int) {
	c.refused += n
}

// RecordCoincident records neighbor pairs skipped because they share a position.
func (c *Collector) RecordCoincident(n int) {
	c.coincident += n
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, sample FlockSample) WindowStats {
	mean, std, p10, p50, p90 := ComputeSpeedStats(sample.Speeds)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,

		Agents: sample.Agents,

		Refused:    c.refused,
		Dropped:    c.dropped,
		MaxDropped: c.maxDropped,
		Truncated:  c.truncated,
		Coincident: c.coincident,

		SpeedMean: mean,
		SpeedStd:  std,
		SpeedP10:  p10,
		SpeedP50:  p50,
		SpeedP90:  p90,

		Polarization: ComputePolarization(sample.VelX, sample.VelY),
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.refused = 0
	c.dropped = 0
	c.maxDropped = 0
	c.truncated = 0
	c.coincident = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
