package game

import (
	"log/slog"

	"github.com/pthm-cable/boids/telemetry"
)

// recordFrame feeds this frame's degradation counters to the collector.
// It must run after the kernels and before the next Rebuild.
func (s *Simulation) recordFrame() {
	s.collector.RecordGrid(s.Grid.Dropped(), s.Grid.Truncated())

	refused := s.Store.Refused()
	s.collector.RecordRefused(refused - s.lastRefused)
	s.lastRefused = refused

	coincident, _ := s.parallel.drainCounters()
	s.collector.RecordCoincident(coincident)
}

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (s *Simulation) flushTelemetry() {
	if !s.collector.ShouldFlush(s.tick) {
		return
	}

	stats := s.collector.Flush(s.tick, s.sampleFlock())
	perfStats := s.perfCollector.Stats()
	s.lastStats = stats
	s.lastPerf = perfStats

	if s.statsCallback != nil {
		s.statsCallback(stats)
	}

	// Degradation is soft; surface it once per window.
	if stats.Dropped > 0 {
		slog.Warn("grid overflow", "dropped", stats.Dropped, "max_per_rebuild", stats.MaxDropped,
			"cell_capacity", s.Grid.CellCap(), "tick", stats.WindowEndTick)
	}
	if stats.Truncated > 0 {
		slog.Warn("neighbor queries truncated", "queries", stats.Truncated,
			"query_max", s.frame.MaxNeighbors, "tick", stats.WindowEndTick)
	}
	if stats.Refused > 0 {
		slog.Warn("agent store full", "refused", stats.Refused, "capacity", s.Store.Cap(), "tick", stats.WindowEndTick)
	}

	if s.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if s.outputManager != nil {
		if err := s.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := s.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	for _, bm := range s.bookmarkDetector.Check(stats, perfStats) {
		if s.logStats {
			bm.LogBookmark()
		}
		if s.outputManager != nil {
			if err := s.outputManager.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
		}
	}
}

// sampleFlock collects speeds and velocities of active agents.
func (s *Simulation) sampleFlock() telemetry.FlockSample {
	st := s.Store
	s.speeds = s.speeds[:0]
	s.velX = s.velX[:0]
	s.velY = s.velY[:0]

	for i, active := range st.Active {
		if !active {
			continue
		}
		v := st.Vel[i]
		s.speeds = append(s.speeds, float64(v.Len()))
		s.velX = append(s.velX, float64(v.X))
		s.velY = append(s.velY, float64(v.Y))
	}

	return telemetry.FlockSample{
		Agents: st.ActiveCount(),
		Speeds: s.speeds,
		VelX:   s.velX,
		VelY:   s.velY,
	}
}
