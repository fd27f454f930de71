package telemetry

import (
	"testing"
	"time"
)

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_FlockFormedAndDispersed(t *testing.T) {
	bd := NewBookmarkDetector(10, DefaultBookmarkThresholds())

	// Disordered start
	for i := 0; i < 3; i++ {
		bookmarks := bd.Check(WindowStats{WindowEndTick: int32(i * 600), Agents: 500, Polarization: 0.1}, PerfStats{})
		if len(bookmarks) != 0 {
			t.Fatalf("unexpected bookmarks in disordered window %d: %v", i, bookmarks)
		}
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 1800, Agents: 500, Polarization: 0.85}, PerfStats{})
	if !hasBookmark(bookmarks, BookmarkFlockFormed) {
		t.Fatal("expected flock_formed bookmark")
	}

	// Staying ordered must not retrigger, nor should a dip that stays above the dispersed threshold.
	for _, pol := range []float64{0.9, 0.5, 0.82} {
		bookmarks = bd.Check(WindowStats{WindowEndTick: 2400, Agents: 500, Polarization: pol}, PerfStats{})
		if len(bookmarks) != 0 {
			t.Fatalf("polarization %v: unexpected bookmarks %v", pol, bookmarks)
		}
	}

	bookmarks = bd.Check(WindowStats{WindowEndTick: 3000, Agents: 500, Polarization: 0.2}, PerfStats{})
	if !hasBookmark(bookmarks, BookmarkFlockDispersed) {
		t.Error("expected flock_dispersed bookmark")
	}
}

func TestBookmarkDetector_IgnoresTinyPopulations(t *testing.T) {
	bd := NewBookmarkDetector(10, DefaultBookmarkThresholds())

	// A single agent is trivially polarized.
	bookmarks := bd.Check(WindowStats{WindowEndTick: 600, Agents: 1, Polarization: 1}, PerfStats{})
	if hasBookmark(bookmarks, BookmarkFlockFormed) {
		t.Error("single agent should not form a flock")
	}
}

func TestBookmarkDetector_GridSaturation(t *testing.T) {
	bd := NewBookmarkDetector(10, DefaultBookmarkThresholds())

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: int32(i * 600), Agents: 8000, Dropped: 5}, PerfStats{})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 3000, Agents: 8000, Dropped: 40, MaxDropped: 12}, PerfStats{})
	if !hasBookmark(bookmarks, BookmarkGridSaturation) {
		t.Error("expected grid_saturation bookmark")
	}

	// Below the minimum count nothing fires even with a zero history.
	quiet := NewBookmarkDetector(10, DefaultBookmarkThresholds())
	quiet.Check(WindowStats{WindowEndTick: 600}, PerfStats{})
	bookmarks = quiet.Check(WindowStats{WindowEndTick: 1200, Dropped: 3}, PerfStats{})
	if hasBookmark(bookmarks, BookmarkGridSaturation) {
		t.Error("small drop counts should not bookmark")
	}
}

func TestBookmarkDetector_OverBudgetEdge(t *testing.T) {
	bd := NewBookmarkDetector(10, DefaultBookmarkThresholds())
	slow := PerfStats{OverBudgetPct: 50, AvgTickDuration: 20 * time.Millisecond}
	fast := PerfStats{OverBudgetPct: 0, AvgTickDuration: 5 * time.Millisecond}

	if hasBookmark(bd.Check(WindowStats{WindowEndTick: 600}, fast), BookmarkOverBudget) {
		t.Fatal("fast window should not bookmark")
	}
	if !hasBookmark(bd.Check(WindowStats{WindowEndTick: 1200}, slow), BookmarkOverBudget) {
		t.Fatal("expected over_budget bookmark on first slow window")
	}
	if hasBookmark(bd.Check(WindowStats{WindowEndTick: 1800}, slow), BookmarkOverBudget) {
		t.Fatal("consecutive slow windows should bookmark once")
	}
	bd.Check(WindowStats{WindowEndTick: 2400}, fast)
	if !hasBookmark(bd.Check(WindowStats{WindowEndTick: 3000}, slow), BookmarkOverBudget) {
		t.Error("expected over_budget bookmark after recovery")
	}
}
