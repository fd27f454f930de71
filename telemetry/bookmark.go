package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkFlockFormed    BookmarkType = "flock_formed"
	BookmarkFlockDispersed BookmarkType = "flock_dispersed"
	BookmarkGridSaturation BookmarkType = "grid_saturation"
	BookmarkOverBudget     BookmarkType = "over_budget"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkThresholds configures the detector. Zero values disable nothing;
// use DefaultBookmarkThresholds as a base.
type BookmarkThresholds struct {
	FormedPolarization    float64 // Rising through this marks a flock forming
	DispersedPolarization float64 // Falling through this marks a flock dispersing
	SaturationMultiplier  float64 // Dropped inserts above this multiple of the rolling average
	SaturationMinDropped  int     // ...and at least this many
	OverBudgetFraction    float64 // Fraction of ticks over budget in one perf window
}

// DefaultBookmarkThresholds returns the stock detection thresholds.
func DefaultBookmarkThresholds() BookmarkThresholds {
	return BookmarkThresholds{
		FormedPolarization:    0.8,
		DispersedPolarization: 0.3,
		SaturationMultiplier:  2.0,
		SaturationMinDropped:  10,
		OverBudgetFraction:    0.25,
	}
}

// BookmarkDetector detects interesting moments in the simulation.
type BookmarkDetector struct {
	thresholds BookmarkThresholds

	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	formed     bool // polarization is above the formed threshold
	overBudget bool // previous window was over budget
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int, thresholds BookmarkThresholds) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3 // minimum for a meaningful rolling average
	}
	return &BookmarkDetector{
		thresholds:  thresholds,
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
// perf is the performance window that ended with the same tick.
func (bd *BookmarkDetector) Check(stats WindowStats, perf PerfStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkPolarization(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	if bd.historyFull || bd.historyIdx > 0 {
		if b := bd.checkGridSaturation(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	if b := bd.checkOverBudget(stats, perf); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

// checkPolarization fires on crossings only, with hysteresis between the two thresholds.
func (bd *BookmarkDetector) checkPolarization(stats WindowStats) *Bookmark {
	if stats.Agents < 2 {
		return nil
	}

	if !bd.formed && stats.Polarization >= bd.thresholds.FormedPolarization {
		bd.formed = true
		return &Bookmark{
			Type:        BookmarkFlockFormed,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Polarization rose to %.2f across %d agents", stats.Polarization, stats.Agents),
		}
	}

	if bd.formed && stats.Polarization < bd.thresholds.DispersedPolarization {
		bd.formed = false
		return &Bookmark{
			Type:        BookmarkFlockDispersed,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Polarization fell to %.2f across %d agents", stats.Polarization, stats.Agents),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkGridSaturation(stats WindowStats) *Bookmark {
	if stats.Dropped < bd.thresholds.SaturationMinDropped || stats.Dropped == 0 {
		return nil
	}

	history := bd.getHistory()
	var total int
	for _, h := range history {
		total += h.Dropped
	}
	avg := float64(total) / float64(len(history))

	if float64(stats.Dropped) > avg*bd.thresholds.SaturationMultiplier {
		return &Bookmark{
			Type:        BookmarkGridSaturation,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Grid dropped %d inserts (worst rebuild %d), rolling average %.1f", stats.Dropped, stats.MaxDropped, avg),
		}
	}

	return nil
}

// checkOverBudget fires when a window goes over budget after one that was not.
func (bd *BookmarkDetector) checkOverBudget(stats WindowStats, perf PerfStats) *Bookmark {
	over := perf.OverBudgetPct/100 > bd.thresholds.OverBudgetFraction
	was := bd.overBudget
	bd.overBudget = over

	if over && !was {
		return &Bookmark{
			Type:        BookmarkOverBudget,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%.0f%% of ticks over budget with %d agents (avg %dus)", perf.OverBudgetPct, stats.Agents, perf.AvgTickDuration.Microseconds()),
		}
	}

	return nil
}
