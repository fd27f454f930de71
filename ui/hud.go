package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/boids/components"
	"github.com/pthm-cable/boids/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Params         components.Params
	Agents         int
	Capacity       int
	GridCols       int
	GridRows       int
	Tick           int32
	StepsPerUpdate int
	Paused         bool
	Fused          bool
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD in the top-left corner and returns the Y below it.
func (h *HUD) Draw(data HUDData) int32 {
	r := h.renderer
	x, y := int32(10), int32(10)
	width := int32(360)

	r.DrawPanel(x-4, y-4, width, r.Theme.LineHeight*8+r.Theme.Padding)

	rl.DrawFPS(x, y)
	y += r.Theme.LineHeight + 4

	p := data.Params
	y = r.DrawCenteredBar(x, y, "Separation (1/2)", p.SeparationWeight, 10, width-8)
	y = r.DrawCenteredBar(x, y, "Alignment (3/4)", p.AlignmentWeight, 10, width-8)
	y = r.DrawCenteredBar(x, y, "Cohesion (5/6)", p.CohesionWeight, 10, width-8)

	y = r.DrawLabelValue(x, y, "Boids", fmt.Sprintf("%d / %d", data.Agents, data.Capacity))
	y = r.DrawLabelValue(x, y, "Grid", fmt.Sprintf("%dx%d cells", data.GridCols, data.GridRows))

	kernel := "separate"
	if data.Fused {
		kernel = "fused"
	}
	y = r.DrawLabelValue(x, y, "Tick", fmt.Sprintf("%d  x%d  %s [F]", data.Tick, data.StepsPerUpdate, kernel))

	if data.Paused {
		rl.DrawText("PAUSED", x, y, r.Theme.HeaderFontSize, rl.Yellow)
		y += r.Theme.LineHeight
	}
	return y + 6
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders the per-phase timing of the simulation step.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{renderer: NewRenderer(), x: x, y: y}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	r := p.renderer
	x, y := p.x, p.y
	width := int32(300)

	r.DrawPanel(x-6, y-6, width, r.Theme.LineHeight*int32(len(telemetry.Phases)+4))

	y = r.DrawSectionHeader(x, y, "Frame Timing")
	y = r.DrawWarnValue(x, y, "Tick avg", stats.AvgTickDuration.Round(time.Microsecond).String(),
		!stats.WithinBudget())
	y = r.DrawWarnValue(x, y, "Over budget", fmt.Sprintf("%.1f%%", stats.OverBudgetPct), stats.OverBudget > 0)

	for _, name := range telemetry.Phases {
		avg, ok := stats.PhaseAvg[name]
		if !ok {
			continue
		}
		pct := stats.PhasePct[name]

		color := rl.LightGray
		if pct > 40 {
			color = rl.Red
		} else if pct > 20 {
			color = rl.Orange
		}
		rl.DrawText(
			fmt.Sprintf("%-13s %8s %5.1f%%", name, avg.Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}

// FlockStatsPanel renders the latest telemetry window.
type FlockStatsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewFlockStatsPanel creates a new flock stats panel.
func NewFlockStatsPanel(x, y, width int32) *FlockStatsPanel {
	return &FlockStatsPanel{renderer: NewRenderer(), x: x, y: y, width: width}
}

// SetPosition updates the panel position.
func (f *FlockStatsPanel) SetPosition(x, y int32) {
	f.x = x
	f.y = y
}

// Draw renders the flock stats panel.
func (f *FlockStatsPanel) Draw(s telemetry.WindowStats) {
	r := f.renderer
	lh := r.Theme.LineHeight
	r.DrawPanel(f.x, f.y, f.width, lh*11+r.Theme.Padding*2)

	x := f.x + r.Theme.Padding
	y := f.y + r.Theme.Padding
	inner := f.width - r.Theme.Padding*2

	y = r.DrawSectionHeader(x, y, fmt.Sprintf("Window %d-%d", s.WindowStartTick, s.WindowEndTick))
	y = r.DrawBar(x, y, "Polarization", float32(s.Polarization), inner)
	y = r.DrawLabelValue(x, y, "Speed mean", fmt.Sprintf("%.2f (sd %.2f)", s.SpeedMean, s.SpeedStd))
	y = r.DrawLabelValue(x, y, "Speed p10/50/90", fmt.Sprintf("%.2f / %.2f / %.2f", s.SpeedP10, s.SpeedP50, s.SpeedP90))

	y = r.DrawSectionHeader(x, y+4, "Degradation")
	y = r.DrawWarnValue(x, y, "Dropped", fmt.Sprintf("%d (max %d)", s.Dropped, s.MaxDropped), s.Dropped > 0)
	y = r.DrawWarnValue(x, y, "Truncated", fmt.Sprintf("%d", s.Truncated), s.Truncated > 0)
	y = r.DrawWarnValue(x, y, "Refused", fmt.Sprintf("%d", s.Refused), s.Refused > 0)
	r.DrawLabelValue(x, y, "Coincident", fmt.Sprintf("%d", s.Coincident))
}
