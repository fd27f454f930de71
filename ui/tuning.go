package ui

import (
	"fmt"
	"log/slog"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/boids/components"
	"github.com/pthm-cable/boids/inspector"
)

// WeightKey binds a held key to a per-frame change of one behavior weight.
type WeightKey struct {
	Key   int32
	Field string // components.Params field name
	Sign  float32
}

// DefaultWeightKeys are 1/2 for separation, 3/4 for alignment, 5/6 for cohesion.
// The odd key raises the weight, the even key lowers it.
var DefaultWeightKeys = []WeightKey{
	{rl.KeyOne, "SeparationWeight", +1},
	{rl.KeyTwo, "SeparationWeight", -1},
	{rl.KeyThree, "AlignmentWeight", +1},
	{rl.KeyFour, "AlignmentWeight", -1},
	{rl.KeyFive, "CohesionWeight", +1},
	{rl.KeySix, "CohesionWeight", -1},
}

// ApplyWeightKeys adjusts p by step for every bound key reported held by down.
// It reports whether p changed. Weights are not clamped; negative values
// invert a behavior.
func ApplyWeightKeys(p *components.Params, keys []WeightKey, step float32, down func(key int32) bool) bool {
	changed := false
	for _, k := range keys {
		if !down(k.Key) {
			continue
		}
		w := weightPtr(p, k.Field)
		if w == nil {
			continue
		}
		*w += k.Sign * step
		changed = true
	}
	return changed
}

func weightPtr(p *components.Params, field string) *float32 {
	switch field {
	case "SeparationWeight":
		return &p.SeparationWeight
	case "AlignmentWeight":
		return &p.AlignmentWeight
	case "CohesionWeight":
		return &p.CohesionWeight
	}
	return nil
}

// TuningPanel draws a raygui slider for every tagged field of components.Params.
type TuningPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	defaults components.Params
}

// NewTuningPanel creates a slider panel. Reset restores defaults.
func NewTuningPanel(x, y, width int32, defaults components.Params) *TuningPanel {
	return &TuningPanel{renderer: NewRenderer(), x: x, y: y, width: width, defaults: defaults}
}

// SetPosition updates the panel position.
func (t *TuningPanel) SetPosition(x, y int32) {
	t.x = x
	t.y = y
}

// Draw renders the sliders and writes edits back into p.
// It reports whether p changed this frame.
func (t *TuningPanel) Draw(p *components.Params) bool {
	r := t.renderer
	fields := inspector.ExtractFields(p)
	rowH := float32(38)

	r.DrawPanel(t.x, t.y, t.width, int32(rowH)*int32(len(fields))+70)

	x := float32(t.x + r.Theme.Padding)
	y := float32(t.y + r.Theme.Padding)
	sliderW := float32(t.width - r.Theme.Padding*2 - 60)

	rl.DrawText("Flocking Parameters", int32(x), int32(y), r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	y += 24

	changed := false
	for _, f := range fields {
		if f.Widget != inspector.WidgetBar {
			continue
		}
		cur, ok := inspector.GetFloatValue(f.Value)
		if !ok {
			continue
		}
		lo, hi := inspector.GetMin(f.Options), inspector.GetMax(f.Options)

		rl.DrawText(f.Name, int32(x), int32(y), 12, r.Theme.LabelColor)
		next := gui.SliderBar(
			rl.Rectangle{X: x, Y: y + 14, Width: sliderW, Height: 16},
			inspector.FormatValue(lo, "%.0f"), inspector.FormatValue(hi, "%.0f"),
			cur, lo, hi,
		)
		rl.DrawText(inspector.FormatValue(cur, ""), int32(x+sliderW+8), int32(y+14), 14, r.Theme.ValueColor)

		if v, ok := sliderEdit(cur, next, lo, hi); ok {
			if err := inspector.SetFloat(p, f.Name, v); err != nil {
				slog.Error("tuning panel", "field", f.Name, "error", err)
				continue
			}
			changed = true
		}
		y += rowH
	}

	if gui.Button(rl.Rectangle{X: x, Y: y + 4, Width: 120, Height: 26}, "Reset") {
		*p = t.defaults
		changed = true
	}
	rl.DrawText(fmt.Sprintf("radius %.0f", p.MaxRadius()), int32(x+132), int32(y+10), 12, r.Theme.LabelColor)

	return changed
}

// sliderEdit decides whether a slider result is a user edit. The slider
// clamps its input to [lo, hi] every frame, so a value outside the range
// comes back pinned to a bound without any interaction; only a result that
// differs from the clamped current value is written back.
func sliderEdit(cur, next, lo, hi float32) (float32, bool) {
	if next == min(max(cur, lo), hi) {
		return cur, false
	}
	return next, true
}
