// Package systems provides the per-frame systems of the flocking simulation.
package systems

import (
	"math"
	"sync/atomic"

	"github.com/pthm-cable/boids/components"
	"github.com/pthm-cable/boids/vecmath"
)

// SpatialGrid is a uniform grid over the world bounds mapping cells to agent ids.
// Each cell holds at most cellCap ids; inserts past that are dropped for the frame.
// The grid is cleared and fully repopulated by Rebuild once per frame and is
// read-only for the rest of the frame, so concurrent queries are safe.
type SpatialGrid struct {
	cellSize float32
	cols     int
	rows     int
	cellCap  int

	ids    []int32 // flat: cell i owns ids[i*cellCap : i*cellCap+counts[i]]
	counts []int32

	dropped   int
	truncated atomic.Int64
}

// NewSpatialGrid creates a grid covering width x height with square cells.
// The extra row and column absorb positions that sit exactly on the far edge.
// A non-positive cellSize collapses the grid to a single cell.
func NewSpatialGrid(width, height, cellSize float32, cellCap int) *SpatialGrid {
	if cellSize <= 0 {
		cellSize = max(width, height, 1)
	}
	if cellCap < 0 {
		cellCap = 0
	}
	cols := int(width/cellSize) + 1
	rows := int(height/cellSize) + 1
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		cellCap:  cellCap,
		ids:      make([]int32, cols*rows*cellCap),
		counts:   make([]int32, cols*rows),
	}
}

// Cols returns the number of grid columns.
func (g *SpatialGrid) Cols() int { return g.cols }

// Rows returns the number of grid rows.
func (g *SpatialGrid) Rows() int { return g.rows }

// CellSize returns the edge length of a cell in world units.
func (g *SpatialGrid) CellSize() float32 { return g.cellSize }

// CellCap returns the maximum number of ids a cell holds.
func (g *SpatialGrid) CellCap() int { return g.cellCap }

// Dropped returns how many inserts were dropped by full cells during the last Rebuild.
func (g *SpatialGrid) Dropped() int { return g.dropped }

// Truncated returns how many queries since the last Rebuild hit their result cap
// with candidates left over.
func (g *SpatialGrid) Truncated() int { return int(g.truncated.Load()) }

// Clear empties every cell. Storage is kept for reuse.
func (g *SpatialGrid) Clear() {
	clear(g.counts)
	g.dropped = 0
	g.truncated.Store(0)
}

// Insert adds id to the cell covering p. It returns false if the cell is full.
func (g *SpatialGrid) Insert(id int, p vecmath.Vec2) bool {
	idx := g.cellIndex(p)
	n := g.counts[idx]
	if int(n) >= g.cellCap {
		g.dropped++
		return false
	}
	g.ids[idx*g.cellCap+int(n)] = int32(id)
	g.counts[idx] = n + 1
	return true
}

// Rebuild clears the grid and inserts every active agent in id order.
func (g *SpatialGrid) Rebuild(s *components.Store) {
	g.Clear()
	for i, active := range s.Active {
		if !active {
			continue
		}
		g.Insert(i, s.Pos[i])
	}
}

// CellOf returns the clamped column and row of the cell covering p.
func (g *SpatialGrid) CellOf(p vecmath.Vec2) (col, row int) {
	return g.clampCol(g.coord(p.X)), g.clampRow(g.coord(p.Y))
}

// Cell returns the ids stored in the cell at (col, row).
// The returned slice aliases grid storage and is valid until the next Rebuild.
func (g *SpatialGrid) Cell(col, row int) []int32 {
	if col < 0 || col >= g.cols || row < 0 || row >= g.rows {
		return nil
	}
	idx := row*g.cols + col
	base := idx * g.cellCap
	return g.ids[base : base+int(g.counts[idx])]
}

// QueryInto appends to dst the ids of every cell overlapped by the bounding
// box of the circle (center, radius), scanning cells in row-major order.
// Results are a superset of the agents within radius; callers filter by distance.
// At most limit ids are returned; dst is reset to length zero first.
func (g *SpatialGrid) QueryInto(dst []int32, center vecmath.Vec2, radius float32, limit int) []int32 {
	dst = dst[:0]
	if limit <= 0 {
		return dst
	}
	if radius < 0 {
		radius = 0
	}

	minCol := g.clampCol(g.coord(center.X - radius))
	maxCol := g.clampCol(g.coord(center.X + radius))
	minRow := g.clampRow(g.coord(center.Y - radius))
	maxRow := g.clampRow(g.coord(center.Y + radius))

	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			idx := row*g.cols + col
			n := int(g.counts[idx])
			if n == 0 {
				continue
			}
			base := idx * g.cellCap
			room := limit - len(dst)
			if n > room {
				dst = append(dst, g.ids[base:base+room]...)
				g.truncated.Add(1)
				return dst
			}
			dst = append(dst, g.ids[base:base+n]...)
		}
	}
	return dst
}

// coord returns floor(v / cellSize). NaN maps to cell 0.
func (g *SpatialGrid) coord(v float32) int {
	f := math.Floor(float64(v / g.cellSize))
	switch {
	case math.IsNaN(f):
		return 0
	case f < math.MinInt32:
		return math.MinInt32
	case f > math.MaxInt32:
		return math.MaxInt32
	}
	return int(f)
}

func (g *SpatialGrid) clampCol(c int) int {
	if c < 0 {
		return 0
	}
	if c >= g.cols {
		return g.cols - 1
	}
	return c
}

func (g *SpatialGrid) clampRow(r int) int {
	if r < 0 {
		return 0
	}
	if r >= g.rows {
		return g.rows - 1
	}
	return r
}

// cellIndex returns the flat index of the clamped cell covering p.
func (g *SpatialGrid) cellIndex(p vecmath.Vec2) int {
	col, row := g.CellOf(p)
	return row*g.cols + col
}
