package layout

import (
	"math"

	"sitebuilder/internal/domain"
)

const (
	GridSize = 10.0 // snapping step for auto-placed components
	Gap      = 20.0 // spacing between auto-arranged components
	MaxRowW  = 1200.0
)

// Engine places components that arrive without coordinates, e.g. those
// created through the MCP server or the CLI.
type Engine struct {
	gridSize float64
	gap      float64
	maxRowW  float64
}

func NewEngine() *Engine {
	return &Engine{
		gridSize: GridSize,
		gap:      Gap,
		maxRowW:  MaxRowW,
	}
}

// snap rounds v to the nearest grid point.
func (e *Engine) snap(v float64) float64 {
	return math.Round(v/e.gridSize) * e.gridSize
}

// NextPosition scans rows top-to-bottom and columns left-to-right for the
// first grid position where a component of the given size does not
// collide with existing. Full-width components always start at x = 0.
func (e *Engine) NextPosition(existing []domain.Component, size domain.Size) domain.Position {
	if len(existing) == 0 {
		return domain.Position{}
	}

	maxY := 0.0
	for _, c := range existing {
		if b := c.Bottom(); b > maxY {
			maxY = b
		}
	}
	limitY := maxY + size.Height + e.gap

	for y := 0.0; y <= limitY; y += e.gridSize {
		for x := 0.0; x+size.Width <= e.maxRowW || x == 0; x += e.gridSize {
			pos := domain.Position{X: e.snap(x), Y: e.snap(y)}
			if !IsColliding(pos, size, existing, "") {
				return pos
			}
		}
	}

	// Fallback: below everything
	return domain.Position{X: 0, Y: e.snap(maxY + e.gap)}
}

// Arrange lays components out left-to-right in rows starting at start,
// wrapping at the maximum row width. It returns a new slice; the input is
// not modified. Full-width components occupy a row of their own.
func (e *Engine) Arrange(components []domain.Component, start domain.Position) []domain.Component {
	out := domain.CloneComponents(components)
	x := e.snap(start.X)
	y := e.snap(start.Y)
	rowHeight := 0.0

	for i := range out {
		w := out[i].Size.Width
		if x > e.snap(start.X) && x+w > e.maxRowW {
			x = e.snap(start.X)
			y += e.snap(rowHeight + e.gap)
			rowHeight = 0
		}

		out[i].Position = domain.Position{X: x, Y: y}
		if out[i].Size.Height > rowHeight {
			rowHeight = out[i].Size.Height
		}
		x += e.snap(w + e.gap)
	}

	return out
}
