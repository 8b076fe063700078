package domain

// Position is a pixel offset from the top-left corner of the page container.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is the pixel extent of a component. A negative dimension marks a
// size that has not been measured yet.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// UnsetSize is the sentinel seeded by components whose size is only known
// after the first render.
var UnsetSize = Size{Width: -1, Height: -1}

// IsFinal reports whether both dimensions are positive.
func (s Size) IsFinal() bool {
	return s.Width > 0 && s.Height > 0
}

// Rect is an axis-aligned bounding box in page coordinates.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// RectOf builds the bounding box of a positioned size.
func RectOf(p Position, s Size) Rect {
	return Rect{Left: p.X, Top: p.Y, Right: p.X + s.Width, Bottom: p.Y + s.Height}
}

// Expand grows the rectangle by margin on every side.
func (r Rect) Expand(margin float64) Rect {
	return Rect{
		Left:   r.Left - margin,
		Top:    r.Top - margin,
		Right:  r.Right + margin,
		Bottom: r.Bottom + margin,
	}
}

// Intersects is the strict AABB overlap test; touching edges do not overlap.
func (r Rect) Intersects(o Rect) bool {
	return r.Left < o.Right && r.Right > o.Left &&
		r.Top < o.Bottom && r.Bottom > o.Top
}

// Contains reports whether p lies inside r (edges included).
func (r Rect) Contains(p Position) bool {
	return p.X >= r.Left && p.X <= r.Right && p.Y >= r.Top && p.Y <= r.Bottom
}
