package layout

import (
	"fmt"
	"strconv"
	"strings"

	"sitebuilder/internal/domain"
)

// UpdateFunc receives the finalized geometry of a component.
type UpdateFunc func(id string, pos domain.Position, size domain.Size)

// Placement is the finalized geometry produced by a resize.
type Placement struct {
	Position domain.Position `json:"position"`
	Size     domain.Size     `json:"size"`
}

// DragStopHandler binds a drag-stop handler to component c. The returned
// function takes the raw drop coordinates, displaces them to the nearest
// free spot among siblings (c itself excluded), reports the result to
// update and returns it.
func DragStopHandler(c domain.Component, siblings []domain.Component, update UpdateFunc) func(drop domain.Position) domain.Position {
	return func(drop domain.Position) domain.Position {
		final := FindBestFreeSpot(drop, c.Size, siblings, c.ID)
		if update != nil {
			update(c.ID, final, c.Size)
		}
		return final
	}
}

// ResizeStopHandler binds a resize-stop handler to component c. The
// returned function takes the position reported by the resize and the
// observed final dimensions, reruns the free-spot search with the new size
// and commits position and size together through update.
func ResizeStopHandler(c domain.Component, siblings []domain.Component, update UpdateFunc) func(pos domain.Position, observed domain.Size) Placement {
	return func(pos domain.Position, observed domain.Size) Placement {
		size := normalizeSize(observed, c.Size)
		final := FindBestFreeSpot(pos, size, siblings, c.ID)
		if update != nil {
			update(c.ID, final, size)
		}
		return Placement{Position: final, Size: size}
	}
}

// normalizeSize keeps the previous dimension when an observed one is not
// positive, e.g. when the element has not been laid out yet.
func normalizeSize(observed, previous domain.Size) domain.Size {
	out := observed
	if out.Width <= 0 {
		out.Width = previous.Width
	}
	if out.Height <= 0 {
		out.Height = previous.Height
	}
	return out
}

// ParseDimension converts a CSS pixel dimension such as "240px" or "240"
// into a number.
func ParseDimension(s string) (float64, error) {
	v := strings.TrimSpace(s)
	v = strings.TrimSuffix(v, "px")
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, fmt.Errorf("parse dimension %q: %w", s, err)
	}
	return f, nil
}

// ParseSize parses a width/height pair of CSS pixel dimensions.
func ParseSize(width, height string) (domain.Size, error) {
	w, err := ParseDimension(width)
	if err != nil {
		return domain.Size{}, err
	}
	h, err := ParseDimension(height)
	if err != nil {
		return domain.Size{}, err
	}
	return domain.Size{Width: w, Height: h}, nil
}
