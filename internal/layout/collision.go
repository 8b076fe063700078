// Package layout implements collision-aware placement of components on a
// page canvas: the buffered AABB collision test, the spiral free-spot
// search and the drag/resize stop handlers built on top of them.
package layout

import "sitebuilder/internal/domain"

// Buffer is the margin, in pixels, kept around every component.
const Buffer = 5.0

// IsColliding reports whether a component of the given size placed at pos
// would overlap any of existing once both sides are grown by Buffer. The
// component whose id equals excludeID is ignored so a component never
// collides with itself.
func IsColliding(pos domain.Position, size domain.Size, existing []domain.Component, excludeID string) bool {
	candidate := domain.RectOf(pos, size).Expand(Buffer)
	for _, c := range existing {
		if c.ID == excludeID {
			continue
		}
		if candidate.Intersects(c.Rect().Expand(Buffer)) {
			return true
		}
	}
	return false
}

// Colliders returns the ids of every component that collides with the
// candidate. Used for diagnostics; IsColliding stops at the first hit.
func Colliders(pos domain.Position, size domain.Size, existing []domain.Component, excludeID string) []string {
	candidate := domain.RectOf(pos, size).Expand(Buffer)
	var ids []string
	for _, c := range existing {
		if c.ID == excludeID {
			continue
		}
		if candidate.Intersects(c.Rect().Expand(Buffer)) {
			ids = append(ids, c.ID)
		}
	}
	return ids
}
