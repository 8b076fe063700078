package layout

import (
	"math"

	"sitebuilder/internal/domain"
)

const (
	// AngleStep is the angular increment of the spiral search.
	AngleStep = math.Pi / 4
	// StepsPerTurn is the number of angles probed per radius.
	StepsPerTurn = 8
	// RadiusStep is how far the spiral grows after each full turn.
	RadiusStep = 10.0
	// MaxRadius bounds the search; beyond it the start position is kept.
	MaxRadius = 500.0
)

// FindBestFreeSpot returns the position nearest to start, along an outward
// spiral, where a component of the given size does not collide with
// components. When start is already free it is returned unchanged. When
// no free candidate exists within MaxRadius, start is returned as well and
// the overlap is accepted.
func FindBestFreeSpot(start domain.Position, size domain.Size, components []domain.Component, excludeID string) domain.Position {
	if !IsColliding(start, size, components, excludeID) {
		return start
	}

	// Radius 0 yields start clamped and rounded for every angle; it needs a
	// single probe, and none when that left start unchanged.
	if origin := spiralPoint(start, 0, 0); origin != start && !IsColliding(origin, size, components, excludeID) {
		return origin
	}
	for radius := RadiusStep; radius <= MaxRadius; radius += RadiusStep {
		for step := 0; step < StepsPerTurn; step++ {
			candidate := spiralPoint(start, radius, float64(step)*AngleStep)
			if !IsColliding(candidate, size, components, excludeID) {
				return candidate
			}
		}
	}
	return start
}

// spiralPoint computes the clamped candidate at (radius, angle) around
// origin. Coordinates are rounded to three decimals so cos/sin noise does
// not leak into stored positions.
func spiralPoint(origin domain.Position, radius, angle float64) domain.Position {
	x := origin.X + radius*math.Cos(angle)
	y := origin.Y + radius*math.Sin(angle)
	return domain.Position{
		X: round3(math.Max(0, x)),
		Y: round3(math.Max(0, y)),
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
