// Package compose turns the absolute editor geometry of a page into the
// structure used for static rendering: an absolutely positioned head and a
// flowed tail split at the first project card, grouped into rows.
package compose

import (
	"math"
	"sort"

	"sitebuilder/internal/domain"
)

// DefaultRowThreshold is the vertical tolerance, in pixels, under which two
// components are considered to sit on the same row.
const DefaultRowThreshold = 10.0

// Row is a horizontal band of components in published order.
type Row struct {
	Components []domain.Component `json:"components"`
	Top        float64            `json:"top"`
	Bottom     float64            `json:"bottom"`
	// TopMargin is the gap to the previous row's bottom, or the raw top for
	// the first row. Rows placed higher than the previous bottom yield a
	// negative margin.
	TopMargin float64 `json:"topMargin"`
}

// PageLayout is everything a renderer needs to lay out one page.
type PageLayout struct {
	Width     float64            `json:"width"`
	MinHeight float64            `json:"minHeight"`
	Absolute  []domain.Component `json:"absolute"`
	Rows      []Row              `json:"rows"`
}

// MaxRight returns the largest right edge, ignoring full-width types.
func MaxRight(cs []domain.Component) float64 {
	var right float64
	for _, c := range cs {
		if c.Type == domain.ComponentTypeNavBar || c.Type == domain.ComponentTypeProjectCard {
			continue
		}
		right = math.Max(right, c.Right())
	}
	return right
}

// LowestY returns the largest bottom edge over all components.
func LowestY(cs []domain.Component) float64 {
	var lowest float64
	for _, c := range cs {
		lowest = math.Max(lowest, c.Bottom())
	}
	return lowest
}

// SplitAtFirstProjectCard orders components by (y, x) and splits them at the
// first project card. Without a project card every component is in before.
func SplitAtFirstProjectCard(cs []domain.Component) (before, rest []domain.Component) {
	sorted := sortedByYX(cs)
	for i, c := range sorted {
		if c.Type == domain.ComponentTypeProjectCard {
			return sorted[:i:i], sorted[i:]
		}
	}
	return sorted, nil
}

// GroupByRows buckets components into rows. A component joins the last row
// when its y is within threshold of that row's first member, otherwise it
// opens a new row. Members of a row are ordered by x.
func GroupByRows(cs []domain.Component, threshold float64) [][]domain.Component {
	sorted := domain.CloneComponents(cs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position.Y < sorted[j].Position.Y
	})

	var rows [][]domain.Component
	for _, c := range sorted {
		if n := len(rows); n > 0 && math.Abs(c.Position.Y-rows[n-1][0].Position.Y) <= threshold {
			rows[n-1] = append(rows[n-1], c)
			continue
		}
		rows = append(rows, []domain.Component{c})
	}

	for _, row := range rows {
		sort.SliceStable(row, func(i, j int) bool {
			return row[i].Position.X < row[j].Position.X
		})
	}
	return rows
}

// RenderGroupedRows computes the vertical flow of grouped rows.
func RenderGroupedRows(rows [][]domain.Component) []Row {
	out := make([]Row, 0, len(rows))
	var prevBottom float64
	for _, members := range rows {
		if len(members) == 0 {
			continue
		}
		r := Row{
			Components: members,
			Top:        members[0].Position.Y,
			Bottom:     LowestY(members),
		}
		for _, c := range members {
			r.Top = math.Min(r.Top, c.Position.Y)
		}
		if len(out) == 0 {
			r.TopMargin = r.Top
		} else {
			r.TopMargin = r.Top - prevBottom
		}
		prevBottom = r.Bottom
		out = append(out, r)
	}
	return out
}

// Compose builds the published layout of a page.
func Compose(cs []domain.Component) PageLayout {
	before, rest := SplitAtFirstProjectCard(cs)
	return PageLayout{
		Width:     MaxRight(cs),
		MinHeight: LowestY(cs),
		Absolute:  nonNil(before),
		Rows:      RenderGroupedRows(GroupByRows(rest, DefaultRowThreshold)),
	}
}

func sortedByYX(cs []domain.Component) []domain.Component {
	out := domain.CloneComponents(cs)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Position, out[j].Position
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})
	return out
}

func nonNil(cs []domain.Component) []domain.Component {
	if cs == nil {
		return []domain.Component{}
	}
	return cs
}
