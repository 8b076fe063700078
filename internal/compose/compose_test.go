package compose

import (
	"reflect"
	"testing"

	"sitebuilder/internal/domain"
)

func comp(id string, t domain.ComponentType, x, y, w, h float64) domain.Component {
	return domain.Component{
		ID:       id,
		Type:     t,
		Position: domain.Position{X: x, Y: y},
		Size:     domain.Size{Width: w, Height: h},
	}
}

func ids(cs []domain.Component) []string {
	out := []string{}
	for _, c := range cs {
		out = append(out, c.ID)
	}
	return out
}

func TestMaxRight(t *testing.T) {
	tests := []struct {
		name string
		cs   []domain.Component
		want float64
	}{
		{
			name: "navBar excluded",
			cs: []domain.Component{
				comp("t", domain.ComponentTypeTextBlock, 0, 0, 100, 50),
				comp("n", domain.ComponentTypeNavBar, 0, 0, 100000, 48),
			},
			want: 100,
		},
		{
			name: "projectCard excluded",
			cs: []domain.Component{
				comp("i", domain.ComponentTypeImage, 40, 0, 300, 200),
				comp("p", domain.ComponentTypeProjectCard, 0, 300, 2000, 240),
			},
			want: 340,
		},
		{name: "empty", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaxRight(tt.cs); got != tt.want {
				t.Errorf("MaxRight = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLowestY(t *testing.T) {
	cs := []domain.Component{
		comp("a", domain.ComponentTypeTextBlock, 0, 0, 100, 50),
		comp("n", domain.ComponentTypeNavBar, 0, 400, 100000, 48),
	}
	if got := LowestY(cs); got != 448 {
		t.Errorf("LowestY = %v, want 448", got)
	}
}

func TestSplitAtFirstProjectCard(t *testing.T) {
	cs := []domain.Component{
		comp("late", domain.ComponentTypeTextBlock, 0, 900, 10, 10),
		comp("p2", domain.ComponentTypeProjectCard, 0, 700, 600, 240),
		comp("b", domain.ComponentTypeTextBlock, 200, 0, 10, 10),
		comp("a", domain.ComponentTypeTextBlock, 0, 0, 10, 10),
		comp("p1", domain.ComponentTypeProjectCard, 0, 300, 600, 240),
	}
	before, rest := SplitAtFirstProjectCard(cs)
	if want := []string{"a", "b"}; !reflect.DeepEqual(ids(before), want) {
		t.Errorf("before = %v, want %v", ids(before), want)
	}
	if want := []string{"p1", "p2", "late"}; !reflect.DeepEqual(ids(rest), want) {
		t.Errorf("rest = %v, want %v", ids(rest), want)
	}
}

func TestSplitAtFirstProjectCard_None(t *testing.T) {
	cs := []domain.Component{
		comp("b", domain.ComponentTypeTextBlock, 0, 50, 10, 10),
		comp("a", domain.ComponentTypeTextBlock, 0, 10, 10, 10),
	}
	before, rest := SplitAtFirstProjectCard(cs)
	if !reflect.DeepEqual(ids(before), []string{"a", "b"}) || len(rest) != 0 {
		t.Errorf("before = %v, rest = %v", ids(before), ids(rest))
	}
	if cs[0].ID != "b" {
		t.Error("input was reordered")
	}
}

func TestGroupByRows_Threshold(t *testing.T) {
	tests := []struct {
		name     string
		dy       float64
		wantRows int
	}{
		{"identical", 0, 1},
		{"exactly threshold", DefaultRowThreshold, 1},
		{"threshold plus one", DefaultRowThreshold + 1, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs := []domain.Component{
				comp("a", domain.ComponentTypeTextBlock, 0, 100, 50, 50),
				comp("b", domain.ComponentTypeTextBlock, 100, 100+tt.dy, 50, 50),
			}
			if got := GroupByRows(cs, DefaultRowThreshold); len(got) != tt.wantRows {
				t.Errorf("rows = %d, want %d", len(got), tt.wantRows)
			}
		})
	}
}

func TestGroupByRows_AnchorsOnFirstMember(t *testing.T) {
	cs := []domain.Component{
		comp("a", domain.ComponentTypeTextBlock, 0, 0, 10, 10),
		comp("b", domain.ComponentTypeTextBlock, 0, 8, 10, 10),
		comp("c", domain.ComponentTypeTextBlock, 0, 16, 10, 10),
	}
	rows := GroupByRows(cs, DefaultRowThreshold)
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if !reflect.DeepEqual(ids(rows[0]), []string{"a", "b"}) || !reflect.DeepEqual(ids(rows[1]), []string{"c"}) {
		t.Errorf("rows = %v / %v", ids(rows[0]), ids(rows[1]))
	}
}

func TestGroupByRows_OrdersRowByX(t *testing.T) {
	cs := []domain.Component{
		comp("right", domain.ComponentTypeTextBlock, 400, 3, 10, 10),
		comp("left", domain.ComponentTypeTextBlock, 0, 5, 10, 10),
		comp("mid", domain.ComponentTypeTextBlock, 200, 0, 10, 10),
	}
	rows := GroupByRows(cs, DefaultRowThreshold)
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if want := []string{"left", "mid", "right"}; !reflect.DeepEqual(ids(rows[0]), want) {
		t.Errorf("row = %v, want %v", ids(rows[0]), want)
	}
}

func TestRenderGroupedRows(t *testing.T) {
	rows := [][]domain.Component{
		{comp("a", domain.ComponentTypeTextBlock, 0, 40, 100, 60), comp("b", domain.ComponentTypeTextBlock, 120, 45, 100, 80)},
		{comp("c", domain.ComponentTypeTextBlock, 0, 150, 100, 50)},
		{comp("d", domain.ComponentTypeTextBlock, 0, 190, 100, 50)},
	}
	got := RenderGroupedRows(rows)
	want := []struct{ top, bottom, margin float64 }{
		{40, 125, 40},
		{150, 200, 25},
		{190, 240, -10},
	}
	if len(got) != len(want) {
		t.Fatalf("rows = %d, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].Top != w.top || got[i].Bottom != w.bottom || got[i].TopMargin != w.margin {
			t.Errorf("row %d = {top %v bottom %v margin %v}, want %+v", i, got[i].Top, got[i].Bottom, got[i].TopMargin, w)
		}
	}
}

func TestCompose(t *testing.T) {
	cs := []domain.Component{
		comp("nav", domain.ComponentTypeNavBar, 0, 0, domain.FullWidth, 48),
		comp("hero", domain.ComponentTypeImage, 20, 60, 300, 200),
		comp("proj", domain.ComponentTypeProjectCard, 0, 300, 600, 240),
		comp("foot", domain.ComponentTypeTextBlock, 0, 560, 200, 150),
	}
	layout := Compose(cs)
	if layout.Width != 320 {
		t.Errorf("Width = %v, want 320", layout.Width)
	}
	if layout.MinHeight != 710 {
		t.Errorf("MinHeight = %v, want 710", layout.MinHeight)
	}
	if want := []string{"nav", "hero"}; !reflect.DeepEqual(ids(layout.Absolute), want) {
		t.Errorf("Absolute = %v, want %v", ids(layout.Absolute), want)
	}
	if len(layout.Rows) != 2 || layout.Rows[0].TopMargin != 300 || layout.Rows[1].TopMargin != 20 {
		t.Errorf("Rows = %+v", layout.Rows)
	}
}
