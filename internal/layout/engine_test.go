package layout

import (
	"testing"

	"sitebuilder/internal/domain"
)

func TestNextPosition_EmptyCanvas(t *testing.T) {
	e := NewEngine()
	got := e.NextPosition(nil, domain.Size{Width: 200, Height: 150})
	if got != (domain.Position{}) {
		t.Errorf("expected (0, 0) for empty canvas, got %v", got)
	}
}

func TestNextPosition_AvoidsExisting(t *testing.T) {
	e := NewEngine()
	existing := []domain.Component{
		comp("1", 0, 0, 200, 150),
		comp("2", 210, 0, 200, 150),
	}
	size := domain.Size{Width: 200, Height: 150}
	got := e.NextPosition(existing, size)
	if IsColliding(got, size, existing, "") {
		t.Errorf("position %v collides with existing components", got)
	}
	if got.Y != 0 {
		t.Errorf("expected the first row to still have room, got %v", got)
	}
}

func TestNextPosition_FullWidthGoesBelow(t *testing.T) {
	e := NewEngine()
	existing := []domain.Component{comp("1", 0, 0, 200, 150)}
	size := domain.DefaultSize(domain.ComponentTypeNavBar)
	got := e.NextPosition(existing, size)
	if got.X != 0 {
		t.Errorf("full-width component should start at x=0, got %v", got)
	}
	if IsColliding(got, size, existing, "") {
		t.Errorf("position %v collides", got)
	}
}

func TestArrange(t *testing.T) {
	e := NewEngine()
	components := []domain.Component{
		comp("1", 500, 500, 300, 200),
		comp("2", 0, 0, 300, 200),
		comp("3", 40, 40, 300, 200),
		comp("4", 40, 40, 700, 100),
	}

	arranged := e.Arrange(components, domain.Position{})
	if len(arranged) != len(components) {
		t.Fatalf("expected %d components, got %d", len(components), len(arranged))
	}
	if components[0].Position.X != 500 {
		t.Error("Arrange modified its input")
	}

	for i := 0; i < len(arranged); i++ {
		for j := i + 1; j < len(arranged); j++ {
			if arranged[i].Rect().Intersects(arranged[j].Rect()) {
				t.Errorf("components %s and %s overlap: %v %v",
					arranged[i].ID, arranged[j].ID, arranged[i].Rect(), arranged[j].Rect())
			}
		}
	}
	if arranged[3].Position.X != 0 {
		t.Errorf("wide component should wrap to a new row, got %v", arranged[3].Position)
	}
}

func TestSnap(t *testing.T) {
	e := NewEngine()
	tests := []struct {
		input, want float64
	}{
		{0, 0},
		{4, 0},
		{5, 10},
		{14, 10},
		{15, 20},
		{101, 100},
	}
	for _, tt := range tests {
		if got := e.snap(tt.input); got != tt.want {
			t.Errorf("snap(%.0f) = %.0f, want %.0f", tt.input, got, tt.want)
		}
	}
}
