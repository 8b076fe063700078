package layout

import (
	"testing"

	"sitebuilder/internal/domain"
)

type updateCall struct {
	id   string
	pos  domain.Position
	size domain.Size
}

func recorder(calls *[]updateCall) UpdateFunc {
	return func(id string, pos domain.Position, size domain.Size) {
		*calls = append(*calls, updateCall{id, pos, size})
	}
}

func TestDragStopHandler(t *testing.T) {
	self := comp("me", 400, 400, 50, 50)
	siblings := []domain.Component{comp("x", 0, 0, 100, 50), self}

	var calls []updateCall
	onDragStop := DragStopHandler(self, siblings, recorder(&calls))
	got := onDragStop(domain.Position{X: 10, Y: 10})

	if want := (domain.Position{X: 10, Y: 60}); got != want {
		t.Errorf("drag stop = %v, want %v", got, want)
	}
	if len(calls) != 1 {
		t.Fatalf("expected 1 update, got %d", len(calls))
	}
	if calls[0].id != "me" || calls[0].pos != got || calls[0].size != self.Size {
		t.Errorf("unexpected update %+v", calls[0])
	}
}

func TestDragStopHandler_FreeDropKeepsCoordinates(t *testing.T) {
	self := comp("me", 0, 0, 50, 50)
	var calls []updateCall
	got := DragStopHandler(self, []domain.Component{self}, recorder(&calls))(domain.Position{X: 20, Y: 30})
	if want := (domain.Position{X: 20, Y: 30}); got != want {
		t.Errorf("drag stop = %v, want %v", got, want)
	}
}

func TestDragStopHandler_NilUpdate(t *testing.T) {
	self := comp("me", 0, 0, 50, 50)
	got := DragStopHandler(self, nil, nil)(domain.Position{X: 5, Y: 5})
	if got != (domain.Position{X: 5, Y: 5}) {
		t.Errorf("drag stop = %v", got)
	}
}

func TestResizeStopHandler(t *testing.T) {
	self := comp("me", 200, 0, 50, 50)
	siblings := []domain.Component{comp("x", 0, 0, 100, 50), self}

	var calls []updateCall
	onResizeStop := ResizeStopHandler(self, siblings, recorder(&calls))
	// Growing leftwards moves the origin into the sibling.
	got := onResizeStop(domain.Position{X: 10, Y: 10}, domain.Size{Width: 50, Height: 50})

	if got.Size != (domain.Size{Width: 50, Height: 50}) {
		t.Errorf("size = %v", got.Size)
	}
	if got.Position != (domain.Position{X: 10, Y: 60}) {
		t.Errorf("position = %v, want {10 60}", got.Position)
	}
	if len(calls) != 1 || calls[0].pos != got.Position || calls[0].size != got.Size {
		t.Errorf("update calls = %+v", calls)
	}
}

func TestResizeStopHandler_UsesNewSizeForCollision(t *testing.T) {
	self := comp("me", 200, 0, 50, 50)
	siblings := []domain.Component{comp("x", 300, 0, 100, 50), self}

	// At 50 wide the component fits; at 120 wide it reaches x = 320.
	got := ResizeStopHandler(self, siblings, nil)(domain.Position{X: 200, Y: 0}, domain.Size{Width: 120, Height: 50})
	if IsColliding(got.Position, got.Size, siblings, "me") {
		t.Errorf("resized placement %+v collides", got)
	}
	if got.Position == (domain.Position{X: 200, Y: 0}) {
		t.Error("expected the resized component to be displaced")
	}
}

func TestResizeStopHandler_KeepsPreviousDimensionWhenUnmeasured(t *testing.T) {
	self := comp("me", 0, 0, 80, 40)
	got := ResizeStopHandler(self, nil, nil)(domain.Position{}, domain.Size{Width: 120, Height: -1})
	if got.Size != (domain.Size{Width: 120, Height: 40}) {
		t.Errorf("size = %v, want {120 40}", got.Size)
	}
}

func TestParseDimension(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"240px", 240, false},
		{"240", 240, false},
		{" 12.5px ", 12.5, false},
		{"0px", 0, false},
		{"auto", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseDimension(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDimension(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDimension(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseSize(t *testing.T) {
	got, err := ParseSize("300px", "150px")
	if err != nil {
		t.Fatal(err)
	}
	if got != (domain.Size{Width: 300, Height: 150}) {
		t.Errorf("ParseSize = %v", got)
	}
	if _, err := ParseSize("300px", "tall"); err == nil {
		t.Error("expected error for invalid height")
	}
}
