package editor

import (
	"encoding/json"
	"errors"
	"testing"

	"sitebuilder/internal/domain"
)

func TestAddComponent(t *testing.T) {
	s := stateOf(0, pageOf("A"))
	s, err := AddComponent(s, comp("c1"))
	if err != nil {
		t.Fatal(err)
	}
	if s.Selected != "c1" || len(s.Live) != 1 {
		t.Errorf("state after add = %+v", s)
	}
	if _, err := AddComponent(s, comp("c1")); err == nil {
		t.Error("expected error for a duplicate id")
	}
	if _, err := AddComponent(New(), comp("c2")); !errors.Is(err, domain.ErrNoActivePage) {
		t.Errorf("err = %v, want ErrNoActivePage", err)
	}
}

func TestUpdateContent(t *testing.T) {
	s := stateOf(0, pageOf("A", "c1"))
	payload := json.RawMessage(`{"text":"hello"}`)
	s, err := UpdateContent(s, "c1", payload)
	if err != nil {
		t.Fatal(err)
	}
	payload[2] = 'X'
	c, _ := s.Component("c1")
	if string(c.Content) != `{"text":"hello"}` {
		t.Errorf("content = %s", c.Content)
	}
	if _, err := UpdateContent(s, "missing", payload); !errors.Is(err, domain.ErrComponentNotFound) {
		t.Errorf("err = %v, want ErrComponentNotFound", err)
	}
}

func TestRemoveComponent(t *testing.T) {
	s := stateOf(0, pageOf("A", "c1", "c2"))
	s = Select(s, "c1")
	s, err := RemoveComponent(s, "c1")
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Live) != 1 || s.Live[0].ID != "c2" {
		t.Errorf("live = %v", liveIDs(s))
	}
	if s.Selected != "" {
		t.Errorf("selection = %q, want cleared", s.Selected)
	}
	if _, err := RemoveComponent(s, "c1"); !errors.Is(err, domain.ErrComponentNotFound) {
		t.Errorf("err = %v", err)
	}
}

func TestSelect_UnknownIsNoop(t *testing.T) {
	s := stateOf(0, pageOf("A", "c1"))
	s = Select(s, "c1")
	if got := Select(s, "nope"); got.Selected != "c1" {
		t.Errorf("selection = %q", got.Selected)
	}
	if got := Select(s, ""); got.Selected != "" {
		t.Errorf("clearing selection failed: %q", got.Selected)
	}
}

func TestPageState(t *testing.T) {
	s := stateOf(1, pageOf("A"), pageOf("B", "b1"))
	ps := s.PageState("draft-1")
	if ps.DraftID != "draft-1" || ps.Page != "B" || ps.Index != 1 || len(ps.Components) != 1 {
		t.Errorf("PageState = %+v", ps)
	}
	empty := New().PageState("d")
	if empty.Components == nil || empty.Page != "" {
		t.Errorf("empty PageState = %+v", empty)
	}
}
