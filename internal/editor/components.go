package editor

import (
	"encoding/json"
	"fmt"

	"sitebuilder/internal/domain"
)

// Component returns the live component with the given id.
func (s State) Component(id string) (domain.Component, bool) {
	for _, c := range s.Live {
		if c.ID == id {
			return c.Clone(), true
		}
	}
	return domain.Component{}, false
}

// AddComponent appends c to the live list and selects it. The id must be
// unique on the page.
func AddComponent(s State, c domain.Component) (State, error) {
	if !s.HasActive() {
		return s, domain.ErrNoActivePage
	}
	if _, exists := s.Component(c.ID); exists {
		return s, fmt.Errorf("component %q already exists on page %q", c.ID, s.Pages[s.Active].Name)
	}
	out := s.Clone()
	out.Live = append(out.Live, c.Clone())
	out.Selected = c.ID
	return out, nil
}

// UpdateComponent replaces the geometry of the live component id.
func UpdateComponent(s State, id string, pos domain.Position, size domain.Size) (State, error) {
	return mutate(s, id, func(c *domain.Component) {
		c.Position = pos
		c.Size = size
	})
}

// UpdateContent replaces the opaque payload of the live component id.
func UpdateContent(s State, id string, content json.RawMessage) (State, error) {
	return mutate(s, id, func(c *domain.Component) {
		c.Content = append(json.RawMessage(nil), content...)
	})
}

// RemoveComponent drops the live component id, clearing the selection if
// it pointed at it.
func RemoveComponent(s State, id string) (State, error) {
	idx := indexOf(s.Live, id)
	if idx < 0 {
		return s, fmt.Errorf("%w: %s", domain.ErrComponentNotFound, id)
	}
	out := s.Clone()
	out.Live = append(out.Live[:idx:idx], out.Live[idx+1:]...)
	if out.Selected == id {
		out.Selected = ""
	}
	return out, nil
}

// ReplaceLive swaps the whole live list, e.g. after an auto-arrange.
func ReplaceLive(s State, components []domain.Component) State {
	out := s.Clone()
	out.Live = domain.CloneComponents(components)
	return out
}

// Select marks id as the active component; an empty id clears it.
func Select(s State, id string) State {
	if id != "" && indexOf(s.Live, id) < 0 {
		return s
	}
	out := s
	out.Selected = id
	return out
}

func mutate(s State, id string, fn func(*domain.Component)) (State, error) {
	idx := indexOf(s.Live, id)
	if idx < 0 {
		return s, fmt.Errorf("%w: %s", domain.ErrComponentNotFound, id)
	}
	out := s.Clone()
	fn(&out.Live[idx])
	return out, nil
}

func indexOf(cs []domain.Component, id string) int {
	for i, c := range cs {
		if c.ID == id {
			return i
		}
	}
	return -1
}
