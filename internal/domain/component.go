package domain

import "encoding/json"

// ComponentType discriminates how a component is rendered.
type ComponentType string

const (
	ComponentTypeTextBlock   ComponentType = "textBlock"
	ComponentTypeImage       ComponentType = "image"
	ComponentTypeVideo       ComponentType = "video"
	ComponentTypeCard        ComponentType = "card"
	ComponentTypeProjectCard ComponentType = "projectCard"
	ComponentTypeButton      ComponentType = "button"
	ComponentTypeNavBar      ComponentType = "navBar"
)

// Component is a single placeable element on a page canvas.
type Component struct {
	ID         string          `json:"id"`
	Type       ComponentType   `json:"type"`
	Position   Position        `json:"position"`
	Size       Size            `json:"size"`
	Content    json.RawMessage `json:"content,omitempty"`    // opaque per-type payload
	Components []Component     `json:"components,omitempty"` // children of container types
}

// Rect returns the component's bounding box.
func (c Component) Rect() Rect {
	return RectOf(c.Position, c.Size)
}

// Right is the x coordinate of the component's right edge.
func (c Component) Right() float64 {
	return c.Position.X + c.Size.Width
}

// Bottom is the y coordinate of the component's bottom edge.
func (c Component) Bottom() float64 {
	return c.Position.Y + c.Size.Height
}

// Clone returns a deep copy so callers can mutate without aliasing.
func (c Component) Clone() Component {
	out := c
	if c.Content != nil {
		out.Content = append(json.RawMessage(nil), c.Content...)
	}
	if c.Components != nil {
		out.Components = CloneComponents(c.Components)
	}
	return out
}

// CloneComponents deep-copies a component list. A nil list stays nil.
func CloneComponents(cs []Component) []Component {
	if cs == nil {
		return nil
	}
	out := make([]Component, len(cs))
	for i, c := range cs {
		out[i] = c.Clone()
	}
	return out
}

// ContentFromString turns user input into a content payload. JSON objects
// pass through unchanged; any other text becomes a JSON string. Empty input
// yields no content.
func ContentFromString(s string) json.RawMessage {
	if s == "" {
		return nil
	}
	var probe map[string]any
	if json.Unmarshal([]byte(s), &probe) == nil {
		return json.RawMessage(s)
	}
	data, _ := json.Marshal(s)
	return data
}
