// Package publish renders drafts to static HTML sites.
package publish

import (
	"fmt"
	"html/template"
	"sort"
	"sync"

	"sitebuilder/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Renderer registry: component type to HTML renderer
// ─────────────────────────────────────────────────────────────

// Renderer turns one component into an HTML fragment. The composer only
// supplies geometry; everything visual is up to the renderer.
type Renderer interface {
	// Type returns the component type this renderer handles (e.g. "image").
	Type() domain.ComponentType
	// Render produces the inner markup of the component's box.
	Render(c domain.Component, site Site) (template.HTML, error)
}

// Registry maps component types to renderers. Unknown types go through the
// fallback renderer.
type Registry struct {
	mu        sync.RWMutex
	renderers map[domain.ComponentType]Renderer
	fallback  Renderer
}

// NewRegistry creates an empty registry with the plain fallback renderer.
func NewRegistry() *Registry {
	return &Registry{
		renderers: make(map[domain.ComponentType]Renderer),
		fallback:  fallbackRenderer{},
	}
}

// DefaultRegistry returns a registry with a renderer for every built-in
// component type.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, rn := range builtinRenderers() {
		r.Register(rn)
	}
	return r
}

// Register adds a renderer. Panics on duplicate registration.
func (r *Registry) Register(rn Renderer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := rn.Type()
	if _, exists := r.renderers[t]; exists {
		panic(fmt.Sprintf("publish registry: duplicate renderer for component type %q", t))
	}
	r.renderers[t] = rn
}

// Lookup returns the renderer registered for t.
func (r *Registry) Lookup(t domain.ComponentType) (Renderer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rn, ok := r.renderers[t]
	return rn, ok
}

// Render dispatches c to its renderer, or to the fallback.
func (r *Registry) Render(c domain.Component, site Site) (template.HTML, error) {
	rn, ok := r.Lookup(c.Type)
	if !ok {
		rn = r.fallback
	}
	html, err := rn.Render(c, site)
	if err != nil {
		return "", fmt.Errorf("render %s %q: %w", c.Type, c.ID, err)
	}
	return html, nil
}

// Types lists the registered component types in sorted order.
func (r *Registry) Types() []domain.ComponentType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.ComponentType, 0, len(r.renderers))
	for t := range r.renderers {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
