package domain

import (
	"context"
	"time"
)

// Page is a named, ordered collection of components.
type Page struct {
	Name       string      `json:"pageName"`
	Components []Component `json:"components"`
}

// Clone deep-copies the page.
func (p Page) Clone() Page {
	return Page{Name: p.Name, Components: CloneComponents(p.Components)}
}

// ClonePages deep-copies a page list.
func ClonePages(ps []Page) []Page {
	if ps == nil {
		return nil
	}
	out := make([]Page, len(ps))
	for i, p := range ps {
		out[i] = p.Clone()
	}
	return out
}

// Draft is the persisted, editable site.
//
// Components is only populated by legacy single-page drafts; new drafts
// always use Pages.
type Draft struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Pages      []Page      `json:"pages"`
	Components []Component `json:"components,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

// LegacyPageName names the single page that wraps a legacy draft's flat
// component list.
const LegacyPageName = "Home"

// PageList returns the draft's pages, wrapping a legacy flat component list
// into a single page. The result shares memory with d.
func (d *Draft) PageList() []Page {
	if d.IsLegacy() {
		return []Page{{Name: LegacyPageName, Components: d.Components}}
	}
	return d.Pages
}

// IsLegacy reports whether the draft still uses the flat component list.
func (d *Draft) IsLegacy() bool {
	return len(d.Pages) == 0 && len(d.Components) > 0
}

// DraftSummary is the light listing form of a draft.
type DraftSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	PageCount int       `json:"pageCount"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DraftStore persists drafts verbatim.
type DraftStore interface {
	CreateDraft(ctx context.Context, d *Draft) error
	GetDraft(ctx context.Context, id string) (*Draft, error)
	ListDrafts(ctx context.Context) ([]DraftSummary, error)
	SaveDraft(ctx context.Context, d *Draft) error
	DeleteDraft(ctx context.Context, id string) error
}
