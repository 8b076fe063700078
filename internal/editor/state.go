// Package editor holds the multi-page editing state of a draft and the
// pure transitions over it. Every function takes a State and returns a new
// one; inputs are never modified, so a caller can keep the previous state
// for undo or discard the new one on a failed validation.
package editor

import "sitebuilder/internal/domain"

// NoActivePage marks a state without a selected page.
const NoActivePage = -1

// LegacyPageName names the single page created for drafts that still store
// a flat component list.
const LegacyPageName = domain.LegacyPageName

// State is the editing state of one draft. Live is the working copy of the
// active page's components; the stored copy in Pages[Active] is only
// refreshed at snapshot points (page switch, add, delete, move, save).
type State struct {
	Pages    []domain.Page      `json:"pages"`
	Active   int                `json:"active"`
	Live     []domain.Component `json:"live"`
	Selected string             `json:"selected,omitempty"`
}

// New returns an empty state with no pages.
func New() State {
	return State{Active: NoActivePage}
}

// FromDraft builds the editing state for d, activating its first page.
// Legacy drafts become a single page holding the flat component list.
func FromDraft(d *domain.Draft) State {
	s := New()
	if d == nil {
		return s
	}
	s.Pages = domain.ClonePages(d.PageList())
	if len(s.Pages) == 0 {
		s.Pages = nil
		return s
	}
	s.Active = 0
	s.Live = domain.CloneComponents(s.Pages[0].Components)
	return s
}

// HasActive reports whether a page is active and in range.
func (s State) HasActive() bool {
	return s.Active >= 0 && s.Active < len(s.Pages)
}

// Clone deep-copies the state.
func (s State) Clone() State {
	return State{
		Pages:    domain.ClonePages(s.Pages),
		Active:   s.Active,
		Live:     domain.CloneComponents(s.Live),
		Selected: s.Selected,
	}
}

// Snapshot returns the page list with the live components written into the
// active page, ready to be persisted.
func Snapshot(s State) []domain.Page {
	return snapshot(s).Pages
}

// snapshot returns a copy of s whose active page holds the live list.
func snapshot(s State) State {
	out := s.Clone()
	if out.HasActive() {
		out.Pages[out.Active].Components = nonNil(domain.CloneComponents(out.Live))
	}
	return out
}

// PageNames lists the page names in order.
func (s State) PageNames() []string {
	names := make([]string, len(s.Pages))
	for i, p := range s.Pages {
		names[i] = p.Name
	}
	return names
}

// PageState describes the active page for clients.
func (s State) PageState(draftID string) domain.PageState {
	ps := domain.PageState{
		DraftID:    draftID,
		Index:      s.Active,
		PageNames:  s.PageNames(),
		Components: nonNil(domain.CloneComponents(s.Live)),
		Selected:   s.Selected,
	}
	if s.HasActive() {
		ps.Page = s.Pages[s.Active].Name
	}
	return ps
}

func nonNil(cs []domain.Component) []domain.Component {
	if cs == nil {
		return []domain.Component{}
	}
	return cs
}
