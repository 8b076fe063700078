package editor

import (
	"fmt"
	"strings"

	"sitebuilder/internal/domain"
)

// BasePageName is the name probed first when adding a page.
const BasePageName = "New Page"

// DeleteOutcome tells the caller what DeletePage did.
type DeleteOutcome int

const (
	// DeleteIgnored means the request was out of range or no page was active.
	DeleteIgnored DeleteOutcome = iota
	// DeleteApplied means the page has been removed.
	DeleteApplied
	// DeleteNeedsConfirmation means the page holds more than one component;
	// nothing was removed and ConfirmDeletePage must be called once the
	// user agrees.
	DeleteNeedsConfirmation
)

func (o DeleteOutcome) String() string {
	switch o {
	case DeleteApplied:
		return "applied"
	case DeleteNeedsConfirmation:
		return "needs-confirmation"
	default:
		return "ignored"
	}
}

// SwitchPage makes target the active page. The live components are stored
// into the page being left and the target's stored components become live.
// Switching without an active page, to the active page or out of range is a
// no-op.
func SwitchPage(s State, target int) State {
	if !s.HasActive() || target == s.Active || target < 0 || target >= len(s.Pages) {
		return s
	}
	out := snapshot(s)
	out.Active = target
	out.Live = domain.CloneComponents(out.Pages[target].Components)
	out.Selected = ""
	return out
}

// AddPage appends an empty page with the first free "New Page" name and
// makes it active.
func AddPage(s State) State {
	out := snapshot(s)
	out.Pages = append(out.Pages, domain.Page{
		Name:       UniquePageName(out.Pages, BasePageName),
		Components: []domain.Component{},
	})
	out.Active = len(out.Pages) - 1
	out.Live = []domain.Component{}
	out.Selected = ""
	return out
}

// UniquePageName probes base, "base 2", "base 3", ... and returns the first
// name not used by pages.
func UniquePageName(pages []domain.Page, base string) string {
	used := make(map[string]bool, len(pages))
	for _, p := range pages {
		used[p.Name] = true
	}
	if !used[base] {
		return base
	}
	for n := 2; ; n++ {
		name := fmt.Sprintf("%s %d", base, n)
		if !used[name] {
			return name
		}
	}
}

// DeletePage removes the page at index. The live components are always
// snapshotted first. A page with more than one component is not removed:
// the outcome asks for confirmation and ConfirmDeletePage finishes the job.
func DeletePage(s State, index int) (State, DeleteOutcome) {
	if !s.HasActive() || index < 0 || index >= len(s.Pages) {
		return s, DeleteIgnored
	}
	out := snapshot(s)
	if len(out.Pages[index].Components) > 1 {
		return out, DeleteNeedsConfirmation
	}
	return removePage(out, index), DeleteApplied
}

// ConfirmDeletePage removes the page at index unconditionally. It is the
// continuation of a DeletePage that needed confirmation.
func ConfirmDeletePage(s State, index int) State {
	if !s.HasActive() || index < 0 || index >= len(s.Pages) {
		return s
	}
	return removePage(snapshot(s), index)
}

// removePage splices index out of an already snapshotted state and loads
// the page that becomes active.
func removePage(s State, index int) State {
	out := s
	out.Pages = append(out.Pages[:index:index], out.Pages[index+1:]...)
	out.Selected = ""

	if len(out.Pages) == 0 {
		out.Active = NoActivePage
		out.Live = []domain.Component{}
		return out
	}

	switch {
	case out.Active == index:
		out.Active = max(0, index-1)
	case out.Active > index:
		out.Active--
	}
	if out.Active >= len(out.Pages) {
		out.Active = len(out.Pages) - 1
	}
	out.Live = domain.CloneComponents(out.Pages[out.Active].Components)
	return out
}

// ValidatePageName checks that name is usable for the page at index.
// Renaming a page to its own current name is allowed.
func ValidatePageName(pages []domain.Page, index int, name string) error {
	if strings.TrimSpace(name) == "" {
		return domain.ErrEmptyPageName
	}
	for i, p := range pages {
		if i != index && p.Name == name {
			return fmt.Errorf("%w: %q", domain.ErrDuplicatePageName, name)
		}
	}
	return nil
}

// UpdatePageName renames the page at index without validation.
func UpdatePageName(s State, index int, name string) State {
	if index < 0 || index >= len(s.Pages) {
		return s
	}
	out := s.Clone()
	out.Pages[index].Name = name
	return out
}

// RenamePage validates and applies a rename. On error the returned state is
// s itself, i.e. the edit is discarded.
func RenamePage(s State, index int, name string) (State, error) {
	if index < 0 || index >= len(s.Pages) {
		return s, nil
	}
	if err := ValidatePageName(s.Pages, index, name); err != nil {
		return s, err
	}
	return UpdatePageName(s, index, name), nil
}

// MovePage moves the page at from to position to. The page being viewed
// stays active wherever it ends up.
func MovePage(s State, from, to int) State {
	n := len(s.Pages)
	if from < 0 || from >= n || to < 0 || to >= n || from == to {
		return s
	}
	out := snapshot(s)
	moved := out.Pages[from]
	pages := append(out.Pages[:from:from], out.Pages[from+1:]...)
	pages = append(pages[:to:to], append([]domain.Page{moved}, pages[to:]...)...)
	out.Pages = pages

	if out.HasActive() {
		out.Active = followIndex(s.Active, from, to)
	}
	return out
}

// followIndex maps an index through a move of from to to.
func followIndex(active, from, to int) int {
	switch {
	case active == from:
		return to
	case from < active && active <= to:
		return active - 1
	case to <= active && active < from:
		return active + 1
	default:
		return active
	}
}
