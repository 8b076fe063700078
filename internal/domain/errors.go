package domain

import "errors"

var (
	// ErrDuplicatePageName is returned when a rename or add would reuse an
	// existing page name within the same draft.
	ErrDuplicatePageName = errors.New("a page with that name already exists")
	// ErrEmptyPageName is returned for blank page names.
	ErrEmptyPageName = errors.New("page name must not be empty")
	// ErrNotFound is returned by stores for unknown drafts.
	ErrNotFound = errors.New("not found")
	// ErrNoActivePage is returned by session operations that need a page.
	ErrNoActivePage = errors.New("no active page")
	// ErrComponentNotFound is returned for unknown component ids.
	ErrComponentNotFound = errors.New("component not found")
)
