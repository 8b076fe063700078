package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"sitebuilder/internal/domain"
	"sitebuilder/internal/editor"
	"sitebuilder/internal/layout"
)

// ─────────────────────────────────────────────────────────────
// Editor Service: editing sessions over drafts
// ─────────────────────────────────────────────────────────────

// EditorService holds one editing session per open draft and applies page
// and component operations to it. Every change that alters the draft is
// saved through the DraftService, which also records a revision.
type EditorService struct {
	drafts    *DraftService
	confirmer Confirmer
	engine    *layout.Engine
	emitter   EventEmitter
	logger    *log.Logger

	mu       sync.Mutex
	sessions map[string]*session
}

// session is an open draft together with the UpdatedAt of the stored copy
// it was last synced with.
type session struct {
	state  editor.State
	synced time.Time
}

// NewEditorService creates an EditorService. A nil confirmer rejects every
// deletion that needs confirmation.
func NewEditorService(drafts *DraftService, confirmer Confirmer, emitter EventEmitter, logger *log.Logger) *EditorService {
	if confirmer == nil {
		confirmer = AutoConfirm(false)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &EditorService{
		drafts:    drafts,
		confirmer: confirmer,
		engine:    layout.NewEngine(),
		emitter:   emitter,
		logger:    logger.WithPrefix("editor"),
		sessions:  make(map[string]*session),
	}
}

// SetConfirmer replaces the confirmer, e.g. once an approval queue exists.
func (s *EditorService) SetConfirmer(c Confirmer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.confirmer = c
}

// errSkipSave aborts an apply without error when nothing changed.
var errSkipSave = errors.New("nothing to save")

// ── Sessions ───────────────────────────────────────────────

// session returns the cached state of draftID, loading it on first use.
// When the stored draft was written by someone else since the last sync
// (an import, a restore, another process) the cached state is dropped and
// rebuilt from the store, keeping the active page when it still exists.
// Callers hold s.mu.
func (s *EditorService) session(ctx context.Context, draftID string) (editor.State, error) {
	d, err := s.drafts.GetDraft(ctx, draftID)
	if err != nil {
		return editor.State{}, err
	}
	cached, ok := s.sessions[draftID]
	if ok && cached.synced.Equal(d.UpdatedAt) {
		return cached.state, nil
	}

	st := editor.FromDraft(d)
	if ok {
		s.logger.Info("draft changed outside this session, reloading", "draft", draftID)
		st = editor.SwitchPage(st, cached.state.Active)
	}
	s.sessions[draftID] = &session{state: st, synced: d.UpdatedAt}
	return st, nil
}

// Open loads draftID and returns its active page.
func (s *EditorService) Open(ctx context.Context, draftID string) (domain.PageState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := s.session(ctx, draftID)
	if err != nil {
		return domain.PageState{}, err
	}
	return st.PageState(draftID), nil
}

// Close drops the session; the next operation reloads from the store.
func (s *EditorService) Close(draftID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, draftID)
}

// Pages returns all pages of the session with live edits applied.
func (s *EditorService) Pages(ctx context.Context, draftID string) ([]domain.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := s.session(ctx, draftID)
	if err != nil {
		return nil, err
	}
	return editor.Snapshot(st), nil
}

// apply runs fn on the session state. When label is non-empty the new
// state is saved under that revision label; otherwise only the session
// changes (page switches, selection).
func (s *EditorService) apply(ctx context.Context, draftID, label string, fn func(editor.State) (editor.State, error)) (editor.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.session(ctx, draftID)
	if err != nil {
		return editor.State{}, err
	}
	next, err := fn(st)
	if err != nil {
		return st, err
	}
	synced := s.sessions[draftID].synced
	if label != "" {
		if _, err := s.drafts.SavePages(ctx, draftID, label, editor.Snapshot(next)); err != nil {
			return st, err
		}
		// Read the stamp back so it compares at the store's precision.
		stored, err := s.drafts.GetDraft(ctx, draftID)
		if err != nil {
			return st, err
		}
		synced = stored.UpdatedAt
	}
	s.sessions[draftID] = &session{state: next, synced: synced}
	s.emitter.Emit(ctx, EventPageChanged, next.PageState(draftID))
	return next, nil
}

// ── Pages ──────────────────────────────────────────────────

func (s *EditorService) SwitchPage(ctx context.Context, draftID string, index int) (domain.PageState, error) {
	st, err := s.apply(ctx, draftID, "", func(st editor.State) (editor.State, error) {
		return editor.SwitchPage(st, index), nil
	})
	return st.PageState(draftID), err
}

func (s *EditorService) AddPage(ctx context.Context, draftID string) (domain.PageState, error) {
	st, err := s.apply(ctx, draftID, "add page", func(st editor.State) (editor.State, error) {
		return editor.AddPage(st), nil
	})
	return st.PageState(draftID), err
}

// RenamePage validates and applies a rename. A rejected name leaves the
// page list untouched.
func (s *EditorService) RenamePage(ctx context.Context, draftID string, index int, name string) (domain.PageState, error) {
	st, err := s.apply(ctx, draftID, "rename page", func(st editor.State) (editor.State, error) {
		return editor.RenamePage(st, index, name)
	})
	return st.PageState(draftID), err
}

func (s *EditorService) MovePage(ctx context.Context, draftID string, from, to int) (domain.PageState, error) {
	st, err := s.apply(ctx, draftID, "move page", func(st editor.State) (editor.State, error) {
		return editor.MovePage(st, from, to), nil
	})
	return st.PageState(draftID), err
}

// DeletePage deletes the page at index. Pages holding more than one
// component go through the confirmer and are deleted only once it
// approves; the returned outcome is then DeleteNeedsConfirmation and the
// page is still present.
func (s *EditorService) DeletePage(ctx context.Context, draftID string, index int) (editor.DeleteOutcome, error) {
	var (
		outcome  editor.DeleteOutcome
		pageName string
	)
	_, err := s.apply(ctx, draftID, "delete page", func(st editor.State) (editor.State, error) {
		next, out := editor.DeletePage(st, index)
		outcome = out
		if out == editor.DeleteNeedsConfirmation {
			pageName = next.Pages[index].Name
		}
		if out != editor.DeleteApplied {
			// Nothing to save; keep the session as it was.
			return st, errSkipSave
		}
		return next, nil
	})
	if errors.Is(err, errSkipSave) {
		err = nil
	}
	if err != nil || outcome != editor.DeleteNeedsConfirmation {
		return outcome, err
	}

	s.mu.Lock()
	confirmer := s.confirmer
	s.mu.Unlock()

	bg := context.WithoutCancel(ctx)
	prompt := fmt.Sprintf("Delete page %q and all of its components?", pageName)
	confirmer.Confirm(ctx, prompt, func(approved bool) {
		if !approved {
			s.emitter.Emit(bg, EventPageDeleteRejected, map[string]string{"draftId": draftID, "page": pageName})
			return
		}
		if err := s.confirmDelete(bg, draftID, pageName); err != nil {
			s.logger.Error("confirmed page deletion failed", "draft", draftID, "page", pageName, "err", err)
		}
	})
	return outcome, nil
}

// confirmDelete deletes the page named name. The page is looked up by name
// because the list may have been reordered while the prompt was open.
func (s *EditorService) confirmDelete(ctx context.Context, draftID, name string) error {
	_, err := s.apply(ctx, draftID, "delete page", func(st editor.State) (editor.State, error) {
		for i, p := range st.Pages {
			if p.Name == name {
				return editor.ConfirmDeletePage(st, i), nil
			}
		}
		return st, fmt.Errorf("page %q: %w", name, domain.ErrNotFound)
	})
	return err
}

// ── Components ─────────────────────────────────────────────

// AddComponentInput describes a component dropped onto the active page.
// Position and Size are optional: a missing size uses the type's default
// and a missing position is chosen by the layout engine.
type AddComponentInput struct {
	Type     domain.ComponentType `json:"type"`
	Position *domain.Position     `json:"position,omitempty"`
	Size     *domain.Size         `json:"size,omitempty"`
	Content  json.RawMessage      `json:"content,omitempty"`
}

func (s *EditorService) AddComponent(ctx context.Context, draftID string, in AddComponentInput) (domain.Component, error) {
	c := domain.Component{
		ID:      uuid.New().String(),
		Type:    in.Type,
		Size:    domain.DefaultSize(in.Type),
		Content: in.Content,
	}
	if in.Size != nil && in.Size.IsFinal() {
		c.Size = *in.Size
	}
	_, err := s.apply(ctx, draftID, "add component", func(st editor.State) (editor.State, error) {
		if in.Position == nil {
			c.Position = s.engine.NextPosition(st.Live, c.Size)
		} else {
			c.Position = layout.FindBestFreeSpot(*in.Position, c.Size, st.Live, "")
		}
		return editor.AddComponent(st, c)
	})
	if err != nil {
		return domain.Component{}, err
	}
	return c, nil
}

// MoveComponent drops component id at drop and returns where it landed.
func (s *EditorService) MoveComponent(ctx context.Context, draftID, id string, drop domain.Position) (domain.Position, error) {
	var final domain.Position
	_, err := s.apply(ctx, draftID, "move component", func(st editor.State) (editor.State, error) {
		c, ok := st.Component(id)
		if !ok {
			return st, fmt.Errorf("%w: %s", domain.ErrComponentNotFound, id)
		}
		var updErr error
		final = layout.DragStopHandler(c, st.Live, func(id string, pos domain.Position, size domain.Size) {
			st, updErr = editor.UpdateComponent(st, id, pos, size)
		})(drop)
		return st, updErr
	})
	return final, err
}

// ResizeComponent applies an observed size to component id, repositioning
// it if the new size collides.
func (s *EditorService) ResizeComponent(ctx context.Context, draftID, id string, pos domain.Position, size domain.Size) (layout.Placement, error) {
	var placed layout.Placement
	_, err := s.apply(ctx, draftID, "resize component", func(st editor.State) (editor.State, error) {
		c, ok := st.Component(id)
		if !ok {
			return st, fmt.Errorf("%w: %s", domain.ErrComponentNotFound, id)
		}
		var updErr error
		placed = layout.ResizeStopHandler(c, st.Live, func(id string, pos domain.Position, size domain.Size) {
			st, updErr = editor.UpdateComponent(st, id, pos, size)
		})(pos, size)
		return st, updErr
	})
	return placed, err
}

func (s *EditorService) UpdateContent(ctx context.Context, draftID, id string, content json.RawMessage) error {
	_, err := s.apply(ctx, draftID, "edit content", func(st editor.State) (editor.State, error) {
		return editor.UpdateContent(st, id, content)
	})
	return err
}

func (s *EditorService) RemoveComponent(ctx context.Context, draftID, id string) error {
	_, err := s.apply(ctx, draftID, "remove component", func(st editor.State) (editor.State, error) {
		return editor.RemoveComponent(st, id)
	})
	return err
}

func (s *EditorService) Select(ctx context.Context, draftID, id string) (domain.PageState, error) {
	st, err := s.apply(ctx, draftID, "", func(st editor.State) (editor.State, error) {
		return editor.Select(st, id), nil
	})
	return st.PageState(draftID), err
}

// Arrange lays out the active page in rows from the top-left corner.
func (s *EditorService) Arrange(ctx context.Context, draftID string) (domain.PageState, error) {
	st, err := s.apply(ctx, draftID, "arrange", func(st editor.State) (editor.State, error) {
		if !st.HasActive() {
			return st, domain.ErrNoActivePage
		}
		return editor.ReplaceLive(st, s.engine.Arrange(st.Live, domain.Position{})), nil
	})
	return st.PageState(draftID), err
}
