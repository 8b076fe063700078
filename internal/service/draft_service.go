package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"sitebuilder/internal/domain"
	"sitebuilder/internal/editor"
)

// ─────────────────────────────────────────────────────────────
// Draft Service: draft CRUD, import/export and revisions
// ─────────────────────────────────────────────────────────────

// DraftService manages drafts as whole documents.
type DraftService struct {
	store     domain.DraftStore
	revisions domain.RevisionStore // optional
	emitter   EventEmitter
}

// NewDraftService creates a DraftService. revisions may be nil for stores
// without history.
func NewDraftService(store domain.DraftStore, revisions domain.RevisionStore, emitter EventEmitter) *DraftService {
	return &DraftService{store: store, revisions: revisions, emitter: emitter}
}

// ── Drafts ─────────────────────────────────────────────────

func (s *DraftService) ListDrafts(ctx context.Context) ([]domain.DraftSummary, error) {
	return s.store.ListDrafts(ctx)
}

func (s *DraftService) GetDraft(ctx context.Context, id string) (*domain.Draft, error) {
	return s.store.GetDraft(ctx, id)
}

// CreateDraft creates a draft with a single empty home page.
func (s *DraftService) CreateDraft(ctx context.Context, name string) (*domain.Draft, error) {
	if strings.TrimSpace(name) == "" {
		name = "Untitled site"
	}
	d := &domain.Draft{
		ID:    uuid.New().String(),
		Name:  name,
		Pages: []domain.Page{{Name: domain.LegacyPageName, Components: []domain.Component{}}},
	}
	if err := s.store.CreateDraft(ctx, d); err != nil {
		return nil, fmt.Errorf("create draft: %w", err)
	}
	s.emitter.Emit(ctx, EventDraftCreated, d.ID)
	return d, nil
}

func (s *DraftService) RenameDraft(ctx context.Context, id, name string) error {
	d, err := s.store.GetDraft(ctx, id)
	if err != nil {
		return err
	}
	d.Name = name
	return s.store.SaveDraft(ctx, d)
}

func (s *DraftService) DeleteDraft(ctx context.Context, id string) error {
	if err := s.store.DeleteDraft(ctx, id); err != nil {
		return err
	}
	if s.revisions != nil {
		if err := s.revisions.ClearRevisions(ctx, id); err != nil {
			return fmt.Errorf("clear revisions: %w", err)
		}
	}
	s.emitter.Emit(ctx, EventDraftDeleted, id)
	return nil
}

// SavePages persists pages as the draft's full content and records a
// revision labelled label.
func (s *DraftService) SavePages(ctx context.Context, id, label string, pages []domain.Page) (*domain.Draft, error) {
	d, err := s.store.GetDraft(ctx, id)
	if err != nil {
		return nil, err
	}
	d.Pages = domain.ClonePages(pages)
	d.Components = nil
	if err := s.store.SaveDraft(ctx, d); err != nil {
		return nil, fmt.Errorf("save draft: %w", err)
	}
	if s.revisions != nil {
		if _, err := s.revisions.RecordRevision(ctx, id, label, d.Pages); err != nil {
			return nil, fmt.Errorf("record revision: %w", err)
		}
	}
	s.emitter.Emit(ctx, EventDraftSaved, map[string]string{"draftId": id, "label": label})
	return d, nil
}

// ── Import / Export ────────────────────────────────────────

// ExportDraft returns the draft as indented JSON, exactly as persisted.
func (s *DraftService) ExportDraft(ctx context.Context, id string) ([]byte, error) {
	d, err := s.store.GetDraft(ctx, id)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(d, "", "  ")
}

// ImportDraft decodes a draft document and creates or replaces it. A
// document without an id gets a fresh one. Legacy flat drafts are kept as
// they are; they become multi-page on their first save from the editor.
func (s *DraftService) ImportDraft(ctx context.Context, data []byte) (*domain.Draft, error) {
	var d domain.Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}
	if err := ValidateDraft(&d); err != nil {
		return nil, err
	}
	if d.ID == "" {
		d.ID = uuid.New().String()
	}

	_, err := s.store.GetDraft(ctx, d.ID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		if err := s.store.CreateDraft(ctx, &d); err != nil {
			return nil, fmt.Errorf("import draft: %w", err)
		}
		s.emitter.Emit(ctx, EventDraftCreated, d.ID)
	case err != nil:
		return nil, err
	default:
		if err := s.store.SaveDraft(ctx, &d); err != nil {
			return nil, fmt.Errorf("import draft: %w", err)
		}
		s.emitter.Emit(ctx, EventDraftSaved, map[string]string{"draftId": d.ID, "label": "import"})
	}
	return &d, nil
}

// ValidateDraft checks page names and component ids of an incoming draft.
func ValidateDraft(d *domain.Draft) error {
	for i, p := range d.Pages {
		if err := editor.ValidatePageName(d.Pages, i, p.Name); err != nil {
			return fmt.Errorf("page %d: %w", i, err)
		}
		if err := uniqueIDs(p.Components); err != nil {
			return fmt.Errorf("page %q: %w", p.Name, err)
		}
	}
	return uniqueIDs(d.Components)
}

func uniqueIDs(cs []domain.Component) error {
	seen := make(map[string]bool, len(cs))
	for _, c := range cs {
		if c.ID == "" {
			return errors.New("component without id")
		}
		if seen[c.ID] {
			return fmt.Errorf("duplicate component id %q", c.ID)
		}
		seen[c.ID] = true
	}
	return nil
}

// ── Revisions ──────────────────────────────────────────────

func (s *DraftService) ListRevisions(ctx context.Context, draftID string) ([]domain.Revision, error) {
	if s.revisions == nil {
		return nil, nil
	}
	return s.revisions.ListRevisions(ctx, draftID)
}

// RestoreRevision writes a revision's pages back as the draft content.
func (s *DraftService) RestoreRevision(ctx context.Context, draftID, revisionID string) (*domain.Draft, error) {
	if s.revisions == nil {
		return nil, fmt.Errorf("revision %s: %w", revisionID, domain.ErrNotFound)
	}
	rev, err := s.revisions.GetRevision(ctx, revisionID)
	if err != nil {
		return nil, err
	}
	if rev.DraftID != draftID {
		return nil, fmt.Errorf("revision %s of draft %s: %w", revisionID, draftID, domain.ErrNotFound)
	}
	pages, err := rev.Pages()
	if err != nil {
		return nil, fmt.Errorf("decode revision: %w", err)
	}
	return s.SavePages(ctx, draftID, "restore "+rev.Label, pages)
}
