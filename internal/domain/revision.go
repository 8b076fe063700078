package domain

import (
	"context"
	"encoding/json"
	"time"
)

// Revision is a saved snapshot of a draft's pages, kept so an earlier
// layout can be restored.
type Revision struct {
	ID        string          `json:"id"`
	DraftID   string          `json:"draftId"`
	Label     string          `json:"label"`
	Snapshot  json.RawMessage `json:"snapshot"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Pages decodes the snapshot.
func (r *Revision) Pages() ([]Page, error) {
	var pages []Page
	if err := json.Unmarshal(r.Snapshot, &pages); err != nil {
		return nil, err
	}
	return pages, nil
}

// RevisionStore keeps a bounded history of draft snapshots.
type RevisionStore interface {
	RecordRevision(ctx context.Context, draftID, label string, pages []Page) (*Revision, error)
	ListRevisions(ctx context.Context, draftID string) ([]Revision, error)
	GetRevision(ctx context.Context, id string) (*Revision, error)
	ClearRevisions(ctx context.Context, draftID string) error
}
