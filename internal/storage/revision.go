package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"sitebuilder/internal/domain"
)

// MaxRevisions is how many snapshots are kept per draft.
const MaxRevisions = 40

// RevisionStore implements domain.RevisionStore over SQL.
type RevisionStore struct {
	db  *DB
	max int
}

func NewRevisionStore(db *DB) *RevisionStore {
	return &RevisionStore{db: db, max: MaxRevisions}
}

// RecordRevision stores a snapshot of pages and prunes the oldest entries
// beyond MaxRevisions.
func (s *RevisionStore) RecordRevision(ctx context.Context, draftID, label string, pages []domain.Page) (*domain.Revision, error) {
	if pages == nil {
		pages = []domain.Page{}
	}
	snapshot, err := json.Marshal(pages)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	rev := &domain.Revision{
		ID:        uuid.New().String(),
		DraftID:   draftID,
		Label:     label,
		Snapshot:  snapshot,
		CreatedAt: time.Now().UTC(),
	}

	err = s.db.inTx(ctx, func(tx *sql.Tx) error {
		var seq int64
		if err := s.db.queryRow(ctx, tx,
			`SELECT COALESCE(MAX(seq), 0) FROM revisions WHERE draft_id = ?`, draftID,
		).Scan(&seq); err != nil {
			return fmt.Errorf("next revision seq: %w", err)
		}
		seq++
		if _, err := s.db.exec(ctx, tx,
			`INSERT INTO revisions (id, draft_id, seq, label, snapshot_json, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
			rev.ID, draftID, seq, label, string(snapshot), rev.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert revision: %w", err)
		}
		if seq > int64(s.max) {
			if _, err := s.db.exec(ctx, tx,
				`DELETE FROM revisions WHERE draft_id = ? AND seq <= ?`, draftID, seq-int64(s.max),
			); err != nil {
				return fmt.Errorf("prune revisions: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rev, nil
}

// ListRevisions returns the draft's revisions, newest first.
func (s *RevisionStore) ListRevisions(ctx context.Context, draftID string) ([]domain.Revision, error) {
	rows, err := s.db.query(ctx, s.db.conn,
		`SELECT id, draft_id, label, snapshot_json, created_at
		 FROM revisions WHERE draft_id = ? ORDER BY seq DESC`, draftID)
	if err != nil {
		return nil, fmt.Errorf("list revisions: %w", err)
	}
	defer rows.Close()

	var revs []domain.Revision
	for rows.Next() {
		rev, err := scanRevision(rows)
		if err != nil {
			return nil, err
		}
		revs = append(revs, *rev)
	}
	return revs, rows.Err()
}

func (s *RevisionStore) GetRevision(ctx context.Context, id string) (*domain.Revision, error) {
	rev, err := scanRevision(s.db.queryRow(ctx, s.db.conn,
		`SELECT id, draft_id, label, snapshot_json, created_at FROM revisions WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get revision %s: %w", id, domain.ErrNotFound)
	}
	return rev, err
}

// ClearRevisions removes the whole history of a draft.
func (s *RevisionStore) ClearRevisions(ctx context.Context, draftID string) error {
	_, err := s.db.exec(ctx, s.db.conn, `DELETE FROM revisions WHERE draft_id = ?`, draftID)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRevision(row scanner) (*domain.Revision, error) {
	var (
		rev      domain.Revision
		snapshot string
	)
	if err := row.Scan(&rev.ID, &rev.DraftID, &rev.Label, &snapshot, &rev.CreatedAt); err != nil {
		return nil, err
	}
	rev.Snapshot = json.RawMessage(snapshot)
	return &rev, nil
}
