package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"sitebuilder/internal/domain"
)

// DraftStore implements domain.DraftStore over SQL.
type DraftStore struct {
	db *DB
}

func NewDraftStore(db *DB) *DraftStore {
	return &DraftStore{db: db}
}

func (s *DraftStore) CreateDraft(ctx context.Context, d *domain.Draft) error {
	now := time.Now().UTC()
	d.CreatedAt = now
	d.UpdatedAt = now
	legacy, err := legacyJSON(d)
	if err != nil {
		return err
	}
	return s.db.inTx(ctx, func(tx *sql.Tx) error {
		_, err := s.db.exec(ctx, tx,
			`INSERT INTO drafts (id, name, legacy_json, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
			d.ID, d.Name, legacy, d.CreatedAt, d.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert draft: %w", err)
		}
		return s.insertPages(ctx, tx, d.ID, d.Pages)
	})
}

func (s *DraftStore) GetDraft(ctx context.Context, id string) (*domain.Draft, error) {
	d := &domain.Draft{}
	var legacy string
	err := s.db.queryRow(ctx, s.db.conn,
		`SELECT id, name, legacy_json, created_at, updated_at FROM drafts WHERE id = ?`, id,
	).Scan(&d.ID, &d.Name, &legacy, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get draft %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get draft: %w", err)
	}
	if legacy != "" {
		if err := json.Unmarshal([]byte(legacy), &d.Components); err != nil {
			return nil, fmt.Errorf("decode legacy components: %w", err)
		}
	}

	pages, err := s.loadPages(ctx, id)
	if err != nil {
		return nil, err
	}
	d.Pages = pages
	return d, nil
}

func (s *DraftStore) loadPages(ctx context.Context, draftID string) ([]domain.Page, error) {
	rows, err := s.db.query(ctx, s.db.conn,
		`SELECT name FROM pages WHERE draft_id = ? ORDER BY page_index`, draftID)
	if err != nil {
		return nil, fmt.Errorf("load pages: %w", err)
	}
	pages := []domain.Page{}
	for rows.Next() {
		p := domain.Page{Components: []domain.Component{}}
		if err := rows.Scan(&p.Name); err != nil {
			rows.Close()
			return nil, err
		}
		pages = append(pages, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Read all components after the page cursor is closed; sqlite runs on a
	// single connection.
	rows, err = s.db.query(ctx, s.db.conn,
		`SELECT page_index, id, type, x, y, width, height, content, children_json
		 FROM components WHERE draft_id = ? ORDER BY page_index, sort_order`, draftID)
	if err != nil {
		return nil, fmt.Errorf("load components: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			idx      int
			c        domain.Component
			content  string
			children string
		)
		if err := rows.Scan(&idx, &c.ID, &c.Type, &c.Position.X, &c.Position.Y,
			&c.Size.Width, &c.Size.Height, &content, &children); err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(pages) {
			continue
		}
		if content != "" {
			c.Content = json.RawMessage(content)
		}
		if children != "" {
			if err := json.Unmarshal([]byte(children), &c.Components); err != nil {
				return nil, fmt.Errorf("decode children of %s: %w", c.ID, err)
			}
		}
		pages[idx].Components = append(pages[idx].Components, c)
	}
	return pages, rows.Err()
}

func (s *DraftStore) ListDrafts(ctx context.Context) ([]domain.DraftSummary, error) {
	rows, err := s.db.query(ctx, s.db.conn,
		`SELECT d.id, d.name, d.updated_at,
		        (SELECT COUNT(*) FROM pages p WHERE p.draft_id = d.id)
		 FROM drafts d ORDER BY d.updated_at DESC, d.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drafts []domain.DraftSummary
	for rows.Next() {
		var sum domain.DraftSummary
		if err := rows.Scan(&sum.ID, &sum.Name, &sum.UpdatedAt, &sum.PageCount); err != nil {
			return nil, err
		}
		drafts = append(drafts, sum)
	}
	return drafts, rows.Err()
}

// SaveDraft atomically replaces the draft's name and all of its pages.
func (s *DraftStore) SaveDraft(ctx context.Context, d *domain.Draft) error {
	d.UpdatedAt = time.Now().UTC()
	legacy, err := legacyJSON(d)
	if err != nil {
		return err
	}
	return s.db.inTx(ctx, func(tx *sql.Tx) error {
		res, err := s.db.exec(ctx, tx,
			`UPDATE drafts SET name = ?, legacy_json = ?, updated_at = ? WHERE id = ?`,
			d.Name, legacy, d.UpdatedAt, d.ID,
		)
		if err != nil {
			return fmt.Errorf("update draft: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("save draft %s: %w", d.ID, domain.ErrNotFound)
		}
		if err := s.deletePages(ctx, tx, d.ID); err != nil {
			return err
		}
		return s.insertPages(ctx, tx, d.ID, d.Pages)
	})
}

func (s *DraftStore) DeleteDraft(ctx context.Context, id string) error {
	return s.db.inTx(ctx, func(tx *sql.Tx) error {
		if err := s.deletePages(ctx, tx, id); err != nil {
			return err
		}
		if _, err := s.db.exec(ctx, tx, `DELETE FROM revisions WHERE draft_id = ?`, id); err != nil {
			return fmt.Errorf("delete revisions: %w", err)
		}
		res, err := s.db.exec(ctx, tx, `DELETE FROM drafts WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete draft: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("delete draft %s: %w", id, domain.ErrNotFound)
		}
		return nil
	})
}

func (s *DraftStore) deletePages(ctx context.Context, tx *sql.Tx, draftID string) error {
	if _, err := s.db.exec(ctx, tx, `DELETE FROM components WHERE draft_id = ?`, draftID); err != nil {
		return fmt.Errorf("delete components: %w", err)
	}
	if _, err := s.db.exec(ctx, tx, `DELETE FROM pages WHERE draft_id = ?`, draftID); err != nil {
		return fmt.Errorf("delete pages: %w", err)
	}
	return nil
}

func (s *DraftStore) insertPages(ctx context.Context, tx *sql.Tx, draftID string, pages []domain.Page) error {
	for i, p := range pages {
		if _, err := s.db.exec(ctx, tx,
			`INSERT INTO pages (draft_id, page_index, name) VALUES (?, ?, ?)`,
			draftID, i, p.Name,
		); err != nil {
			return fmt.Errorf("insert page %q: %w", p.Name, err)
		}
		for j, c := range p.Components {
			children := ""
			if len(c.Components) > 0 {
				raw, err := json.Marshal(c.Components)
				if err != nil {
					return fmt.Errorf("encode children of %s: %w", c.ID, err)
				}
				children = string(raw)
			}
			if _, err := s.db.exec(ctx, tx,
				`INSERT INTO components (draft_id, page_index, sort_order, id, type, x, y, width, height, content, children_json)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				draftID, i, j, c.ID, string(c.Type), c.Position.X, c.Position.Y,
				c.Size.Width, c.Size.Height, string(c.Content), children,
			); err != nil {
				return fmt.Errorf("insert component %s: %w", c.ID, err)
			}
		}
	}
	return nil
}

// legacyJSON keeps the flat component list of a legacy draft verbatim.
func legacyJSON(d *domain.Draft) (string, error) {
	if len(d.Pages) > 0 || len(d.Components) == 0 {
		return "", nil
	}
	raw, err := json.Marshal(d.Components)
	if err != nil {
		return "", fmt.Errorf("encode legacy components: %w", err)
	}
	return string(raw), nil
}
