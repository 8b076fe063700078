package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"sitebuilder/internal/domain"
)

// ApprovalStore implements domain.ApprovalStore over SQL. Every process
// opening the same database sees the same approvals.
type ApprovalStore struct {
	db *DB
}

func NewApprovalStore(db *DB) *ApprovalStore {
	return &ApprovalStore{db: db}
}

func (s *ApprovalStore) CreateApproval(ctx context.Context, a *domain.Approval) error {
	if a.Status == "" {
		a.Status = domain.ApprovalPending
	}
	if a.Metadata == "" {
		a.Metadata = "{}"
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.exec(ctx, s.db.conn,
		`INSERT INTO mcp_approvals (id, tool, description, status, metadata, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.Tool, a.Description, string(a.Status), a.Metadata, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert approval: %w", err)
	}
	return nil
}

func (s *ApprovalStore) GetApproval(ctx context.Context, id string) (*domain.Approval, error) {
	a, err := scanApproval(s.db.queryRow(ctx, s.db.conn,
		`SELECT id, tool, description, status, metadata, created_at FROM mcp_approvals WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get approval %s: %w", id, domain.ErrNotFound)
	}
	return a, err
}

// ListApprovals returns approvals in status, oldest first.
func (s *ApprovalStore) ListApprovals(ctx context.Context, status domain.ApprovalStatus) ([]domain.Approval, error) {
	rows, err := s.db.query(ctx, s.db.conn,
		`SELECT id, tool, description, status, metadata, created_at
		 FROM mcp_approvals WHERE status = ? ORDER BY created_at, id`, string(status))
	if err != nil {
		return nil, fmt.Errorf("list approvals: %w", err)
	}
	defer rows.Close()

	var out []domain.Approval
	for rows.Next() {
		a, err := scanApproval(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (s *ApprovalStore) ResolveApproval(ctx context.Context, id string, approved bool) error {
	status := domain.ApprovalRejected
	if approved {
		status = domain.ApprovalApproved
	}
	res, err := s.db.exec(ctx, s.db.conn,
		`UPDATE mcp_approvals SET status = ? WHERE id = ? AND status = ?`,
		string(status), id, string(domain.ApprovalPending))
	if err != nil {
		return fmt.Errorf("resolve approval: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("pending approval %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (s *ApprovalStore) DeleteApproval(ctx context.Context, id string) error {
	_, err := s.db.exec(ctx, s.db.conn, `DELETE FROM mcp_approvals WHERE id = ?`, id)
	return err
}

func scanApproval(row scanner) (*domain.Approval, error) {
	var (
		a      domain.Approval
		status string
	)
	if err := row.Scan(&a.ID, &a.Tool, &a.Description, &status, &a.Metadata, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.Status = domain.ApprovalStatus(status)
	return &a, nil
}
