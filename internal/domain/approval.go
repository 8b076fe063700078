package domain

import (
	"context"
	"time"
)

// ApprovalStatus is the state of a pending human decision.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// Approval is a destructive action waiting for a human yes/no. It is
// shared between processes through an ApprovalStore: the agent-facing
// server writes it and the CLI resolves it.
type Approval struct {
	ID          string         `json:"id"`
	Tool        string         `json:"tool"`
	Description string         `json:"description"`
	Metadata    string         `json:"metadata"`
	Status      ApprovalStatus `json:"status"`
	CreatedAt   time.Time      `json:"createdAt"`
}

type ApprovalStore interface {
	CreateApproval(ctx context.Context, a *Approval) error
	GetApproval(ctx context.Context, id string) (*Approval, error)
	ListApprovals(ctx context.Context, status ApprovalStatus) ([]Approval, error)
	// ResolveApproval moves a pending approval to approved or rejected.
	// It returns ErrNotFound when id is unknown or already resolved.
	ResolveApproval(ctx context.Context, id string, approved bool) error
	DeleteApproval(ctx context.Context, id string) error
}
