package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"sitebuilder/internal/domain"
)

// EventEmitter allows the approval queue to notify listeners.
type EventEmitter interface {
	Emit(ctx context.Context, event string, data any)
}

const (
	EventApprovalRequired  = "mcp:approval-required"
	EventApprovalDismissed = "mcp:approval-dismissed"
)

// DefaultApprovalTimeout is how long a request waits before it is rejected.
const DefaultApprovalTimeout = 120 * time.Second

var (
	// ErrRejected is returned by Request when the user says no.
	ErrRejected = errors.New("action rejected by user")
	// ErrTimedOut is returned by Request when nobody answers in time.
	ErrTimedOut = errors.New("approval timed out")
)

// PendingAction represents a destructive operation awaiting user approval.
type PendingAction struct {
	ID          string `json:"id"`
	Tool        string `json:"tool"`
	Description string `json:"description"`
	CreatedAt   string `json:"createdAt"`
	Metadata    string `json:"metadata"` // JSON with extra context (e.g. page names)
}

type pendingEntry struct {
	action PendingAction
	ch     chan bool
}

// ApprovalQueue manages human-in-the-loop approval for destructive tool calls.
// It supports two modes:
//   - In-process: channels, resolved through Approve / Reject
//   - Store-backed: writes to an ApprovalStore and polls for the result, so
//     another process (the CLI) can answer
type ApprovalQueue struct {
	mu      sync.Mutex
	pending map[string]pendingEntry
	ctx     context.Context
	emitter EventEmitter
	timeout time.Duration
	poll    time.Duration
	store   domain.ApprovalStore
	logger  *log.Logger
}

func NewApprovalQueue(ctx context.Context, emitter EventEmitter) *ApprovalQueue {
	return &ApprovalQueue{
		pending: make(map[string]pendingEntry),
		ctx:     ctx,
		emitter: emitter,
		timeout: DefaultApprovalTimeout,
		poll:    500 * time.Millisecond,
		logger:  log.Default().WithPrefix("approval"),
	}
}

// SetStore enables store-backed mode for cross-process approval.
func (q *ApprovalQueue) SetStore(store domain.ApprovalStore) {
	q.store = store
}

func (q *ApprovalQueue) SetTimeout(d time.Duration) {
	q.timeout = d
}

func (q *ApprovalQueue) SetLogger(logger *log.Logger) {
	q.logger = logger
}

// Confirm implements service.Confirmer. The prompt is queued and done is
// called from another goroutine once the user answers or the request
// times out, which counts as a rejection.
func (q *ApprovalQueue) Confirm(_ context.Context, prompt string, done func(bool)) {
	go func() {
		approved, err := q.Request("confirm", prompt)
		switch {
		case err == nil, errors.Is(err, ErrRejected):
		case errors.Is(err, ErrTimedOut):
			q.logger.Info("confirmation unanswered, treating as rejected", "prompt", prompt)
		default:
			q.logger.Error("confirmation failed, treating as rejected", "prompt", prompt, "err", err)
		}
		done(approved)
	}()
}

// Request sends an approval request and blocks until approved/rejected.
// metadata is optional JSON with extra context.
func (q *ApprovalQueue) Request(tool, description string, metadata ...string) (bool, error) {
	id := uuid.New().String()
	meta := "{}"
	if len(metadata) > 0 && metadata[0] != "" {
		meta = metadata[0]
	}

	if q.store != nil {
		return q.requestViaStore(id, tool, description, meta)
	}
	return q.requestViaChannel(id, tool, description, meta)
}

// requestViaStore writes a pending approval and polls until resolved.
func (q *ApprovalQueue) requestViaStore(id, tool, description, metadata string) (bool, error) {
	err := q.store.CreateApproval(q.ctx, &domain.Approval{
		ID:          id,
		Tool:        tool,
		Description: description,
		Metadata:    metadata,
	})
	if err != nil {
		return false, fmt.Errorf("queue approval: %w", err)
	}
	cleanup := func() { q.store.DeleteApproval(context.WithoutCancel(q.ctx), id) }

	deadline := time.Now().Add(q.timeout)
	ticker := time.NewTicker(q.poll)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if time.Now().After(deadline) {
				cleanup()
				return false, fmt.Errorf("%w after %s: %s", ErrTimedOut, q.timeout, tool)
			}
			a, err := q.store.GetApproval(q.ctx, id)
			if err != nil {
				q.logger.Warn("poll approval", "id", id, "err", err)
				continue
			}
			switch a.Status {
			case domain.ApprovalApproved:
				cleanup()
				return true, nil
			case domain.ApprovalRejected:
				cleanup()
				return false, fmt.Errorf("%w: %s", ErrRejected, tool)
			}
		case <-q.ctx.Done():
			cleanup()
			return false, fmt.Errorf("%s: %w", tool, q.ctx.Err())
		}
	}
}

func (q *ApprovalQueue) requestViaChannel(id, tool, description, metadata string) (bool, error) {
	action := PendingAction{
		ID:          id,
		Tool:        tool,
		Description: description,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339Nano),
		Metadata:    metadata,
	}
	ch := make(chan bool, 1)

	q.mu.Lock()
	q.pending[id] = pendingEntry{action: action, ch: ch}
	q.mu.Unlock()

	q.emitter.Emit(q.ctx, EventApprovalRequired, action)

	timer := time.NewTimer(q.timeout)
	defer timer.Stop()

	select {
	case approved := <-ch:
		if !approved {
			return false, fmt.Errorf("%w: %s", ErrRejected, tool)
		}
		return true, nil
	case <-timer.C:
		q.take(id)
		q.emitter.Emit(q.ctx, EventApprovalDismissed, map[string]string{"id": id})
		return false, fmt.Errorf("%w after %s: %s", ErrTimedOut, q.timeout, tool)
	case <-q.ctx.Done():
		q.take(id)
		return false, fmt.Errorf("%s: %w", tool, q.ctx.Err())
	}
}

// Approve marks a pending action as approved.
func (q *ApprovalQueue) Approve(actionID string) error {
	return q.resolve(actionID, true)
}

// Reject marks a pending action as rejected.
func (q *ApprovalQueue) Reject(actionID string) error {
	return q.resolve(actionID, false)
}

func (q *ApprovalQueue) resolve(actionID string, approved bool) error {
	if e, ok := q.take(actionID); ok {
		e.ch <- approved
		return nil
	}
	if q.store != nil {
		return q.store.ResolveApproval(q.ctx, actionID, approved)
	}
	return fmt.Errorf("pending action %s: %w", actionID, domain.ErrNotFound)
}

// take removes the entry so that each request is answered once.
func (q *ApprovalQueue) take(id string) (pendingEntry, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	e, ok := q.pending[id]
	if ok {
		delete(q.pending, id)
	}
	return e, ok
}

// Pending lists the actions still waiting for an answer, oldest first.
func (q *ApprovalQueue) Pending(ctx context.Context) ([]PendingAction, error) {
	q.mu.Lock()
	out := make([]PendingAction, 0, len(q.pending))
	for _, e := range q.pending {
		out = append(out, e.action)
	}
	q.mu.Unlock()

	if q.store != nil {
		stored, err := q.store.ListApprovals(ctx, domain.ApprovalPending)
		if err != nil {
			return nil, err
		}
		for _, a := range stored {
			out = append(out, PendingAction{
				ID:          a.ID,
				Tool:        a.Tool,
				Description: a.Description,
				CreatedAt:   a.CreatedAt.UTC().Format(time.RFC3339Nano),
				Metadata:    a.Metadata,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt < out[j].CreatedAt
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
