package app

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"sitebuilder/internal/domain"
)

// EventApprovalPending is emitted once per approval that another process
// (the standalone MCP server) is waiting on.
const EventApprovalPending = "approval:pending"

// approvalWatcher polls the approval store for requests written by the
// standalone MCP process and announces each new one once.
type approvalWatcher struct {
	store    domain.ApprovalStore
	emit     func(ctx context.Context, event string, data any)
	logger   *log.Logger
	interval time.Duration

	mu sync.Mutex
	// Track announced approval IDs to avoid re-emission
	announced map[string]bool
}

func newApprovalWatcher(store domain.ApprovalStore, emit func(context.Context, string, any), logger *log.Logger) *approvalWatcher {
	return &approvalWatcher{
		store:     store,
		emit:      emit,
		logger:    logger,
		interval:  2 * time.Second,
		announced: map[string]bool{},
	}
}

// Run polls until ctx is cancelled.
func (w *approvalWatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.check(ctx)
	for {
		select {
		case <-ticker.C:
			w.check(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (w *approvalWatcher) check(ctx context.Context) {
	pending, err := w.store.ListApprovals(ctx, domain.ApprovalPending)
	if err != nil {
		if ctx.Err() == nil {
			w.logger.Warn("list approvals", "err", err)
		}
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	seen := make(map[string]bool, len(pending))
	for _, a := range pending {
		seen[a.ID] = true
		if w.announced[a.ID] {
			continue
		}
		w.announced[a.ID] = true
		w.logger.Info("approval required", "id", a.ID, "tool", a.Tool, "description", a.Description)
		w.emit(ctx, EventApprovalPending, a)
	}
	// Forget resolved/deleted approvals
	for id := range w.announced {
		if !seen[id] {
			delete(w.announced, id)
		}
	}
}

// WatchApprovals announces pending approvals until ctx is cancelled. It
// returns immediately when the store cannot share approvals.
func (a *App) WatchApprovals(ctx context.Context) {
	if a.Approvals == nil {
		return
	}
	newApprovalWatcher(a.Approvals, a.Emitter.Emit, a.Logger.WithPrefix("approvals")).Run(ctx)
}
