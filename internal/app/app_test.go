package app

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"sitebuilder/internal/config"
	"sitebuilder/internal/domain"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	cfg.Storage.DSN = filepath.Join(cfg.DataDir, "test.db")
	cfg.Publish.OutputDir = filepath.Join(cfg.DataDir, "public")

	a, err := New(context.Background(), cfg, log.New(&bytes.Buffer{}))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func TestNew_SQLite(t *testing.T) {
	a := newTestApp(t)
	if a.Approvals == nil {
		t.Error("sql store should share approvals")
	}

	ctx := context.Background()
	d, err := a.Drafts.CreateDraft(ctx, "Wired")
	if err != nil {
		t.Fatal(err)
	}
	state, err := a.Editor.Open(ctx, d.ID)
	if err != nil {
		t.Fatal(err)
	}
	if state.Page != domain.LegacyPageName {
		t.Errorf("active page = %q", state.Page)
	}
	res, err := a.Publish.Publish(ctx, d.ID)
	if err != nil {
		t.Fatal(err)
	}
	if res.Dir != filepath.Join(a.Config.Publish.OutputDir, d.ID) {
		t.Errorf("dir = %q", res.Dir)
	}
}

func TestNew_UnknownDriver(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Driver = "oracle"
	if _, err := New(context.Background(), cfg, nil); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestApprovalWatcher_AnnouncesOnce(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	if err := a.Approvals.CreateApproval(ctx, &domain.Approval{ID: "x1", Tool: "confirm", Description: "Delete page?"}); err != nil {
		t.Fatal(err)
	}

	var events []string
	w := newApprovalWatcher(a.Approvals, func(_ context.Context, event string, _ any) {
		events = append(events, event)
	}, log.New(&bytes.Buffer{}))

	w.check(ctx)
	w.check(ctx)
	if len(events) != 1 || events[0] != EventApprovalPending {
		t.Fatalf("events = %v, want one %s", events, EventApprovalPending)
	}

	if err := a.Approvals.ResolveApproval(ctx, "x1", false); err != nil {
		t.Fatal(err)
	}
	w.check(ctx)
	if len(w.announced) != 0 {
		t.Errorf("announced = %v, want empty after resolution", w.announced)
	}
}
