package service_test

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"sitebuilder/internal/service"
	"sitebuilder/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// Shared fixtures
// ─────────────────────────────────────────────────────────────

type fixture struct {
	db      *storage.DB
	emitter *service.MockEmitter
	drafts  *service.DraftService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := storage.Open(storage.DriverSQLite, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	emitter := &service.MockEmitter{}
	return &fixture{
		db:      db,
		emitter: emitter,
		drafts:  service.NewDraftService(storage.NewDraftStore(db), storage.NewRevisionStore(db), emitter),
	}
}

// ─────────────────────────────────────────────────────────────
// RunningJobsGuard tests
// ─────────────────────────────────────────────────────────────

func TestRunningGuard_TryLock(t *testing.T) {
	var g service.ExportedRunningGuard

	if !g.TryLock("draft-1") {
		t.Fatal("expected first TryLock to succeed")
	}
	if g.TryLock("draft-1") {
		t.Fatal("expected second TryLock for same draft to fail")
	}
	if !g.TryLock("draft-2") {
		t.Fatal("expected TryLock for different draft to succeed")
	}
	if !g.Running("draft-1") {
		t.Error("expected draft-1 to be running")
	}
	g.Unlock("draft-1")
	g.Unlock("draft-2")

	if g.Running("draft-1") {
		t.Error("draft-1 still running after unlock")
	}
	if !g.TryLock("draft-1") {
		t.Fatal("expected TryLock to succeed after unlock")
	}
	g.Unlock("draft-1")
}

func TestRunningGuard_WaitAll(t *testing.T) {
	var g service.ExportedRunningGuard

	if !g.TryLock("draft-a") {
		t.Fatal("expected lock to succeed")
	}

	done := make(chan struct{})
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer cancel()
		g.WaitAll(ctx)
		close(done)
	}()

	go func() {
		time.Sleep(20 * time.Millisecond)
		g.Unlock("draft-a")
	}()

	select {
	case <-done:
		// success
	case <-time.After(1 * time.Second):
		t.Fatal("WaitAll timed out")
	}
}

// ─────────────────────────────────────────────────────────────
// Emitter tests
// ─────────────────────────────────────────────────────────────

func TestMockEmitter_RecordsEvents(t *testing.T) {
	m := &service.MockEmitter{}
	ctx := context.Background()

	m.Emit(ctx, "test:event", map[string]string{"foo": "bar"})
	m.Emit(ctx, "test:event2", nil)
	m.Emit(ctx, "test:event", nil)

	if want := []string{"test:event", "test:event2", "test:event"}; !reflect.DeepEqual(m.Names(), want) {
		t.Fatalf("names = %v, want %v", m.Names(), want)
	}
	if m.Count("test:event") != 2 {
		t.Errorf("count = %d, want 2", m.Count("test:event"))
	}
}

func TestMultiEmitter(t *testing.T) {
	a, b := &service.MockEmitter{}, &service.MockEmitter{}
	multi := service.MultiEmitter{a, nil, b}
	multi.Emit(context.Background(), "x", 1)
	if a.Count("x") != 1 || b.Count("x") != 1 {
		t.Errorf("fan-out failed: %v %v", a.Names(), b.Names())
	}
}

func TestLogEmitter_NilLogger(t *testing.T) {
	// Must not panic without a logger.
	service.LogEmitter{}.Emit(context.Background(), "x", nil)
}

// ─────────────────────────────────────────────────────────────
// Confirmer tests
// ─────────────────────────────────────────────────────────────

func TestAutoConfirm(t *testing.T) {
	for _, answer := range []bool{true, false} {
		var got *bool
		service.AutoConfirm(answer).Confirm(context.Background(), "sure?", func(ok bool) { got = &ok })
		if got == nil || *got != answer {
			t.Errorf("AutoConfirm(%v) answered %v", answer, got)
		}
	}
}
