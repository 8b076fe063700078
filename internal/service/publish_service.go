package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"

	"sitebuilder/internal/config"
	"sitebuilder/internal/publish"
)

// ─────────────────────────────────────────────────────────────
// Publish Service: rendering drafts, schedules and file watches
// ─────────────────────────────────────────────────────────────

// ErrPublishRunning is returned when the draft is already being published.
var ErrPublishRunning = errors.New("publish already running")

// WatchDebounce is how long a watched file must stay quiet before it is
// imported and published.
const WatchDebounce = 500 * time.Millisecond

// PublishService renders drafts into OutputDir/<draft id>, on demand, on
// cron schedules and whenever a watched draft file changes.
type PublishService struct {
	drafts      *DraftService
	publisher   *publish.Publisher
	outputDir   string
	emitter     EventEmitter
	logger      *log.Logger
	runningJobs runningJobsGuard

	// watcher / cron lifecycle
	mu          sync.Mutex
	watchCancel context.CancelFunc
	watcher     *fsnotify.Watcher
	cronSched   *cron.Cron
}

// NewPublishService creates a PublishService ready for use.
func NewPublishService(
	drafts *DraftService,
	publisher *publish.Publisher,
	outputDir string,
	emitter EventEmitter,
	logger *log.Logger,
) *PublishService {
	if logger == nil {
		logger = log.Default()
	}
	return &PublishService{
		drafts:    drafts,
		publisher: publisher,
		outputDir: outputDir,
		emitter:   emitter,
		logger:    logger.WithPrefix("publish"),
	}
}

// OutputDir returns the directory a draft is published into.
func (s *PublishService) OutputDir(draftID string) string {
	return filepath.Join(s.outputDir, draftID)
}

// ── Run ────────────────────────────────────────────────────

// Publish renders the stored draft synchronously.
func (s *PublishService) Publish(ctx context.Context, draftID string) (*publish.Result, error) {
	if !s.runningJobs.TryLock(draftID) {
		return nil, fmt.Errorf("draft %s: %w", draftID, ErrPublishRunning)
	}
	defer s.runningJobs.Unlock(draftID)

	d, err := s.drafts.GetDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	start := time.Now()
	res, err := s.publisher.Publish(runCtx, d, s.OutputDir(draftID))
	if err != nil {
		s.emitter.Emit(ctx, EventPublishFailed, map[string]string{"draftId": draftID, "error": err.Error()})
		return nil, fmt.Errorf("publish %s: %w", draftID, err)
	}
	s.logger.Info("published", "draft", draftID, "pages", len(res.Files), "dir", res.Dir, "took", time.Since(start).Round(time.Millisecond))
	s.emitter.Emit(ctx, EventDraftPublished, res)
	return res, nil
}

// RenderPage renders a single page of a stored draft without writing it.
func (s *PublishService) RenderPage(ctx context.Context, draftID, slug string) ([]byte, error) {
	d, err := s.drafts.GetDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	return s.publisher.RenderSlug(d, slug)
}

// ── Schedules ──────────────────────────────────────────────

// Schedule replaces the cron schedules. Each entry republishes its draft.
func (s *PublishService) Schedule(ctx context.Context, entries []config.Schedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopCronLocked()

	if len(entries) == 0 {
		return nil
	}
	c := cron.New()
	for _, e := range entries {
		draftID := e.DraftID
		_, err := c.AddFunc(e.Cron, func() {
			s.logger.Debug("cron: publishing", "draft", draftID)
			if _, err := s.Publish(ctx, draftID); err != nil {
				s.logger.Error("cron: publish failed", "draft", draftID, "err", err)
			}
		})
		if err != nil {
			return fmt.Errorf("schedule %s: invalid expression %q: %w", draftID, e.Cron, err)
		}
	}
	c.Start()
	s.cronSched = c
	s.logger.Info("scheduled", "drafts", len(entries))
	return nil
}

// ── File watch ─────────────────────────────────────────────

// Watch imports and publishes the draft JSON file at path every time it
// changes, debounced by WatchDebounce. The file is processed once right
// away when it exists.
func (s *PublishService) Watch(ctx context.Context, path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("watch %q: %w", path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopWatchLocked()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	// Watch the directory: editors replace files on save, which drops a
	// watch placed on the file itself.
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch dir %q: %w", filepath.Dir(absPath), err)
	}
	s.watcher = watcher

	watchCtx, cancel := context.WithCancel(ctx)
	s.watchCancel = cancel

	if _, err := os.Stat(absPath); err == nil {
		go s.importAndPublish(watchCtx, absPath)
	}

	go func() {
		var timer *time.Timer
		defer func() {
			if timer != nil {
				timer.Stop()
			}
		}()
		for {
			select {
			case <-watchCtx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if p, _ := filepath.Abs(event.Name); p != absPath {
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(WatchDebounce, func() {
					s.importAndPublish(watchCtx, absPath)
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Warn("watcher error", "err", err)
			}
		}
	}()

	s.logger.Info("watching", "file", absPath)
	return nil
}

func (s *PublishService) importAndPublish(ctx context.Context, path string) {
	if ctx.Err() != nil {
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		s.logger.Error("watch: read failed", "file", path, "err", err)
		return
	}
	d, err := s.drafts.ImportDraft(ctx, data)
	if err != nil {
		s.logger.Error("watch: import failed", "file", path, "err", err)
		return
	}
	if _, err := s.Publish(ctx, d.ID); err != nil {
		s.logger.Error("watch: publish failed", "draft", d.ID, "err", err)
	}
}

// ── Lifecycle ──────────────────────────────────────────────

// Running reports whether draftID is being published right now.
func (s *PublishService) Running(draftID string) bool {
	return s.runningJobs.Running(draftID)
}

// WaitRunning blocks until all running publishes finish or ctx is
// cancelled. Used for graceful shutdown.
func (s *PublishService) WaitRunning(ctx context.Context) {
	s.runningJobs.WaitAll(ctx)
}

// Stop tears down the watcher and the scheduler.
func (s *PublishService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopWatchLocked()
	s.stopCronLocked()
}

func (s *PublishService) stopWatchLocked() {
	if s.watchCancel != nil {
		s.watchCancel()
		s.watchCancel = nil
	}
	if s.watcher != nil {
		s.watcher.Close()
		s.watcher = nil
	}
}

func (s *PublishService) stopCronLocked() {
	if s.cronSched != nil {
		<-s.cronSched.Stop().Done()
		s.cronSched = nil
	}
}
