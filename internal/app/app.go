// Package app wires configuration, storage and services together for the
// command-line entry points.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"sitebuilder/internal/config"
	"sitebuilder/internal/domain"
	"sitebuilder/internal/publish"
	"sitebuilder/internal/service"
	"sitebuilder/internal/storage"
	"sitebuilder/internal/storage/mongostore"
)

// App holds the opened stores and the services built on top of them.
type App struct {
	Config  *config.Config
	Logger  *log.Logger
	Emitter service.EventEmitter

	Drafts  *service.DraftService
	Editor  *service.EditorService
	Publish *service.PublishService

	// Approvals is nil for stores that cannot share pending approvals
	// between processes (mongodb).
	Approvals domain.ApprovalStore

	closers []func() error
}

// New opens the configured store and builds the services.
func New(ctx context.Context, cfg *config.Config, logger *log.Logger) (*App, error) {
	if logger == nil {
		logger = log.Default()
	}
	a := &App{
		Config:  cfg,
		Logger:  logger,
		Emitter: service.LogEmitter{Logger: logger.WithPrefix("event")},
	}

	var (
		drafts    domain.DraftStore
		revisions domain.RevisionStore
	)
	switch cfg.Storage.Driver {
	case config.DriverMongo:
		store, err := mongostore.Open(ctx, cfg.Storage.DSN, cfg.Storage.Database)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, store.Close)
		drafts = store
	default:
		db, err := storage.Open(cfg.Storage.Driver, cfg.Storage.DSN)
		if err != nil {
			return nil, fmt.Errorf("open %s store: %w", cfg.Storage.Driver, err)
		}
		a.closers = append(a.closers, db.Close)
		drafts = storage.NewDraftStore(db)
		revisions = storage.NewRevisionStore(db)
		a.Approvals = storage.NewApprovalStore(db)
	}
	logger.Debug("storage opened", "driver", cfg.Storage.Driver)

	a.Drafts = service.NewDraftService(drafts, revisions, a.Emitter)
	a.Editor = service.NewEditorService(a.Drafts, nil, a.Emitter, logger)
	a.Publish = service.NewPublishService(a.Drafts, publish.New(nil), cfg.Publish.OutputDir, a.Emitter, logger)
	return a, nil
}

// Close stops background work and closes the stores.
func (a *App) Close() error {
	a.Publish.Stop()
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
