// Package preview serves rendered drafts over HTTP so pages can be checked
// in a browser before they are published.
package preview

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"sitebuilder/internal/domain"
	"sitebuilder/internal/service"
)

// Server renders stored drafts on request.
type Server struct {
	drafts  *service.DraftService
	publish *service.PublishService
	logger  *log.Logger
	router  chi.Router
}

func New(drafts *service.DraftService, publish *service.PublishService, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		drafts:  drafts,
		publish: publish,
		logger:  logger.WithPrefix("preview"),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Route("/drafts", func(r chi.Router) {
		r.Get("/", s.handleListDrafts)
		r.Route("/{draftID}", func(r chi.Router) {
			r.Get("/", s.handlePage)
			r.Get("/{slug}", s.handlePage)
			r.Post("/publish", s.handlePublish)
		})
	})
	s.router = r
	return s
}

// Handler returns the HTTP handler for the preview routes.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

// ── Handlers ───────────────────────────────────────────────

func (s *Server) handleListDrafts(w http.ResponseWriter, r *http.Request) {
	drafts, err := s.drafts.ListDrafts(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if drafts == nil {
		drafts = []domain.DraftSummary{}
	}
	writeJSON(w, http.StatusOK, drafts)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	body, err := s.publish.RenderPage(r.Context(), chi.URLParam(r, "draftID"), chi.URLParam(r, "slug"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(body)
}

func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	res, err := s.publish.Publish(r.Context(), chi.URLParam(r, "draftID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	files := make([]string, len(res.Files))
	for i, f := range res.Files {
		files[i] = f.Name
	}
	writeJSON(w, http.StatusOK, map[string]any{"dir": res.Dir, "files": files})
}

// ── Helpers ────────────────────────────────────────────────

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrPublishRunning):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"took", time.Since(start).Round(time.Microsecond),
			"id", middleware.GetReqID(r.Context()),
		)
	})
}
