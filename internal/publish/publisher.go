package publish

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"sitebuilder/internal/domain"
)

// Publisher renders drafts through a renderer registry.
type Publisher struct {
	registry *Registry
}

// New creates a publisher. A nil registry means DefaultRegistry.
func New(registry *Registry) *Publisher {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Publisher{registry: registry}
}

// Registry returns the renderer registry in use.
func (p *Publisher) Registry() *Registry { return p.registry }

// File is one rendered page.
type File struct {
	Name string // e.g. "index.html", "about.html"
	Page string
	Body []byte
}

// Result describes a finished publish.
type Result struct {
	DraftID     string    `json:"draftId"`
	Dir         string    `json:"dir"`
	Files       []string  `json:"files"`
	PublishedAt time.Time `json:"publishedAt"`
}

// Render renders every page of d in page order.
func (p *Publisher) Render(ctx context.Context, d *domain.Draft) ([]File, error) {
	pages := d.PageList()
	links := Links(pages)
	files := make([]File, 0, len(pages))
	for i := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		body, err := p.RenderPage(d, pages, i)
		if err != nil {
			return nil, err
		}
		files = append(files, File{Name: links[i].Href, Page: pages[i].Name, Body: body})
	}
	return files, nil
}

// RenderSlug renders the page whose slug is slug; the empty slug and
// "index" select the first page.
func (p *Publisher) RenderSlug(d *domain.Draft, slug string) ([]byte, error) {
	pages := d.PageList()
	slug = strings.TrimSuffix(slug, ".html")
	if slug == "index" {
		slug = ""
	}
	for i, l := range Links(pages) {
		if l.Slug == slug {
			return p.RenderPage(d, pages, i)
		}
	}
	return nil, fmt.Errorf("page %q: %w", slug, domain.ErrNotFound)
}

// Publish writes the rendered site of d into dir, removing pages left over
// from a previous publish.
func (p *Publisher) Publish(ctx context.Context, d *domain.Draft, dir string) (*Result, error) {
	files, err := p.Render(ctx, d)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	res := &Result{DraftID: d.ID, Dir: dir, PublishedAt: time.Now()}
	keep := make(map[string]bool, len(files))
	for _, f := range files {
		path := filepath.Join(dir, f.Name)
		if err := os.WriteFile(path, f.Body, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", f.Name, err)
		}
		keep[f.Name] = true
		res.Files = append(res.Files, path)
	}

	stale, err := filepath.Glob(filepath.Join(dir, "*.html"))
	if err != nil {
		return nil, err
	}
	for _, path := range stale {
		if !keep[filepath.Base(path)] {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				return nil, fmt.Errorf("remove stale page: %w", err)
			}
		}
	}
	return res, nil
}
