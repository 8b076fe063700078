package preview_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"sitebuilder/internal/domain"
	"sitebuilder/internal/preview"
	"sitebuilder/internal/publish"
	"sitebuilder/internal/service"
	"sitebuilder/internal/storage"
)

func newServer(t *testing.T) (*httptest.Server, *service.DraftService) {
	t.Helper()
	db, err := storage.Open(storage.DriverSQLite, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	emitter := &service.MockEmitter{}
	drafts := service.NewDraftService(storage.NewDraftStore(db), nil, emitter)
	pub := service.NewPublishService(drafts, publish.New(nil), t.TempDir(), emitter, nil)

	srv := httptest.NewServer(preview.New(drafts, pub, nil).Handler())
	t.Cleanup(srv.Close)
	return srv, drafts
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode, string(body)
}

func TestPreview_Pages(t *testing.T) {
	srv, drafts := newServer(t)
	ctx := context.Background()

	d, err := drafts.CreateDraft(ctx, "Studio")
	if err != nil {
		t.Fatal(err)
	}
	pages := []domain.Page{
		{Name: "Home", Components: []domain.Component{}},
		{Name: "About Us", Components: []domain.Component{}},
	}
	if _, err := drafts.SavePages(ctx, d.ID, "pages", pages); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		path       string
		wantStatus int
		wantBody   string
	}{
		{"/drafts/" + d.ID, http.StatusOK, "<title>Studio | Home</title>"},
		{"/drafts/" + d.ID + "/about-us", http.StatusOK, "<title>Studio | About Us</title>"},
		{"/drafts/" + d.ID + "/about-us.html", http.StatusOK, "<title>Studio | About Us</title>"},
		{"/drafts/" + d.ID + "/missing", http.StatusNotFound, "error"},
		{"/drafts/nope", http.StatusNotFound, "error"},
		{"/healthz", http.StatusOK, "ok"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			status, body := get(t, srv.URL+tt.path)
			if status != tt.wantStatus {
				t.Errorf("status = %d, want %d", status, tt.wantStatus)
			}
			if !strings.Contains(body, tt.wantBody) {
				t.Errorf("body does not contain %q:\n%s", tt.wantBody, body)
			}
		})
	}
}

func TestPreview_ListDrafts(t *testing.T) {
	srv, drafts := newServer(t)

	status, body := get(t, srv.URL+"/drafts")
	if status != http.StatusOK || strings.TrimSpace(body) != "[]" {
		t.Errorf("empty list = %d %q", status, body)
	}

	if _, err := drafts.CreateDraft(context.Background(), "One"); err != nil {
		t.Fatal(err)
	}
	_, body = get(t, srv.URL+"/drafts")
	var list []domain.DraftSummary
	if err := json.Unmarshal([]byte(body), &list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].Name != "One" || list[0].PageCount != 1 {
		t.Errorf("list = %+v", list)
	}
}

func TestPreview_Publish(t *testing.T) {
	srv, drafts := newServer(t)

	d, err := drafts.CreateDraft(context.Background(), "Pub")
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(srv.URL+"/drafts/"+d.ID+"/publish", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var out struct {
		Dir   string   `json:"dir"`
		Files []string `json:"files"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK || len(out.Files) != 1 || out.Files[0] != publish.IndexFile {
		t.Errorf("publish = %d %+v", resp.StatusCode, out)
	}
}
