package storage_test

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"sitebuilder/internal/domain"
	"sitebuilder/internal/storage"
)

func openTestDB(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.Open(storage.DriverSQLite, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleDraft(id string) *domain.Draft {
	return &domain.Draft{
		ID:   id,
		Name: "Portfolio",
		Pages: []domain.Page{
			{Name: "Home", Components: []domain.Component{
				{
					ID:       "nav",
					Type:     domain.ComponentTypeNavBar,
					Position: domain.Position{X: 0, Y: 0},
					Size:     domain.Size{Width: domain.FullWidth, Height: 48},
				},
				{
					ID:       "intro",
					Type:     domain.ComponentTypeTextBlock,
					Position: domain.Position{X: 10.5, Y: 60},
					Size:     domain.Size{Width: 200, Height: 150},
					Content:  json.RawMessage(`{"text":"hi"}`),
				},
				{
					ID:       "grid",
					Type:     domain.ComponentTypeCard,
					Position: domain.Position{X: 300, Y: 60},
					Size:     domain.Size{Width: 250, Height: 300},
					Components: []domain.Component{
						{ID: "inner", Type: domain.ComponentTypeButton, Size: domain.Size{Width: 120, Height: 40}},
					},
				},
			}},
			{Name: "Empty", Components: []domain.Component{}},
		},
	}
}

func TestDraftStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := storage.NewDraftStore(openTestDB(t))

	want := sampleDraft("d1")
	if err := store.CreateDraft(ctx, want); err != nil {
		t.Fatalf("create: %v", err)
	}
	if want.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}

	got, err := store.GetDraft(ctx, "d1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != want.Name {
		t.Errorf("name = %q, want %q", got.Name, want.Name)
	}
	if !reflect.DeepEqual(got.Pages, want.Pages) {
		t.Errorf("pages mismatch\n got: %+v\nwant: %+v", got.Pages, want.Pages)
	}
}

func TestDraftStore_SaveReplacesPages(t *testing.T) {
	ctx := context.Background()
	store := storage.NewDraftStore(openTestDB(t))

	d := sampleDraft("d1")
	if err := store.CreateDraft(ctx, d); err != nil {
		t.Fatal(err)
	}
	d.Name = "Renamed"
	d.Pages = []domain.Page{{Name: "Only", Components: []domain.Component{
		{ID: "b", Type: domain.ComponentTypeButton, Position: domain.Position{X: 1, Y: 2}, Size: domain.Size{Width: 3, Height: 4}},
	}}}
	if err := store.SaveDraft(ctx, d); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.GetDraft(ctx, "d1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Renamed" || !reflect.DeepEqual(got.Pages, d.Pages) {
		t.Errorf("after save: %+v", got)
	}
}

func TestDraftStore_LegacyDraft(t *testing.T) {
	ctx := context.Background()
	store := storage.NewDraftStore(openTestDB(t))

	legacy := &domain.Draft{ID: "old", Name: "Old", Components: []domain.Component{
		{ID: "x", Type: domain.ComponentTypeImage, Size: domain.Size{Width: 300, Height: 200}},
	}}
	if err := store.CreateDraft(ctx, legacy); err != nil {
		t.Fatal(err)
	}
	got, err := store.GetDraft(ctx, "old")
	if err != nil {
		t.Fatal(err)
	}
	if !got.IsLegacy() || len(got.Components) != 1 || got.Components[0].ID != "x" {
		t.Errorf("legacy draft = %+v", got)
	}
}

func TestDraftStore_NotFound(t *testing.T) {
	ctx := context.Background()
	store := storage.NewDraftStore(openTestDB(t))

	if _, err := store.GetDraft(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("get: err = %v, want ErrNotFound", err)
	}
	if err := store.SaveDraft(ctx, &domain.Draft{ID: "missing"}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("save: err = %v, want ErrNotFound", err)
	}
	if err := store.DeleteDraft(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("delete: err = %v, want ErrNotFound", err)
	}
}

func TestDraftStore_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	store := storage.NewDraftStore(openTestDB(t))

	for _, id := range []string{"a", "b"} {
		if err := store.CreateDraft(ctx, sampleDraft(id)); err != nil {
			t.Fatal(err)
		}
	}
	list, err := store.ListDrafts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].PageCount != 2 {
		t.Errorf("list = %+v", list)
	}

	if err := store.DeleteDraft(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	list, err = store.ListDrafts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].ID != "b" {
		t.Errorf("list after delete = %+v", list)
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	if _, err := storage.Open("oracle", "x"); err == nil {
		t.Error("expected error for unsupported driver")
	}
}
