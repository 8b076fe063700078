package mongostore

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"sitebuilder/internal/domain"
)

func TestDocRoundTrip(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	want := &domain.Draft{
		ID:   "d1",
		Name: "Site",
		Pages: []domain.Page{
			{Name: "Home", Components: []domain.Component{
				{
					ID:       "c1",
					Type:     domain.ComponentTypeCard,
					Position: domain.Position{X: 1.5, Y: 2},
					Size:     domain.Size{Width: 250, Height: 300},
					Content:  json.RawMessage(`{"title":"t"}`),
					Components: []domain.Component{
						{ID: "c2", Type: domain.ComponentTypeButton, Size: domain.Size{Width: 120, Height: 40}},
					},
				},
			}},
			{Name: "Blank", Components: []domain.Component{}},
		},
		CreatedAt: created,
		UpdatedAt: created,
	}

	raw, err := bson.Marshal(toDoc(want))
	if err != nil {
		t.Fatal(err)
	}
	var doc draftDoc
	if err := bson.Unmarshal(raw, &doc); err != nil {
		t.Fatal(err)
	}
	got := fromDoc(doc)

	if !reflect.DeepEqual(got.Pages, want.Pages) {
		t.Errorf("pages mismatch\n got: %+v\nwant: %+v", got.Pages, want.Pages)
	}
	if got.ID != want.ID || got.Name != want.Name || !got.CreatedAt.Equal(created) {
		t.Errorf("draft = %+v", got)
	}
}

func TestDocLegacy(t *testing.T) {
	legacy := &domain.Draft{ID: "old", Components: []domain.Component{
		{ID: "x", Type: domain.ComponentTypeImage, Size: domain.Size{Width: 300, Height: 200}},
	}}
	doc := toDoc(legacy)
	if len(doc.Pages) != 0 || len(doc.Components) != 1 {
		t.Fatalf("doc = %+v", doc)
	}
	if got := fromDoc(doc); !got.IsLegacy() || got.Components[0].ID != "x" {
		t.Errorf("draft = %+v", got)
	}
}
