// Package mongostore stores drafts as documents in MongoDB, pages and
// components embedded.
package mongostore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"sitebuilder/internal/domain"
)

// Collection is the collection holding drafts.
const Collection = "drafts"

// Store implements domain.DraftStore for MongoDB.
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// Open connects to uri and uses the drafts collection of database.
func Open(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &Store{client: client, coll: client.Database(database).Collection(Collection)}, nil
}

// Close disconnects the client.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

type draftDoc struct {
	ID         string         `bson:"_id"`
	Name       string         `bson:"name"`
	Pages      []pageDoc      `bson:"pages"`
	Components []componentDoc `bson:"components,omitempty"`
	CreatedAt  time.Time      `bson:"created_at"`
	UpdatedAt  time.Time      `bson:"updated_at"`
}

type pageDoc struct {
	Name       string         `bson:"name"`
	Components []componentDoc `bson:"components"`
}

type componentDoc struct {
	ID       string         `bson:"id"`
	Type     string         `bson:"type"`
	X        float64        `bson:"x"`
	Y        float64        `bson:"y"`
	Width    float64        `bson:"width"`
	Height   float64        `bson:"height"`
	Content  string         `bson:"content,omitempty"`
	Children []componentDoc `bson:"children,omitempty"`
}

func toComponentDocs(cs []domain.Component) []componentDoc {
	if cs == nil {
		return nil
	}
	out := make([]componentDoc, len(cs))
	for i, c := range cs {
		out[i] = componentDoc{
			ID:       c.ID,
			Type:     string(c.Type),
			X:        c.Position.X,
			Y:        c.Position.Y,
			Width:    c.Size.Width,
			Height:   c.Size.Height,
			Content:  string(c.Content),
			Children: toComponentDocs(c.Components),
		}
	}
	return out
}

func fromComponentDocs(docs []componentDoc) []domain.Component {
	if docs == nil {
		return nil
	}
	out := make([]domain.Component, len(docs))
	for i, d := range docs {
		out[i] = domain.Component{
			ID:         d.ID,
			Type:       domain.ComponentType(d.Type),
			Position:   domain.Position{X: d.X, Y: d.Y},
			Size:       domain.Size{Width: d.Width, Height: d.Height},
			Components: fromComponentDocs(d.Children),
		}
		if d.Content != "" {
			out[i].Content = json.RawMessage(d.Content)
		}
	}
	return out
}

func toDoc(d *domain.Draft) draftDoc {
	doc := draftDoc{
		ID:        d.ID,
		Name:      d.Name,
		Pages:     make([]pageDoc, len(d.Pages)),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	for i, p := range d.Pages {
		cs := toComponentDocs(p.Components)
		if cs == nil {
			cs = []componentDoc{}
		}
		doc.Pages[i] = pageDoc{Name: p.Name, Components: cs}
	}
	if d.IsLegacy() {
		doc.Components = toComponentDocs(d.Components)
	}
	return doc
}

func fromDoc(doc draftDoc) *domain.Draft {
	d := &domain.Draft{
		ID:         doc.ID,
		Name:       doc.Name,
		Pages:      make([]domain.Page, len(doc.Pages)),
		Components: fromComponentDocs(doc.Components),
		CreatedAt:  doc.CreatedAt,
		UpdatedAt:  doc.UpdatedAt,
	}
	for i, p := range doc.Pages {
		cs := fromComponentDocs(p.Components)
		if cs == nil {
			cs = []domain.Component{}
		}
		d.Pages[i] = domain.Page{Name: p.Name, Components: cs}
	}
	return d
}

func (s *Store) CreateDraft(ctx context.Context, d *domain.Draft) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
	d.CreatedAt = now
	d.UpdatedAt = now
	if _, err := s.coll.InsertOne(ctx, toDoc(d)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("draft %s already exists: %w", d.ID, err)
		}
		return fmt.Errorf("insert draft: %w", err)
	}
	return nil
}

func (s *Store) GetDraft(ctx context.Context, id string) (*domain.Draft, error) {
	var doc draftDoc
	err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("get draft %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get draft: %w", err)
	}
	return fromDoc(doc), nil
}

func (s *Store) ListDrafts(ctx context.Context) ([]domain.DraftSummary, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetProjection(bson.D{{Key: "name", Value: 1}, {Key: "updated_at", Value: 1}, {Key: "pages.name", Value: 1}})
	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	defer cur.Close(ctx)

	var out []domain.DraftSummary
	for cur.Next(ctx) {
		var doc draftDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode draft: %w", err)
		}
		out = append(out, domain.DraftSummary{
			ID:        doc.ID,
			Name:      doc.Name,
			PageCount: len(doc.Pages),
			UpdatedAt: doc.UpdatedAt,
		})
	}
	return out, cur.Err()
}

// SaveDraft replaces the draft's name and pages, keeping its creation time.
func (s *Store) SaveDraft(ctx context.Context, d *domain.Draft) error {
	d.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
	doc := toDoc(d)
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: doc.Name},
		{Key: "pages", Value: doc.Pages},
		{Key: "components", Value: doc.Components},
		{Key: "updated_at", Value: doc.UpdatedAt},
	}}}
	res, err := s.coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: d.ID}}, update)
	if err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("save draft %s: %w", d.ID, domain.ErrNotFound)
	}
	return nil
}

func (s *Store) DeleteDraft(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("delete draft %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
