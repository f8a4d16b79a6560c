package ebook

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"

	"deepedu/internal/docstore"
)

// Collection is the document collection holding ebooks.
const Collection = "ebooks"

// Document field names. pdfUrl predates the rename to ContentURL and is
// kept so existing data stays readable.
const (
	fieldTitle       = "title"
	fieldAuthor      = "author"
	fieldGenre       = "genre"
	fieldYear        = "year"
	fieldDescription = "description"
	fieldCoverURL    = "coverUrl"
	fieldContentURL  = "pdfUrl"
)

// DocumentRepository stores ebooks in a docstore collection.
type DocumentRepository struct {
	store docstore.Store
}

func NewDocumentRepository(store docstore.Store) *DocumentRepository {
	return &DocumentRepository{store: store}
}

func (r *DocumentRepository) List(ctx context.Context) ([]Ebook, error) {
	docs, err := r.store.List(ctx, Collection)
	if err != nil {
		return nil, err
	}
	out := make([]Ebook, 0, len(docs))
	for _, d := range docs {
		out = append(out, FromDocument(d))
	}
	return out, nil
}

func (r *DocumentRepository) Get(ctx context.Context, id string) (Ebook, error) {
	d, err := r.store.Get(ctx, Collection, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return Ebook{}, ErrNotFound
		}
		return Ebook{}, err
	}
	return FromDocument(d), nil
}

// Create inserts e and fills in its ID and CreatedAt.
func (r *DocumentRepository) Create(ctx context.Context, e *Ebook) error {
	d, err := r.store.Insert(ctx, Collection, ToFields(*e))
	if err != nil {
		return err
	}
	e.ID = d.ID
	e.CreatedAt = d.CreatedAt
	return nil
}

func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, Collection, id); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// ToFields converts an ebook to document fields. Empty optional fields
// are omitted.
func ToFields(e Ebook) docstore.Fields {
	f := docstore.Fields{fieldTitle: e.Title}
	setIf := func(k, v string) {
		if v != "" {
			f[k] = v
		}
	}
	setIf(fieldAuthor, e.Author)
	setIf(fieldGenre, e.Genre)
	setIf(fieldDescription, e.Description)
	setIf(fieldCoverURL, e.CoverURL)
	setIf(fieldContentURL, e.ContentURL)
	if e.Year != nil {
		f[fieldYear] = *e.Year
	}
	return f
}

// FromDocument converts stored fields to an ebook, ignoring fields of
// unexpected type.
func FromDocument(d docstore.Document) Ebook {
	return Ebook{
		ID:          d.ID,
		Title:       stringField(d.Fields, fieldTitle),
		Author:      stringField(d.Fields, fieldAuthor),
		Genre:       stringField(d.Fields, fieldGenre),
		Year:        intField(d.Fields, fieldYear),
		Description: stringField(d.Fields, fieldDescription),
		CoverURL:    stringField(d.Fields, fieldCoverURL),
		ContentURL:  stringField(d.Fields, fieldContentURL),
		CreatedAt:   d.CreatedAt,
	}
}

func stringField(f docstore.Fields, key string) string {
	s, _ := f[key].(string)
	return s
}

func intField(f docstore.Fields, key string) *int {
	var n int
	switch v := f[key].(type) {
	case int:
		n = v
	case int32:
		n = int(v)
	case int64:
		n = int(v)
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil
		}
		n = int(v)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil
		}
		n = parsed
	default:
		return nil
	}
	return &n
}
