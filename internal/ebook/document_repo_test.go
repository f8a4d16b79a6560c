package ebook

import (
	"context"
	"testing"
	"time"

	"deepedu/internal/docstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func TestDocumentRepository_CreateGet(t *testing.T) {
	ctx := context.Background()
	repo := NewDocumentRepository(docstore.NewMemoryStore())

	e := Ebook{
		Title:      "Organic Chemistry",
		Author:     "Clayden",
		Genre:      "Chemistry",
		Year:       intPtr(2012),
		CoverURL:   "https://img.example/c.jpg",
		ContentURL: "https://files.example/c.pdf",
	}
	require.NoError(t, repo.Create(ctx, &e))
	require.NotEmpty(t, e.ID)
	require.NotNil(t, e.CreatedAt)

	got, err := repo.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, e, got)
}

func TestDocumentRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewDocumentRepository(docstore.NewMemoryStore())

	_, err := repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "missing"), ErrNotFound)
}

func TestDocumentRepository_DeleteThenRefetch(t *testing.T) {
	ctx := context.Background()
	repo := NewDocumentRepository(docstore.NewMemoryStore())

	var created []Ebook
	for _, title := range []string{"One", "Two", "Three"} {
		e := Ebook{Title: title, Genre: "Math"}
		require.NoError(t, repo.Create(ctx, &e))
		created = append(created, e)
	}

	require.NoError(t, repo.Delete(ctx, created[1].ID))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	for _, e := range all {
		assert.NotEqual(t, created[1].ID, e.ID)
	}
}

func TestFromDocument_ToleratesMissingAndOddFields(t *testing.T) {
	ts := time.Unix(1700000000, 0)
	cases := []struct {
		name   string
		fields docstore.Fields
		want   Ebook
	}{
		{
			name:   "only title",
			fields: docstore.Fields{"title": "Bare"},
			want:   Ebook{ID: "x", Title: "Bare"},
		},
		{
			name:   "json number year",
			fields: docstore.Fields{"title": "T", "year": float64(1999)},
			want:   Ebook{ID: "x", Title: "T", Year: intPtr(1999)},
		},
		{
			name:   "string year",
			fields: docstore.Fields{"title": "T", "year": " 2001 "},
			want:   Ebook{ID: "x", Title: "T", Year: intPtr(2001)},
		},
		{
			name:   "unparseable year and non-string genre",
			fields: docstore.Fields{"title": "T", "year": "soon", "genre": 42},
			want:   Ebook{ID: "x", Title: "T"},
		},
		{
			name:   "legacy field names",
			fields: docstore.Fields{"title": "T", "coverUrl": "c", "pdfUrl": "p"},
			want:   Ebook{ID: "x", Title: "T", CoverURL: "c", ContentURL: "p"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FromDocument(docstore.Document{ID: "x", Fields: tc.fields})
			assert.Equal(t, tc.want, got)
		})
	}

	got := FromDocument(docstore.Document{ID: "x", Fields: docstore.Fields{}, CreatedAt: &ts})
	assert.Equal(t, int64(1700000000), got.CreatedUnix())
}

func TestToFields_OmitsEmptyOptionals(t *testing.T) {
	f := ToFields(Ebook{Title: "T", Year: intPtr(2000)})
	assert.Equal(t, docstore.Fields{"title": "T", "year": 2000}, f)
}
