package catalog

import (
	"context"
	"fmt"

	"deepedu/internal/ebook"
	"deepedu/internal/logging"
)

// Source is the read side of the ebook store.
type Source interface {
	List(ctx context.Context) ([]ebook.Ebook, error)
	Get(ctx context.Context, id string) (ebook.Ebook, error)
}

// Library is the grouped library page.
type Library struct {
	Groups        Groups        `json:"groups"`
	Uncategorized []ebook.Ebook `json:"uncategorized,omitempty"`
}

// Detail is one ebook with its similar titles.
type Detail struct {
	Ebook   ebook.Ebook   `json:"ebook"`
	Related []ebook.Ebook `json:"related"`
}

// GenreCount is one row of the admin overview.
type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// Overview summarises the catalog for the admin dashboard.
type Overview struct {
	Total         int          `json:"total"`
	Genres        []GenreCount `json:"genres"`
	Uncategorized int          `json:"uncategorized"`
}

type Service struct {
	src Source
}

func NewService(src Source) *Service {
	return &Service{src: src}
}

func (s *Service) Library(ctx context.Context) (Library, error) {
	all, err := s.src.List(ctx)
	if err != nil {
		return Library{}, fmt.Errorf("list ebooks: %w", err)
	}
	return Library{
		Groups:        GroupByGenre(all),
		Uncategorized: Uncategorized(all),
	}, nil
}

// Genre returns the ebooks whose genre matches ignoring case.
func (s *Service) Genre(ctx context.Context, genre string) ([]ebook.Ebook, error) {
	all, err := s.src.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list ebooks: %w", err)
	}
	return FilterByGenre(all, genre), nil
}

// Detail loads one ebook and its related titles. A failure to load the
// related titles is logged and yields an empty list.
func (s *Service) Detail(ctx context.Context, id string) (Detail, error) {
	e, err := s.src.Get(ctx, id)
	if err != nil {
		return Detail{}, err
	}

	d := Detail{Ebook: e, Related: []ebook.Ebook{}}
	if e.Genre == "" {
		return d, nil
	}

	all, err := s.src.List(ctx)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("ebook_id", id).Msg("load related ebooks")
		return d, nil
	}
	if rel := Related(e, all, RelatedLimit); rel != nil {
		d.Related = rel
	}
	return d, nil
}

// Recent returns every ebook newest first.
func (s *Service) Recent(ctx context.Context) ([]ebook.Ebook, error) {
	all, err := s.src.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list ebooks: %w", err)
	}
	return SortByRecency(all), nil
}

func (s *Service) Overview(ctx context.Context) (Overview, error) {
	all, err := s.src.List(ctx)
	if err != nil {
		return Overview{}, fmt.Errorf("list ebooks: %w", err)
	}
	return Summarize(all), nil
}

// Summarize counts ebooks per genre in first-appearance order.
func Summarize(all []ebook.Ebook) Overview {
	groups := GroupByGenre(all)
	ov := Overview{
		Total:         len(all),
		Genres:        make([]GenreCount, 0, len(groups)),
		Uncategorized: len(all) - groups.Total(),
	}
	for _, g := range groups {
		ov.Genres = append(ov.Genres, GenreCount{Genre: g.Genre, Count: len(g.Ebooks)})
	}
	return ov
}
