// Package catalog derives the library views from a flat list of ebooks:
// genre rows, related titles and the admin recency ordering.
package catalog

import (
	"sort"
	"strings"

	"deepedu/internal/ebook"
)

// RelatedLimit caps the number of similar titles shown on a detail page.
const RelatedLimit = 6

// RowLimit caps how many titles a genre row on the library page shows.
const RowLimit = 6

// Group is one genre and its ebooks in input order.
type Group struct {
	Genre  string        `json:"genre"`
	Ebooks []ebook.Ebook `json:"ebooks"`
}

// Groups is an ordered genre mapping. Genres appear in order of first
// occurrence in the input.
type Groups []Group

// Get returns the ebooks for an exact genre key.
func (g Groups) Get(genre string) ([]ebook.Ebook, bool) {
	for _, grp := range g {
		if grp.Genre == genre {
			return grp.Ebooks, true
		}
	}
	return nil, false
}

// Genres returns the group keys in order.
func (g Groups) Genres() []string {
	out := make([]string, len(g))
	for i, grp := range g {
		out[i] = grp.Genre
	}
	return out
}

// Total counts ebooks across all groups.
func (g Groups) Total() int {
	n := 0
	for _, grp := range g {
		n += len(grp.Ebooks)
	}
	return n
}

// GroupByGenre partitions ebooks by exact genre value. Ebooks without a
// genre are left out; Uncategorized reports them.
func GroupByGenre(all []ebook.Ebook) Groups {
	index := make(map[string]int)
	var groups Groups
	for _, e := range all {
		if e.Genre == "" {
			continue
		}
		i, ok := index[e.Genre]
		if !ok {
			i = len(groups)
			index[e.Genre] = i
			groups = append(groups, Group{Genre: e.Genre})
		}
		groups[i].Ebooks = append(groups[i].Ebooks, e)
	}
	return groups
}

// Uncategorized returns the ebooks GroupByGenre leaves out.
func Uncategorized(all []ebook.Ebook) []ebook.Ebook {
	var out []ebook.Ebook
	for _, e := range all {
		if e.Genre == "" {
			out = append(out, e)
		}
	}
	return out
}

// Related returns up to limit ebooks sharing focal's genre, excluding focal
// itself, in list order. A focal ebook without a genre has no relations.
func Related(focal ebook.Ebook, all []ebook.Ebook, limit int) []ebook.Ebook {
	if focal.Genre == "" || limit <= 0 {
		return nil
	}
	var out []ebook.Ebook
	for _, e := range all {
		if e.Genre != focal.Genre || e.ID == focal.ID {
			continue
		}
		out = append(out, e)
		if len(out) == limit {
			break
		}
	}
	return out
}

// FilterByGenre keeps ebooks whose genre equals genre ignoring case.
func FilterByGenre(all []ebook.Ebook, genre string) []ebook.Ebook {
	var out []ebook.Ebook
	for _, e := range all {
		if e.Genre != "" && strings.EqualFold(e.Genre, genre) {
			out = append(out, e)
		}
	}
	return out
}

// SortByRecency returns a copy ordered newest first. Missing timestamps
// count as zero, so those ebooks sink to the end; ties keep input order.
func SortByRecency(all []ebook.Ebook) []ebook.Ebook {
	out := make([]ebook.Ebook, len(all))
	copy(out, all)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedUnix() > out[j].CreatedUnix()
	})
	return out
}

// Head returns at most n leading ebooks.
func Head(list []ebook.Ebook, n int) []ebook.Ebook {
	if len(list) <= n {
		return list
	}
	return list[:n]
}
