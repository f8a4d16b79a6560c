package ebook

import (
	"errors"
	"strings"
	"time"
)

// ErrNotFound is returned when no ebook has the requested ID.
var ErrNotFound = errors.New("ebook not found")

// Ebook is one catalog record. Only Title is guaranteed; every other field
// may be empty on records written by older clients.
type Ebook struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Author      string     `json:"author,omitempty"`
	Genre       string     `json:"genre,omitempty"`
	Year        *int       `json:"year,omitempty"`
	Description string     `json:"description,omitempty"`
	CoverURL    string     `json:"cover_url,omitempty"`
	ContentURL  string     `json:"content_url,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

// CreatedUnix returns the creation time in seconds, or 0 when unset.
func (e Ebook) CreatedUnix() int64 {
	if e.CreatedAt == nil {
		return 0
	}
	return e.CreatedAt.Unix()
}

// Submission is the admin upload form. Title, CoverURL and ContentURL are
// required; nothing else is checked.
type Submission struct {
	Title       string `json:"title" validate:"required"`
	Author      string `json:"author"`
	Genre       string `json:"genre"`
	Year        *int   `json:"year"`
	Description string `json:"description"`
	CoverURL    string `json:"cover_url" validate:"required"`
	ContentURL  string `json:"content_url" validate:"required"`
}

// Trimmed returns the submission with surrounding whitespace removed from
// every text field. Validate the trimmed value so blank input is rejected.
func (s Submission) Trimmed() Submission {
	s.Title = strings.TrimSpace(s.Title)
	s.Author = strings.TrimSpace(s.Author)
	s.Genre = strings.TrimSpace(s.Genre)
	s.CoverURL = strings.TrimSpace(s.CoverURL)
	s.ContentURL = strings.TrimSpace(s.ContentURL)
	return s
}

// Ebook converts the submission into an unsaved record.
func (s Submission) Ebook() Ebook {
	return Ebook{
		Title:       s.Title,
		Author:      s.Author,
		Genre:       s.Genre,
		Year:        s.Year,
		Description: s.Description,
		CoverURL:    s.CoverURL,
		ContentURL:  s.ContentURL,
	}
}
