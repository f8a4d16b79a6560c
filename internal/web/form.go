package web

import (
	"net/http"
	"strconv"
	"strings"

	"deepedu/internal/ebook"
	"deepedu/internal/httpx"
)

// uploadForm keeps the raw submitted values so a failed upload can
// re-render them unchanged.
type uploadForm struct {
	Title       string
	Author      string
	Genre       string
	Year        string
	Description string
	CoverURL    string
	ContentURL  string
}

func readUploadForm(r *http.Request) uploadForm {
	return uploadForm{
		Title:       r.PostFormValue("title"),
		Author:      r.PostFormValue("author"),
		Genre:       r.PostFormValue("genre"),
		Year:        r.PostFormValue("year"),
		Description: r.PostFormValue("description"),
		CoverURL:    r.PostFormValue("cover_url"),
		ContentURL:  r.PostFormValue("content_url"),
	}
}

// submission converts the form and validates it. Year is optional but
// must be numeric when present.
func (f uploadForm) submission() (ebook.Submission, []httpx.ValidationError) {
	sub := ebook.Submission{
		Title:       f.Title,
		Author:      f.Author,
		Genre:       f.Genre,
		Description: f.Description,
		CoverURL:    f.CoverURL,
		ContentURL:  f.ContentURL,
	}.Trimmed()

	errs := httpx.ValidateStruct(sub)
	if y := strings.TrimSpace(f.Year); y != "" {
		year, err := strconv.Atoi(y)
		if err != nil {
			errs = append(errs, httpx.ValidationError{Field: "year", Message: "year must be a number"})
		} else {
			sub.Year = &year
		}
	}
	return sub, errs
}
