package web

import (
	"errors"
	"net/http"

	"deepedu/internal/catalog"
	"deepedu/internal/ebook"
	"deepedu/internal/logging"
)

type feature struct {
	Title string
	Text  string
}

type faq struct {
	Question string
	Answer   string
}

type landingPage struct {
	Features []feature
	FAQs     []faq
}

var landing = landingPage{
	Features: []feature{
		{"Vast Ebook Library", "Access a curated collection of ebooks across multiple subjects. Organized, beautiful, and always expanding."},
		{"AI-Powered Tools", "Personalized study recommendations and instant doubt-solving to supercharge your learning."},
		{"Global Student Community", "Connect, collaborate, and grow with students across the world in a supportive space."},
	},
	FAQs: []faq{
		{"What is DeepEdu and how can it help me?", "DeepEdu is a learning platform that provides free notes, ebooks, courses, and revision guides for Class 10 students. Whether you're preparing for exams or revising topics, we simplify learning with engaging content."},
		{"Are all notes and ebooks really free to download?", "Yes! All our NCERT-based notes and ebooks are completely free. We believe education should be accessible to everyone, and we make it easier for you to get what you need without any cost."},
		{"I find Maths and Science tough. How can DeepEdu help?", "We offer step-by-step explanations, visual notes, and short videos to break down tough concepts, especially in Maths and Science. You'll also find topic-wise practice and strategies to make them easier."},
		{"Do you provide study plans or timetables?", "Yes, we create 1-week and monthly study plans based on subjects and chapters. These help you manage your time smartly and stay focused without getting overwhelmed."},
	},
}

// Landing handles GET /
func (h *Handler) Landing(w http.ResponseWriter, r *http.Request) {
	h.views.render(w, r, http.StatusOK, pageLanding, nil, landing)
}

type libraryRow struct {
	Genre  string
	Ebooks []ebook.Ebook
}

type libraryPage struct {
	Rows          []libraryRow
	Uncategorized []ebook.Ebook
}

// Library handles GET /library. A fetch failure renders the empty state.
func (h *Handler) Library(w http.ResponseWriter, r *http.Request) {
	var page libraryPage
	lib, err := h.catalog.Library(r.Context())
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("load library")
	} else {
		page.Uncategorized = lib.Uncategorized
		for _, g := range lib.Groups {
			page.Rows = append(page.Rows, libraryRow{Genre: g.Genre, Ebooks: catalog.Head(g.Ebooks, catalog.RowLimit)})
		}
	}
	h.views.render(w, r, http.StatusOK, pageLibrary, nil, page)
}

type genrePage struct {
	Genre  string
	Ebooks []ebook.Ebook
}

// Genre handles GET /library/genre/{genre}
func (h *Handler) Genre(w http.ResponseWriter, r *http.Request) {
	page := genrePage{Genre: catalog.PathParam(r, "genre")}
	ebooks, err := h.catalog.Genre(r.Context(), page.Genre)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("genre", page.Genre).Msg("load genre")
	}
	page.Ebooks = ebooks
	h.views.render(w, r, http.StatusOK, pageGenre, nil, page)
}

// Book handles GET /library/book/{id}
func (h *Handler) Book(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	d, err := h.catalog.Detail(r.Context(), id)
	if err != nil {
		if errors.Is(err, ebook.ErrNotFound) {
			h.views.render(w, r, http.StatusNotFound, pageNotFound, nil, nil)
			return
		}
		logging.Ctx(r.Context()).Error().Err(err).Str("ebook_id", id).Msg("load ebook")
		h.views.render(w, r, http.StatusOK, pageNotFound, nil, nil)
		return
	}
	h.views.render(w, r, http.StatusOK, pageBook, nil, d)
}
