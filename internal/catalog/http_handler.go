package catalog

import (
	"errors"
	"net/http"
	"net/url"

	"deepedu/internal/ebook"
	"deepedu/internal/httpx"
	"deepedu/internal/logging"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// Library handles GET /api/v1/library
func (h *HTTPHandler) Library(w http.ResponseWriter, r *http.Request) {
	lib, err := h.service.Library(r.Context())
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("library")
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, lib, map[string]any{"total": lib.Groups.Total() + len(lib.Uncategorized)})
}

// Genre handles GET /api/v1/library/genre/{genre}
func (h *HTTPHandler) Genre(w http.ResponseWriter, r *http.Request) {
	genre := PathParam(r, "genre")
	if genre == "" {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Genre is required", nil)
		return
	}

	ebooks, err := h.service.Genre(r.Context(), genre)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("genre", genre).Msg("genre listing")
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	if ebooks == nil {
		ebooks = []ebook.Ebook{}
	}
	httpx.JSONSuccess(w, r, ebooks, map[string]any{"genre": genre, "total": len(ebooks)})
}

// Detail handles GET /api/v1/ebooks/{id}
func (h *HTTPHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid ebook ID", nil)
		return
	}

	d, err := h.service.Detail(r.Context(), id)
	if err != nil {
		if errors.Is(err, ebook.ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Ebook not found", nil)
			return
		}
		logging.Ctx(r.Context()).Error().Err(err).Str("ebook_id", id).Msg("ebook detail")
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, d, nil)
}

// PathParam returns a path value with any percent-encoding removed. The
// router matches on RawPath when the request has one, so a genre like
// "Sci/Fi" arrives still encoded. Otherwise the value is already decoded.
func PathParam(r *http.Request, name string) string {
	raw := r.PathValue(name)
	if r.URL.RawPath == "" {
		return raw
	}
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}
