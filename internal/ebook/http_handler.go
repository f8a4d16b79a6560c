package ebook

import (
	"errors"
	"net/http"

	"deepedu/internal/httpx"
	"deepedu/internal/logging"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// List handles GET /api/v1/ebooks
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	ebooks, err := h.service.List(r.Context())
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("list ebooks")
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	if ebooks == nil {
		ebooks = []Ebook{}
	}
	httpx.JSONSuccess(w, r, ebooks, map[string]any{"total": len(ebooks)})
}

// Create handles POST /api/v1/ebooks
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req Submission
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	req = req.Trimmed()

	if validationErrors := httpx.ValidateStruct(req); len(validationErrors) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", validationErrors)
		return
	}

	e, err := h.service.Create(r.Context(), req)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("title", req.Title).Msg("create ebook")
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	logging.Ctx(r.Context()).Info().Str("ebook_id", e.ID).Str("user_id", httpx.UserIDFrom(r)).Msg("ebook created")
	httpx.JSONSuccessCreated(w, r, e)
}

// Delete handles DELETE /api/v1/ebooks/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid ebook ID", nil)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Ebook not found", nil)
			return
		}
		logging.Ctx(r.Context()).Error().Err(err).Str("ebook_id", id).Msg("delete ebook")
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	logging.Ctx(r.Context()).Info().Str("ebook_id", id).Str("user_id", httpx.UserIDFrom(r)).Msg("ebook deleted")
	httpx.JSONSuccessNoContent(w)
}
