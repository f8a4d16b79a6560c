package web

import (
	"errors"
	"net/http"
	"strings"

	"deepedu/internal/auth"
	"deepedu/internal/catalog"
	"deepedu/internal/ebook"
	"deepedu/internal/httpx"
	"deepedu/internal/logging"
	"deepedu/internal/session"
)

const (
	tabDashboard = "dashboard"
	tabUpload    = "upload"
	tabEbooks    = "ebooks"
)

const (
	msgUploaded     = "Ebook uploaded successfully!"
	msgUploadFailed = "Failed to upload ebook."
	msgDeleted      = "Ebook deleted."
	msgDeleteFailed = "Failed to delete ebook."
	msgLoadFailed   = "Failed to load ebooks."
)

type tab struct {
	ID    string
	Label string
}

var tabs = []tab{
	{tabDashboard, "Dashboard"},
	{tabUpload, "Upload Ebook"},
	{tabEbooks, "Ebooks"},
}

type loginPage struct {
	Email string
}

type loginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginPage handles GET /admin/login. A visitor with a live session goes
// straight to the dashboard.
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if token := h.guard.Token(r); token != "" {
		if u, err := h.provider.Resolve(r.Context(), token); err == nil && u != nil {
			http.Redirect(w, r, DashboardPath, http.StatusSeeOther)
			return
		}
	}
	h.views.render(w, r, http.StatusOK, pageLogin, popFlash(w, r), loginPage{})
}

// Login handles POST /admin/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	form := loginForm{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
	page := loginPage{Email: form.Email}

	if errs := httpx.ValidateStruct(form); len(errs) > 0 {
		h.views.render(w, r, http.StatusBadRequest, pageLogin,
			&Flash{Kind: flashError, Text: "Enter your email and password."}, page)
		return
	}

	token, err := h.provider.SignIn(r.Context(), form.Email, form.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.views.render(w, r, http.StatusUnauthorized, pageLogin,
				&Flash{Kind: flashError, Text: "Invalid email or password."}, page)
			return
		}
		logging.Ctx(r.Context()).Error().Err(err).Msg("admin sign in")
		h.views.render(w, r, http.StatusInternalServerError, pageLogin,
			&Flash{Kind: flashError, Text: "Login failed. Please try again."}, page)
		return
	}

	h.setSessionCookie(w, token)
	http.Redirect(w, r, DashboardPath, http.StatusSeeOther)
}

// LoginRejected renders the login page when the login rate limit trips.
func (h *Handler) LoginRejected(w http.ResponseWriter, r *http.Request) {
	h.views.render(w, r, http.StatusTooManyRequests, pageLogin,
		&Flash{Kind: flashError, Text: "Too many login attempts. Try again shortly."},
		loginPage{Email: strings.TrimSpace(r.PostFormValue("email"))})
}

// Logout handles POST /admin/logout behind the session guard.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := h.guard.Token(r); token != "" {
		if err := h.provider.SignOut(r.Context(), token); err != nil && !errors.Is(err, auth.ErrUnauthorized) {
			logging.Ctx(r.Context()).Warn().Err(err).Msg("admin sign out")
		}
	}
	h.clearSessionCookie(w)

	location := LoginPath
	if d, ok := session.End(r.Context()); ok && d.Action == session.Navigate {
		location = d.Location
	}
	http.Redirect(w, r, location, http.StatusSeeOther)
}

type dashboardPage struct {
	Tab      string
	Tabs     []tab
	User     *auth.User
	Overview *catalog.Overview
	Ebooks   []ebook.Ebook
	Form     uploadForm
	Errors   []httpx.ValidationError
}

func (h *Handler) newDashboard(r *http.Request, selected string) dashboardPage {
	switch selected {
	case tabDashboard, tabUpload, tabEbooks:
	default:
		selected = tabDashboard
	}
	return dashboardPage{Tab: selected, Tabs: tabs, User: session.UserFrom(r.Context())}
}

// Dashboard handles GET /admin/dashboard?tab=
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	page := h.newDashboard(r, r.URL.Query().Get("tab"))
	flash := popFlash(w, r)

	switch page.Tab {
	case tabDashboard:
		ov, err := h.catalog.Overview(r.Context())
		if err != nil {
			logging.Ctx(r.Context()).Error().Err(err).Msg("load dashboard overview")
			flash = &Flash{Kind: flashError, Text: msgLoadFailed}
			break
		}
		page.Overview = &ov
	case tabEbooks:
		list, err := h.catalog.Recent(r.Context())
		if err != nil {
			logging.Ctx(r.Context()).Error().Err(err).Msg("load admin ebooks")
			flash = &Flash{Kind: flashError, Text: msgLoadFailed}
			break
		}
		page.Ebooks = list
	}

	h.views.render(w, r, http.StatusOK, pageDashboard, flash, page)
}

// Upload handles POST /admin/ebooks. Failures re-render the form with the
// submitted values.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	form := readUploadForm(r)
	sub, errs := form.submission()
	if len(errs) > 0 {
		page := h.newDashboard(r, tabUpload)
		page.Form = form
		page.Errors = errs
		h.views.render(w, r, http.StatusUnprocessableEntity, pageDashboard,
			&Flash{Kind: flashError, Text: msgUploadFailed}, page)
		return
	}

	created, err := h.ebooks.Create(r.Context(), sub)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("title", sub.Title).Msg("upload ebook")
		page := h.newDashboard(r, tabUpload)
		page.Form = form
		h.views.render(w, r, http.StatusInternalServerError, pageDashboard,
			&Flash{Kind: flashError, Text: msgUploadFailed}, page)
		return
	}

	logging.Ctx(r.Context()).Info().Str("ebook_id", created.ID).Str("title", created.Title).Msg("ebook uploaded")
	setFlash(w, flashSuccess, msgUploaded)
	http.Redirect(w, r, DashboardPath+"?tab="+tabEbooks, http.StatusSeeOther)
}

// Delete handles POST /admin/ebooks/{id}/delete. Deleting an ebook that is
// already gone counts as success.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.ebooks.Delete(r.Context(), id); err != nil && !errors.Is(err, ebook.ErrNotFound) {
		logging.Ctx(r.Context()).Error().Err(err).Str("ebook_id", id).Msg("delete ebook")
		setFlash(w, flashError, msgDeleteFailed)
	} else {
		logging.Ctx(r.Context()).Info().Str("ebook_id", id).Msg("ebook deleted")
		setFlash(w, flashSuccess, msgDeleted)
	}
	http.Redirect(w, r, DashboardPath+"?tab="+tabEbooks, http.StatusSeeOther)
}
