// Package web serves the public site and the admin dashboard as HTML.
package web

import (
	"net/http"
	"time"

	"deepedu/internal/auth"
	"deepedu/internal/catalog"
	"deepedu/internal/config"
	"deepedu/internal/ebook"
	"deepedu/internal/session"
)

const (
	LoginPath     = "/admin/login"
	DashboardPath = "/admin/dashboard"
)

// Handler renders every HTML route.
type Handler struct {
	catalog  *catalog.Service
	ebooks   *ebook.Service
	provider auth.Provider
	guard    *session.Guard
	cookie   config.AuthConfig
	views    *renderer
}

func NewHandler(catalogSvc *catalog.Service, ebookSvc *ebook.Service, provider auth.Provider, guard *session.Guard, authCfg config.AuthConfig, site config.SiteConfig) (*Handler, error) {
	views, err := newRenderer(site)
	if err != nil {
		return nil, err
	}
	return &Handler{
		catalog:  catalogSvc,
		ebooks:   ebookSvc,
		provider: provider,
		guard:    guard,
		cookie:   authCfg,
		views:    views,
	}, nil
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token auth.Token) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.CookieName,
		Value:    token.Value,
		Path:     "/",
		Expires:  token.ExpiresAt,
		HttpOnly: true,
		Secure:   h.cookie.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.CookieName,
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.cookie.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
