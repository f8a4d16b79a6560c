package web

import (
	"net/http"
	"net/url"
	"strings"
)

const flashCookie = "deepedu_flash"

const (
	flashSuccess = "success"
	flashError   = "error"
)

// Flash is a one-shot banner carried across a redirect.
type Flash struct {
	Kind string
	Text string
}

func setFlash(w http.ResponseWriter, kind, text string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(kind + "|" + text),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash reads and clears the pending flash, if any.
func popFlash(w http.ResponseWriter, r *http.Request) *Flash {
	c, err := r.Cookie(flashCookie)
	if err != nil {
		return nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	raw, err := url.QueryUnescape(c.Value)
	if err != nil {
		return nil
	}
	kind, text, ok := strings.Cut(raw, "|")
	if !ok || (kind != flashSuccess && kind != flashError) || text == "" {
		return nil
	}
	return &Flash{Kind: kind, Text: text}
}
