package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"time"

	"deepedu/internal/config"
	"deepedu/internal/logging"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	pageLanding   = "landing.html"
	pageLibrary   = "library.html"
	pageGenre     = "genre.html"
	pageBook      = "book.html"
	pageNotFound  = "not_found.html"
	pageLogin     = "login.html"
	pageDashboard = "dashboard.html"
)

var pageNames = []string{
	pageLanding, pageLibrary, pageGenre, pageBook, pageNotFound, pageLogin, pageDashboard,
}

var funcs = template.FuncMap{
	"pathEscape": url.PathEscape,
	"deref": func(p *int) int {
		if p == nil {
			return 0
		}
		return *p
	},
	"fmtTime": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("2006-01-02 15:04")
	},
}

// View is the data every page template receives.
type View struct {
	Site  config.SiteConfig
	Flash *Flash
	Page  any
}

type renderer struct {
	site  config.SiteConfig
	pages map[string]*template.Template
}

func newRenderer(site config.SiteConfig) (*renderer, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = t
	}
	return &renderer{site: site, pages: pages}, nil
}

// render executes page into a buffer first so a template error never
// leaves a half-written response.
func (rd *renderer) render(w http.ResponseWriter, r *http.Request, status int, page string, flash *Flash, data any) {
	t, ok := rd.pages[page]
	if !ok {
		logging.Ctx(r.Context()).Error().Str("page", page).Msg("unknown template")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", View{Site: rd.site, Flash: flash, Page: data}); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("page", page).Msg("render template")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
