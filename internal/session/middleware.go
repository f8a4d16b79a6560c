package session

import (
	"context"
	"net/http"
	"time"

	"deepedu/internal/auth"
	"deepedu/internal/httpx"
)

type ctxKey int

const (
	trackerKey ctxKey = iota
	gateKey
)

const loadingPage = `<!doctype html><html><head><meta charset="utf-8"><title>Loading</title></head>` +
	`<body><div class="loading" role="status">Loading...</div></body></html>`

// Guard protects admin views. Each request gets its own Tracker and Gate.
type Guard struct {
	resolver       Resolver
	cookieName     string
	loginPath      string
	resolveTimeout time.Duration
}

func NewGuard(resolver Resolver, cookieName, loginPath string, resolveTimeout time.Duration) *Guard {
	return &Guard{
		resolver:       resolver,
		cookieName:     cookieName,
		loginPath:      loginPath,
		resolveTimeout: resolveTimeout,
	}
}

// Token returns the session token carried by the request cookie.
func (g *Guard) Token(r *http.Request) string {
	c, err := r.Cookie(g.cookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

// Middleware resolves the session and applies the gate decision. Protected
// handlers run only for RenderContent.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tracker := NewTracker()
		gate := NewGate(g.loginPath)

		Observe(r.Context(), g.resolver, g.Token(r), tracker)

		waitCtx, cancel := context.WithTimeout(r.Context(), g.resolveTimeout)
		st := tracker.Wait(waitCtx)
		cancel()

		d := gate.Decide(st)
		switch d.Action {
		case ShowLoading:
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Header().Set("Cache-Control", "no-store")
			w.Header().Set("Refresh", "1")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(loadingPage))
		case Navigate:
			http.Redirect(w, r, d.Location, http.StatusSeeOther)
		case RenderNothing:
			w.WriteHeader(http.StatusNoContent)
		case RenderContent:
			httpx.SetLoggedUser(r, st.User.ID)
			ctx := httpx.ContextWithUser(r.Context(), st.User.ID, st.User.Role)
			ctx = context.WithValue(ctx, trackerKey, tracker)
			ctx = context.WithValue(ctx, gateKey, gate)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
	})
}

// UserFrom returns the signed-in user of a gated request.
func UserFrom(ctx context.Context) *auth.User {
	t, ok := ctx.Value(trackerKey).(*Tracker)
	if !ok {
		return nil
	}
	return t.State().User
}

// End tears down the session of a gated request and returns the gate's
// decision for the resulting state.
func End(ctx context.Context) (Decision, bool) {
	t, ok := ctx.Value(trackerKey).(*Tracker)
	if !ok {
		return Decision{}, false
	}
	g, ok := ctx.Value(gateKey).(*Gate)
	if !ok {
		return Decision{}, false
	}
	t.Logout()
	return g.Decide(t.State()), true
}
