package session

import (
	"sync"

	"deepedu/internal/metrics"
)

type Action int

const (
	ShowLoading Action = iota
	Navigate
	RenderNothing
	RenderContent
)

func (a Action) String() string {
	switch a {
	case ShowLoading:
		return "loading"
	case Navigate:
		return "navigate"
	case RenderNothing:
		return "nothing"
	case RenderContent:
		return "content"
	}
	return "unknown"
}

// Decision is what a gated view does for a given state. Location is set
// only for Navigate.
type Decision struct {
	Action   Action
	Location string
}

// Gate decides what a protected view renders. It redirects to the login
// location at most once per unauthenticated stretch.
type Gate struct {
	loginPath string

	mu         sync.Mutex
	redirected bool
}

func NewGate(loginPath string) *Gate {
	return &Gate{loginPath: loginPath}
}

func (g *Gate) Decide(st State) Decision {
	g.mu.Lock()
	defer g.mu.Unlock()

	var d Decision
	switch {
	case st.Resolving:
		d = Decision{Action: ShowLoading}
	case st.User == nil:
		if g.redirected {
			d = Decision{Action: RenderNothing}
		} else {
			g.redirected = true
			d = Decision{Action: Navigate, Location: g.loginPath}
		}
	default:
		g.redirected = false
		d = Decision{Action: RenderContent}
	}

	metrics.GateDecisions.WithLabelValues(d.Action.String()).Inc()
	return d
}
