// Package session tracks the signed-in admin for a gated view and decides
// what the view may render.
package session

import (
	"context"
	"sync"

	"deepedu/internal/auth"
	"deepedu/internal/logging"
)

// State is the session as seen by a gated view.
type State struct {
	User      *auth.User
	Resolving bool
}

// Authenticated reports whether resolution finished with a user.
func (s State) Authenticated() bool {
	return !s.Resolving && s.User != nil
}

// Tracker holds the session state of one view. It starts resolving and
// moves to resolved when the provider answers. Waiters are woken on every
// transition.
type Tracker struct {
	mu      sync.Mutex
	state   State
	changed chan struct{}
}

func NewTracker() *Tracker {
	return &Tracker{
		state:   State{Resolving: true},
		changed: make(chan struct{}),
	}
}

func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Resolve records the provider's answer. A nil user means no session.
func (t *Tracker) Resolve(u *auth.User) {
	t.set(State{User: u})
}

// Logout clears the user.
func (t *Tracker) Logout() {
	t.set(State{})
}

// Changed returns a channel closed on the next transition.
func (t *Tracker) Changed() <-chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.changed
}

// Wait blocks until the state is resolved or ctx is done, and returns the
// state at that point.
func (t *Tracker) Wait(ctx context.Context) State {
	for {
		t.mu.Lock()
		st, changed := t.state, t.changed
		t.mu.Unlock()
		if !st.Resolving {
			return st
		}
		select {
		case <-changed:
		case <-ctx.Done():
			return t.State()
		}
	}
}

func (t *Tracker) set(st State) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = st
	close(t.changed)
	t.changed = make(chan struct{})
}

// Resolver looks up the user behind a session token.
type Resolver interface {
	Resolve(ctx context.Context, token string) (*auth.User, error)
}

// Observe resolves token in the background and reports the result to t.
// Provider errors count as no user.
func Observe(ctx context.Context, resolver Resolver, token string, t *Tracker) {
	if token == "" {
		t.Resolve(nil)
		return
	}
	go func() {
		u, err := resolver.Resolve(ctx, token)
		if err != nil {
			logging.Ctx(ctx).Warn().Err(err).Msg("session resolve failed")
			u = nil
		}
		t.Resolve(u)
	}()
}
