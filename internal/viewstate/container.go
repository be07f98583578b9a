package viewstate

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"hrmportal/internal/domain/auth"
	"hrmportal/internal/hrapi"
)

// Authorizer decides whether a role holds a permission.
type Authorizer interface {
	Can(role auth.Role, perm string) bool
}

// Loader reads one scope from the HR API. Perm, when set, is required to
// read the scope at all. Settle, when set, runs over each fresh value before
// it is stored.
type Loader struct {
	Scope  Scope
	Perm   string
	Load   func(ctx context.Context, sess *auth.Session) (any, error)
	Settle func(value any, ledger *Ledger) any
}

// Container holds the view-state of every live session.
type Container struct {
	mu      sync.Mutex
	states  map[string]*State
	loaders map[Scope]Loader
	authz   Authorizer
	now     func() time.Time
}

func NewContainer(authz Authorizer) *Container {
	return &Container{
		states:  map[string]*State{},
		loaders: map[Scope]Loader{},
		authz:   authz,
		now:     time.Now,
	}
}

func (c *Container) Register(loaders ...Loader) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, l := range loaders {
		if _, exists := c.loaders[l.Scope]; exists {
			slog.Warn("view loader replaced", "scope", l.Scope)
		}
		c.loaders[l.Scope] = l
	}
}

// State returns the view-state for sessionID, creating it on first use.
func (c *Container) State(sessionID string) *State {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	st, ok := c.states[sessionID]
	if !ok {
		st = newState(now)
		c.states[sessionID] = st
		return st
	}
	st.touch(now)
	return st
}

func (c *Container) Drop(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.states, sessionID)
}

// Sweep drops states not used for maxIdle and returns how many went.
func (c *Container) Sweep(maxIdle time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	cutoff := c.now().Add(-maxIdle)
	dropped := 0
	for id, st := range c.states {
		if st.idleSince().Before(cutoff) {
			delete(c.states, id)
			dropped++
		}
	}
	return dropped
}

// Readable reports whether role may read scope.
func (c *Container) Readable(role auth.Role, scope Scope) bool {
	loader, ok := c.loader(scope)
	if !ok {
		return false
	}
	return c.allowed(role, loader)
}

func (c *Container) allowed(role auth.Role, loader Loader) bool {
	if loader.Perm == "" || c.authz == nil {
		return true
	}
	return c.authz.Can(role, loader.Perm)
}

func (c *Container) loader(scope Scope) (Loader, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.loaders[scope]
	return l, ok
}

// Load is a tab activation: every scope is read again, except scopes a
// mutation refetched since the last render, which are used as they are.
// Read failures keep the previous slot. The returned error is non-nil only
// when the HR API rejected the session.
func (c *Container) Load(ctx context.Context, sess *auth.Session, scopes ...Scope) error {
	st := c.State(sess.ID)
	pending := make([]Scope, 0, len(scopes))
	for _, scope := range scopes {
		if st.takeFresh(scope) {
			continue
		}
		pending = append(pending, scope)
	}
	return c.fetch(ctx, sess, st, pending, false)
}

// Refetch reads scopes once after a mutation and marks them fresh for the
// next render. Scopes the role cannot read are skipped.
func (c *Container) Refetch(ctx context.Context, sess *auth.Session, scopes ...Scope) error {
	return c.fetch(ctx, sess, c.State(sess.ID), scopes, true)
}

func (c *Container) fetch(ctx context.Context, sess *auth.Session, st *State, scopes []Scope, fresh bool) error {
	var (
		g       errgroup.Group
		mu      sync.Mutex
		authErr error
	)
	for _, scope := range scopes {
		scope := scope
		loader, ok := c.loader(scope)
		if !ok {
			slog.Warn("no view loader", "scope", scope)
			continue
		}
		if !c.allowed(sess.Role, loader) {
			continue
		}
		g.Go(func() error {
			value, err := loader.Load(ctx, sess)
			if err != nil {
				if hrapi.IsAuth(err) {
					mu.Lock()
					if authErr == nil {
						authErr = err
					}
					mu.Unlock()
					return nil
				}
				slog.Warn("view read failed", "scope", scope, "err", err)
				return nil
			}
			if loader.Settle != nil {
				value = loader.Settle(value, st.Ledger())
			}
			st.store(scope, value, c.now(), fresh)
			return nil
		})
	}
	_ = g.Wait()
	return authErr
}
