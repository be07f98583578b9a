// Package mutation runs portal writes against the HR API and refreshes the
// view-state scopes each write invalidates.
package mutation

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"sync"

	"hrmportal/internal/domain/auth"
	"hrmportal/internal/hrapi"
	"hrmportal/internal/viewstate"
)

type Outcome int

const (
	Succeeded Outcome = iota
	Failed
	// Busy means the same control already had a call in flight.
	Busy
	// Expired means the HR API rejected the session. The session is gone.
	Expired
)

func (o Outcome) String() string {
	switch o {
	case Succeeded:
		return "ok"
	case Failed:
		return "failed"
	case Busy:
		return "busy"
	case Expired:
		return "expired"
	default:
		return "unknown"
	}
}

// SessionClearer removes a portal session.
type SessionClearer interface {
	Clear(ctx context.Context, sessionID string) error
}

type Observer interface {
	ObserveMutation(control, outcome string)
}

// Mutation describes one write. Control names the triggering button and is
// the unit of the in-flight guard; Form names the form whose input is kept as
// a draft when the write fails.
type Mutation struct {
	Control     string
	Form        string
	Values      url.Values
	Validate    func() error
	Call        func(ctx context.Context, sess *auth.Session) error
	Invalidates []viewstate.Scope
	// SuccessTitle defaults to "Success". An empty Success queues no notice.
	SuccessTitle string
	Success      string
	Failure      string
}

type Controller struct {
	views    *viewstate.Container
	sessions SessionClearer
	metrics  Observer

	mu   sync.Mutex
	busy map[string]struct{}
}

func NewController(views *viewstate.Container, sessions SessionClearer, metrics Observer) *Controller {
	return &Controller{
		views:    views,
		sessions: sessions,
		metrics:  metrics,
		busy:     map[string]struct{}{},
	}
}

// Execute validates and performs m for sess. On success the invalidated
// scopes are read once and a success notice is queued. On failure the slots
// are left untouched, one error notice is queued and the submitted values are
// kept as a draft.
func (c *Controller) Execute(ctx context.Context, sess *auth.Session, m Mutation) Outcome {
	st := c.views.State(sess.ID)

	if m.Validate != nil {
		if err := m.Validate(); err != nil {
			st.SaveDraft(m.Form, m.Values)
			st.Notify(viewstate.Notice{Kind: viewstate.NoticeError, Title: "Error", Message: hrapi.UserMessage(err, m.Failure)})
			c.observe(m.Control, "invalid")
			return Failed
		}
	}

	key := sess.ID + "|" + m.Control
	if !c.acquire(key) {
		c.observe(m.Control, Busy.String())
		return Busy
	}
	defer c.release(key)

	err := m.Call(ctx, sess)
	if err != nil && hrapi.IsAuth(err) {
		c.expire(ctx, sess)
		c.observe(m.Control, Expired.String())
		return Expired
	}
	if err != nil {
		var apiErr *hrapi.Error
		if !errors.As(err, &apiErr) || errors.Is(err, hrapi.ErrNetwork) || errors.Is(err, hrapi.ErrServer) {
			slog.Warn("mutation failed", "control", m.Control, "err", err)
		}
		st.SaveDraft(m.Form, m.Values)
		st.Notify(viewstate.Notice{Kind: viewstate.NoticeError, Title: "Error", Message: hrapi.UserMessage(err, m.Failure)})
		c.observe(m.Control, Failed.String())
		return Failed
	}

	st.ClearDraft(m.Form)
	if m.Success != "" {
		title := m.SuccessTitle
		if title == "" {
			title = "Success"
		}
		st.Notify(viewstate.Notice{Kind: viewstate.NoticeSuccess, Title: title, Message: m.Success})
	}
	if len(m.Invalidates) > 0 {
		if err := c.views.Refetch(ctx, sess, m.Invalidates...); err != nil && hrapi.IsAuth(err) {
			c.expire(ctx, sess)
			c.observe(m.Control, Expired.String())
			return Expired
		}
	}
	c.observe(m.Control, Succeeded.String())
	return Succeeded
}

// Busy reports whether control has a call in flight for sessionID.
func (c *Controller) Busy(sessionID, control string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.busy[sessionID+"|"+control]
	return ok
}

func (c *Controller) acquire(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.busy[key]; ok {
		return false
	}
	c.busy[key] = struct{}{}
	return true
}

func (c *Controller) release(key string) {
	c.mu.Lock()
	delete(c.busy, key)
	c.mu.Unlock()
}

func (c *Controller) expire(ctx context.Context, sess *auth.Session) {
	if c.sessions != nil {
		if err := c.sessions.Clear(ctx, sess.ID); err != nil {
			slog.Warn("clear session failed", "err", err)
		}
	}
	c.views.Drop(sess.ID)
}

func (c *Controller) observe(control, outcome string) {
	if c.metrics != nil {
		c.metrics.ObserveMutation(control, outcome)
	}
}
