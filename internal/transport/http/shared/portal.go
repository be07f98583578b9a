package shared

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"hrmportal/internal/domain/auth"
	"hrmportal/internal/hrapi"
	"hrmportal/internal/mutation"
	"hrmportal/internal/render"
	"hrmportal/internal/requestctx"
	"hrmportal/internal/viewstate"
)

const LoginPath = "/login"

// ViewBuilder turns a page's slots into the page's view model.
type ViewBuilder func(slots map[viewstate.Scope]viewstate.Slot) any

type SessionClearer interface {
	Clear(ctx context.Context, id string) error
}

type CookieClearer interface {
	Clear(w http.ResponseWriter)
}

// Portal is what every page handler shares: the view-state, the mutation
// controller and the renderer.
type Portal struct {
	Views     *viewstate.Container
	Mutations *mutation.Controller
	Renderer  *render.Renderer
	Gate      viewstate.Authorizer
	Sessions  SessionClearer
	Cookies   CookieClearer

	mu       sync.RWMutex
	builders map[string]ViewBuilder
}

func NewPortal(views *viewstate.Container, mutations *mutation.Controller, renderer *render.Renderer, gate viewstate.Authorizer, sessions SessionClearer, cookies CookieClearer) *Portal {
	return &Portal{
		Views:     views,
		Mutations: mutations,
		Renderer:  renderer,
		Gate:      gate,
		Sessions:  sessions,
		Cookies:   cookies,
		builders:  map[string]ViewBuilder{},
	}
}

// Register installs the loaders of a page and the builder of its view model.
func (p *Portal) Register(page string, build ViewBuilder, loaders ...viewstate.Loader) {
	p.Views.Register(loaders...)
	p.mu.Lock()
	p.builders[page] = build
	p.mu.Unlock()
}

func (p *Portal) builder(page string) (ViewBuilder, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	build, ok := p.builders[page]
	return build, ok
}

// Snapshot is one activated tab with its view model.
type Snapshot struct {
	Page render.Page
	Tab  render.Tab
	Tabs []render.Tab
	View any
}

// Activate loads the requested tab of page for sess and builds the view
// model from every slot the role can see on that page. The error is non-nil
// only when the HR API rejected the session.
func (p *Portal) Activate(ctx context.Context, sess *auth.Session, pageKey, requested string) (Snapshot, bool, error) {
	page, ok := render.Pages[pageKey]
	if !ok {
		return Snapshot{}, false, nil
	}
	build, ok := p.builder(pageKey)
	if !ok {
		return Snapshot{}, false, nil
	}
	tab, ok := render.ResolveTab(p.Gate, sess.Role, page, requested)
	if !ok {
		return Snapshot{}, false, nil
	}
	if err := p.Views.Load(ctx, sess, tab.Scopes...); err != nil {
		return Snapshot{}, true, err
	}
	tabs := render.VisibleTabs(p.Gate, sess.Role, page)
	var scopes []viewstate.Scope
	for _, t := range tabs {
		scopes = append(scopes, t.Scopes...)
	}
	slots := p.Views.State(sess.ID).Slots(scopes...)
	return Snapshot{Page: page, Tab: tab, Tabs: tabs, View: build(slots)}, true, nil
}

// ShowTab renders the tab named by the tab query parameter of page.
func (p *Portal) ShowTab(w http.ResponseWriter, r *http.Request, pageKey string) {
	sess, ok := SessionFrom(r)
	if !ok {
		http.Redirect(w, r, LoginPath, http.StatusSeeOther)
		return
	}
	snap, found, err := p.Activate(r.Context(), sess, pageKey, r.URL.Query().Get("tab"))
	if err != nil {
		p.Expire(w, r, sess)
		return
	}
	if !found {
		p.NotFound(w, r)
		return
	}
	st := p.Views.State(sess.ID)
	p.Renderer.Render(w, http.StatusOK, pageKey, render.PageData{
		Title:   snap.Page.Title,
		Page:    snap.Page,
		Tab:     snap.Tab,
		Tabs:    snap.Tabs,
		Session: sess,
		Notices: st.TakeNotices(),
		Drafts:  st.Drafts(),
		View:    snap.View,
	})
}

// RenderPage renders a page that has no tabs, such as the HRM dashboard.
func (p *Portal) RenderPage(w http.ResponseWriter, r *http.Request, status int, name string, page render.Page, view any) {
	sess, _ := SessionFrom(r)
	data := render.PageData{Title: page.Title, Page: page, Session: sess, View: view}
	if sess != nil {
		st := p.Views.State(sess.ID)
		data.Notices = st.TakeNotices()
		data.Drafts = st.Drafts()
	}
	p.Renderer.Render(w, status, name, data)
}

// Mutate runs m for the request's session and answers with a redirect to
// back, where the outcome shows as a notice.
func (p *Portal) Mutate(w http.ResponseWriter, r *http.Request, m mutation.Mutation, back string) {
	sess, ok := SessionFrom(r)
	if !ok {
		http.Redirect(w, r, LoginPath, http.StatusSeeOther)
		return
	}
	if m.Values == nil {
		m.Values = r.PostForm
	}
	if p.Mutations.Execute(r.Context(), sess, m) == mutation.Expired {
		p.finishExpiry(w, r)
		return
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// Expire ends sess after the HR API rejected it and sends the browser to
// the login page.
func (p *Portal) Expire(w http.ResponseWriter, r *http.Request, sess *auth.Session) {
	p.EndSession(w, r, sess)
	http.Redirect(w, r, LoginPath+"?expired=1", http.StatusSeeOther)
}

// EndSession drops every trace of sess: the stored session, its view-state
// and the browser cookie.
func (p *Portal) EndSession(w http.ResponseWriter, r *http.Request, sess *auth.Session) {
	if sess != nil {
		if p.Sessions != nil {
			if err := p.Sessions.Clear(r.Context(), sess.ID); err != nil {
				slog.Warn("clear session failed", "err", err, "requestId", requestctx.GetRequestID(r.Context()))
			}
		}
		p.Views.Drop(sess.ID)
	}
	if p.Cookies != nil {
		p.Cookies.Clear(w)
	}
}

func (p *Portal) finishExpiry(w http.ResponseWriter, r *http.Request) {
	if p.Cookies != nil {
		p.Cookies.Clear(w)
	}
	http.Redirect(w, r, LoginPath+"?expired=1", http.StatusSeeOther)
}

// Deny answers a request for a capability the role lacks.
func (p *Portal) Deny(w http.ResponseWriter, r *http.Request) {
	p.RenderPage(w, r, http.StatusForbidden, "error", render.Page{Title: "Forbidden"}, render.ErrorView{
		Status:  http.StatusForbidden,
		Message: "You do not have access to this action.",
	})
}

func (p *Portal) NotFound(w http.ResponseWriter, r *http.Request) {
	p.RenderPage(w, r, http.StatusNotFound, "error", render.Page{Title: "Not found"}, render.ErrorView{
		Status:  http.StatusNotFound,
		Message: "The page you requested does not exist.",
	})
}

// ParseForm reads the request form. A body that cannot be read is treated
// as empty so validation reports the missing fields.
func ParseForm(r *http.Request) {
	if err := r.ParseForm(); err != nil {
		slog.Warn("parse form failed", "err", err, "requestId", requestctx.GetRequestID(r.Context()))
	}
}

func SessionFrom(r *http.Request) (*auth.Session, bool) {
	return requestctx.GetSession(r.Context())
}

// Slot returns the value stored for scope, or the zero value of T.
func Slot[T any](slots map[viewstate.Scope]viewstate.Slot, scope viewstate.Scope) T {
	v, _ := viewstate.Value[T](slots, scope)
	return v
}

// IsAuth reports whether err means the session is gone.
func IsAuth(err error) bool {
	return hrapi.IsAuth(err)
}
