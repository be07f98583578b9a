package authhandler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"hrmportal/internal/domain/auth"
	"hrmportal/internal/hrapi"
	"hrmportal/internal/render"
	"hrmportal/internal/requestctx"
	"hrmportal/internal/transport/http/middleware"
	"hrmportal/internal/transport/http/shared"
)

const (
	invalidCredentialsMessage = "Invalid credentials"
	expiredMessage            = "Session expired, please sign in again."
	throttledMessage          = "Too many sign-in attempts. Try again in a minute."
	landingPath               = "/bonuses"
)

var loginPage = render.Page{Key: "login", Title: "Sign in", Path: shared.LoginPath}

type Options struct {
	ShowDemoLogins bool
	// LoginLimit is the number of sign-in attempts allowed per minute.
	LoginLimit int
}

type Handler struct {
	Service *auth.Service
	Cookies *auth.CookieCodec
	Portal  *shared.Portal
	Options Options
}

func NewHandler(service *auth.Service, cookies *auth.CookieCodec, portal *shared.Portal, opts Options) *Handler {
	return &Handler{Service: service, Cookies: cookies, Portal: portal, Options: opts}
}

// RegisterRoutes installs the routes reachable without a session.
func (h *Handler) RegisterRoutes(r chi.Router) {
	limit := h.Options.LoginLimit
	if limit <= 0 {
		limit = 60
	}
	r.Get("/", h.handleRoot)
	r.Get(shared.LoginPath, h.handleLoginPage)
	r.With(middleware.LoginRateLimit(limit, time.Minute, middleware.WithRejectHandler(h.handleThrottled))).Post(shared.LoginPath, h.handleLogin)
	r.Post("/logout", h.handleLogout)
}

// RegisterLandingRoutes installs the per-role landing paths the login
// redirects to.
func (h *Handler) RegisterLandingRoutes(r chi.Router) {
	for _, role := range auth.Roles {
		r.Get("/"+string(role), h.handleLanding)
	}
}

func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	if _, ok := shared.SessionFrom(r); ok {
		http.Redirect(w, r, landingPath, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, shared.LoginPath, http.StatusSeeOther)
}

func (h *Handler) handleLanding(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, landingPath, http.StatusSeeOther)
}

func (h *Handler) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if sess, ok := shared.SessionFrom(r); ok {
		http.Redirect(w, r, "/"+string(sess.Role), http.StatusSeeOther)
		return
	}
	view := h.loginView("")
	if r.URL.Query().Get("expired") == "1" {
		view.Error = expiredMessage
	}
	h.Portal.RenderPage(w, r, http.StatusOK, "login", loginPage, view)
}

// handleLogin replaces any session the browser holds with a new one. A
// failed attempt leaves the browser signed out.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	shared.ParseForm(r)
	email := strings.TrimSpace(r.PostForm.Get("email"))
	password := r.PostForm.Get("password")

	previousID, _ := h.Cookies.SessionID(r)
	if previousID != "" {
		h.Portal.Views.Drop(previousID)
	}

	sess, err := h.Service.Login(r.Context(), previousID, email, password)
	if err != nil {
		h.Cookies.Clear(w)
		if !rejected(err) {
			slog.Warn("login failed", "err", err, "requestId", requestctx.GetRequestID(r.Context()))
		}
		view := h.loginView(email)
		view.Error = hrapi.UserMessage(err, invalidCredentialsMessage)
		h.renderLogin(w, r, http.StatusUnauthorized, view)
		return
	}

	if err := h.Cookies.Issue(w, sess); err != nil {
		slog.Error("issue session cookie failed", "err", err, "requestId", requestctx.GetRequestID(r.Context()))
		if clearErr := h.Service.Clear(r.Context(), sess.ID); clearErr != nil {
			slog.Warn("clear session failed", "err", clearErr)
		}
		view := h.loginView(email)
		view.Error = invalidCredentialsMessage
		h.renderLogin(w, r, http.StatusInternalServerError, view)
		return
	}
	slog.Info("login", "userId", sess.UserID, "role", sess.Role, "requestId", requestctx.GetRequestID(r.Context()))
	http.Redirect(w, r, "/"+string(sess.Role), http.StatusSeeOther)
}

func (h *Handler) handleThrottled(w http.ResponseWriter, r *http.Request) {
	shared.ParseForm(r)
	view := h.loginView(strings.TrimSpace(r.PostForm.Get("email")))
	view.Error = throttledMessage
	h.renderLogin(w, r, http.StatusTooManyRequests, view)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess, _ := shared.SessionFrom(r)
	if sess == nil {
		if id, err := h.Cookies.SessionID(r); err == nil {
			sess = &auth.Session{ID: id}
		}
	}
	h.Portal.EndSession(w, r, sess)
	http.Redirect(w, r, shared.LoginPath, http.StatusSeeOther)
}

func (h *Handler) loginView(email string) render.LoginView {
	view := render.LoginView{Email: email}
	if h.Options.ShowDemoLogins {
		view.DemoLogins = render.DemoLogins
	}
	return view
}

// renderLogin renders the login page without the session the request
// arrived with.
func (h *Handler) renderLogin(w http.ResponseWriter, r *http.Request, status int, view render.LoginView) {
	r = r.WithContext(requestctx.WithSession(r.Context(), nil))
	h.Portal.RenderPage(w, r, status, "login", loginPage, view)
}

// rejected reports whether the HR API turned the credentials down, as
// opposed to failing to answer.
func rejected(err error) bool {
	return errors.Is(err, hrapi.ErrValidation) || errors.Is(err, hrapi.ErrAuth) || errors.Is(err, hrapi.ErrNotFound)
}
