package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"hrmportal/internal/domain/auth"
	"hrmportal/internal/requestctx"
	"hrmportal/internal/transport/http/api"
)

type SessionSource interface {
	Current(ctx context.Context, id string) (*auth.Session, error)
}

type SessionCookie interface {
	SessionID(r *http.Request) (string, error)
	Clear(w http.ResponseWriter)
}

// Session resolves the session cookie and puts the session into the request
// context. Requests without a usable session pass through without one.
func Session(source SessionSource, cookies SessionCookie) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := cookies.SessionID(r)
			if err != nil {
				if !errors.Is(err, http.ErrNoCookie) {
					cookies.Clear(w)
				}
				next.ServeHTTP(w, r)
				return
			}
			sess, err := source.Current(r.Context(), id)
			if err != nil {
				if auth.IsSessionMissing(err) {
					cookies.Clear(w)
				} else {
					slog.Warn("load session failed", "err", err, "requestId", GetRequestID(r.Context()))
				}
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(requestctx.WithSession(r.Context(), sess)))
		})
	}
}

// RequireSession sends browsers without a session to loginPath. JSON routes
// under /api answer 401 instead.
func RequireSession(loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := requestctx.GetSession(r.Context()); ok {
				next.ServeHTTP(w, r)
				return
			}
			if strings.HasPrefix(r.URL.Path, "/api/") {
				api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", GetRequestID(r.Context()))
				return
			}
			http.Redirect(w, r, loginPath, http.StatusSeeOther)
		})
	}
}
