package middleware

import (
	"net/http"

	"hrmportal/internal/domain/auth"
	"hrmportal/internal/requestctx"
	"hrmportal/internal/transport/http/api"
)

type Authorizer interface {
	Can(role auth.Role, perm string) bool
}

// RequirePermission refuses requests whose session role lacks permission.
// deny, when set, writes the refusal; the default is a JSON 403.
func RequirePermission(permission string, authz Authorizer, deny http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := requestctx.GetSession(r.Context())
			if !ok {
				api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", GetRequestID(r.Context()))
				return
			}
			if !authz.Can(sess.Role, permission) {
				if deny != nil {
					deny(w, r)
					return
				}
				api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", GetRequestID(r.Context()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
