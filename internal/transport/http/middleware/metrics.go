package middleware

import (
	"net/http"
	"time"
)

type RequestRecorder interface {
	Record(method, route string, status int, d time.Duration)
}

// Metrics records every request under its route pattern, or "unmatched"
// when no route matched.
func Metrics(rec RequestRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if rec == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := record(w)
			next.ServeHTTP(recorder, r)
			route := routePattern(r)
			if route == "" {
				route = "unmatched"
			}
			rec.Record(r.Method, route, recorder.status, time.Since(start))
		})
	}
}
