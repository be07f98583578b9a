package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"hrmportal/internal/domain/auth"
	"hrmportal/internal/requestctx"
)

func noContent() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func loginRequest(email, remote string) *http.Request {
	form := url.Values{"email": {email}, "password": {"x"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.RemoteAddr = remote
	return req
}

func TestRateLimitUsesSessionKeyBeforeIPFallback(t *testing.T) {
	limited := RateLimit(1, time.Minute)(noContent())
	ctx := requestctx.WithSession(context.Background(), &auth.Session{ID: "s-1"})

	first := httptest.NewRequest(http.MethodPost, "/leaves", nil).WithContext(ctx)
	first.RemoteAddr = "198.51.100.11:2222"
	firstRec := httptest.NewRecorder()
	limited.ServeHTTP(firstRec, first)
	if firstRec.Code != http.StatusNoContent {
		t.Fatalf("expected first request to pass, got %d", firstRec.Code)
	}

	second := httptest.NewRequest(http.MethodPost, "/leaves", nil).WithContext(ctx)
	second.RemoteAddr = "198.51.100.12:3333"
	secondRec := httptest.NewRecorder()
	limited.ServeHTTP(secondRec, second)
	if secondRec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled by session key, got %d", secondRec.Code)
	}
}

func TestRateLimitWindowReset(t *testing.T) {
	limited := RateLimit(1, 40*time.Millisecond)(noContent())

	send := func() int {
		req := httptest.NewRequest(http.MethodPost, "/leaves", nil)
		req.RemoteAddr = "192.0.2.20:1111"
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, req)
		return rec.Code
	}
	if code := send(); code != http.StatusNoContent {
		t.Fatalf("expected first request to pass, got %d", code)
	}
	if code := send(); code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", code)
	}
	time.Sleep(50 * time.Millisecond)
	if code := send(); code != http.StatusNoContent {
		t.Fatalf("expected request after window reset to pass, got %d", code)
	}
}

func TestLoginRateLimitByEmailAcrossAddresses(t *testing.T) {
	limited := LoginRateLimit(4, time.Minute)(noContent())

	first := httptest.NewRecorder()
	limited.ServeHTTP(first, loginRequest("a@example.com", "203.0.113.10:4444"))
	if first.Code != http.StatusNoContent {
		t.Fatalf("expected first attempt to pass, got %d", first.Code)
	}

	second := httptest.NewRecorder()
	limited.ServeHTTP(second, loginRequest("A@example.com", "203.0.113.99:5555"))
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("expected same email from another address throttled, got %d", second.Code)
	}
	if second.Header().Get("Retry-After") == "" || second.Header().Get("X-RateLimit-Reset") == "" {
		t.Fatal("expected retry metadata headers")
	}
}

func TestLoginRateLimitKeepsFormReadable(t *testing.T) {
	var email string
	limited := LoginRateLimit(40, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		email = r.FormValue("email")
		w.WriteHeader(http.StatusNoContent)
	}))
	limited.ServeHTTP(httptest.NewRecorder(), loginRequest("pm@dotspeaks.com", "192.0.2.1:1"))
	if email != "pm@dotspeaks.com" {
		t.Fatalf("expected handler to read the form, got %q", email)
	}
}

func TestLoginRateLimitIgnoresGet(t *testing.T) {
	limited := LoginRateLimit(1, time.Minute)(noContent())
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/login", nil)
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected GET %d to pass, got %d", i+1, rec.Code)
		}
	}
}

func TestRateLimitRejectHandler(t *testing.T) {
	limited := RateLimit(1, time.Minute, WithKeyFunc(ClientIPKey), WithRejectHandler(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte("slow down"))
	}))(noContent())

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.Header.Set("X-Forwarded-For", "192.0.2.50, 10.0.0.1")
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, req)
		if i == 1 && (rec.Code != http.StatusTooManyRequests || rec.Body.String() != "slow down") {
			t.Fatalf("expected custom rejection, got %d %q", rec.Code, rec.Body.String())
		}
	}
}
