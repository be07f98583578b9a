package hrm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"hrmportal/internal/hrapi"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := hrapi.New(srv.URL)
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	return NewService(client, "acme", 0)
}

func TestHandoffReturnsRedirect(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("tenantCode") != "acme" {
			t.Errorf("missing tenant code: %s", r.URL.RawQuery)
		}
		if c, err := r.Cookie("hrm_sid"); err != nil || c.Value != "abc" {
			t.Errorf("expected upstream cookie replayed")
		}
		_, _ = w.Write([]byte(`{"redirectUrl":"https://hrm.example.com/sso?code=1"}`))
	})

	target, err := svc.Handoff(context.Background(), "tok", []*http.Cookie{{Name: "hrm_sid", Value: "abc"}})
	if err != nil {
		t.Fatalf("handoff: %v", err)
	}
	if Origin(target) != "https://hrm.example.com" {
		t.Fatalf("unexpected origin %q", Origin(target))
	}
}

func TestHandoffOutcomes(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    error
		message string
	}{
		{name: "session expired in error status", status: http.StatusUnauthorized, body: `{"error":"Session expired, login again."}`, want: hrapi.ErrAuth},
		{name: "session expired in ok body", status: http.StatusOK, body: `{"error":"Session expired, login again."}`, want: hrapi.ErrAuth},
		{name: "other failure", status: http.StatusBadRequest, body: `{"error":"Tenant not found"}`, want: hrapi.ErrValidation, message: "Tenant not found"},
		{name: "server failure", status: http.StatusInternalServerError, body: `{"error":"db down"}`, want: hrapi.ErrServer, message: FailedMessage},
		{name: "no url", status: http.StatusOK, body: `{}`, want: ErrNoRedirect, message: NoRedirectMessage},
		{name: "script url", status: http.StatusOK, body: `{"redirectUrl":"javascript:alert(1)"}`, want: ErrInvalidRedirect, message: FailedMessage},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})
			_, err := svc.Handoff(context.Background(), "tok", nil)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if tc.message != "" && Message(err) != tc.message {
				t.Fatalf("expected message %q, got %q", tc.message, Message(err))
			}
		})
	}
}

func TestHandoffHonoursCancellation(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no call expected after cancellation")
	})
	svc.Delay = 1 << 40
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.Handoff(ctx, "tok", nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
