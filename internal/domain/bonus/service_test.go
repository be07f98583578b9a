package bonus

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"hrmportal/internal/hrapi"
)

func TestStatsAcceptsDecimalStrings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"totalApproved":"1500.00","totalPending":250,"totalAllocated":"1750","pendingCount":1}`))
	}))
	defer srv.Close()

	client, err := hrapi.New(srv.URL)
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	stats, err := NewService(client).Stats(context.Background(), "tok")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalApproved != 1500 || stats.TotalAllocated != 1750 || stats.PendingCount != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestAssignValidatesLocally(t *testing.T) {
	client, err := hrapi.New("http://127.0.0.1:1")
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	svc := NewService(client)
	if _, err := svc.Assign(context.Background(), "tok", AssignInput{UserID: "u1", Amount: 10, Type: "BOGUS", Reason: "x", Period: "2024-06-01"}); !errors.Is(err, hrapi.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.Assign(context.Background(), "tok", AssignInput{UserID: "u1", Amount: 0, Type: TypeSpot, Reason: "x", Period: "2024-06-01"}); !errors.Is(err, hrapi.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
