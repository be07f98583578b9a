package leave

import (
	"testing"
	"time"
)

func TestCalculateDays(t *testing.T) {
	start := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	days, err := CalculateDays(start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if days != 1 {
		t.Fatalf("expected 1 day, got %v", days)
	}

	end = time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC)
	days, err = CalculateDays(start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if days != 3 {
		t.Fatalf("expected 3 days, got %v", days)
	}
}

func TestCalculateDaysInvalid(t *testing.T) {
	start := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 2, 9, 0, 0, 0, 0, time.UTC)

	_, err := CalculateDays(start, end)
	if err == nil {
		t.Fatal("expected error for invalid range")
	}
}

func TestLeaveDaysFromAPIDates(t *testing.T) {
	l := Leave{StartDate: "2024-06-01T00:00:00.000Z", EndDate: "2024-06-03"}
	if got := l.Days(); got != 3 {
		t.Fatalf("expected 3 days, got %v", got)
	}
	if got := (Leave{StartDate: "soon"}).Days(); got != 0 {
		t.Fatalf("expected 0 for unreadable dates, got %v", got)
	}
}

func TestIsDecision(t *testing.T) {
	if !IsDecision(StatusApproved) || !IsDecision(StatusRejected) {
		t.Fatal("expected approve and reject to be decisions")
	}
	if IsDecision(StatusPending) {
		t.Fatal("pending is not a decision")
	}
}
