package bonus

import (
	"bytes"
	"testing"
	"time"
)

func TestSum(t *testing.T) {
	items := []Bonus{
		{ID: "1", Amount: 1000, Status: StatusApproved},
		{ID: "2", Amount: 250.5, Status: StatusApproved},
		{ID: "3", Amount: 400, Status: StatusPending},
	}
	got := Sum(items)
	if got.Earned != 1250.5 || got.Pending != 400 {
		t.Fatalf("unexpected totals %+v", got)
	}
}

func TestFormatMoney(t *testing.T) {
	tests := map[float64]string{
		0:         "0",
		12500:     "12,500",
		1250.5:    "1,250.50",
		999.99:    "999.99",
		1234567.8: "1,234,567.80",
		-1500:     "-1,500",
	}
	for in, want := range tests {
		if got := FormatMoney(in); got != want {
			t.Fatalf("FormatMoney(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestRecipientFallsBack(t *testing.T) {
	if got := (Bonus{}).Recipient(); got != "Unknown" {
		t.Fatalf("expected Unknown, got %q", got)
	}
}

func TestWriteStatement(t *testing.T) {
	var buf bytes.Buffer
	items := []Bonus{{ID: "1", Amount: 500, Type: TypeSpot, Status: StatusApproved, Period: "2024-05-01", Reason: "Release weekend"}}
	if err := WriteStatement(&buf, "e@example.com", items, time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("write statement: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Fatal("expected PDF output")
	}
}
