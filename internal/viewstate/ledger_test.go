package viewstate

import "testing"

func TestLedgerNeverReturnsToPending(t *testing.T) {
	l := NewLedger()
	if got := l.Settle("leave", "1", "PENDING"); got != "PENDING" {
		t.Fatalf("unexpected %q", got)
	}
	if got := l.Settle("leave", "1", "REJECTED"); got != "REJECTED" {
		t.Fatalf("unexpected %q", got)
	}
	if got := l.Settle("leave", "1", "PENDING"); got != "REJECTED" {
		t.Fatalf("expected terminal status kept, got %q", got)
	}
	if got := l.Settle("overtime", "1", "PENDING"); got != "PENDING" {
		t.Fatalf("kinds must not share records, got %q", got)
	}
}

func TestSettleAllLeavesInputUntouched(t *testing.T) {
	type rec struct {
		ID     string
		Status string
	}
	l := NewLedger()
	l.Settle("leave", "7", "APPROVED")
	in := []rec{{ID: "7", Status: "PENDING"}, {ID: "8", Status: "PENDING"}}

	out := SettleAll(l, "leave", in, func(r *rec) (string, *string) { return r.ID, &r.Status })
	if out[0].Status != "APPROVED" || out[1].Status != "PENDING" {
		t.Fatalf("unexpected settled %+v", out)
	}
	if in[0].Status != "PENDING" {
		t.Fatal("input slice modified")
	}
}
