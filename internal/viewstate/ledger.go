package viewstate

import "sync"

const StatusPending = "PENDING"

// Ledger remembers the last non-pending status seen per record so a stale
// read cannot move a record back to PENDING within one session.
type Ledger struct {
	mu   sync.Mutex
	seen map[string]string
}

func NewLedger() *Ledger {
	return &Ledger{seen: map[string]string{}}
}

// Settle records status for kind/id and returns the status to display.
func (l *Ledger) Settle(kind, id, status string) string {
	if id == "" {
		return status
	}
	key := kind + "/" + id
	l.mu.Lock()
	defer l.mu.Unlock()
	if status == StatusPending {
		if prev, ok := l.seen[key]; ok {
			return prev
		}
		return status
	}
	l.seen[key] = status
	return status
}

// SettleAll applies Settle to every item through the status pointer
// returned by fields. The input slice is not modified.
func SettleAll[T any](l *Ledger, kind string, items []T, fields func(item *T) (id string, status *string)) []T {
	if items == nil {
		return nil
	}
	out := make([]T, len(items))
	copy(out, items)
	for i := range out {
		id, status := fields(&out[i])
		*status = l.Settle(kind, id, *status)
	}
	return out
}
