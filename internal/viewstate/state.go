package viewstate

import (
	"net/url"
	"sync"
	"time"
)

type Scope string

// Slot is the last successful read of one scope.
type Slot struct {
	Value    any
	LoadedAt time.Time
	Loaded   bool
	fresh    bool
}

type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
	NoticeInfo    NoticeKind = "info"
)

type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Title   string     `json:"title"`
	Message string     `json:"message"`
}

// State is one session's view-state. All methods are safe for concurrent
// use.
type State struct {
	mu       sync.Mutex
	slots    map[Scope]*Slot
	drafts   map[string]url.Values
	notices  []Notice
	ledger   *Ledger
	lastSeen time.Time
}

func newState(now time.Time) *State {
	return &State{
		slots:    map[Scope]*Slot{},
		drafts:   map[string]url.Values{},
		ledger:   NewLedger(),
		lastSeen: now,
	}
}

func (s *State) Ledger() *Ledger {
	return s.ledger
}

// Slot returns a copy of the slot for scope.
func (s *State) Slot(scope Scope) Slot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slot, ok := s.slots[scope]; ok {
		return *slot
	}
	return Slot{}
}

// Slots returns copies of the slots for scopes, in a map keyed by scope.
func (s *State) Slots(scopes ...Scope) map[Scope]Slot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[Scope]Slot, len(scopes))
	for _, scope := range scopes {
		if slot, ok := s.slots[scope]; ok {
			out[scope] = *slot
		} else {
			out[scope] = Slot{}
		}
	}
	return out
}

func (s *State) store(scope Scope, value any, at time.Time, fresh bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[scope] = &Slot{Value: value, LoadedAt: at, Loaded: true, fresh: fresh}
}

// takeFresh reports whether scope was refetched since the last render and
// clears the mark.
func (s *State) takeFresh(scope Scope) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot, ok := s.slots[scope]
	if !ok || !slot.fresh {
		return false
	}
	slot.fresh = false
	return true
}

func (s *State) Draft(form string) (url.Values, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	values, ok := s.drafts[form]
	if !ok {
		return nil, false
	}
	return cloneValues(values), true
}

func (s *State) SaveDraft(form string, values url.Values) {
	if form == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[form] = cloneValues(values)
}

func (s *State) ClearDraft(form string) {
	if form == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, form)
}

func (s *State) Notify(n Notice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices = append(s.notices, n)
}

// TakeNotices returns the queued notices and empties the queue, so each
// notice is shown once.
func (s *State) TakeNotices() []Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.notices
	s.notices = nil
	return out
}

func (s *State) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *State) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func cloneValues(values url.Values) url.Values {
	out := make(url.Values, len(values))
	for k, v := range values {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// Value returns the slot value for scope as T. ok is false when the scope was
// never loaded or holds another type.
func Value[T any](slots map[Scope]Slot, scope Scope) (T, bool) {
	var zero T
	slot, found := slots[scope]
	if !found || !slot.Loaded {
		return zero, false
	}
	v, ok := slot.Value.(T)
	if !ok {
		return zero, false
	}
	return v, true
}

// Drafts returns copies of every saved draft keyed by form.
func (s *State) Drafts() map[string]url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]url.Values, len(s.drafts))
	for form, values := range s.drafts {
		out[form] = cloneValues(values)
	}
	return out
}
