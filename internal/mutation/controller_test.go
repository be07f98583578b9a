package mutation

import (
	"context"
	"errors"
	"net/url"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"hrmportal/internal/domain/auth"
	"hrmportal/internal/hrapi"
	"hrmportal/internal/viewstate"
)

type fakeSessions struct {
	mu      sync.Mutex
	cleared []string
}

func (f *fakeSessions) Clear(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared = append(f.cleared, id)
	return nil
}

type countingObserver struct {
	mu       sync.Mutex
	outcomes map[string]int
}

func (o *countingObserver) ObserveMutation(control, outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.outcomes == nil {
		o.outcomes = map[string]int{}
	}
	o.outcomes[control+"/"+outcome]++
}

var sess = &auth.Session{ID: "s-1", Role: auth.RoleManager}

func newHarness(t *testing.T) (*Controller, *viewstate.Container, *int32, *fakeSessions) {
	t.Helper()
	views := viewstate.NewContainer(nil)
	var reads int32
	views.Register(viewstate.Loader{
		Scope: "pendingLeaves",
		Load: func(context.Context, *auth.Session) (any, error) {
			return int(atomic.AddInt32(&reads, 1)), nil
		},
	})
	sessions := &fakeSessions{}
	return NewController(views, sessions, &countingObserver{}), views, &reads, sessions
}

func TestSuccessRefetchesInvalidatedScopesOnce(t *testing.T) {
	c, views, reads, _ := newHarness(t)
	var calls int32
	out := c.Execute(context.Background(), sess, Mutation{
		Control:     "leave.status.42",
		Call:        func(context.Context, *auth.Session) error { atomic.AddInt32(&calls, 1); return nil },
		Invalidates: []viewstate.Scope{"pendingLeaves"},
		Success:     "Leave status updated",
	})
	if out != Succeeded {
		t.Fatalf("expected success, got %s", out)
	}
	if calls != 1 || atomic.LoadInt32(reads) != 1 {
		t.Fatalf("expected one call and one read, got %d and %d", calls, *reads)
	}
	if err := views.Load(context.Background(), sess, "pendingLeaves"); err != nil {
		t.Fatalf("load: %v", err)
	}
	if atomic.LoadInt32(reads) != 1 {
		t.Fatalf("render after mutation must reuse the refetch, got %d reads", *reads)
	}
	notices := views.State(sess.ID).TakeNotices()
	if len(notices) != 1 || notices[0].Kind != viewstate.NoticeSuccess || notices[0].Message != "Leave status updated" {
		t.Fatalf("unexpected notices %+v", notices)
	}
}

func TestFailureLeavesSlotsUntouched(t *testing.T) {
	c, views, reads, _ := newHarness(t)
	if err := views.Load(context.Background(), sess, "pendingLeaves"); err != nil {
		t.Fatalf("load: %v", err)
	}
	before := views.State(sess.ID).Slots("pendingLeaves")

	values := url.Values{"remarks": {"ok"}}
	out := c.Execute(context.Background(), sess, Mutation{
		Control: "overtime.status.42",
		Form:    "overtime.review.42",
		Values:  values,
		Call: func(context.Context, *auth.Session) error {
			return &hrapi.Error{Kind: hrapi.ErrServer, Status: 500}
		},
		Invalidates: []viewstate.Scope{"pendingLeaves"},
		Failure:     "Action failed",
	})
	if out != Failed {
		t.Fatalf("expected failure, got %s", out)
	}
	after := views.State(sess.ID).Slots("pendingLeaves")
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("slots changed on failure: %+v -> %+v", before, after)
	}
	if atomic.LoadInt32(reads) != 1 {
		t.Fatalf("failed mutation must not refetch, got %d reads", *reads)
	}
	notices := views.State(sess.ID).TakeNotices()
	if len(notices) != 1 || notices[0].Kind != viewstate.NoticeError || notices[0].Message != "Action failed" {
		t.Fatalf("expected exactly one error notice, got %+v", notices)
	}
	if draft, ok := views.State(sess.ID).Draft("overtime.review.42"); !ok || draft.Get("remarks") != "ok" {
		t.Fatalf("expected submitted values kept, got %v", draft)
	}
}

func TestValidationFailureMakesNoCall(t *testing.T) {
	c, views, _, _ := newHarness(t)
	called := false
	out := c.Execute(context.Background(), sess, Mutation{
		Control:  "bonus.assign",
		Validate: func() error { return hrapi.Invalid("bonus.assign", "All fields are required") },
		Call:     func(context.Context, *auth.Session) error { called = true; return nil },
		Failure:  "Failed to assign bonus",
	})
	if out != Failed || called {
		t.Fatalf("expected rejected without call, got %s called=%v", out, called)
	}
	notices := views.State(sess.ID).TakeNotices()
	if len(notices) != 1 || notices[0].Message != "All fields are required" {
		t.Fatalf("unexpected notices %+v", notices)
	}
}

func TestInFlightControlRejectsSecondTrigger(t *testing.T) {
	c, _, _, _ := newHarness(t)
	release := make(chan struct{})
	started := make(chan struct{})
	var calls int32
	m := Mutation{
		Control: "bonus.approve.7",
		Call: func(context.Context, *auth.Session) error {
			if atomic.AddInt32(&calls, 1) == 1 {
				close(started)
			}
			<-release
			return nil
		},
		Success: "Bonus approved successfully",
	}

	done := make(chan Outcome, 1)
	go func() { done <- c.Execute(context.Background(), sess, m) }()
	<-started

	if !c.Busy(sess.ID, "bonus.approve.7") {
		t.Fatal("expected control reported busy")
	}
	if out := c.Execute(context.Background(), sess, m); out != Busy {
		t.Fatalf("expected busy, got %s", out)
	}
	other := &auth.Session{ID: "s-2", Role: auth.RoleManager}
	if c.Busy(other.ID, "bonus.approve.7") {
		t.Fatal("guard must be per session")
	}

	close(release)
	select {
	case out := <-done:
		if out != Succeeded {
			t.Fatalf("expected first call to succeed, got %s", out)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("first call did not finish")
	}
	if calls != 1 {
		t.Fatalf("expected one call, got %d", calls)
	}
	if c.Busy(sess.ID, "bonus.approve.7") {
		t.Fatal("expected control released")
	}
}

func TestAuthFailureClearsSession(t *testing.T) {
	c, views, _, sessions := newHarness(t)
	views.State(sess.ID).Notify(viewstate.Notice{Kind: viewstate.NoticeInfo, Message: "stale"})
	out := c.Execute(context.Background(), sess, Mutation{
		Control: "leave.apply",
		Call: func(context.Context, *auth.Session) error {
			return &hrapi.Error{Kind: hrapi.ErrAuth, Status: 401}
		},
	})
	if out != Expired {
		t.Fatalf("expected expired, got %s", out)
	}
	if len(sessions.cleared) != 1 || sessions.cleared[0] != sess.ID {
		t.Fatalf("expected session cleared, got %v", sessions.cleared)
	}
	if got := views.State(sess.ID).TakeNotices(); len(got) != 0 {
		t.Fatalf("expected view-state dropped, got %+v", got)
	}
}

func TestForeignErrorsUseFallback(t *testing.T) {
	c, views, _, _ := newHarness(t)
	c.Execute(context.Background(), sess, Mutation{
		Control: "feedback.submit",
		Call:    func(context.Context, *auth.Session) error { return errors.New("boom") },
		Failure: "Failed to submit feedback",
	})
	notices := views.State(sess.ID).TakeNotices()
	if len(notices) != 1 || notices[0].Message != "Failed to submit feedback" {
		t.Fatalf("unexpected notices %+v", notices)
	}
}
