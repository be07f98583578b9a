package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type recordingObserver struct {
	mu   sync.Mutex
	runs map[string][]string
}

func (o *recordingObserver) ObserveJob(name, outcome string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.runs == nil {
		o.runs = map[string][]string{}
	}
	o.runs[name] = append(o.runs[name], outcome)
}

func (o *recordingObserver) outcomes(name string) []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.runs[name]...)
}

func TestRunNowReportsOutcome(t *testing.T) {
	obs := &recordingObserver{}
	svc := New(obs)

	n, err := svc.RunNow(context.Background(), Task{Name: "sweep", Run: func(context.Context) (int64, error) { return 3, nil }})
	if err != nil || n != 3 {
		t.Fatalf("expected 3 affected, got %d %v", n, err)
	}
	boom := errors.New("boom")
	if _, err := svc.RunNow(context.Background(), Task{Name: "sweep", Run: func(context.Context) (int64, error) { return 0, boom }}); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	got := obs.outcomes("sweep")
	if len(got) != 2 || got[0] != "completed" || got[1] != "failed" {
		t.Fatalf("unexpected outcomes %v", got)
	}
}

func TestScheduledTaskRunsUntilCancelled(t *testing.T) {
	ran := make(chan struct{}, 8)
	svc := New(nil, Task{
		Name:     "purge",
		Interval: 5 * time.Millisecond,
		Run: func(context.Context) (int64, error) {
			select {
			case ran <- struct{}{}:
			default:
			}
			return 0, nil
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	svc.Start(ctx)
	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduled task never ran")
	}
	cancel()
	svc.Wait()
}
