package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Observer receives one observation per finished job run.
type Observer interface {
	ObserveJob(name, outcome string, duration time.Duration)
}

// Task is a named unit of periodic housekeeping.
type Task struct {
	Name     string
	Interval time.Duration
	Run      func(context.Context) (int64, error)
}

type Service struct {
	tasks    []Task
	observer Observer
	queue    chan Task
	wg       sync.WaitGroup
}

func New(observer Observer, tasks ...Task) *Service {
	return &Service{
		tasks:    tasks,
		observer: observer,
		queue:    make(chan Task, 16),
	}
}

// Start runs the worker and one scheduler per task until ctx is done. Tasks
// without a positive interval are only run through Enqueue or RunNow.
func (s *Service) Start(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.worker(ctx)
	}()
	for _, task := range s.tasks {
		task := task
		if task.Interval <= 0 {
			continue
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.schedule(ctx, task)
		}()
	}
}

// Wait blocks until every goroutine started by Start has returned.
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) Enqueue(task Task) {
	select {
	case s.queue <- task:
	default:
		slog.Warn("job queue full", "job", task.Name)
	}
}

func (s *Service) RunNow(ctx context.Context, task Task) (int64, error) {
	return s.runJob(ctx, task)
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case task := <-s.queue:
			if _, err := s.runJob(ctx, task); err != nil {
				slog.Warn("job run failed", "job", task.Name, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, task Task) (int64, error) {
	start := time.Now()
	affected, err := task.Run(ctx)
	outcome := "completed"
	if err != nil {
		outcome = "failed"
	}
	if s.observer != nil {
		s.observer.ObserveJob(task.Name, outcome, time.Since(start))
	}
	if err == nil && affected > 0 {
		slog.Info("job run completed", "job", task.Name, "affected", affected)
	}
	return affected, err
}

func (s *Service) schedule(ctx context.Context, task Task) {
	ticker := time.NewTicker(task.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Enqueue(task)
		}
	}
}
