package recurrence

import (
	"context"
	"sync"
	"time"

	"campusledger/internal/logger"
)

type job struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Scheduler runs named periodic jobs on background goroutines. Enqueueing a
// name that is already scheduled keeps the existing job, so restarts and
// redundant wiring never produce duplicate timers.
type Scheduler struct {
	mu   sync.Mutex
	jobs map[string]*job
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{jobs: make(map[string]*job)}
}

// EnqueueUniquePeriodic schedules fn to run immediately and then every
// interval. If a job with the same name is already enqueued the call is a
// no-op and returns false; the existing job and its cadence are kept.
func (s *Scheduler) EnqueueUniquePeriodic(name string, interval time.Duration, fn func(ctx context.Context, now time.Time)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return false
	}

	ctx, cancel := context.WithCancel(context.Background())
	j := &job{cancel: cancel, done: make(chan struct{})}
	s.jobs[name] = j

	go func() {
		defer close(j.done)

		fn(ctx, time.Now())

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				fn(ctx, now)
			}
		}
	}()

	logger.Get().Infow("scheduled periodic job", "name", name, "interval", interval)
	return true
}

// Cancel stops the named job and waits for its current run to finish. It
// returns false if no such job is enqueued.
func (s *Scheduler) Cancel(name string) bool {
	s.mu.Lock()
	j, ok := s.jobs[name]
	if ok {
		delete(s.jobs, name)
	}
	s.mu.Unlock()
	if !ok {
		return false
	}
	j.cancel()
	<-j.done
	return true
}

// Stop cancels every job and waits for them to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	jobs := s.jobs
	s.jobs = make(map[string]*job)
	s.mu.Unlock()

	for _, j := range jobs {
		j.cancel()
	}
	for _, j := range jobs {
		<-j.done
	}
}
