package scheduler

import (
	"context"
	"course-marketplace/internal/metrics"
	"log/slog"
	"sync"
	"time"
)

type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Scheduler runs each registered job on its own ticker until Stop. A job
// never overlaps with itself.
type Scheduler struct {
	jobs    []Job
	log     *slog.Logger
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

func NewScheduler(log *slog.Logger, jobs ...Job) *Scheduler {
	return &Scheduler{
		jobs: jobs,
		log:  log,
	}
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.ctx, s.cancel = context.WithCancel(context.Background())

	for _, job := range s.jobs {
		if job.Interval <= 0 {
			s.log.Warn("scheduler: job has no interval, skipping", slog.String("job", job.Name))
			continue
		}
		s.wg.Add(1)
		go s.loop(job)
	}

	s.log.Info("scheduler started", slog.Int("jobs", len(s.jobs)))
}

// Stop cancels running jobs and waits for them to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.cancel()
	s.mu.Unlock()

	s.wg.Wait()
	s.log.Info("scheduler stopped")
}

func (s *Scheduler) loop(job Job) {
	defer s.wg.Done()

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(job)
		}
	}
}

func (s *Scheduler) runOnce(job Job) {
	defer func() {
		if r := recover(); r != nil {
			metrics.JobRuns.WithLabelValues(job.Name, "panic").Inc()
			s.log.Error("panic in scheduled job", slog.String("job", job.Name), slog.Any("recover", r))
		}
	}()

	start := time.Now()
	if err := job.Run(s.ctx); err != nil {
		metrics.JobRuns.WithLabelValues(job.Name, "error").Inc()
		s.log.Error("scheduled job failed",
			slog.String("job", job.Name),
			slog.Any("error", err),
		)
		return
	}

	metrics.JobRuns.WithLabelValues(job.Name, "ok").Inc()
	s.log.Debug("scheduled job finished",
		slog.String("job", job.Name),
		slog.Duration("took", time.Since(start)),
	)
}
