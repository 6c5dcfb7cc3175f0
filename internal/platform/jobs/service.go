package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const JobSessionSweep = "session_sweep"

type RunFunc func(context.Context) (any, error)

// Observer receives the outcome of every run.
type Observer interface {
	ObserveJob(jobType, status string)
}

type schedule struct {
	jobType  string
	interval time.Duration
	run      RunFunc
}

type job struct {
	Type string
	Run  RunFunc
}

type Service struct {
	observer  Observer
	queue     chan job
	schedules []schedule
	wg        sync.WaitGroup
}

func New(observer Observer) *Service {
	return &Service{
		observer: observer,
		queue:    make(chan job, 128),
	}
}

// Every registers a periodic job. Call before Start.
func (s *Service) Every(jobType string, interval time.Duration, run RunFunc) {
	if interval <= 0 {
		slog.Info("job schedule disabled", "jobType", jobType)
		return
	}
	s.schedules = append(s.schedules, schedule{jobType: jobType, interval: interval, run: run})
}

func (s *Service) Start(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.worker(ctx)
	}()
	for _, sc := range s.schedules {
		sc := sc
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.tick(ctx, sc)
		}()
	}
}

// Wait blocks until the worker and schedulers return after ctx is cancelled.
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) Enqueue(jobType string, run RunFunc) {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
	default:
		slog.Warn("job queue full", "jobType", jobType)
	}
}

func (s *Service) RunNow(ctx context.Context, jobType string, run RunFunc) (any, error) {
	return s.runJob(ctx, job{Type: jobType, Run: run})
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	start := time.Now()
	details, err := j.Run(ctx)
	status := "completed"
	if err != nil {
		status = "failed"
	}
	if s.observer != nil {
		s.observer.ObserveJob(j.Type, status)
	}
	slog.Debug("job run finished", "jobType", j.Type, "status", status, "details", details, "duration", time.Since(start))
	return details, err
}

func (s *Service) tick(ctx context.Context, sc schedule) {
	ticker := time.NewTicker(sc.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Enqueue(sc.jobType, sc.run)
		}
	}
}
