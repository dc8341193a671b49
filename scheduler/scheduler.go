package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cine-lens/logging"

	"github.com/robfig/cron/v3"
)

// DefaultJobTimeout bounds a single job run.
const DefaultJobTimeout = 30 * time.Minute

// Job represents a scheduled job
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Scheduler manages scheduled jobs
type Scheduler struct {
	cron      *cron.Cron
	mu        sync.Mutex
	jobs      map[string]Job
	isRunning bool
}

// NewScheduler creates a new scheduler. Specs carry a leading seconds field.
func NewScheduler() *Scheduler {
	logger := cron.PrintfLogger(logging.PrintfLogger{})
	return &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger)),
		),
		jobs: make(map[string]Job),
	}
}

// AddJob adds a job to the scheduler with a cron specification
func (s *Scheduler) AddJob(spec string, job Job) error {
	name := job.Name()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job %s already registered", name)
	}

	_, err := s.cron.AddFunc(spec, func() {
		logging.Info().Str("job", name).Msg("Starting scheduled job")
		if err := runJob(job); err != nil {
			logging.Error().Err(err).Str("job", name).Msg("Error running job")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to add job %s: %w", name, err)
	}

	s.jobs[name] = job
	return nil
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return
	}
	s.cron.Start()
	s.isRunning = true
	logging.Info().Int("jobs", len(s.jobs)).Msg("Scheduler started")
}

// Stop stops the scheduler and waits for running jobs
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return
	}
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.isRunning = false
	logging.Info().Msg("Scheduler stopped")
}

// RunJobNow runs a job immediately outside of schedule
func (s *Scheduler) RunJobNow(name string) error {
	s.mu.Lock()
	job, exists := s.jobs[name]
	s.mu.Unlock()
	if !exists {
		return fmt.Errorf("job %s not registered", name)
	}

	logging.Info().Str("job", name).Msg("Manually running job")
	return runJob(job)
}

func runJob(job Job) error {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), DefaultJobTimeout)
	defer cancel()

	if err := job.Run(ctx); err != nil {
		return err
	}
	logging.Info().Str("job", job.Name()).Dur("duration", time.Since(start)).Msg("Completed job")
	return nil
}
