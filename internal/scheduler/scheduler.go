package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Job represents a scheduled task
type Job func(ctx context.Context) error

// Scheduler manages periodic verification runs
type Scheduler struct {
	cron       *cron.Cron
	mu         sync.Mutex
	jobs       map[string]cron.EntryID
	timezone   *time.Location
	jobTimeout time.Duration
	logger     *slog.Logger
}

// New creates a new scheduler with the given timezone. Each job run is
// bounded by jobTimeout.
func New(timezone string, jobTimeout time.Duration, logger *slog.Logger) (*Scheduler, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %s: %w", timezone, err)
	}

	// A slow run must not overlap the next one; both would write the same screenshot
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)

	return &Scheduler{
		cron:       c,
		jobs:       make(map[string]cron.EntryID),
		timezone:   loc,
		jobTimeout: jobTimeout,
		logger:     logger,
	}, nil
}

// AddJob adds a job with a cron schedule
// schedule format: "*/10 * * * *" or a descriptor such as "@every 10m"
func (s *Scheduler) AddJob(name, schedule string, job Job) error {
	entryID, err := s.cron.AddFunc(schedule, func() {
		s.run(name, job)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule job %s: %w", name, err)
	}

	s.mu.Lock()
	s.jobs[name] = entryID
	s.mu.Unlock()
	s.logger.Info("[scheduler] Added job", "job", name, "schedule", schedule)

	return nil
}

// AddIntervalJob runs job every interval
func (s *Scheduler) AddIntervalJob(name string, every time.Duration, job Job) error {
	if every <= 0 {
		return fmt.Errorf("invalid interval %s for job %s", every, name)
	}
	return s.AddJob(name, IntervalSchedule(every), job)
}

// IntervalSchedule returns the cron descriptor for a fixed interval
func IntervalSchedule(every time.Duration) string {
	return "@every " + every.String()
}

func (s *Scheduler) run(name string, job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	defer cancel()

	s.logger.Info("[scheduler] Starting job", "job", name)
	start := time.Now()

	if err := job(ctx); err != nil {
		s.logger.Warn("[scheduler] Job failed", "job", name, "error", err, "elapsed", time.Since(start))
	} else {
		s.logger.Info("[scheduler] Job completed", "job", name, "elapsed", time.Since(start))
	}
}

// RemoveJob removes a scheduled job
func (s *Scheduler) RemoveJob(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entryID, ok := s.jobs[name]; ok {
		s.cron.Remove(entryID)
		delete(s.jobs, name)
		s.logger.Info("[scheduler] Removed job", "job", name)
	}
}

// Start begins running scheduled jobs
func (s *Scheduler) Start() {
	s.logger.Info("[scheduler] Starting scheduler", "timezone", s.timezone.String())
	s.cron.Start()
}

// Stop halts the scheduler. The returned context is done once running jobs finish.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("[scheduler] Stopping scheduler")
	return s.cron.Stop()
}

// RunNow immediately executes a job outside the schedule
func (s *Scheduler) RunNow(name string, job Job) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	defer cancel()

	s.logger.Info("[scheduler] Running job now", "job", name)
	return job(ctx)
}

// ListJobs returns info about scheduled jobs
func (s *Scheduler) ListJobs() []JobInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	infos := make([]JobInfo, 0, len(s.jobs))
	for name, entryID := range s.jobs {
		entry := s.cron.Entry(entryID)
		if !entry.Valid() {
			continue
		}
		infos = append(infos, JobInfo{
			Name:    name,
			NextRun: entry.Next,
			LastRun: entry.Prev,
		})
	}

	return infos
}

// JobInfo contains information about a scheduled job
type JobInfo struct {
	Name    string
	NextRun time.Time
	LastRun time.Time
}
