package workers

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"giveaway-tracker/internal/common/logger"
	"giveaway-tracker/internal/features/tracker/models"
)

const (
	scanJobName  = "rescan"
	cycleTimeout = 10 * time.Minute
)

// CycleRunner runs one rescan and refresh cycle.
type CycleRunner interface {
	RunCycle(ctx context.Context) (models.CycleResult, error)
}

// ScanScheduler fires the rescan cycle every update interval. Runs never
// overlap: a firing that finds the previous run still busy is skipped.
type ScanScheduler struct {
	runner CycleRunner
	sched  gocron.Scheduler

	mu       sync.Mutex
	ctx      context.Context
	job      gocron.Job
	interval time.Duration
}

func NewScanScheduler(runner CycleRunner, options ...gocron.SchedulerOption) (*ScanScheduler, error) {
	sched, err := gocron.NewScheduler(options...)
	if err != nil {
		return nil, err
	}
	return &ScanScheduler{runner: runner, sched: sched}, nil
}

// Start schedules the cycle, runs it once right away and starts the
// scheduler. ctx bounds every run.
func (s *ScanScheduler) Start(ctx context.Context, intervalMinutes int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ctx = ctx
	s.interval = minutes(intervalMinutes)
	job, err := s.sched.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(s.run),
		gocron.WithName(scanJobName),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return err
	}
	s.job = job
	s.sched.Start()

	logger.Info().Dur("interval", s.interval).Msg("Scan scheduler started")
	return nil
}

// Reschedule changes the interval of the running job.
func (s *ScanScheduler) Reschedule(intervalMinutes int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.job == nil {
		return nil
	}
	interval := minutes(intervalMinutes)
	job, err := s.sched.Update(
		s.job.ID(),
		gocron.DurationJob(interval),
		gocron.NewTask(s.run),
		gocron.WithName(scanJobName),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		logger.Error().Err(err).Int("interval_minutes", intervalMinutes).Msg("Failed to reschedule scan")
		return err
	}
	s.job = job
	s.interval = interval
	logger.Info().Dur("interval", interval).Msg("Scan rescheduled")
	return nil
}

// Interval returns the current firing period.
func (s *ScanScheduler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// Stop waits for a running cycle and shuts the scheduler down.
func (s *ScanScheduler) Stop() error {
	return s.sched.Shutdown()
}

func (s *ScanScheduler) run() {
	s.mu.Lock()
	parent := s.ctx
	s.mu.Unlock()
	if parent == nil {
		parent = context.Background()
	}

	ctx, cancel := context.WithTimeout(parent, cycleTimeout)
	defer cancel()

	if _, err := s.runner.RunCycle(ctx); err != nil {
		logger.Error().Err(err).Msg("Scheduled scan cycle failed")
	}
}

func minutes(n int) time.Duration {
	if n <= 0 {
		n = 1
	}
	return time.Duration(n) * time.Minute
}
