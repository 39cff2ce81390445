// Package scheduler drives the periodic analysis runs.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/draw-edge/internal/backtest"
	"github.com/yourusername/draw-edge/internal/engine"
	"github.com/yourusername/draw-edge/internal/service"
)

// AnalysisRunner is the slice of the analysis service the scheduler drives
type AnalysisRunner interface {
	Run(ctx context.Context, trigger string) (*engine.RunResult, error)
	RollingStats(ctx context.Context) (backtest.RollingStats, error)
}

// Scheduler runs the analysis pipeline on a fixed interval. Runs are
// serialized: a tick that fires while the previous run is still going is
// skipped rather than stacked.
type Scheduler struct {
	cron            *cron.Cron
	analysis        AnalysisRunner
	logger          *logrus.Logger
	gracefulTimeout time.Duration

	mu        sync.Mutex
	wg        sync.WaitGroup
	isRunning bool
	inFlight  bool
	jobID     cron.EntryID
}

// New creates a scheduler around the analysis service
func New(analysis AnalysisRunner, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:            cron.New(cron.WithLocation(time.UTC)),
		analysis:        analysis,
		logger:          logger,
		gracefulTimeout: 30 * time.Second,
	}
}

// ScheduleAnalysis registers the periodic analysis job
func (s *Scheduler) ScheduleAnalysis(intervalHours int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}
	if intervalHours < 1 {
		intervalHours = 4
	}

	jobID, err := s.cron.AddFunc(fmt.Sprintf("@every %dh", intervalHours), func() {
		s.runOnce(service.TriggerScheduled)
	})
	if err != nil {
		return fmt.Errorf("failed to add analysis job: %w", err)
	}

	s.jobID = jobID
	s.logger.WithField("interval_hours", intervalHours).Info("Scheduled periodic analysis")
	return nil
}

// Start starts the scheduler. When runOnStartup is set an analysis run
// fires immediately instead of waiting for the first tick.
func (s *Scheduler) Start(runOnStartup bool) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("scheduler is already running")
	}
	s.cron.Start()
	s.isRunning = true
	s.mu.Unlock()

	s.logger.Info("Scheduler started")

	if runOnStartup {
		// tracked by wg, not by cron, so Stop still waits for it
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.runOnce(service.TriggerStartup)
		}()
	}
	return nil
}

// Stop gracefully stops the scheduler, waiting for an in-flight run
// whether it came from a cron tick or the startup goroutine.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	// wait without holding the mutex: runOnce needs it to finish
	stopCtx := s.cron.Stop()
	done := make(chan struct{})
	go func() {
		<-stopCtx.Done()
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(s.gracefulTimeout):
		s.logger.Warn("Scheduler stop timed out with a run still in flight")
	}

	s.logger.Info("Scheduler stopped")
	return nil
}

// IsRunning reports whether the scheduler is active
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// NextRun returns the time of the next scheduled analysis run
func (s *Scheduler) NextRun() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return time.Time{}
	}
	entry := s.cron.Entry(s.jobID)
	if !entry.Valid() {
		return time.Time{}
	}
	return entry.Next
}

func (s *Scheduler) runOnce(trigger string) {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		s.logger.Warn("Previous analysis run still in flight, skipping tick")
		return
	}
	s.inFlight = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	if _, err := s.analysis.Run(ctx, trigger); err != nil {
		s.logger.WithError(err).WithField("trigger", trigger).Error("Scheduled analysis run failed")
		return
	}

	if _, err := s.analysis.RollingStats(ctx); err != nil {
		s.logger.WithError(err).Warn("Failed to refresh rolling stats")
	}
}
