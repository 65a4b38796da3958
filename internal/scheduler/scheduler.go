package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"WatchBoard/internal/collector"
	"WatchBoard/internal/model"
)

// Refresher reloads the cache for a timeframe.
type Refresher interface {
	Refresh(ctx context.Context, tf model.Timeframe) (*collector.RefreshReport, error)
}

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron      *cron.Cron
	Refresher Refresher
	// Timeframe is asked on every run so scheduled refreshes follow the
	// timeframe the dashboard last showed.
	Timeframe func() model.Timeframe
	Ctx       context.Context

	log *slog.Logger
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, r Refresher, tf func() model.Timeframe, log *slog.Logger) *Scheduler {
	if log == nil {
		log = slog.Default()
	}
	if tf == nil {
		tf = func() model.Timeframe { return model.DefaultTimeframe }
	}
	return &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
		),
		Refresher: r,
		Timeframe: tf,
		Ctx:       ctx,
		log:       log,
	}
}

// RegisterAll registers the periodic refresh.
func (s *Scheduler) RegisterAll(refreshCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info("scheduler started", "jobs", len(s.Cron.Entries()))
}

// Stop stops the scheduler and waits for a running refresh to return.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info("scheduler stopped")
}

// RunNow executes the refresh task immediately (RUN_ON_START, manual trigger).
func (s *Scheduler) RunNow() {
	s.refreshTask()
}

func (s *Scheduler) refreshTask() {
	if err := s.Ctx.Err(); err != nil {
		return
	}
	tf := s.Timeframe()
	s.log.Info("running scheduled refresh", "timeframe", string(tf))
	report, err := s.Refresher.Refresh(s.Ctx, tf)
	if err != nil {
		s.log.Error("scheduled refresh failed", "timeframe", string(tf), "error", err)
		return
	}
	if len(report.Failed) > 0 {
		s.log.Warn("scheduled refresh partially failed",
			"timeframe", string(tf),
			"fetched", report.Fetched,
			"failed", len(report.Failed),
		)
	}
}
