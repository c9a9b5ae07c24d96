package pricing

import (
	"context"
	"fmt"

	"skyfare/internal/logger"

	"github.com/robfig/cron/v3"
)

// Scheduler runs fleet-wide repricing on a cron schedule
type Scheduler struct {
	orchestrator *Orchestrator
	schedule     string
	log          logger.Logger
	cron         *cron.Cron
}

// NewScheduler creates a scheduler for the given orchestrator. An empty
// schedule disables scheduled runs.
func NewScheduler(orchestrator *Orchestrator, schedule string, log logger.Logger) *Scheduler {
	// Standard five-field cron expressions, no seconds
	c := cron.New(cron.WithParser(cron.NewParser(
		cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow,
	)))

	return &Scheduler{
		orchestrator: orchestrator,
		schedule:     schedule,
		log:          log,
		cron:         c,
	}
}

// Start registers the repricing job and blocks until the context is
// cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.schedule == "" {
		s.log.Info("batch repricing scheduler disabled")
		<-ctx.Done()
		return nil
	}

	_, err := s.cron.AddFunc(s.schedule, func() {
		s.log.Info("running scheduled batch repricing")
		if _, err := s.orchestrator.UpdateAll(ctx); err != nil {
			s.log.Error("scheduled batch repricing failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule batch repricing: %w", err)
	}

	s.cron.Start()
	s.log.Info("batch repricing scheduler started", "schedule", s.schedule)

	<-ctx.Done()
	s.log.Info("stopping batch repricing scheduler")
	s.cron.Stop()

	return nil
}
