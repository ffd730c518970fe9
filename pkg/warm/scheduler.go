package warm

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the warming loader on a cron schedule.
type Scheduler struct {
	cron   *cron.Cron
	loader *Loader
	logger *slog.Logger
}

// NewScheduler creates a scheduler executing the loader per the given cron
// expression (standard five-field syntax, plus @-descriptors).
func NewScheduler(loader *Loader, schedule string) (*Scheduler, error) {
	s := &Scheduler{
		cron:   cron.New(),
		loader: loader,
		logger: slog.Default().With("component", "warm.scheduler"),
	}

	_, err := s.cron.AddFunc(schedule, func() {
		// Run errors are already logged and recorded by the loader.
		_, _ = s.loader.Run(context.Background())
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("warming scheduled", "schedule", schedule)
	return s, nil
}

// Start begins executing scheduled runs. Returns immediately.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops scheduling new runs and waits for an in-flight run to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("warming scheduler stopped")
}
