package rollover

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"busfee/internal/pkg/config"
	"busfee/internal/pkg/log_messages"
	"busfee/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// Scheduler triggers the monthly sweep on a cron schedule evaluated in UTC.
// A run that is still in progress when the next tick fires causes that tick
// to be skipped.
type Scheduler struct {
	cron    *cron.Cron
	service RolloverServiceInterface
	timeout time.Duration
	now     func() time.Time
}

func NewScheduler(service RolloverServiceInterface, cfg config.RolloverConfig) (*Scheduler, error) {
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		service: service,
		timeout: cfg.Timeout,
		now:     time.Now,
	}
	if _, err := s.cron.AddFunc(cfg.Schedule, s.RunOnce); err != nil {
		return nil, fmt.Errorf("%s %q: %w", log_messages.InvalidCronSchedule, cfg.Schedule, err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	for _, entry := range s.cron.Entries() {
		logger.Info(log_messages.RolloverScheduled, slog.Time("next", entry.Next))
	}
}

// Stop halts the schedule. The returned context is done once a running
// sweep has finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) RunOnce() {
	ctx := logger.WithTraceID(context.Background(), uuid.NewString())
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	s.service.RunMonthlyRollover(ctx, s.now())
}
