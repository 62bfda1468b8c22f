package usecase

import (
	"context"
	"time"

	"aura-backend/internal/shared/logger"

	"github.com/robfig/cron/v3"
)

// trimTimeout bounds one scheduled trim.
const trimTimeout = 5 * time.Minute

// TrimScheduler runs ActivityUsecase.Trim on a cron schedule.
type TrimScheduler struct {
	cron *cron.Cron
	log  logger.Logger
}

// NewTrimScheduler registers the trim job under schedule, e.g. "@hourly".
func NewTrimScheduler(uc *ActivityUsecase, schedule string, log logger.Logger) (*TrimScheduler, error) {
	if log == nil {
		log = logger.Nop()
	}
	log = log.WithComponent("activity-trim")

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), trimTimeout)
		defer cancel()
		if err := uc.Trim(ctx); err != nil {
			log.Errorf("activity trim failed: %v", err)
		}
	})
	if err != nil {
		return nil, err
	}
	return &TrimScheduler{cron: c, log: log}, nil
}

// Start runs the schedule in the background.
func (s *TrimScheduler) Start() {
	s.cron.Start()
	s.log.Info("activity trim scheduled")
}

// Stop stops scheduling and waits for a running trim up to ctx's deadline.
func (s *TrimScheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn("activity trim still running at shutdown")
	}
}
