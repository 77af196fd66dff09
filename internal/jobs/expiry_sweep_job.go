package jobs

import (
	"context"
	"log/slog"

	"dispatch/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// ExpirySweepJob periodically expires broadcast assignments nobody claimed in
// time and applies the no-response penalty to every courier in the offer set.
type ExpirySweepJob struct {
	handler  commands.SweepExpiredCommandHandler
	cronSpec string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewExpirySweepJob creates the sweep job. The cron spec uses the
// seconds-granularity format, e.g. "*/30 * * * * *" for every 30 seconds.
func NewExpirySweepJob(handler commands.SweepExpiredCommandHandler, cronSpec string, logger *slog.Logger) *ExpirySweepJob {
	return &ExpirySweepJob{
		handler:  handler,
		cronSpec: cronSpec,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "expiry_sweep_job"),
	}
}

// Start schedules the sweep on the configured cron spec.
func (j *ExpirySweepJob) Start() error {
	_, err := j.cron.AddFunc(j.cronSpec, func() {
		ctx := context.Background()
		cmd := commands.NewSweepExpiredCommand()

		expired, err := j.handler.Handle(ctx, cmd)
		if err != nil {
			j.logger.ErrorContext(ctx, "Expiry sweep failed", "error", err)
			return
		}

		if expired > 0 {
			j.logger.InfoContext(ctx, "Expiry sweep completed", "expired", expired)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Expiry sweep job started", "schedule", j.cronSpec)
	return nil
}

// Stop stops the sweep job.
func (j *ExpirySweepJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Expiry sweep job stopped")
}
