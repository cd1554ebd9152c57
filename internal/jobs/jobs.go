/**
 * @description
 * Scheduled job implementations for the member-portal.
 */
package jobs

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper runs the loan payment-deadline sweep.
type Sweeper interface {
	RunDeadlineSweep(ctx context.Context, ref time.Time) error
}

// Jobs contains the logic for all scheduled tasks.
type Jobs struct {
	sweeper Sweeper
	logger  *slog.Logger
}

// NewJobs creates a new Jobs runner.
func NewJobs(sweeper Sweeper, logger *slog.Logger) *Jobs {
	return &Jobs{sweeper: sweeper, logger: logger}
}

// RunDeadlineSweep checks every open loan against the monthly payment cutoff
// and sends overdue notices. The sweep itself is idempotent within a month, so
// the schedule can fire as often as desired.
func (j *Jobs) RunDeadlineSweep() {
	j.logger.Info("starting loan deadline sweep job")
	ctx := context.Background()

	if err := j.sweeper.RunDeadlineSweep(ctx, time.Now()); err != nil {
		j.logger.Error("loan deadline sweep failed", "error", err)
		return
	}

	j.logger.Info("loan deadline sweep job finished")
}
