package scheduler

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/salonsuite/salon-api/internal/repository"
)

// CounterResetJob zeroes every tenant's monthly appointment usage counter.
// It runs on the first day of each month so plan limits start fresh.
type CounterResetJob struct {
	tenants repository.TenantRepository
	logger  zerolog.Logger
}

func NewCounterResetJob(tenants repository.TenantRepository, logger zerolog.Logger) *CounterResetJob {
	return &CounterResetJob{
		tenants: tenants,
		logger:  logger.With().Str("job", "usage_counter_reset").Logger(),
	}
}

func (j *CounterResetJob) Name() string { return "usage_counter_reset" }

func (j *CounterResetJob) RunOnce(ctx context.Context) {
	reset, err := j.tenants.ResetUsageCounters(ctx)
	if err != nil {
		j.logger.Error().Err(err).Msg("failed to reset usage counters")
		return
	}
	j.logger.Info().Int64("tenants", reset).Msg("monthly usage counters reset")
}
