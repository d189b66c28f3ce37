package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/salonsuite/salon-api/pkg/metrics"
)

// Job is a unit of scheduled work. RunOnce must be safe to call again after
// an error and must honor ctx cancellation on anything blocking.
type Job interface {
	Name() string
	RunOnce(ctx context.Context)
}

// Runner executes jobs on fixed-interval and calendar triggers. All calendar
// math happens in the configured location so salons are billed and reminded
// on their own clock, not the server's.
type Runner struct {
	loc     *time.Location
	logger  zerolog.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	wg sync.WaitGroup
}

func NewRunner(loc *time.Location, m *metrics.Metrics, logger zerolog.Logger) *Runner {
	return &Runner{
		loc:     loc,
		logger:  logger.With().Str("component", "scheduler").Logger(),
		metrics: m,
		now:     time.Now,
	}
}

// Every runs job once per interval, starting after the initial delay.
func (r *Runner) Every(ctx context.Context, job Job, interval, delay time.Duration) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		r.run(ctx, job)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.run(ctx, job)
			}
		}
	}()
}

// DailyAt runs job once a day at the given local wall-clock time.
func (r *Runner) DailyAt(ctx context.Context, job Job, hour, minute int) {
	r.waitLoop(ctx, job, func(now time.Time) time.Time {
		return nextDaily(now.In(r.loc), hour, minute)
	})
}

// MonthlyFirstAt runs job on the first day of every month at the given
// local wall-clock time.
func (r *Runner) MonthlyFirstAt(ctx context.Context, job Job, hour, minute int) {
	r.waitLoop(ctx, job, func(now time.Time) time.Time {
		return nextMonthlyFirst(now.In(r.loc), hour, minute)
	})
}

func (r *Runner) waitLoop(ctx context.Context, job Job, next func(time.Time) time.Time) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		for {
			at := next(r.now())
			r.logger.Debug().Str("job", job.Name()).Time("next_run", at).Msg("job scheduled")

			timer := time.NewTimer(at.Sub(r.now()))
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
				r.run(ctx, job)
			}
		}
	}()
}

// run executes one job iteration with panic isolation; a panicking job must
// not take down its schedule or the process.
func (r *Runner) run(ctx context.Context, job Job) {
	defer func() {
		if rec := recover(); rec != nil {
			r.metrics.JobFailures.WithLabelValues(job.Name()).Inc()
			r.logger.Error().Str("job", job.Name()).Interface("panic", rec).Msg("job panicked")
		}
	}()

	start := r.now()
	r.metrics.JobRuns.WithLabelValues(job.Name()).Inc()
	job.RunOnce(ctx)
	r.metrics.JobDuration.WithLabelValues(job.Name()).Observe(r.now().Sub(start).Seconds())
}

// Wait blocks until all job loops have observed cancellation and returned.
func (r *Runner) Wait() {
	r.wg.Wait()
}

// nextDaily returns the next occurrence of hh:mm strictly after now.
func nextDaily(now time.Time, hour, minute int) time.Time {
	at := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !at.After(now) {
		at = at.AddDate(0, 0, 1)
	}
	return at
}

// nextMonthlyFirst returns the next first-of-month hh:mm strictly after now.
func nextMonthlyFirst(now time.Time, hour, minute int) time.Time {
	at := time.Date(now.Year(), now.Month(), 1, hour, minute, 0, 0, now.Location())
	if !at.After(now) {
		at = at.AddDate(0, 1, 0)
	}
	return at
}
