package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/salonsuite/salon-api/internal/model"
)

func TestNextDaily(t *testing.T) {
	loc := time.FixedZone("BRT", -3*3600)

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			"before today's slot",
			time.Date(2025, 6, 10, 5, 0, 0, 0, loc),
			time.Date(2025, 6, 10, 7, 0, 0, 0, loc),
		},
		{
			"after today's slot rolls to tomorrow",
			time.Date(2025, 6, 10, 8, 30, 0, 0, loc),
			time.Date(2025, 6, 11, 7, 0, 0, 0, loc),
		},
		{
			"exactly on the slot rolls forward",
			time.Date(2025, 6, 10, 7, 0, 0, 0, loc),
			time.Date(2025, 6, 11, 7, 0, 0, 0, loc),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nextDaily(tt.now, 7, 0))
		})
	}
}

func TestNextMonthlyFirst(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			"mid-month rolls to next month",
			time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC),
			time.Date(2025, 7, 1, 0, 1, 0, 0, time.UTC),
		},
		{
			"first of month before the slot",
			time.Date(2025, 6, 1, 0, 0, 30, 0, time.UTC),
			time.Date(2025, 6, 1, 0, 1, 0, 0, time.UTC),
		},
		{
			"december rolls into january",
			time.Date(2025, 12, 20, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 1, 1, 0, 1, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nextMonthlyFirst(tt.now, 0, 1))
		})
	}
}

type panicJob struct{ ran int }

func (j *panicJob) Name() string { return "panic_job" }
func (j *panicJob) RunOnce(ctx context.Context) {
	j.ran++
	panic("boom")
}

func TestRunnerIsolatesPanics(t *testing.T) {
	r := NewRunner(time.UTC, testMetrics, zerolog.Nop())
	job := &panicJob{}

	assert.NotPanics(t, func() {
		r.run(context.Background(), job)
		r.run(context.Background(), job)
	})
	assert.Equal(t, 2, job.ran, "a panicking job can still run again")
}

func TestCounterResetJob(t *testing.T) {
	active := billableTenant(10, model.PlanBasic)
	active.AppointmentsUsed = 42
	untouched := billableTenant(10, model.PlanBasic)
	untouched.AppointmentsUsed = 0
	repo := newFakeTenantRepo(active, untouched)

	NewCounterResetJob(repo, zerolog.Nop()).RunOnce(context.Background())

	assert.Equal(t, 0, active.AppointmentsUsed)
	assert.Equal(t, int64(1), repo.resets)
}
