package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/salonsuite/salon-api/internal/notify"
	"github.com/salonsuite/salon-api/internal/repository"
)

// DigestDispatcher emails the configured address a summary of the current
// day's appointments. Days are bounded in the salon's time zone.
type DigestDispatcher struct {
	appointments repository.AppointmentRepository
	settings     *notify.SettingsStore
	email        notify.EmailSender
	logger       zerolog.Logger
	loc          *time.Location

	now func() time.Time
}

func NewDigestDispatcher(
	appointments repository.AppointmentRepository,
	settings *notify.SettingsStore,
	email notify.EmailSender,
	loc *time.Location,
	logger zerolog.Logger,
) *DigestDispatcher {
	return &DigestDispatcher{
		appointments: appointments,
		settings:     settings,
		email:        email,
		logger:       logger.With().Str("job", "daily_digest").Logger(),
		loc:          loc,
		now:          time.Now,
	}
}

func (d *DigestDispatcher) Name() string { return "daily_digest" }

func (d *DigestDispatcher) RunOnce(ctx context.Context) {
	settings := d.settings.Get()
	if !settings.DigestEnabled {
		return
	}
	to := settings.DigestEmail
	if to == "" {
		to = settings.Channels[notify.ChannelEmail]
	}
	if to == "" {
		d.logger.Warn().Msg("digest enabled but no destination address configured")
		return
	}

	now := d.now().In(d.loc)
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, d.loc)
	end := start.AddDate(0, 0, 1)

	appts, err := d.appointments.FindBetween(ctx, start, end)
	if err != nil {
		d.logger.Error().Err(err).Msg("failed to query today's appointments")
		return
	}
	// An empty day still gets its summary.
	subject := notify.DigestSubject(start)
	body := notify.DigestBody(appts, d.loc)
	if err := d.email.Send(ctx, []string{to}, subject, body, false); err != nil {
		d.logger.Error().Err(err).Str("to", to).Msg("failed to send daily digest")
		return
	}

	d.logger.Info().Int("appointments", len(appts)).Msg("daily digest sent")
}
