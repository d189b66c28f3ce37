package scheduler

import (
	"context"
	"sort"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/salonsuite/salon-api/internal/model"
	"github.com/salonsuite/salon-api/internal/notify"
	"github.com/salonsuite/salon-api/internal/repository"
	"github.com/salonsuite/salon-api/pkg/messaging"
	"github.com/salonsuite/salon-api/pkg/metrics"
)

// ReminderDispatcher sends upcoming-appointment reminders over the channels
// enabled in the notification settings. Every fetched appointment is marked
// notified after its delivery attempts, successful or not, so a failing
// channel can never cause a client to be reminded twice.
type ReminderDispatcher struct {
	appointments repository.AppointmentRepository
	settings     *notify.SettingsStore
	email        notify.EmailSender
	messenger    notify.Messenger
	broker       messaging.Broker
	metrics      *metrics.Metrics
	logger       zerolog.Logger
	loc          *time.Location

	// lastRun throttles dispatch to one pass per lead-time window even when
	// the trigger fires more often. Unix milliseconds, 0 before the first run.
	lastRun atomic.Int64

	now func() time.Time
}

func NewReminderDispatcher(
	appointments repository.AppointmentRepository,
	settings *notify.SettingsStore,
	email notify.EmailSender,
	messenger notify.Messenger,
	broker messaging.Broker,
	m *metrics.Metrics,
	loc *time.Location,
	logger zerolog.Logger,
) *ReminderDispatcher {
	return &ReminderDispatcher{
		appointments: appointments,
		settings:     settings,
		email:        email,
		messenger:    messenger,
		broker:       broker,
		metrics:      m,
		logger:       logger.With().Str("job", "reminders").Logger(),
		loc:          loc,
		now:          time.Now,
	}
}

func (d *ReminderDispatcher) Name() string { return "reminders" }

func (d *ReminderDispatcher) RunOnce(ctx context.Context) {
	settings := d.settings.Get()
	if !settings.Enabled {
		return
	}
	// Update validates the lead time, but a hand-edited settings file can
	// still load with a zero or negative value.
	if settings.LeadTimeMinutes <= 0 {
		d.logger.Warn().Int64("lead_time_minutes", settings.LeadTimeMinutes).Msg("invalid reminder lead time, skipping pass")
		return
	}
	if len(settings.Channels) == 0 {
		d.logger.Warn().Msg("no reminder channels configured, skipping pass")
		return
	}

	now := d.now()
	window := time.Duration(settings.LeadTimeMinutes) * time.Minute

	// Compare-and-swap throttle: concurrent or rapid-fire triggers collapse
	// into a single pass per window.
	last := d.lastRun.Load()
	if last != 0 && now.UnixMilli()-last < window.Milliseconds() {
		return
	}
	if !d.lastRun.CompareAndSwap(last, now.UnixMilli()) {
		return
	}

	due, err := d.appointments.FindDueForReminder(ctx, now, now.Add(window))
	if err != nil {
		d.logger.Error().Err(err).Msg("failed to query due appointments")
		return
	}
	if len(due) == 0 {
		return
	}

	channels := sortedChannels(settings.Channels)
	processed := make([]uuid.UUID, 0, len(due))

	for _, appt := range due {
		for _, ch := range channels {
			if err := d.deliver(ctx, appt, ch, settings.Channels[ch]); err != nil {
				d.logger.Error().Err(err).
					Str("appointment_id", appt.ID.String()).
					Str("channel", ch).
					Msg("reminder delivery failed")
				continue
			}
			d.metrics.RemindersSent.WithLabelValues(ch).Inc()
		}
		processed = append(processed, appt.ID)
	}

	if err := d.appointments.MarkNotified(ctx, processed, now); err != nil {
		d.logger.Error().Err(err).Int("count", len(processed)).Msg("failed to mark appointments notified")
		return
	}

	d.logger.Info().Int("count", len(processed)).Msg("reminders dispatched")
	if err := d.broker.Publish(ctx, messaging.ChannelReminders, messaging.Event{
		Type:    "reminders.dispatched",
		Payload: map[string]int{"count": len(processed)},
	}); err != nil {
		d.logger.Warn().Err(err).Msg("failed to publish reminder event")
	}
}

// deliver sends one reminder over one channel. When the client record lacks
// an email the EMAIL channel's fallback address is used; WhatsApp has no
// fallback and skips clients without a phone.
func (d *ReminderDispatcher) deliver(ctx context.Context, appt *model.Appointment, channel, fallback string) error {
	body := notify.ReminderBody(appt, d.loc)

	switch channel {
	case notify.ChannelEmail:
		to := fallback
		if appt.ClientEmail != nil && *appt.ClientEmail != "" {
			to = *appt.ClientEmail
		}
		if to == "" {
			d.logger.Debug().Str("appointment_id", appt.ID.String()).Msg("no email destination, skipping")
			return nil
		}
		return d.email.Send(ctx, []string{to}, notify.ReminderSubject, body, false)

	case notify.ChannelWhatsApp:
		if appt.ClientPhone == nil || *appt.ClientPhone == "" {
			d.logger.Warn().Str("appointment_id", appt.ID.String()).Msg("client has no phone, skipping whatsapp reminder")
			return nil
		}
		tenantID := uuid.Nil
		if appt.TenantID != nil {
			tenantID = *appt.TenantID
		}
		return d.messenger.SendText(ctx, tenantID, *appt.ClientPhone, body)

	default:
		d.logger.Warn().Str("channel", channel).Msg("unknown reminder channel, skipping")
		return nil
	}
}

func sortedChannels(channels map[string]string) []string {
	keys := make([]string, 0, len(channels))
	for ch := range channels {
		keys = append(keys, ch)
	}
	sort.Strings(keys)
	return keys
}
