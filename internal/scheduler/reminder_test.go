package scheduler

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonsuite/salon-api/internal/model"
	"github.com/salonsuite/salon-api/internal/notify"
	"github.com/salonsuite/salon-api/pkg/messaging"
)

func testSettings(t *testing.T, s notify.Settings) *notify.SettingsStore {
	t.Helper()
	store := notify.NewSettingsStore(filepath.Join(t.TempDir(), "settings.json"), zerolog.Nop())
	if s.LeadTimeMinutes > 0 {
		_, err := store.Update(s)
		require.NoError(t, err)
	}
	return store
}

func pendingAppointment(tenantID uuid.UUID, at time.Time, email, phone string) *model.Appointment {
	a := &model.Appointment{
		TenantID:    &tenantID,
		ScheduledAt: at,
		Status:      model.AppointmentStatusPending,
	}
	a.ID = uuid.New()
	if email != "" {
		a.ClientEmail = &email
	}
	if phone != "" {
		a.ClientPhone = &phone
	}
	return a
}

func newReminderForTest(repo *fakeAppointmentRepo, store *notify.SettingsStore, mail *fakeEmailSender, msg *fakeMessenger, at time.Time) *ReminderDispatcher {
	d := NewReminderDispatcher(repo, store, mail, msg, messaging.NopBroker{}, testMetrics, time.UTC, zerolog.Nop())
	d.now = func() time.Time { return at }
	return d
}

func TestReminderDispatchAndMark(t *testing.T) {
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	tenantID := uuid.New()
	due := pendingAppointment(tenantID, now.Add(20*time.Minute), "ana@example.com", "+5511999990000")
	later := pendingAppointment(tenantID, now.Add(3*time.Hour), "bia@example.com", "")
	repo := newFakeAppointmentRepo(due, later)

	store := testSettings(t, notify.Settings{
		Enabled:         true,
		LeadTimeMinutes: 30,
		Channels: map[string]string{
			notify.ChannelEmail:    "",
			notify.ChannelWhatsApp: "",
		},
	})
	mail := &fakeEmailSender{}
	msg := &fakeMessenger{}

	d := newReminderForTest(repo, store, mail, msg, now)
	d.RunOnce(context.Background())

	require.Len(t, mail.sent, 1)
	assert.Equal(t, []string{"ana@example.com"}, mail.sent[0].to)
	require.Len(t, msg.sent, 1)
	assert.Equal(t, "+5511999990000", msg.sent[0].phone)
	assert.Equal(t, tenantID, msg.sent[0].tenantID)

	assert.True(t, due.Notified, "appointment inside the window is marked")
	assert.False(t, later.Notified, "appointment outside the window stays unmarked")
}

func TestReminderDisabledDoesNothing(t *testing.T) {
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	due := pendingAppointment(uuid.New(), now.Add(10*time.Minute), "ana@example.com", "")
	repo := newFakeAppointmentRepo(due)

	store := testSettings(t, notify.Settings{}) // default: disabled
	mail := &fakeEmailSender{}

	d := newReminderForTest(repo, store, mail, &fakeMessenger{}, now)
	d.RunOnce(context.Background())

	assert.Empty(t, mail.sent)
	assert.False(t, due.Notified)
}

func TestReminderThrottleCollapsesRuns(t *testing.T) {
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	tenantID := uuid.New()
	repo := newFakeAppointmentRepo(pendingAppointment(tenantID, now.Add(10*time.Minute), "ana@example.com", ""))

	store := testSettings(t, notify.Settings{
		Enabled:         true,
		LeadTimeMinutes: 30,
		Channels:        map[string]string{notify.ChannelEmail: ""},
	})
	mail := &fakeEmailSender{}

	d := newReminderForTest(repo, store, mail, &fakeMessenger{}, now)
	d.RunOnce(context.Background())
	require.Len(t, mail.sent, 1)

	// A second appointment appears, but the window has not elapsed.
	second := pendingAppointment(tenantID, now.Add(45*time.Minute), "bia@example.com", "")
	require.NoError(t, repo.Create(context.Background(), second))

	d.now = func() time.Time { return now.Add(10 * time.Minute) }
	d.RunOnce(context.Background())
	assert.Len(t, mail.sent, 1, "run inside the throttle window must be skipped")

	d.now = func() time.Time { return now.Add(31 * time.Minute) }
	d.RunOnce(context.Background())
	assert.Len(t, mail.sent, 2, "run after the window proceeds")
}

func TestReminderNotifiedNeverResent(t *testing.T) {
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	tenantID := uuid.New()
	appt := pendingAppointment(tenantID, now.Add(20*time.Minute), "ana@example.com", "")
	repo := newFakeAppointmentRepo(appt)

	store := testSettings(t, notify.Settings{
		Enabled:         true,
		LeadTimeMinutes: 30,
		Channels:        map[string]string{notify.ChannelEmail: ""},
	})
	mail := &fakeEmailSender{}

	d := newReminderForTest(repo, store, mail, &fakeMessenger{}, now)
	d.RunOnce(context.Background())
	require.Len(t, mail.sent, 1)

	// Well past the throttle window, the appointment is still inside the
	// lead-time window but already marked.
	d.lastRun.Store(0)
	d.RunOnce(context.Background())
	assert.Len(t, mail.sent, 1)
}

func TestReminderMarksEvenWhenDeliveryFails(t *testing.T) {
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	appt := pendingAppointment(uuid.New(), now.Add(20*time.Minute), "ana@example.com", "")
	repo := newFakeAppointmentRepo(appt)

	store := testSettings(t, notify.Settings{
		Enabled:         true,
		LeadTimeMinutes: 30,
		Channels:        map[string]string{notify.ChannelEmail: ""},
	})
	mail := &fakeEmailSender{err: errors.New("smtp down")}

	d := newReminderForTest(repo, store, mail, &fakeMessenger{}, now)
	d.RunOnce(context.Background())

	assert.True(t, appt.Notified, "at most one delivery attempt per appointment")
}

func TestReminderEmailFallbackAddress(t *testing.T) {
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	// Client record has neither email nor phone.
	appt := pendingAppointment(uuid.New(), now.Add(20*time.Minute), "", "")
	repo := newFakeAppointmentRepo(appt)

	store := testSettings(t, notify.Settings{
		Enabled:         true,
		LeadTimeMinutes: 30,
		Channels: map[string]string{
			notify.ChannelEmail:    "front-desk@salon.test",
			notify.ChannelWhatsApp: "",
		},
	})
	mail := &fakeEmailSender{}
	msg := &fakeMessenger{}

	d := newReminderForTest(repo, store, mail, msg, now)
	d.RunOnce(context.Background())

	require.Len(t, mail.sent, 1)
	assert.Equal(t, []string{"front-desk@salon.test"}, mail.sent[0].to)
	assert.Empty(t, msg.sent, "whatsapp has no fallback, clients without a phone are skipped")
}

func TestReminderEmptyChannelsLeavesAppointmentsUnmarked(t *testing.T) {
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	appt := pendingAppointment(uuid.New(), now.Add(20*time.Minute), "ana@example.com", "")
	repo := newFakeAppointmentRepo(appt)

	store := testSettings(t, notify.Settings{
		Enabled:         true,
		LeadTimeMinutes: 30,
		Channels:        map[string]string{},
	})
	mail := &fakeEmailSender{}

	d := newReminderForTest(repo, store, mail, &fakeMessenger{}, now)
	d.RunOnce(context.Background())

	assert.Empty(t, mail.sent)
	assert.False(t, appt.Notified, "nothing is consumed while no channel can deliver")

	// Once a channel is configured the same appointments are still eligible.
	_, err := store.Update(notify.Settings{
		Enabled:         true,
		LeadTimeMinutes: 30,
		Channels:        map[string]string{notify.ChannelEmail: ""},
	})
	require.NoError(t, err)

	d.RunOnce(context.Background())
	require.Len(t, mail.sent, 1)
	assert.True(t, appt.Notified)
}

func TestReminderInvalidStoredLeadTimeSkipsPass(t *testing.T) {
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	appt := pendingAppointment(uuid.New(), now.Add(20*time.Minute), "ana@example.com", "")
	repo := newFakeAppointmentRepo(appt)

	// Update rejects non-positive lead times, but a hand-edited file loads.
	path := filepath.Join(t.TempDir(), "settings.json")
	raw := `{"enabled":true,"lead_time_minutes":0,"channels":{"EMAIL":""}}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))
	store := notify.NewSettingsStore(path, zerolog.Nop())

	mail := &fakeEmailSender{}
	d := newReminderForTest(repo, store, mail, &fakeMessenger{}, now)
	d.RunOnce(context.Background())

	assert.Empty(t, mail.sent)
	assert.False(t, appt.Notified)
}

func TestReminderQueryFailureLeavesStateUntouched(t *testing.T) {
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	appt := pendingAppointment(uuid.New(), now.Add(20*time.Minute), "ana@example.com", "")
	repo := newFakeAppointmentRepo(appt)
	repo.findErr = errors.New("db down")

	store := testSettings(t, notify.Settings{
		Enabled:         true,
		LeadTimeMinutes: 30,
		Channels:        map[string]string{notify.ChannelEmail: ""},
	})
	mail := &fakeEmailSender{}

	d := newReminderForTest(repo, store, mail, &fakeMessenger{}, now)
	d.RunOnce(context.Background())

	assert.Empty(t, mail.sent)
	assert.False(t, appt.Notified)
}
