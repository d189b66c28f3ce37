package notify

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/salonsuite/salon-api/pkg/apperr"
)

// Notification channels. The EMAIL channel's map value is the fallback
// address used when the client record has no email of its own; the WHATSAPP
// value is unused.
const (
	ChannelEmail    = "EMAIL"
	ChannelWhatsApp = "WHATSAPP"
)

// ErrInvalidSettings rejects a settings update before any state changes.
var ErrInvalidSettings = apperr.BadRequest("lead time must be greater than zero", nil)

// Settings is the process-wide notification configuration.
type Settings struct {
	Enabled         bool              `json:"enabled"`
	LeadTimeMinutes int64             `json:"lead_time_minutes"`
	Channels        map[string]string `json:"channels"`
	DigestEnabled   bool              `json:"digest_enabled"`
	DigestEmail     string            `json:"digest_email"`
}

// DefaultSettings is persisted on first boot when no settings file exists.
func DefaultSettings() Settings {
	return Settings{
		Enabled:         false,
		LeadTimeMinutes: 30,
		Channels:        map[string]string{ChannelEmail: ""},
	}
}

// SettingsStore holds the notification settings in memory behind a
// read-write lock and persists them to a JSON file via an atomic
// temp-file-then-rename write.
type SettingsStore struct {
	path   string
	logger zerolog.Logger

	mu      sync.RWMutex
	current Settings
}

// NewSettingsStore loads the settings from path. A missing or unreadable
// file falls back to the default, which is persisted best-effort: a
// persistence failure at boot is logged, not fatal.
func NewSettingsStore(path string, logger zerolog.Logger) *SettingsStore {
	s := &SettingsStore{
		path:   path,
		logger: logger.With().Str("component", "notification_settings").Logger(),
	}

	data, err := os.ReadFile(path)
	if err == nil {
		var loaded Settings
		if jsonErr := json.Unmarshal(data, &loaded); jsonErr == nil {
			s.current = loaded
			return s
		}
		s.logger.Error().Str("path", path).Msg("settings file unreadable, using defaults")
	}

	s.current = DefaultSettings()
	if err := s.persist(s.current); err != nil {
		s.logger.Error().Err(err).Str("path", path).Msg("failed to persist default settings")
	}
	return s
}

// Get returns the active settings.
func (s *SettingsStore) Get() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Update validates, persists, and swaps in the new settings. On any failure
// the previously active settings stay in force, unchanged and unpersisted.
func (s *SettingsStore) Update(next Settings) (Settings, error) {
	if next.LeadTimeMinutes <= 0 {
		return Settings{}, ErrInvalidSettings
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persist(next); err != nil {
		return Settings{}, fmt.Errorf("failed to persist settings: %w", err)
	}
	s.current = next
	return s.current, nil
}

// persist writes to a temp file in the target directory and renames it over
// the live file, so a crash mid-write never corrupts the stored settings.
func (s *SettingsStore) persist(settings Settings) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create settings dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "settings-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(settings); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace settings file: %w", err)
	}
	return nil
}
