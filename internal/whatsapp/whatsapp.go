package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/salonsuite/salon-api/internal/config"
)

// Client talks to the WhatsApp gateway. When disabled it simulates sends by
// logging them, so the dispatchers behave identically in development.
type Client struct {
	baseURL string
	apiKey  string
	enabled bool
	http    *http.Client
	logger  zerolog.Logger
}

func NewClient(cfg config.WhatsAppConfig, logger zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		enabled: cfg.Enabled && cfg.BaseURL != "",
		http:    &http.Client{Timeout: timeout},
		logger:  logger.With().Str("component", "whatsapp").Logger(),
	}
}

type sendRequest struct {
	TenantID string `json:"tenant_id"`
	Phone    string `json:"phone"`
	Body     string `json:"body"`
}

// SendText sends a plain text message to the given phone number on behalf
// of a tenant.
func (c *Client) SendText(ctx context.Context, tenantID uuid.UUID, phone, body string) error {
	normalized, err := NormalizePhone(phone)
	if err != nil {
		return err
	}

	if !c.enabled {
		c.logger.Info().Str("tenant_id", tenantID.String()).Str("phone", normalized).Msg("whatsapp simulated (gateway disabled)")
		return nil
	}

	payload, err := json.Marshal(sendRequest{
		TenantID: tenantID.String(),
		Phone:    normalized,
		Body:     body,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal whatsapp payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build whatsapp request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call whatsapp gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("whatsapp gateway returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	c.logger.Debug().Str("tenant_id", tenantID.String()).Str("phone", normalized).Msg("whatsapp message sent")
	return nil
}

// NormalizePhone strips formatting characters and validates the result looks
// like a dialable number.
func NormalizePhone(phone string) (string, error) {
	var b strings.Builder
	for _, r := range phone {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && b.Len() == 0:
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '(' || r == ')' || r == '.':
			// formatting noise
		default:
			return "", fmt.Errorf("invalid phone number %q", phone)
		}
	}
	digits := strings.TrimPrefix(b.String(), "+")
	if len(digits) < 8 {
		return "", fmt.Errorf("invalid phone number %q", phone)
	}
	return b.String(), nil
}
