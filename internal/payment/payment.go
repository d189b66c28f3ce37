package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/salonsuite/salon-api/internal/config"
	"github.com/salonsuite/salon-api/internal/model"
)

// Checkout is the payment link issued by the gateway for one invoice.
type Checkout struct {
	Link       string
	ExternalID string
}

// Gateway creates checkout preferences for invoices. With no access token
// configured it is disabled and returns empty checkouts, leaving invoices
// payable off-platform.
type Gateway struct {
	baseURL     string
	accessToken string
	http        *http.Client
	logger      zerolog.Logger
}

func NewGateway(cfg config.PaymentConfig, logger zerolog.Logger) *Gateway {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Gateway{
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		accessToken: cfg.AccessToken,
		http:        &http.Client{Timeout: timeout},
		logger:      logger.With().Str("component", "payment").Logger(),
	}
}

// Enabled reports whether the gateway has credentials to create checkouts.
func (g *Gateway) Enabled() bool {
	return g.accessToken != "" && g.baseURL != ""
}

type preferenceRequest struct {
	ExternalReference string `json:"external_reference"`
	Title             string `json:"title"`
	AmountCents       int64  `json:"amount_cents"`
	Currency          string `json:"currency"`
	DueDate           string `json:"due_date"`
	PayerEmail        string `json:"payer_email,omitempty"`
}

type preferenceResponse struct {
	ID        string `json:"id"`
	InitPoint string `json:"init_point"`
}

// CreateCheckout registers a checkout preference for the invoice and
// returns the payment link the tenant should receive.
func (g *Gateway) CreateCheckout(ctx context.Context, tenant *model.Tenant, inv *model.Invoice) (*Checkout, error) {
	if !g.Enabled() {
		g.logger.Debug().Str("tenant_id", tenant.ID.String()).Msg("payment gateway disabled, skipping checkout")
		return &Checkout{}, nil
	}

	payload, err := json.Marshal(preferenceRequest{
		ExternalReference: inv.ID.String(),
		Title:             fmt.Sprintf("%s subscription %02d/%d", tenant.BusinessName, inv.Month, inv.Year),
		AmountCents:       inv.AmountCents,
		Currency:          "BRL",
		DueDate:           inv.DueDate.Format(time.RFC3339),
		PayerEmail:        tenant.AdminEmail,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal checkout payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/checkout/preferences", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build checkout request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.accessToken)

	resp, err := g.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call payment gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("payment gateway returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var pref preferenceResponse
	if err := json.NewDecoder(resp.Body).Decode(&pref); err != nil {
		return nil, fmt.Errorf("failed to decode checkout response: %w", err)
	}

	return &Checkout{Link: pref.InitPoint, ExternalID: pref.ID}, nil
}
