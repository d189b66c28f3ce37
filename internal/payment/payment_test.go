package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonsuite/salon-api/internal/config"
	"github.com/salonsuite/salon-api/internal/model"
)

func invoiceFixture() (*model.Tenant, *model.Invoice) {
	tenant := &model.Tenant{
		BusinessName: "Glamour Studio",
		AdminEmail:   "owner@glamour.test",
		Plan:         model.PlanPro,
	}
	tenant.ID = uuid.New()

	inv := &model.Invoice{
		TenantID:    tenant.ID,
		AmountCents: 9990,
		Month:       6,
		Year:        2025,
		DueDate:     time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
	}
	inv.ID = uuid.New()
	return tenant, inv
}

func TestCreateCheckout(t *testing.T) {
	var received preferenceRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/checkout/preferences", r.URL.Path)
		assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		json.NewEncoder(w).Encode(preferenceResponse{
			ID:        "pref-1",
			InitPoint: "https://pay.example/pref-1",
		})
	}))
	defer srv.Close()

	g := NewGateway(config.PaymentConfig{
		BaseURL:     srv.URL,
		AccessToken: "token-123",
		Timeout:     time.Second,
	}, zerolog.Nop())

	tenant, inv := invoiceFixture()
	checkout, err := g.CreateCheckout(context.Background(), tenant, inv)
	require.NoError(t, err)

	assert.Equal(t, "https://pay.example/pref-1", checkout.Link)
	assert.Equal(t, "pref-1", checkout.ExternalID)
	assert.Equal(t, inv.ID.String(), received.ExternalReference)
	assert.Equal(t, int64(9990), received.AmountCents)
	assert.Equal(t, "owner@glamour.test", received.PayerEmail)
}

func TestCreateCheckoutDisabled(t *testing.T) {
	g := NewGateway(config.PaymentConfig{}, zerolog.Nop())
	require.False(t, g.Enabled())

	tenant, inv := invoiceFixture()
	checkout, err := g.CreateCheckout(context.Background(), tenant, inv)
	require.NoError(t, err)
	assert.Empty(t, checkout.Link)
}

func TestCreateCheckoutGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer srv.Close()

	g := NewGateway(config.PaymentConfig{BaseURL: srv.URL, AccessToken: "t"}, zerolog.Nop())

	tenant, inv := invoiceFixture()
	_, err := g.CreateCheckout(context.Background(), tenant, inv)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}
