package whatsapp

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
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"+55 (11) 99999-0000", "+5511999990000", false},
		{"11 3456.7890", "1134567890", false},
		{"+14155550123", "+14155550123", false},
		{"call me", "", true},
		{"123", "", true},
		{"12+34567890", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizePhone(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSendTextCallsGateway(t *testing.T) {
	var received sendRequest
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewClient(config.WhatsAppConfig{
		Enabled: true,
		BaseURL: srv.URL,
		APIKey:  "key-123",
		Timeout: time.Second,
	}, zerolog.Nop())

	tenantID := uuid.New()
	err := c.SendText(context.Background(), tenantID, "+55 11 99999-0000", "see you at 14:30")
	require.NoError(t, err)

	assert.Equal(t, "Bearer key-123", gotAuth)
	assert.Equal(t, tenantID.String(), received.TenantID)
	assert.Equal(t, "+5511999990000", received.Phone)
	assert.Equal(t, "see you at 14:30", received.Body)
}

func TestSendTextGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(config.WhatsAppConfig{Enabled: true, BaseURL: srv.URL}, zerolog.Nop())

	err := c.SendText(context.Background(), uuid.New(), "+5511999990000", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestSendTextDisabledSimulates(t *testing.T) {
	c := NewClient(config.WhatsAppConfig{Enabled: false}, zerolog.Nop())
	err := c.SendText(context.Background(), uuid.New(), "+5511999990000", "hi")
	assert.NoError(t, err)
}

func TestSendTextRejectsBadPhoneBeforeCalling(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := NewClient(config.WhatsAppConfig{Enabled: true, BaseURL: srv.URL}, zerolog.Nop())
	err := c.SendText(context.Background(), uuid.New(), "not-a-phone", "hi")
	assert.Error(t, err)
	assert.False(t, called)
}
