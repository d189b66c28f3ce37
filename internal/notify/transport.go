package notify

import (
	"context"

	"github.com/google/uuid"
)

// Messenger sends instant messages (WhatsApp) to clients and tenant admins.
type Messenger interface {
	SendText(ctx context.Context, tenantID uuid.UUID, phone, body string) error
}

// EmailSender delivers email through the configured transport.
type EmailSender interface {
	Send(ctx context.Context, to []string, subject, body string, html bool) error
}
