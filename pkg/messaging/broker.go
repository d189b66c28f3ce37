package messaging

import (
	"context"
)

// Broker defines the interface for the event broker used to fan out
// domain events (reminder sent, invoice issued) to interested consumers.
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}

// Event channels published by the dispatchers.
const (
	ChannelReminders = "events.reminders"
	ChannelBilling   = "events.billing"
)

type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// NopBroker discards every publish. Used when no broker is configured.
type NopBroker struct{}

func (NopBroker) Publish(ctx context.Context, channel string, message interface{}) error {
	return nil
}

func (NopBroker) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	ch := make(chan []byte)
	close(ch)
	return ch, nil
}

func (NopBroker) Close() error { return nil }
