// Package events publishes store activity (recorded sales, catalog changes) to
// MQTT subscribers and to owners watching the live websocket feed.
package events

import (
	"context"
	"errors"
	"time"
)

// Event types, also used as the MQTT topic suffix.
const (
	SaleRecorded   = "sale.recorded"
	ProductCreated = "product.created"
	ProductUpdated = "product.updated"
)

type Event struct {
	Type       string    `json:"type"`
	Payload    any       `json:"payload"`
	OccurredAt time.Time `json:"occurred_at"`
}

// New stamps an event with the current time.
func New(eventType string, payload any) Event {
	return Event{Type: eventType, Payload: payload, OccurredAt: time.Now().UTC()}
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Multi fans an event out to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
