// Package pubsub provides a generic publish/subscribe event system used to
// move events from background producers into the Bubble Tea update loop.
package pubsub

import (
	"context"
	"time"
)

// EventType represents the type of event being published.
type EventType string

const (
	// CreatedEvent marks a newly produced payload such as a log entry.
	CreatedEvent EventType = "created"
	// UpdatedEvent marks a change to existing state.
	UpdatedEvent EventType = "updated"
	// ErrorEvent marks a payload describing a failure.
	ErrorEvent EventType = "error"
)

// Event represents a published event with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber provides a subscription channel for events.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher allows publishing events with a typed payload.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
