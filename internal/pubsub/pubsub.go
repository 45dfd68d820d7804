// Package pubsub carries hub notifications to asynchronous consumers such as
// the websocket bridge. The in-process hub delivers synchronously on the
// emitter's goroutine; anything slow subscribes here instead, behind a
// watermill GoChannel.
package pubsub

import (
	"context"
)

// Message is the structure passed between components on the relay.
type Message struct {
	// Topic is the relay channel, such as "site.notifications".
	Topic string
	// Payload contains the encoded notification.
	Payload []byte
	// Metadata can contain arbitrary key-value pairs for context.
	Metadata map[string]string
}

// Handler processes a received message.
type Handler func(ctx context.Context, msg Message) error

// Publisher sends messages.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

// Subscriber receives messages.
type Subscriber interface {
	// Subscribe starts listening to topic in the background. Delivery stops
	// when ctx is cancelled or the subscriber is closed.
	Subscribe(ctx context.Context, topic string, handler Handler) error
	Close() error
}
