package eventbus

import (
	"context"
	"fmt"
)

// Event is a payload that knows the topic it is emitted on. Implement Topic
// on a value receiver: TopicOf calls it on the zero value.
type Event interface {
	Topic() string
}

// TopicOf returns the topic of event type E.
func TopicOf[E Event]() string {
	var zero E
	return zero.Topic()
}

// Publish emits ev on its own topic.
func Publish[E Event](ctx context.Context, h *Hub, ev E) error {
	return h.Emit(ctx, ev.Topic(), ev)
}

// Listen builds a callback that only accepts payloads of type E. Any other
// payload makes the callback fail with ErrPayloadType.
func Listen[E Event](name string, fn func(ctx context.Context, ev E) error) *Callback {
	if fn == nil {
		panic("eventbus: nil handler for callback " + name)
	}
	return NewCallback(name, func(ctx context.Context, payload any) error {
		ev, ok := payload.(E)
		if !ok {
			var zero E
			return fmt.Errorf("%w: %s expects %T, got %T", ErrPayloadType, name, zero, payload)
		}
		return fn(ctx, ev)
	})
}

// SubscribeTo subscribes cb to the topic of E.
func SubscribeTo[E Event](h *Hub, cb *Callback) {
	h.Subscribe(TopicOf[E](), cb)
}

// UnsubscribeFrom removes cb from the topic of E.
func UnsubscribeFrom[E Event](h *Hub, cb *Callback) {
	h.Unsubscribe(TopicOf[E](), cb)
}
