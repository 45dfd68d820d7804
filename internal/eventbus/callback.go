package eventbus

import "context"

// Handler processes a payload emitted on a topic.
type Handler func(ctx context.Context, payload any) error

// Callback is a subscriber registration handle. Two callbacks are the same
// subscriber only if they are the same pointer, so keep the value returned by
// NewCallback for the matching Unsubscribe.
type Callback struct {
	name string
	fn   Handler
}

// NewCallback wraps fn as a subscriber. The name is used in logs and errors.
func NewCallback(name string, fn Handler) *Callback {
	if fn == nil {
		panic("eventbus: nil handler for callback " + name)
	}
	if name == "" {
		name = "anonymous"
	}
	return &Callback{name: name, fn: fn}
}

// Func wraps a handler that cannot fail.
func Func(name string, fn func(ctx context.Context, payload any)) *Callback {
	if fn == nil {
		panic("eventbus: nil handler for callback " + name)
	}
	return NewCallback(name, func(ctx context.Context, payload any) error {
		fn(ctx, payload)
		return nil
	})
}

// Name returns the callback's diagnostic name.
func (c *Callback) Name() string {
	return c.name
}
