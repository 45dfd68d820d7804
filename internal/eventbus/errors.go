package eventbus

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrPayloadType is returned by a typed listener that received a payload
	// of the wrong Go type.
	ErrPayloadType = errors.New("eventbus: payload type mismatch")

	// ErrSubscriberPanic matches a recovered subscriber panic.
	ErrSubscriberPanic = errors.New("eventbus: subscriber panicked")
)

// PanicError carries a value recovered from a subscriber.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("subscriber panicked: %v", e.Value)
}

// Is makes errors.Is(err, ErrSubscriberPanic) hold.
func (e *PanicError) Is(target error) bool {
	return target == ErrSubscriberPanic
}

// SubscriberError is one subscriber's failure during an emission.
type SubscriberError struct {
	Topic      string
	Subscriber string
	Err        error
}

func (e *SubscriberError) Error() string {
	return fmt.Sprintf("subscriber %s on %s: %v", e.Subscriber, e.Topic, e.Err)
}

func (e *SubscriberError) Unwrap() error {
	return e.Err
}

// EmitError reports the subscribers that failed during one emission. The
// remaining subscribers were still invoked.
type EmitError struct {
	Topic     string
	Delivered int
	Failures  []*SubscriberError
}

func (e *EmitError) Error() string {
	msgs := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		msgs = append(msgs, f.Error())
	}
	return fmt.Sprintf("eventbus: %d of %d subscribers failed on %s: %s",
		len(e.Failures), e.Delivered, e.Topic, strings.Join(msgs, "; "))
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (e *EmitError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f)
	}
	return errs
}
