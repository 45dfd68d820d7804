// Package eventbus is the in-process notification hub that keeps decoupled
// view state in sync after remote data changes.
//
// Producers emit a topic with a payload; every callback currently subscribed
// to that topic is invoked synchronously, in registration order, on the
// emitter's goroutine. Emitting a topic nobody listens to is a no-op.
//
// Delivery rules:
//   - Callback identity is the *Callback pointer. The same callback may be
//     subscribed more than once and is then invoked once per registration.
//   - Unsubscribe removes every registration of that pointer on the topic.
//   - Emit works on the registrations present when it started. A
//     registration removed while an emission is in flight is skipped if it
//     has not run yet; one added in flight waits for the next emission.
//   - A callback that returns an error or panics does not stop delivery to
//     the rest. Failures are logged and returned together as an *EmitError.
//
// The hub is not a delivery-guaranteed system and does not cross process
// boundaries; see package pubsub for the asynchronous relay to browsers.
package eventbus
