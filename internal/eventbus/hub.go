package eventbus

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sort"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/nfrund/propertyhub/internal/topicmgr"
)

// registration is one Subscribe call. removed is set by Unsubscribe so that
// an emission already holding a snapshot skips it.
type registration struct {
	cb      *Callback
	removed atomic.Bool
}

// Hub is the topic registry and dispatcher.
type Hub struct {
	mu   sync.Mutex
	subs map[string][]*registration

	logger  *slog.Logger
	tracer  trace.Tracer
	topics  *topicmgr.Manager
	metrics *Metrics
}

// Option configures a Hub.
type Option func(*Hub)

// WithLogger sets the logger used for subscriber failures.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Hub) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithTracer sets the tracer used to record emissions.
func WithTracer(tracer trace.Tracer) Option {
	return func(h *Hub) {
		if tracer != nil {
			h.tracer = tracer
		}
	}
}

// WithTopics attaches the topic catalog. Unregistered topics still work but
// are logged at debug level.
func WithTopics(topics *topicmgr.Manager) Option {
	return func(h *Hub) {
		h.topics = topics
	}
}

// WithMetrics enables Prometheus metrics.
func WithMetrics(metrics *Metrics) Option {
	return func(h *Hub) {
		h.metrics = metrics
	}
}

// New creates an empty hub.
func New(opts ...Option) *Hub {
	h := &Hub{
		subs:   make(map[string][]*registration),
		logger: slog.Default(),
		tracer: noop.NewTracerProvider().Tracer("propertyhub-eventbus"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Subscribe registers cb for every future emission of topic until it is
// unsubscribed. A nil callback is ignored.
func (h *Hub) Subscribe(topic string, cb *Callback) {
	if cb == nil {
		return
	}
	h.checkTopic(topic, "subscribe")

	h.mu.Lock()
	h.subs[topic] = append(h.subs[topic], &registration{cb: cb})
	n := len(h.subs[topic])
	h.mu.Unlock()

	h.metrics.setSubscribers(topic, n)
}

// Unsubscribe removes every registration of cb on topic. It is a no-op if
// cb is not subscribed.
func (h *Hub) Unsubscribe(topic string, cb *Callback) {
	if cb == nil {
		return
	}

	h.mu.Lock()
	regs, ok := h.subs[topic]
	if !ok {
		h.mu.Unlock()
		return
	}
	kept := regs[:0:0]
	for _, reg := range regs {
		if reg.cb == cb {
			reg.removed.Store(true)
			continue
		}
		kept = append(kept, reg)
	}
	if len(kept) == 0 {
		delete(h.subs, topic)
	} else {
		h.subs[topic] = kept
	}
	n := len(kept)
	h.mu.Unlock()

	h.metrics.setSubscribers(topic, n)
}

// Emit invokes the subscribers of topic in registration order, each with the
// same payload. It returns nil when there are no subscribers or all of them
// succeeded, and an *EmitError otherwise.
func (h *Hub) Emit(ctx context.Context, topic string, payload any) error {
	h.mu.Lock()
	snapshot := make([]*registration, len(h.subs[topic]))
	copy(snapshot, h.subs[topic])
	h.mu.Unlock()

	if len(snapshot) == 0 {
		return nil
	}
	h.checkTopic(topic, "emit")
	h.metrics.emitted(topic)

	ctx, span := h.tracer.Start(ctx, "eventbus.emit."+topic,
		trace.WithAttributes(
			attribute.String("messaging.system", "eventbus"),
			attribute.String("messaging.destination", topic),
			attribute.Int("eventbus.subscribers", len(snapshot)),
		),
	)
	defer span.End()

	var failures []*SubscriberError
	delivered := 0
	for _, reg := range snapshot {
		if reg.removed.Load() {
			continue
		}
		delivered++
		h.metrics.delivered(topic)

		err := h.invoke(ctx, reg.cb, payload)
		if err == nil {
			continue
		}

		h.metrics.failed(topic)
		failure := &SubscriberError{Topic: topic, Subscriber: reg.cb.Name(), Err: err}
		failures = append(failures, failure)
		span.AddEvent("subscriber.failed", trace.WithAttributes(
			attribute.String("eventbus.subscriber", reg.cb.Name()),
			attribute.String("error", err.Error()),
		))
		if pe, ok := err.(*PanicError); ok {
			h.logger.ErrorContext(ctx, "Subscriber panicked",
				"topic", topic, "subscriber", reg.cb.Name(), "panic", pe.Value, "stack_trace", string(pe.Stack))
		} else {
			h.logger.WarnContext(ctx, "Subscriber failed",
				"topic", topic, "subscriber", reg.cb.Name(), "error", err)
		}
	}

	span.SetAttributes(attribute.Int("eventbus.delivered", delivered))
	if len(failures) == 0 {
		return nil
	}
	span.SetStatus(codes.Error, "subscriber failures")
	return &EmitError{Topic: topic, Delivered: delivered, Failures: failures}
}

// invoke runs one callback, converting a panic into a *PanicError.
func (h *Hub) invoke(ctx context.Context, cb *Callback, payload any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return cb.fn(ctx, payload)
}

// SubscriberCount returns the number of registrations on topic.
func (h *Hub) SubscriberCount(topic string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[topic])
}

// Topics returns the topics that currently have subscribers, sorted.
func (h *Hub) Topics() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	topics := make([]string, 0, len(h.subs))
	for topic := range h.subs {
		topics = append(topics, topic)
	}
	sort.Strings(topics)
	return topics
}

// Counts returns the registration count of every subscribed topic.
func (h *Hub) Counts() map[string]int {
	h.mu.Lock()
	defer h.mu.Unlock()

	counts := make(map[string]int, len(h.subs))
	for topic, regs := range h.subs {
		counts[topic] = len(regs)
	}
	return counts
}

func (h *Hub) checkTopic(topic, op string) {
	if h.topics != nil && !h.topics.Has(topic) {
		h.logger.Debug("Topic is not registered", "topic", topic, "op", op)
	}
}
