package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nfrund/propertyhub/internal/eventbus"
)

// RelayTopic is the relay channel every hub notification is forwarded to.
const RelayTopic = "site.notifications"

// Notification is the encoded form of one hub emission.
type Notification struct {
	Topic     string          `json:"topic"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	EmittedAt time.Time       `json:"emittedAt"`
}

// Relay is a hub subscriber that forwards notifications to a Publisher.
// Publishing does not wait for consumers, so a slow consumer never delays
// the emitter.
type Relay struct {
	pub    Publisher
	topics []string
	logger *slog.Logger
	cb     *eventbus.Callback
	now    func() time.Time
}

// NewRelay creates a relay for the given hub topics.
func NewRelay(pub Publisher, topics []string, logger *slog.Logger) *Relay {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Relay{
		pub:    pub,
		topics: append([]string(nil), topics...),
		logger: logger.With("component", "relay"),
		now:    time.Now,
	}
	r.cb = eventbus.NewCallback("relay", r.forward)
	return r
}

// Attach subscribes the relay to every topic on hub.
func (r *Relay) Attach(hub *eventbus.Hub) {
	for _, topic := range r.topics {
		hub.Subscribe(topic, r.cb)
	}
	r.logger.Debug("Relay attached", "topics", r.topics)
}

// Detach unsubscribes the relay.
func (r *Relay) Detach(hub *eventbus.Hub) {
	for _, topic := range r.topics {
		hub.Unsubscribe(topic, r.cb)
	}
}

// Topics returns the hub topics relayed.
func (r *Relay) Topics() []string {
	return append([]string(nil), r.topics...)
}

// forward needs the topic, which the hub does not pass to callbacks, so the
// payload must know it.
func (r *Relay) forward(ctx context.Context, payload any) error {
	ev, ok := payload.(eventbus.Event)
	if !ok {
		return fmt.Errorf("%w: relay needs an eventbus.Event, got %T", eventbus.ErrPayloadType, payload)
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", ev.Topic(), err)
	}
	data, err := json.Marshal(Notification{Topic: ev.Topic(), Payload: body, EmittedAt: r.now().UTC()})
	if err != nil {
		return fmt.Errorf("encode %s notification: %w", ev.Topic(), err)
	}

	return r.pub.Publish(ctx, Message{
		Topic:    RelayTopic,
		Payload:  data,
		Metadata: map[string]string{MetaEventTopic: ev.Topic()},
	})
}
