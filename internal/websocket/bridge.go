// Package websocket pushes hub notifications to browsers so an open page can
// refresh the parts of itself affected by a change.
package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/nfrund/propertyhub/internal/pubsub"
)

const (
	sendBuffer = 64
	writeWait  = 10 * time.Second
	readLimit  = 4 << 10
)

// broadcastMessage is one notification to fan out.
type broadcastMessage struct {
	topic   string
	payload []byte
}

// Bridge consumes relayed notifications and writes them to every connected
// client that follows the notification's topic.
type Bridge struct {
	subscriber     pubsub.Subscriber
	whitelist      *topicWhitelist
	originPatterns []string
	logger         *slog.Logger

	mu      sync.RWMutex
	clients map[string]*Client

	register   chan *Client
	unregister chan *Client
	broadcast  chan broadcastMessage
	done       chan struct{}
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithOriginPatterns sets the host patterns accepted for cross-origin
// connections. Same-origin connections are always accepted.
func WithOriginPatterns(patterns ...string) Option {
	return func(b *Bridge) {
		b.originPatterns = append(b.originPatterns, patterns...)
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(b *Bridge) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBridge creates a bridge that lets browsers follow the given topics.
func NewBridge(sub pubsub.Subscriber, topics []string, opts ...Option) *Bridge {
	b := &Bridge{
		subscriber: sub,
		whitelist:  newTopicWhitelist(topics...),
		logger:     slog.Default(),
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan broadcastMessage, sendBuffer),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = b.logger.With("component", "websocket_bridge")
	return b
}

// Start subscribes to the relay and runs the client loop until ctx is done.
func (b *Bridge) Start(ctx context.Context) error {
	if err := b.subscriber.Subscribe(ctx, pubsub.RelayTopic, b.handleRelayed); err != nil {
		return err
	}
	go b.run(ctx)
	b.logger.Info("WebSocket bridge started", "topics", b.whitelist.All())
	return nil
}

func (b *Bridge) run(ctx context.Context) {
	defer close(b.done)
	for {
		select {
		case <-ctx.Done():
			b.mu.Lock()
			for id, client := range b.clients {
				client.close()
				delete(b.clients, id)
			}
			b.mu.Unlock()
			b.logger.Info("WebSocket bridge stopped")
			return

		case client := <-b.register:
			b.mu.Lock()
			b.clients[client.ID] = client
			b.mu.Unlock()
			b.logger.Debug("Client registered", "clientID", client.ID, "topics", client.Topics())

		case client := <-b.unregister:
			b.mu.Lock()
			if _, ok := b.clients[client.ID]; ok {
				delete(b.clients, client.ID)
				client.close()
				b.logger.Debug("Client unregistered", "clientID", client.ID)
			}
			b.mu.Unlock()

		case msg := <-b.broadcast:
			b.mu.RLock()
			for _, client := range b.clients {
				if !client.Wants(msg.topic) {
					continue
				}
				if !client.enqueue(msg.payload) {
					b.logger.Warn("Client send channel full, dropping message", "clientID", client.ID, "topic", msg.topic)
				}
			}
			b.mu.RUnlock()
		}
	}
}

// handleRelayed turns a relayed notification into a browser frame.
func (b *Bridge) handleRelayed(ctx context.Context, msg pubsub.Message) error {
	var n pubsub.Notification
	if err := json.Unmarshal(msg.Payload, &n); err != nil {
		return err
	}
	if !b.whitelist.IsAllowed(n.Topic) {
		return nil
	}

	frame := encode(Message{Type: TypeNotification, Topic: n.Topic, Payload: n.Payload})
	select {
	case b.broadcast <- broadcastMessage{topic: n.Topic, payload: frame}:
		return nil
	case <-b.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ClientCount returns the number of connected clients.
func (b *Bridge) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

// Handler upgrades GET /ws. The optional "topics" query parameter is a
// comma-separated list of topics to follow; without it the client follows
// every allowed topic.
func (b *Bridge) Handler() echo.HandlerFunc {
	return func(c echo.Context) error {
		topics := b.whitelist.All()
		if raw := c.QueryParam("topics"); raw != "" {
			topics = splitTopics(raw)
			if err := b.whitelist.Check(topics); err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, err.Error())
			}
		}

		conn, err := websocket.Accept(c.Response(), c.Request(), &websocket.AcceptOptions{
			OriginPatterns: b.originPatterns,
		})
		if err != nil {
			b.logger.Error("Failed to upgrade connection to WebSocket", "error", err)
			// Accept has already written the response.
			return nil
		}
		conn.SetReadLimit(readLimit)

		client := newClient(uuid.NewString(), conn, topics)
		client.enqueue(encode(Message{Type: TypeReady, ClientID: client.ID, Topics: client.Topics()}))
		select {
		case b.register <- client:
		case <-b.done:
			conn.Close(websocket.StatusGoingAway, "Server shutting down")
			return nil
		}

		go b.writePump(client)
		go b.readPump(client)
		return nil
	}
}

// readPump handles subscribe and unsubscribe requests until the connection
// closes.
func (b *Bridge) readPump(client *Client) {
	defer func() {
		select {
		case b.unregister <- client:
		case <-b.done:
		}
		client.conn.Close(websocket.StatusNormalClosure, "Client disconnected")
	}()

	for {
		_, data, err := client.conn.Read(context.Background())
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				b.logger.Debug("WebSocket closed normally by client", "clientID", client.ID)
			} else if !errors.Is(err, context.Canceled) {
				b.logger.Debug("WebSocket read ended", "clientID", client.ID, "error", err)
			}
			return
		}
		client.enqueue(encode(b.handleRequest(client, data)))
	}
}

func (b *Bridge) handleRequest(client *Client, data []byte) Message {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return Message{Type: TypeError, Error: "invalid message"}
	}
	if err := b.whitelist.Check(req.Topics); err != nil {
		return Message{Type: TypeError, Error: err.Error()}
	}

	switch req.Action {
	case ActionSubscribe:
		client.follow(req.Topics)
	case ActionUnsubscribe:
		client.unfollow(req.Topics)
	default:
		return Message{Type: TypeError, Error: "unknown action " + req.Action}
	}
	return Message{Type: TypeSubscribed, Topics: client.Topics()}
}

func (b *Bridge) writePump(client *Client) {
	defer client.conn.Close(websocket.StatusNormalClosure, "Server-side cleanup")

	for message := range client.send {
		ctx, cancel := context.WithTimeout(context.Background(), writeWait)
		err := client.conn.Write(ctx, websocket.MessageText, message)
		cancel()
		if err != nil {
			b.logger.Debug("WebSocket write error", "clientID", client.ID, "error", err)
			return
		}
	}
}

func splitTopics(raw string) []string {
	var topics []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			topics = append(topics, t)
		}
	}
	return topics
}
