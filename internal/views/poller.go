package views

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/nfrund/propertyhub/internal/domain"
)

// NotificationSource lists admin notifications.
type NotificationSource interface {
	ListNotifications(ctx context.Context, token string) ([]domain.Notification, error)
}

// NotificationPoller refreshes admin notifications on a fixed interval. It
// polls only while an admin token is set and does not use the hub.
type NotificationPoller struct {
	source   NotificationSource
	interval time.Duration
	logger   *slog.Logger

	mu      sync.RWMutex
	token   string
	items   []domain.Notification
	lastErr error
	polled  time.Time
}

// NewNotificationPoller creates a poller. A non-positive interval defaults
// to 30 seconds.
func NewNotificationPoller(source NotificationSource, interval time.Duration, logger *slog.Logger) *NotificationPoller {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationPoller{
		source:   source,
		interval: interval,
		logger:   logger.With("component", "notification_poller"),
	}
}

// SetToken sets the admin token used for polling. An empty token pauses
// polling and clears the cached notifications.
func (p *NotificationPoller) SetToken(token string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.token = token
	if token == "" {
		p.items = nil
		p.lastErr = nil
	}
}

// Run polls until ctx is cancelled.
func (p *NotificationPoller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.Info("Notification poller started", "interval", p.interval)
	p.Poll(ctx)
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Notification poller stopped")
			return
		case <-ticker.C:
			p.Poll(ctx)
		}
	}
}

// Poll performs one fetch. Failures keep the previous notifications.
func (p *NotificationPoller) Poll(ctx context.Context) {
	p.mu.RLock()
	token := p.token
	p.mu.RUnlock()
	if token == "" {
		return
	}

	items, err := p.source.ListNotifications(ctx, token)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.token != token {
		// Logged out or replaced while fetching.
		return
	}
	p.polled = time.Now()
	if err != nil {
		p.lastErr = err
		p.logger.WarnContext(ctx, "Notification poll failed", "error", err)
		return
	}
	p.items = items
	p.lastErr = nil
}

// Notifications returns the latest fetched notifications.
func (p *NotificationPoller) Notifications() []domain.Notification {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]domain.Notification, len(p.items))
	copy(out, p.items)
	return out
}

// Unread counts unread notifications.
func (p *NotificationPoller) Unread() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	n := 0
	for _, item := range p.items {
		if !item.Read {
			n++
		}
	}
	return n
}

func (p *NotificationPoller) Err() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastErr
}

// LastPoll returns the time of the latest completed poll.
func (p *NotificationPoller) LastPoll() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.polled
}
