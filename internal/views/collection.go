package views

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/nfrund/propertyhub/internal/domain"
	"github.com/nfrund/propertyhub/internal/eventbus"
	"github.com/nfrund/propertyhub/internal/events"
)

// Fetcher reads a catalog collection. *backend.Resource satisfies it.
type Fetcher[T domain.Entity] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
}

// Collection is the list view of one catalog entity kind, kept fresh by the
// change event E.
type Collection[T domain.Entity, E events.EntityChange] struct {
	name   string
	source Fetcher[T]
	logger *slog.Logger
	cb     *eventbus.Callback

	mu       sync.RWMutex
	items    []T
	edits    editLog[string, T]
	lastErr  error
	loadedAt time.Time
}

// NewCollection creates an unmounted collection view.
func NewCollection[T domain.Entity, E events.EntityChange](name string, source Fetcher[T], logger *slog.Logger) *Collection[T, E] {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Collection[T, E]{
		name:   name,
		source: source,
		logger: logger.With("view", name),
	}
	c.cb = eventbus.Listen(name, c.handle)
	return c
}

// Name returns the view name.
func (c *Collection[T, E]) Name() string {
	return c.name
}

// Topic returns the topic the view listens on.
func (c *Collection[T, E]) Topic() string {
	return eventbus.TopicOf[E]()
}

// Mount subscribes the view and performs the initial load. The view stays
// subscribed when the load fails so a later event can repair it.
func (c *Collection[T, E]) Mount(ctx context.Context, hub *eventbus.Hub) error {
	eventbus.SubscribeTo[E](hub, c.cb)
	return c.Reload(ctx)
}

// Unmount stops the view from reacting to further events.
func (c *Collection[T, E]) Unmount(hub *eventbus.Hub) {
	eventbus.UnsubscribeFrom[E](hub, c.cb)
}

// Reload refetches the whole collection. On failure the previous items are
// kept. Entity refreshes that land while the list is being fetched are
// replayed over it, and a reload overtaken by a later one is discarded.
func (c *Collection[T, E]) Reload(ctx context.Context) error {
	c.mu.Lock()
	seq, mark := c.edits.begin()
	c.mu.Unlock()

	items, err := c.source.List(ctx)
	if err != nil {
		c.mu.Lock()
		c.edits.abort()
		c.mu.Unlock()
		c.fail(ctx, "reload", err)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	pending, ok := c.edits.finish(seq, mark)
	if !ok {
		c.logger.DebugContext(ctx, "Discarding reload superseded by a newer one")
		return nil
	}
	c.items = items
	for _, e := range pending {
		if e.deleted {
			c.removeLocked(e.key)
		} else {
			c.upsertLocked(e.value)
		}
	}
	c.lastErr = nil
	c.loadedAt = time.Now()
	return nil
}

func (c *Collection[T, E]) handle(ctx context.Context, ev E) error {
	id := ev.Entity()
	if id == "" {
		return c.Reload(ctx)
	}
	if ev.Hint() == events.ActionDeleted {
		c.remove(id)
		return nil
	}

	item, err := c.source.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		c.remove(id)
		return nil
	}
	if err != nil {
		c.fail(ctx, "refresh", err, "entity_id", id)
		return err
	}
	c.upsert(item)
	return nil
}

func (c *Collection[T, E]) fail(ctx context.Context, op string, err error, args ...any) {
	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()
	c.logger.WarnContext(ctx, "View refresh failed, keeping previous state",
		append([]any{"op", op, "error", err}, args...)...)
}

func (c *Collection[T, E]) upsert(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastErr = nil
	c.edits.record(item.EntityID(), item, false)
	c.upsertLocked(item)
}

func (c *Collection[T, E]) upsertLocked(item T) {
	for i := range c.items {
		if c.items[i].EntityID() == item.EntityID() {
			c.items[i] = item
			return
		}
	}
	c.items = append(c.items, item)
}

func (c *Collection[T, E]) remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	c.edits.record(id, zero, true)
	c.removeLocked(id)
}

func (c *Collection[T, E]) removeLocked(id string) {
	kept := c.items[:0:0]
	for _, item := range c.items {
		if item.EntityID() != id {
			kept = append(kept, item)
		}
	}
	c.items = kept
}

// Items returns a copy of the current list.
func (c *Collection[T, E]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Find returns the item with the given ID from the current list.
func (c *Collection[T, E]) Find(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, item := range c.items {
		if item.EntityID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Err returns the error of the latest failed refresh, or nil.
func (c *Collection[T, E]) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

// LoadedAt returns when the list was last fully loaded.
func (c *Collection[T, E]) LoadedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loadedAt
}
