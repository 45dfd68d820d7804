package views

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/nfrund/propertyhub/internal/domain"
	"github.com/nfrund/propertyhub/internal/eventbus"
	"github.com/nfrund/propertyhub/internal/events"
)

// HomeSource lists the home sections stored by the backend.
type HomeSource interface {
	ListHomeContent(ctx context.Context) ([]domain.HomeSection, error)
}

// OverrideSource lists local editorial overrides keyed by section.
type OverrideSource interface {
	Load(ctx context.Context) (map[string]map[string]any, error)
}

// HomeContent is the home page view. Local overrides take precedence over
// backend content on reload; a home_content_changed event carrying content
// replaces that section directly, so the latest write wins.
type HomeContent struct {
	backend   HomeSource
	overrides OverrideSource
	logger    *slog.Logger
	cb        *eventbus.Callback

	mu       sync.RWMutex
	order    []string
	sections map[string]map[string]any
	edits    editLog[string, map[string]any]
	lastErr  error
}

// NewHomeContent creates the view. overrides may be nil.
func NewHomeContent(backend HomeSource, overrides OverrideSource, logger *slog.Logger) *HomeContent {
	if logger == nil {
		logger = slog.Default()
	}
	h := &HomeContent{
		backend:   backend,
		overrides: overrides,
		logger:    logger.With("view", "home"),
		sections:  make(map[string]map[string]any),
	}
	h.cb = eventbus.Listen("home-content", h.handle)
	return h
}

func (h *HomeContent) Mount(ctx context.Context, hub *eventbus.Hub) error {
	eventbus.SubscribeTo[events.HomeContentChanged](hub, h.cb)
	return h.Reload(ctx)
}

func (h *HomeContent) Unmount(hub *eventbus.Hub) {
	eventbus.UnsubscribeFrom[events.HomeContentChanged](hub, h.cb)
}

// Reload fetches backend sections and applies the overrides on top. If the
// backend fails the previous content is kept. Section changes received while
// fetching are replayed over the result.
func (h *HomeContent) Reload(ctx context.Context) error {
	h.mu.Lock()
	seq, mark := h.edits.begin()
	h.mu.Unlock()

	remote, err := h.backend.ListHomeContent(ctx)
	if err != nil {
		h.mu.Lock()
		h.edits.abort()
		h.mu.Unlock()
		h.fail(ctx, err)
		return err
	}

	var local map[string]map[string]any
	if h.overrides != nil {
		local, err = h.overrides.Load(ctx)
		if err != nil {
			// Overrides are optional; serve backend content alone.
			h.logger.WarnContext(ctx, "Failed to load content overrides", "error", err)
			local = nil
		}
	}

	order := make([]string, 0, len(remote)+len(local))
	sections := make(map[string]map[string]any, len(remote)+len(local))
	for _, s := range remote {
		if _, seen := sections[s.Section]; !seen {
			order = append(order, s.Section)
		}
		sections[s.Section] = s.Content
	}
	for _, name := range slices.Sorted(maps.Keys(local)) {
		if _, seen := sections[name]; !seen {
			order = append(order, name)
		}
		sections[name] = local[name]
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	pending, ok := h.edits.finish(seq, mark)
	if !ok {
		h.logger.DebugContext(ctx, "Discarding reload superseded by a newer one")
		return nil
	}
	h.order = order
	h.sections = sections
	for _, e := range pending {
		h.setLocked(e.key, e.value)
	}
	h.lastErr = nil
	return nil
}

func (h *HomeContent) handle(ctx context.Context, ev events.HomeContentChanged) error {
	if ev.Section == "" || ev.Content == nil {
		return h.Reload(ctx)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.edits.record(ev.Section, ev.Content, false)
	h.setLocked(ev.Section, ev.Content)
	return nil
}

func (h *HomeContent) setLocked(section string, content map[string]any) {
	if _, ok := h.sections[section]; !ok {
		h.order = append(h.order, section)
	}
	h.sections[section] = content
}

func (h *HomeContent) fail(ctx context.Context, err error) {
	h.mu.Lock()
	h.lastErr = err
	h.mu.Unlock()
	h.logger.WarnContext(ctx, "Home content refresh failed, keeping previous state", "error", err)
}

// Sections returns the sections in display order.
func (h *HomeContent) Sections() []domain.HomeSection {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]domain.HomeSection, 0, len(h.order))
	for _, name := range h.order {
		out = append(out, domain.HomeSection{Section: name, Content: h.sections[name]})
	}
	return out
}

// Section returns the content of one section.
func (h *HomeContent) Section(name string) (map[string]any, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.sections[name]
	return c, ok
}

func (h *HomeContent) Err() error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.lastErr
}
