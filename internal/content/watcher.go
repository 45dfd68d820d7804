package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fsnotify/fsnotify"

	"github.com/nfrund/propertyhub/internal/domain"
	"github.com/nfrund/propertyhub/internal/eventbus"
	"github.com/nfrund/propertyhub/internal/events"
)

// Watcher publishes home_content_changed whenever an override file changes.
type Watcher struct {
	store  *Store
	hub    *eventbus.Hub
	logger *slog.Logger
}

func NewWatcher(store *Store, hub *eventbus.Hub, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{store: store, hub: hub, logger: logger.With("component", "content_watcher")}
}

// Start watches the store directory until ctx is cancelled. The directory
// must exist on the OS filesystem.
func (w *Watcher) Start(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create content watcher: %w", err)
	}
	if err := watcher.Add(w.store.Dir()); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", w.store.Dir(), err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				w.logger.Debug("Content watcher stopped")
				return
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				w.Handle(ctx, evt)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				w.logger.Error("Content watcher error", "error", err)
			}
		}
	}()

	w.logger.Info("Watching content overrides", "dir", w.store.Dir())
	return nil
}

// Handle turns one filesystem event into a notification.
func (w *Watcher) Handle(ctx context.Context, evt fsnotify.Event) {
	section, ok := SectionOf(evt.Name)
	if !ok {
		return
	}

	ev := events.HomeContentChanged{Section: section}
	switch {
	case evt.Has(fsnotify.Write), evt.Has(fsnotify.Create):
		c, err := w.store.Get(section)
		if errors.Is(err, domain.ErrNotFound) {
			// Renamed away before we read it.
			return
		}
		if err != nil {
			w.logger.Warn("Ignoring unreadable override", "section", section, "error", err)
			return
		}
		ev.Content = c
	case evt.Has(fsnotify.Remove), evt.Has(fsnotify.Rename):
		// No content: views reload the section from the backend.
	default:
		return
	}

	w.logger.Info("Content override changed", "section", section, "op", evt.Op.String())
	if err := eventbus.Publish(ctx, w.hub, ev); err != nil {
		w.logger.Warn("Some views failed to apply content change", "section", section, "error", err)
	}
}
