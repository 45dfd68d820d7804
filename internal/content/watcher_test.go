package content

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/propertyhub/internal/eventbus"
	"github.com/nfrund/propertyhub/internal/events"
)

type captured struct {
	mu     sync.Mutex
	events []events.HomeContentChanged
}

func (c *captured) listen(hub *eventbus.Hub) {
	eventbus.SubscribeTo[events.HomeContentChanged](hub, eventbus.Listen("capture",
		func(_ context.Context, ev events.HomeContentChanged) error {
			c.mu.Lock()
			defer c.mu.Unlock()
			c.events = append(c.events, ev)
			return nil
		}))
}

func (c *captured) all() []events.HomeContentChanged {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]events.HomeContentChanged(nil), c.events...)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHandleWriteEmitsContent(t *testing.T) {
	hub := eventbus.New(eventbus.WithLogger(quietLogger()))
	got := &captured{}
	got.listen(hub)

	store := NewStore(afero.NewMemMapFs(), "/content")
	require.NoError(t, store.Save("hero", map[string]any{"title": "Spring sale"}))
	w := NewWatcher(store, hub, quietLogger())

	w.Handle(context.Background(), fsnotify.Event{Name: "/content/hero.json", Op: fsnotify.Write})

	evs := got.all()
	require.Len(t, evs, 1)
	assert.Equal(t, "hero", evs[0].Section)
	assert.Equal(t, "Spring sale", evs[0].Content["title"])
}

func TestHandleRemoveEmitsWithoutContent(t *testing.T) {
	hub := eventbus.New(eventbus.WithLogger(quietLogger()))
	got := &captured{}
	got.listen(hub)
	w := NewWatcher(NewStore(afero.NewMemMapFs(), "/content"), hub, quietLogger())

	w.Handle(context.Background(), fsnotify.Event{Name: "/content/hero.json", Op: fsnotify.Remove})

	evs := got.all()
	require.Len(t, evs, 1)
	assert.Equal(t, "hero", evs[0].Section)
	assert.Nil(t, evs[0].Content)
}

func TestHandleIgnoresOtherFiles(t *testing.T) {
	hub := eventbus.New(eventbus.WithLogger(quietLogger()))
	got := &captured{}
	got.listen(hub)
	w := NewWatcher(NewStore(afero.NewMemMapFs(), "/content"), hub, quietLogger())

	ctx := context.Background()
	w.Handle(ctx, fsnotify.Event{Name: "/content/hero.json.tmp", Op: fsnotify.Write})
	w.Handle(ctx, fsnotify.Event{Name: "/content/readme.md", Op: fsnotify.Create})
	w.Handle(ctx, fsnotify.Event{Name: "/content/hero.json", Op: fsnotify.Chmod})
	w.Handle(ctx, fsnotify.Event{Name: "/content/gone.json", Op: fsnotify.Write})

	assert.Empty(t, got.all())
}

func TestWatcherReactsToRealFiles(t *testing.T) {
	dir := t.TempDir()
	hub := eventbus.New(eventbus.WithLogger(quietLogger()))
	got := &captured{}
	got.listen(hub)

	store := NewStore(afero.NewOsFs(), dir)
	w := NewWatcher(store, hub, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))

	require.NoError(t, store.Save("hero", map[string]any{"title": "Live"}))

	require.Eventually(t, func() bool {
		for _, ev := range got.all() {
			if ev.Section == "hero" && ev.Content["title"] == "Live" {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)
	assert.FileExists(t, filepath.Join(dir, "hero.json"))
}

func TestWatcherStartMissingDir(t *testing.T) {
	hub := eventbus.New(eventbus.WithLogger(quietLogger()))
	w := NewWatcher(NewStore(afero.NewOsFs(), filepath.Join(t.TempDir(), "missing")), hub, quietLogger())
	assert.Error(t, w.Start(context.Background()))
}
