package views

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/propertyhub/internal/domain"
	"github.com/nfrund/propertyhub/internal/eventbus"
	"github.com/nfrund/propertyhub/internal/events"
)

type fakeHome struct {
	sections []domain.HomeSection
	err      error
	calls    int
	onList   func()
}

func (f *fakeHome) ListHomeContent(context.Context) ([]domain.HomeSection, error) {
	f.calls++
	sections, err := f.sections, f.err
	if hook := f.onList; hook != nil {
		f.onList = nil
		hook()
	}
	return sections, err
}

type fakeOverrides struct {
	content map[string]map[string]any
	err     error
}

func (f *fakeOverrides) Load(context.Context) (map[string]map[string]any, error) {
	return f.content, f.err
}

func sectionNames(sections []domain.HomeSection) []string {
	out := make([]string, 0, len(sections))
	for _, s := range sections {
		out = append(out, s.Section)
	}
	return out
}

func TestHomeContentMergesOverrides(t *testing.T) {
	remote := &fakeHome{sections: []domain.HomeSection{
		{Section: "hero", Content: map[string]any{"title": "Backend hero"}},
		{Section: "featured", Content: map[string]any{"ids": []any{"p1"}}},
	}}
	local := &fakeOverrides{content: map[string]map[string]any{
		"hero":   {"title": "Local hero"},
		"banner": {"text": "Open house on Sunday"},
	}}

	view := NewHomeContent(remote, local, discardLogger())
	hub := eventbus.New(eventbus.WithLogger(discardLogger()))
	require.NoError(t, view.Mount(context.Background(), hub))

	assert.Equal(t, []string{"hero", "featured", "banner"}, sectionNames(view.Sections()))
	hero, ok := view.Section("hero")
	require.True(t, ok)
	assert.Equal(t, "Local hero", hero["title"])
}

func TestHomeContentOverrideFailureServesBackend(t *testing.T) {
	remote := &fakeHome{sections: []domain.HomeSection{{Section: "hero", Content: map[string]any{"title": "x"}}}}
	view := NewHomeContent(remote, &fakeOverrides{err: errors.New("disk")}, discardLogger())

	require.NoError(t, view.Reload(context.Background()))
	assert.Equal(t, []string{"hero"}, sectionNames(view.Sections()))
}

func TestHomeContentEventReplacesSection(t *testing.T) {
	ctx := context.Background()
	remote := &fakeHome{sections: []domain.HomeSection{{Section: "hero", Content: map[string]any{"title": "Old"}}}}
	view := NewHomeContent(remote, nil, discardLogger())
	hub := eventbus.New(eventbus.WithLogger(discardLogger()))
	require.NoError(t, view.Mount(ctx, hub))

	require.NoError(t, eventbus.Publish(ctx, hub, events.HomeContentChanged{
		Section: "hero",
		Content: map[string]any{"title": "New"},
	}))
	hero, _ := view.Section("hero")
	assert.Equal(t, "New", hero["title"])
	assert.Equal(t, 1, remote.calls, "content in the event needs no refetch")

	require.NoError(t, eventbus.Publish(ctx, hub, events.HomeContentChanged{
		Section: "testimonials",
		Content: map[string]any{"quotes": []any{}},
	}))
	assert.Equal(t, []string{"hero", "testimonials"}, sectionNames(view.Sections()))

	require.NoError(t, eventbus.Publish(ctx, hub, events.HomeContentChanged{Section: "hero"}))
	assert.Equal(t, 2, remote.calls)
	hero, _ = view.Section("hero")
	assert.Equal(t, "Old", hero["title"])
}

func TestHomeContentKeepsStateOnFailure(t *testing.T) {
	ctx := context.Background()
	remote := &fakeHome{sections: []domain.HomeSection{{Section: "hero", Content: map[string]any{"title": "Kept"}}}}
	view := NewHomeContent(remote, nil, discardLogger())
	require.NoError(t, view.Reload(ctx))

	remote.err = domain.ErrBackendUnavailable
	assert.Error(t, view.Reload(ctx))
	assert.ErrorIs(t, view.Err(), domain.ErrBackendUnavailable)

	hero, ok := view.Section("hero")
	require.True(t, ok)
	assert.Equal(t, "Kept", hero["title"])
}

func TestHomeContentReloadKeepsSectionChangedDuringFetch(t *testing.T) {
	ctx := context.Background()
	remote := &fakeHome{sections: []domain.HomeSection{{Section: "hero", Content: map[string]any{"title": "Old"}}}}
	view := NewHomeContent(remote, nil, discardLogger())
	hub := eventbus.New(eventbus.WithLogger(discardLogger()))
	require.NoError(t, view.Mount(ctx, hub))

	remote.onList = func() {
		require.NoError(t, eventbus.Publish(ctx, hub, events.HomeContentChanged{
			Section: "hero",
			Content: map[string]any{"title": "New"},
		}))
	}
	require.NoError(t, view.Reload(ctx))

	hero, ok := view.Section("hero")
	require.True(t, ok)
	assert.Equal(t, "New", hero["title"])
	assert.Equal(t, []string{"hero"}, sectionNames(view.Sections()))
}
