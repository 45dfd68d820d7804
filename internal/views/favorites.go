package views

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/nfrund/propertyhub/internal/domain"
	"github.com/nfrund/propertyhub/internal/eventbus"
	"github.com/nfrund/propertyhub/internal/events"
)

// FavoriteSource reads a visitor's favorites.
type FavoriteSource interface {
	ListFavorites(ctx context.Context, visitor string) ([]domain.Favorite, error)
}

// Favorites caches the favorite set of each visitor. Sets are loaded lazily
// and patched by favorites_changed events.
type Favorites struct {
	source FavoriteSource
	logger *slog.Logger
	cb     *eventbus.Callback

	mu   sync.RWMutex
	sets map[string]map[domain.Favorite]struct{}
}

func NewFavorites(source FavoriteSource, logger *slog.Logger) *Favorites {
	if logger == nil {
		logger = slog.Default()
	}
	f := &Favorites{
		source: source,
		logger: logger.With("view", "favorites"),
		sets:   make(map[string]map[domain.Favorite]struct{}),
	}
	f.cb = eventbus.Listen("favorites", f.handle)
	return f
}

func (f *Favorites) Mount(_ context.Context, hub *eventbus.Hub) error {
	eventbus.SubscribeTo[events.FavoritesChanged](hub, f.cb)
	return nil
}

func (f *Favorites) Unmount(hub *eventbus.Hub) {
	eventbus.UnsubscribeFrom[events.FavoritesChanged](hub, f.cb)
}

func (f *Favorites) handle(_ context.Context, ev events.FavoritesChanged) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if ev.Visitor == "" {
		// No owner: every cached set may be stale.
		clear(f.sets)
		return nil
	}
	set, ok := f.sets[ev.Visitor]
	if !ok {
		return nil
	}
	fav := domain.Favorite{EntityType: ev.EntityType, EntityID: ev.EntityID}
	if ev.Favorited {
		set[fav] = struct{}{}
	} else {
		delete(set, fav)
	}
	return nil
}

// List returns the visitor's favorites, loading them on first use.
func (f *Favorites) List(ctx context.Context, visitor string) ([]domain.Favorite, error) {
	set, err := f.set(ctx, visitor)
	if err != nil {
		return nil, err
	}

	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]domain.Favorite, 0, len(set))
	for fav := range set {
		out = append(out, fav)
	}
	sortFavorites(out)
	return out, nil
}

// Has reports whether the visitor favorited the entity.
func (f *Favorites) Has(ctx context.Context, visitor string, fav domain.Favorite) (bool, error) {
	set, err := f.set(ctx, visitor)
	if err != nil {
		return false, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := set[fav]
	return ok, nil
}

func (f *Favorites) set(ctx context.Context, visitor string) (map[domain.Favorite]struct{}, error) {
	f.mu.RLock()
	set, ok := f.sets[visitor]
	f.mu.RUnlock()
	if ok {
		return set, nil
	}

	favs, err := f.source.ListFavorites(ctx, visitor)
	if err != nil {
		f.logger.WarnContext(ctx, "Failed to load favorites", "visitor", visitor, "error", err)
		return nil, err
	}
	set = make(map[domain.Favorite]struct{}, len(favs))
	for _, fav := range favs {
		set[fav] = struct{}{}
	}

	f.mu.Lock()
	if existing, ok := f.sets[visitor]; ok {
		set = existing
	} else {
		f.sets[visitor] = set
	}
	f.mu.Unlock()
	return set, nil
}

func sortFavorites(favs []domain.Favorite) {
	slices.SortFunc(favs, func(a, b domain.Favorite) int {
		return cmp.Or(
			strings.Compare(a.EntityType, b.EntityType),
			strings.Compare(a.EntityID, b.EntityID),
		)
	})
}
