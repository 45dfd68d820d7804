package views

import (
	"context"
	"errors"
	"log/slog"

	"github.com/nfrund/propertyhub/internal/domain"
	"github.com/nfrund/propertyhub/internal/eventbus"
	"github.com/nfrund/propertyhub/internal/events"
)

type (
	PropertyList = Collection[domain.Property, events.PropertiesChanged]
	ProjectList  = Collection[domain.Project, events.ProjectsChanged]
	AgentList    = Collection[domain.Agent, events.AgentsChanged]
	BuilderList  = Collection[domain.Builder, events.BuildersChanged]
)

// Sources groups what the views read from.
type Sources struct {
	Properties    Fetcher[domain.Property]
	Projects      Fetcher[domain.Project]
	Agents        Fetcher[domain.Agent]
	Builders      Fetcher[domain.Builder]
	Home          HomeSource
	Overrides     OverrideSource
	Favorites     FavoriteSource
	Notifications NotificationSource
}

// Set is every view of the site.
type Set struct {
	Properties *PropertyList
	Projects   *ProjectList
	Agents     *AgentList
	Builders   *BuilderList
	Home       *HomeContent
	Favorites  *Favorites
}

type mountable interface {
	Mount(ctx context.Context, hub *eventbus.Hub) error
	Unmount(hub *eventbus.Hub)
}

// NewSet creates unmounted views over src.
func NewSet(src Sources, logger *slog.Logger) *Set {
	return &Set{
		Properties: NewCollection[domain.Property, events.PropertiesChanged]("properties", src.Properties, logger),
		Projects:   NewCollection[domain.Project, events.ProjectsChanged]("projects", src.Projects, logger),
		Agents:     NewCollection[domain.Agent, events.AgentsChanged]("agents", src.Agents, logger),
		Builders:   NewCollection[domain.Builder, events.BuildersChanged]("builders", src.Builders, logger),
		Home:       NewHomeContent(src.Home, src.Overrides, logger),
		Favorites:  NewFavorites(src.Favorites, logger),
	}
}

func (s *Set) all() []mountable {
	return []mountable{s.Properties, s.Projects, s.Agents, s.Builders, s.Home, s.Favorites}
}

// Mount mounts every view. All views are subscribed even if some initial
// loads fail; the joined load errors are returned.
func (s *Set) Mount(ctx context.Context, hub *eventbus.Hub) error {
	var errs []error
	for _, v := range s.all() {
		if err := v.Mount(ctx, hub); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Unmount unsubscribes every view.
func (s *Set) Unmount(hub *eventbus.Hub) {
	for _, v := range s.all() {
		v.Unmount(hub)
	}
}
