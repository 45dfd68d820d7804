// Package events defines the closed set of change notifications exchanged
// over the hub. Each kind owns its topic and carries a typed payload.
package events

import "github.com/nfrund/propertyhub/internal/eventbus"

// Action hints at what happened to an entity. It is optional.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// Topic names.
const (
	TopicPropertiesChanged  = "properties_changed"
	TopicProjectsChanged    = "projects_changed"
	TopicAgentsChanged      = "agents_changed"
	TopicBuildersChanged    = "builders_changed"
	TopicHomeContentChanged = "home_content_changed"
	TopicFavoritesChanged   = "favorites_changed"
)

// EntityChange is implemented by the catalog change events. An empty
// EntityID means every entity of the kind must be refetched.
type EntityChange interface {
	eventbus.Event
	Entity() string
	Hint() Action
}

// PropertiesChanged reports a change to one or all properties.
type PropertiesChanged struct {
	EntityID string `json:"entityId,omitempty"`
	Action   Action `json:"action,omitempty"`
}

func (PropertiesChanged) Topic() string    { return TopicPropertiesChanged }
func (e PropertiesChanged) Entity() string { return e.EntityID }
func (e PropertiesChanged) Hint() Action   { return e.Action }

// ProjectsChanged reports a change to one or all projects.
type ProjectsChanged struct {
	EntityID string `json:"entityId,omitempty"`
	Action   Action `json:"action,omitempty"`
}

func (ProjectsChanged) Topic() string    { return TopicProjectsChanged }
func (e ProjectsChanged) Entity() string { return e.EntityID }
func (e ProjectsChanged) Hint() Action   { return e.Action }

// AgentsChanged reports a change to one or all agents.
type AgentsChanged struct {
	EntityID string `json:"entityId,omitempty"`
	Action   Action `json:"action,omitempty"`
}

func (AgentsChanged) Topic() string    { return TopicAgentsChanged }
func (e AgentsChanged) Entity() string { return e.EntityID }
func (e AgentsChanged) Hint() Action   { return e.Action }

// BuildersChanged reports a change to one or all builders.
type BuildersChanged struct {
	EntityID string `json:"entityId,omitempty"`
	Action   Action `json:"action,omitempty"`
}

func (BuildersChanged) Topic() string    { return TopicBuildersChanged }
func (e BuildersChanged) Entity() string { return e.EntityID }
func (e BuildersChanged) Hint() Action   { return e.Action }

// FavoritesChanged reports that an entity was added to or removed from a
// visitor's favorites. Visitor is empty when the change is not tied to one
// visitor. It is session-derived and never encoded, so relayed frames do not
// identify the visitor.
type FavoritesChanged struct {
	Visitor    string `json:"-"`
	EntityType string `json:"entityType"`
	EntityID   string `json:"entityId"`
	Favorited  bool   `json:"favorited"`
}

func (FavoritesChanged) Topic() string { return TopicFavoritesChanged }

// HomeContentChanged carries the new content of one home page section. The
// shape of Content depends on Section.
type HomeContentChanged struct {
	Section string         `json:"section"`
	Content map[string]any `json:"content"`
}

func (HomeContentChanged) Topic() string { return TopicHomeContentChanged }

var (
	_ EntityChange   = PropertiesChanged{}
	_ EntityChange   = ProjectsChanged{}
	_ EntityChange   = AgentsChanged{}
	_ EntityChange   = BuildersChanged{}
	_ eventbus.Event = FavoritesChanged{}
	_ eventbus.Event = HomeContentChanged{}
)

// Kinds returns the zero value of every event kind, in topic order.
func Kinds() []eventbus.Event {
	return []eventbus.Event{
		AgentsChanged{},
		BuildersChanged{},
		FavoritesChanged{},
		HomeContentChanged{},
		ProjectsChanged{},
		PropertiesChanged{},
	}
}

// ForEntityType returns the change event for a catalog entity type
// ("property", "project", "agent" or "builder").
func ForEntityType(entityType, id string, action Action) (EntityChange, bool) {
	switch entityType {
	case "property":
		return PropertiesChanged{EntityID: id, Action: action}, true
	case "project":
		return ProjectsChanged{EntityID: id, Action: action}, true
	case "agent":
		return AgentsChanged{EntityID: id, Action: action}, true
	case "builder":
		return BuildersChanged{EntityID: id, Action: action}, true
	default:
		return nil, false
	}
}
