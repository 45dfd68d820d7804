package events

import "github.com/nfrund/propertyhub/internal/topicmgr"

const module = "catalog"

var (
	// PropertiesChangedTopic is emitted after a property is created, updated or deleted.
	PropertiesChangedTopic = topicmgr.Define(topicmgr.TopicConfig{
		Name:        TopicPropertiesChanged,
		Module:      module,
		Description: "A property changed; views refetch it, or the whole list when entityId is absent",
		Example:     `{"entityId":"p-102","action":"updated"}`,
		Fields:      []string{"entityId", "action"},
	})

	ProjectsChangedTopic = topicmgr.Define(topicmgr.TopicConfig{
		Name:        TopicProjectsChanged,
		Module:      module,
		Description: "A project changed; views refetch it, or the whole list when entityId is absent",
		Example:     `{"entityId":"pr-7","action":"created"}`,
		Fields:      []string{"entityId", "action"},
	})

	AgentsChangedTopic = topicmgr.Define(topicmgr.TopicConfig{
		Name:        TopicAgentsChanged,
		Module:      module,
		Description: "An agent changed; absent entityId means refetch all agents",
		Example:     `{"entityId":"7"}`,
		Fields:      []string{"entityId", "action"},
	})

	BuildersChangedTopic = topicmgr.Define(topicmgr.TopicConfig{
		Name:        TopicBuildersChanged,
		Module:      module,
		Description: "A builder changed; absent entityId means refetch all builders",
		Example:     `{"entityId":"b-3","action":"deleted"}`,
		Fields:      []string{"entityId", "action"},
	})

	// FavoritesChangedTopic is emitted when a visitor toggles a favorite.
	FavoritesChangedTopic = topicmgr.Define(topicmgr.TopicConfig{
		Name:        TopicFavoritesChanged,
		Module:      "favorites",
		Description: "An entity was added to or removed from the favorites",
		Example:     `{"entityType":"agent","entityId":"7","favorited":true}`,
		Fields:      []string{"entityType", "entityId", "favorited"},
	})

	// HomeContentChangedTopic is emitted when a home page section is edited.
	HomeContentChangedTopic = topicmgr.Define(topicmgr.TopicConfig{
		Name:        TopicHomeContentChanged,
		Module:      "content",
		Description: "A home page section has new content",
		Example:     `{"section":"hero","content":{"title":"Find your home"}}`,
		Fields:      []string{"section", "content"},
	})
)

// Topics returns every topic definition of the closed set.
func Topics() []topicmgr.Topic {
	return []topicmgr.Topic{
		AgentsChangedTopic,
		BuildersChangedTopic,
		FavoritesChangedTopic,
		HomeContentChangedTopic,
		ProjectsChangedTopic,
		PropertiesChangedTopic,
	}
}

// RegisterTopics adds the closed set to m.
func RegisterTopics(m *topicmgr.Manager) error {
	for _, t := range Topics() {
		if err := m.Register(t); err != nil {
			return err
		}
	}
	return nil
}
