package topicmgr

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// Manager is the catalog of registered topics.
type Manager struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// NewManager creates an empty topic catalog.
func NewManager() *Manager {
	return &Manager{
		entries: make(map[string]*Entry),
	}
}

// Register validates a topic and adds it to the catalog.
func (m *Manager) Register(topic Topic) error {
	if err := ValidateDefinition(topic); err != nil {
		name := ""
		if topic != nil {
			name = topic.Name()
		}
		return &TopicError{
			Type:    ErrorValidationFailed,
			Topic:   name,
			Message: "topic validation failed",
			Cause:   err,
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	name := topic.Name()
	if _, exists := m.entries[name]; exists {
		return &TopicError{
			Type:    ErrorDuplicateRegistration,
			Topic:   name,
			Message: fmt.Sprintf("topic already registered: %s", name),
		}
	}

	m.entries[name] = &Entry{
		Topic:        topic,
		RegisteredAt: time.Now(),
	}
	return nil
}

// MustRegister registers a topic and panics on error (for static initialization)
func (m *Manager) MustRegister(topic Topic) {
	if err := m.Register(topic); err != nil {
		panic(fmt.Sprintf("failed to register topic %s: %v", topic.Name(), err))
	}
}

// Get retrieves a topic by name.
func (m *Manager) Get(name string) (Topic, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[name]
	if !ok {
		return nil, false
	}
	return entry.Topic, true
}

// Lookup is Get with a TopicError for unknown names.
func (m *Manager) Lookup(name string) (Topic, error) {
	topic, ok := m.Get(name)
	if !ok {
		return nil, &TopicError{
			Type:    ErrorTopicNotFound,
			Topic:   name,
			Message: fmt.Sprintf("topic not found: %s", name),
		}
	}
	return topic, nil
}

// Has reports whether a topic is registered.
func (m *Manager) Has(name string) bool {
	_, ok := m.Get(name)
	return ok
}

// List returns all registered topics sorted by name.
func (m *Manager) List() []Topic {
	m.mu.RLock()
	defer m.mu.RUnlock()

	topics := make([]Topic, 0, len(m.entries))
	for _, entry := range m.entries {
		topics = append(topics, entry.Topic)
	}
	sortTopics(topics)
	return topics
}

// ListByModule returns the topics owned by module, sorted by name.
func (m *Manager) ListByModule(module string) []Topic {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var topics []Topic
	for _, entry := range m.entries {
		if entry.Topic.Module() == module {
			topics = append(topics, entry.Topic)
		}
	}
	sortTopics(topics)
	return topics
}

// Modules returns the distinct module names, sorted.
func (m *Manager) Modules() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, entry := range m.entries {
		seen[entry.Topic.Module()] = struct{}{}
	}
	modules := make([]string, 0, len(seen))
	for module := range seen {
		modules = append(modules, module)
	}
	sort.Strings(modules)
	return modules
}

// Count returns the number of registered topics.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func sortTopics(topics []Topic) {
	sort.Slice(topics, func(i, j int) bool {
		return topics[i].Name() < topics[j].Name()
	})
}
