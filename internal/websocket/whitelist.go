package websocket

import (
	"errors"
	"fmt"
	"slices"
)

// ErrTopicNotAllowed is returned when a browser asks for a topic it may not
// follow.
var ErrTopicNotAllowed = errors.New("topic not allowed")

// topicWhitelist holds the hub topics browsers may follow. It is immutable
// after construction.
type topicWhitelist struct {
	allowed []string
}

func newTopicWhitelist(topics ...string) *topicWhitelist {
	allowed := make([]string, 0, len(topics))
	for _, t := range topics {
		if t != "" && !slices.Contains(allowed, t) {
			allowed = append(allowed, t)
		}
	}
	slices.Sort(allowed)
	return &topicWhitelist{allowed: allowed}
}

func (w *topicWhitelist) IsAllowed(topic string) bool {
	_, found := slices.BinarySearch(w.allowed, topic)
	return found
}

// Check returns an error naming the first topic not allowed.
func (w *topicWhitelist) Check(topics []string) error {
	for _, t := range topics {
		if !w.IsAllowed(t) {
			return fmt.Errorf("%w: %q", ErrTopicNotAllowed, t)
		}
	}
	return nil
}

func (w *topicWhitelist) All() []string {
	return slices.Clone(w.allowed)
}
