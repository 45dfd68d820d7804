package topicmgr

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// Topic names are lowercase words joined by underscores: agents_changed.
	topicNamePattern  = regexp.MustCompile(`^[a-z][a-z0-9]*(_[a-z0-9]+)*$`)
	moduleNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
)

const maxTopicNameLength = 64

// ValidateName checks a topic name against the naming convention.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if len(name) > maxTopicNameLength {
		return fmt.Errorf("name too long (max %d characters)", maxTopicNameLength)
	}
	if !topicNamePattern.MatchString(name) {
		return fmt.Errorf("name %q must be lowercase words joined by underscores", name)
	}
	return nil
}

// ValidateDefinition checks every field of a topic definition.
func ValidateDefinition(topic Topic) error {
	if topic == nil {
		return fmt.Errorf("topic cannot be nil")
	}
	if err := ValidateName(topic.Name()); err != nil {
		return fmt.Errorf("invalid topic name: %w", err)
	}
	if !moduleNamePattern.MatchString(topic.Module()) {
		return fmt.Errorf("invalid module name %q", topic.Module())
	}
	if strings.TrimSpace(topic.Description()) == "" {
		return fmt.Errorf("topic description cannot be empty")
	}
	return nil
}
