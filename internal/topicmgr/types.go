package topicmgr

import (
	"errors"
	"time"
)

// Topic describes a registered notification topic.
type Topic interface {
	// Name returns the string key the topic is emitted under.
	Name() string

	// Module returns the module that owns the topic.
	Module() string

	// Description returns human-readable documentation.
	Description() string

	// Example returns a sample payload as JSON.
	Example() string

	// Fields returns the payload field names, in declaration order.
	Fields() []string
}

// TopicConfig holds configuration for defining a topic.
type TopicConfig struct {
	Name        string   `json:"name"`
	Module      string   `json:"module"`
	Description string   `json:"description"`
	Example     string   `json:"example"`
	Fields      []string `json:"fields"`
}

// definedTopic is the Topic produced by Define.
type definedTopic struct {
	cfg TopicConfig
}

var _ Topic = (*definedTopic)(nil)

// Define creates a topic from its configuration. It does not register it.
func Define(cfg TopicConfig) Topic {
	fields := make([]string, len(cfg.Fields))
	copy(fields, cfg.Fields)
	cfg.Fields = fields
	return &definedTopic{cfg: cfg}
}

func (t *definedTopic) Name() string        { return t.cfg.Name }
func (t *definedTopic) Module() string      { return t.cfg.Module }
func (t *definedTopic) Description() string { return t.cfg.Description }
func (t *definedTopic) Example() string     { return t.cfg.Example }
func (t *definedTopic) String() string      { return t.cfg.Name }

// Fields returns a copy of the payload field names.
func (t *definedTopic) Fields() []string {
	out := make([]string, len(t.cfg.Fields))
	copy(out, t.cfg.Fields)
	return out
}

// Entry is a registered topic together with its registration time.
type Entry struct {
	Topic        Topic     `json:"-"`
	RegisteredAt time.Time `json:"registered_at"`
}

// TopicError represents structured errors in the topic catalog.
type TopicError struct {
	Type    ErrorType `json:"type"`
	Topic   string    `json:"topic"`
	Message string    `json:"message"`
	Cause   error     `json:"cause,omitempty"`
}

// ErrorType classifies a TopicError.
type ErrorType string

const (
	ErrorTopicNotFound         ErrorType = "topic_not_found"
	ErrorDuplicateRegistration ErrorType = "duplicate_registration"
	ErrorValidationFailed      ErrorType = "validation_failed"
)

// Error implements the error interface
func (e *TopicError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *TopicError) Unwrap() error {
	return e.Cause
}

// IsErrorType reports whether err is a TopicError of the given type.
func IsErrorType(err error, typ ErrorType) bool {
	var te *TopicError
	return errors.As(err, &te) && te.Type == typ
}
