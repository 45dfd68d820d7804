package topics

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/nfrund/propertyhub/internal/events"
	"github.com/nfrund/propertyhub/internal/topicmgr"
)

// Manager returns a manager holding every notification topic of the site.
func Manager() (*topicmgr.Manager, error) {
	m := topicmgr.NewManager()
	if err := events.RegisterTopics(m); err != nil {
		return nil, fmt.Errorf("register topics: %w", err)
	}
	return m, nil
}

// TopicDisplay represents a topic for display purposes
type TopicDisplay struct {
	Name        string          `json:"name"`
	Module      string          `json:"module"`
	Description string          `json:"description"`
	Fields      []string        `json:"fields"`
	Example     json.RawMessage `json:"example,omitempty"`
}

func display(topic topicmgr.Topic) TopicDisplay {
	d := TopicDisplay{
		Name:        topic.Name(),
		Module:      topic.Module(),
		Description: topic.Description(),
		Fields:      topic.Fields(),
	}
	if ex := topic.Example(); json.Valid([]byte(ex)) {
		d.Example = json.RawMessage(ex)
	}
	return d
}

// DisplayTopicsTable writes topics as an aligned table.
func DisplayTopicsTable(w io.Writer, topics []topicmgr.Topic) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "NAME\tMODULE\tFIELDS\tDESCRIPTION")
	fmt.Fprintln(tw, "----\t------\t------\t-----------")
	for _, topic := range topics {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			topic.Name(),
			topic.Module(),
			strings.Join(topic.Fields(), ","),
			truncateString(topic.Description(), 50))
	}
	return tw.Flush()
}

// DisplayTopicsJSON writes topics as {"topics": [...], "count": n}.
func DisplayTopicsJSON(w io.Writer, topics []topicmgr.Topic) error {
	out := struct {
		Topics []TopicDisplay `json:"topics"`
		Count  int            `json:"count"`
	}{Topics: make([]TopicDisplay, len(topics)), Count: len(topics)}
	for i, topic := range topics {
		out.Topics[i] = display(topic)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// DisplayTopicDetails writes one topic in the given format.
func DisplayTopicDetails(w io.Writer, topic topicmgr.Topic, format string) error {
	if format == "json" {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(display(topic))
	}

	fmt.Fprintf(w, "Name:        %s\n", topic.Name())
	fmt.Fprintf(w, "Module:      %s\n", topic.Module())
	fmt.Fprintf(w, "Description: %s\n", topic.Description())
	fmt.Fprintf(w, "Fields:      %s\n", strings.Join(topic.Fields(), ", "))
	if ex := topic.Example(); ex != "" {
		fmt.Fprintf(w, "Example:     %s\n", ex)
	}
	return nil
}

// truncateString truncates a string to maxLen characters, adding "..." if truncated
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return "..."
	}
	return s[:maxLen-3] + "..."
}
