package handlers

import (
	"net/http"
	"slices"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/nfrund/propertyhub/internal/eventbus"
	"github.com/nfrund/propertyhub/internal/topicmgr"
)

// BusHandler reports hub state on /debug/bus.
type BusHandler struct {
	hub    *eventbus.Hub
	topics *topicmgr.Manager
}

// NewBusHandler creates a BusHandler. topics may be nil.
func NewBusHandler(hub *eventbus.Hub, topics *topicmgr.Manager) *BusHandler {
	return &BusHandler{hub: hub, topics: topics}
}

// Status lists every registered topic and every topic with subscribers.
func (h *BusHandler) Status(c echo.Context) error {
	counts := h.hub.Counts()
	var out []TopicStatus

	if h.topics != nil {
		for _, t := range h.topics.List() {
			out = append(out, TopicStatus{
				Name:        t.Name(),
				Module:      t.Module(),
				Description: t.Description(),
				Registered:  true,
				Subscribers: counts[t.Name()],
			})
			delete(counts, t.Name())
		}
	}
	for name, n := range counts {
		out = append(out, TopicStatus{Name: name, Subscribers: n})
	}
	slices.SortFunc(out, func(a, b TopicStatus) int { return strings.Compare(a.Name, b.Name) })
	if out == nil {
		out = []TopicStatus{}
	}
	return c.JSON(http.StatusOK, map[string]any{"topics": out})
}
