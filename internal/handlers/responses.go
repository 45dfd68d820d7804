package handlers

import "github.com/nfrund/propertyhub/internal/domain"

// ErrorResponse is the standard format for API error responses.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ListResponse wraps a view's items. Stale is set when the last refresh
// failed and the items are the previously fetched state.
type ListResponse[T any] struct {
	Items []T  `json:"items"`
	Count int  `json:"count"`
	Stale bool `json:"stale,omitempty"`
}

func newListResponse[T any](items []T, err error) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Items: items, Count: len(items), Stale: err != nil}
}

// HomeResponse is the body of GET /api/home.
type HomeResponse struct {
	Sections []domain.HomeSection `json:"sections"`
	Stale    bool                 `json:"stale,omitempty"`
}

// FavoriteResponse reports the state of one favorite after a toggle.
type FavoriteResponse struct {
	EntityType string `json:"entityType"`
	EntityID   string `json:"entityId"`
	Favorited  bool   `json:"favorited"`
}

// NotificationsResponse is the body of GET /admin/api/notifications.
type NotificationsResponse struct {
	Items  []domain.Notification `json:"items"`
	Unread int                   `json:"unread"`
}

// TopicStatus describes one topic on /debug/bus.
type TopicStatus struct {
	Name        string `json:"name"`
	Module      string `json:"module,omitempty"`
	Description string `json:"description,omitempty"`
	Registered  bool   `json:"registered"`
	Subscribers int    `json:"subscribers"`
}
