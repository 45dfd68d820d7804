package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nfrund/propertyhub/internal/domain"
	"github.com/nfrund/propertyhub/internal/eventbus"
	"github.com/nfrund/propertyhub/internal/events"
	"github.com/nfrund/propertyhub/internal/middleware"
	"github.com/nfrund/propertyhub/internal/pages"
	"github.com/nfrund/propertyhub/internal/rendering"
	"github.com/nfrund/propertyhub/internal/session"
	"github.com/nfrund/propertyhub/internal/views"
)

// AdminBackend is the part of the backend used by the admin surface.
type AdminBackend interface {
	Login(ctx context.Context, creds domain.Credentials) (string, error)
	ListInquiries(ctx context.Context, token string) ([]domain.Inquiry, error)
	UpdateHomeContent(ctx context.Context, token string, section domain.HomeSection) (domain.HomeSection, error)
}

// AdminHandler serves login and the admin API.
type AdminHandler struct {
	backend  AdminBackend
	hub      *eventbus.Hub
	poller   *views.NotificationPoller
	renderer rendering.Renderer
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(backend AdminBackend, hub *eventbus.Hub, poller *views.NotificationPoller, renderer rendering.Renderer) *AdminHandler {
	return &AdminHandler{backend: backend, hub: hub, poller: poller, renderer: renderer}
}

// Login serves POST /admin/login. The backend issues the token; it is kept
// in the session and handed to the notification poller.
func (h *AdminHandler) Login(c echo.Context) error {
	var creds domain.Credentials
	if err := bind(c, &creds); err != nil {
		return err
	}
	token, err := h.backend.Login(c.Request().Context(), creds)
	if err != nil {
		return err
	}
	if err := session.SetToken(c, token); err != nil {
		return err
	}
	h.poller.SetToken(token)
	middleware.FromContext(c.Request().Context()).Info("Admin logged in", "email", creds.Email)
	return c.NoContent(http.StatusNoContent)
}

// Logout serves POST /admin/logout.
func (h *AdminHandler) Logout(c echo.Context) error {
	if err := session.ClearToken(c); err != nil {
		return err
	}
	h.poller.SetToken("")
	return c.NoContent(http.StatusNoContent)
}

// UpdateHomeSection serves PUT /admin/api/home/:section and announces the
// new content on home_content_changed.
func (h *AdminHandler) UpdateHomeSection(c echo.Context) error {
	name := c.Param("section")
	if !domain.ValidSection(name) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid section name")
	}
	var req HomeSectionRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()
	saved, err := h.backend.UpdateHomeContent(ctx, middleware.Token(c), domain.HomeSection{Section: name, Content: req.Content})
	if err != nil {
		return err
	}
	if saved.Section == "" {
		saved.Section = name
	}
	if saved.Content == nil {
		saved.Content = req.Content
	}
	notify(ctx, h.hub, events.HomeContentChanged{Section: saved.Section, Content: saved.Content})
	return c.JSON(http.StatusOK, saved)
}

// Inquiries serves GET /admin/api/inquiries.
func (h *AdminHandler) Inquiries(c echo.Context) error {
	items, err := h.backend.ListInquiries(c.Request().Context(), middleware.Token(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newListResponse(items, nil))
}

// Notifications serves GET /admin/api/notifications from the poller. The
// first request after login polls synchronously.
func (h *AdminHandler) Notifications(c echo.Context) error {
	h.poller.SetToken(middleware.Token(c))
	if h.poller.LastPoll().IsZero() {
		h.poller.Poll(c.Request().Context())
	}
	items := h.poller.Notifications()
	if err := h.poller.Err(); err != nil && len(items) == 0 {
		return err
	}
	return c.JSON(http.StatusOK, NotificationsResponse{Items: items, Unread: h.poller.Unread()})
}

// NotificationBadge serves GET /admin/fragments/notifications.
func (h *AdminHandler) NotificationBadge(c echo.Context) error {
	return h.renderer.RenderPage(c, http.StatusOK, pages.NotificationBadge(h.poller.Unread()))
}

// EntityStore writes one catalog collection. *backend.Resource satisfies it.
type EntityStore[T any] interface {
	Create(ctx context.Context, token string, in *T) (T, error)
	Update(ctx context.Context, token, id string, in *T) (T, error)
	Delete(ctx context.Context, token, id string) error
}

// EntityAdmin serves the CRUD routes of one entity type. Every successful
// mutation publishes the entity's change event with its id and action.
type EntityAdmin[T domain.Entity] struct {
	entityType string
	store      EntityStore[T]
	hub        *eventbus.Hub
}

// NewEntityAdmin creates the admin routes for entityType ("property", ...).
func NewEntityAdmin[T domain.Entity](entityType string, store EntityStore[T], hub *eventbus.Hub) *EntityAdmin[T] {
	return &EntityAdmin[T]{entityType: entityType, store: store, hub: hub}
}

// Register mounts POST /, PUT /:id and DELETE /:id on g.
func (a *EntityAdmin[T]) Register(g *echo.Group) {
	g.POST("", a.Create)
	g.PUT("/:id", a.Update)
	g.DELETE("/:id", a.Delete)
}

func (a *EntityAdmin[T]) Create(c echo.Context) error {
	var in T
	if err := bind(c, &in); err != nil {
		return err
	}
	ctx := c.Request().Context()
	out, err := a.store.Create(ctx, middleware.Token(c), &in)
	if err != nil {
		return err
	}
	a.announce(ctx, out.EntityID(), events.ActionCreated)
	return c.JSON(http.StatusCreated, out)
}

func (a *EntityAdmin[T]) Update(c echo.Context) error {
	var in T
	if err := bind(c, &in); err != nil {
		return err
	}
	ctx := c.Request().Context()
	id := c.Param("id")
	out, err := a.store.Update(ctx, middleware.Token(c), id, &in)
	if err != nil {
		return err
	}
	a.announce(ctx, id, events.ActionUpdated)
	return c.JSON(http.StatusOK, out)
}

func (a *EntityAdmin[T]) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")
	if err := a.store.Delete(ctx, middleware.Token(c), id); err != nil {
		return err
	}
	a.announce(ctx, id, events.ActionDeleted)
	return c.NoContent(http.StatusNoContent)
}

// announce publishes the change event. An empty id (a backend that echoes no
// id on create) makes views refetch the whole collection.
func (a *EntityAdmin[T]) announce(ctx context.Context, id string, action events.Action) {
	ev, ok := events.ForEntityType(a.entityType, id, action)
	if !ok {
		middleware.FromContext(ctx).Error("No change event for entity type", "entity_type", a.entityType)
		return
	}
	notify(ctx, a.hub, ev)
}
