package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	g "maragu.dev/gomponents"

	"github.com/nfrund/propertyhub/internal/domain"
	"github.com/nfrund/propertyhub/internal/eventbus"
	"github.com/nfrund/propertyhub/internal/events"
	"github.com/nfrund/propertyhub/internal/middleware"
	"github.com/nfrund/propertyhub/internal/pages"
	"github.com/nfrund/propertyhub/internal/rendering"
	"github.com/nfrund/propertyhub/internal/session"
	"github.com/nfrund/propertyhub/internal/views"
)

// SiteBackend is the part of the backend the public site writes to.
type SiteBackend interface {
	CreateInquiry(ctx context.Context, in domain.Inquiry) (domain.Inquiry, error)
	AddFavorite(ctx context.Context, visitor string, fav domain.Favorite) error
	RemoveFavorite(ctx context.Context, visitor string, fav domain.Favorite) error
}

// SiteHandler serves the public pages and API from the mounted views.
type SiteHandler struct {
	views    *views.Set
	backend  SiteBackend
	hub      *eventbus.Hub
	renderer rendering.Renderer
}

// NewSiteHandler creates a SiteHandler.
func NewSiteHandler(v *views.Set, backend SiteBackend, hub *eventbus.Hub, renderer rendering.Renderer) *SiteHandler {
	return &SiteHandler{views: v, backend: backend, hub: hub, renderer: renderer}
}

// HomePage renders GET /.
func (h *SiteHandler) HomePage(c echo.Context) error {
	data := pages.HomeData{
		Lang:       rendering.LanguageFor(c.Request().Header.Get("Accept-Language")),
		Prefs:      session.Preferences(c),
		Sections:   h.views.Home.Sections(),
		Properties: h.views.Properties.Items(),
		Projects:   h.views.Projects.Items(),
		Agents:     h.views.Agents.Items(),
		Builders:   h.views.Builders.Items(),
		Favorited:  h.favorited(c),
	}
	return h.renderer.RenderPage(c, http.StatusOK, pages.Home(data))
}

// Fragment renders GET /fragments/:view, the htmx refresh of one section.
func (h *SiteHandler) Fragment(c echo.Context) error {
	var node g.Node
	switch c.Param("view") {
	case "home":
		node = pages.HomeSections(h.views.Home.Sections())
	case "properties":
		lang := rendering.LanguageFor(c.Request().Header.Get("Accept-Language"))
		node = pages.PropertyList(lang, h.views.Properties.Items(), h.favorited(c))
	case "projects":
		node = pages.ProjectList(h.views.Projects.Items(), h.favorited(c))
	case "agents":
		node = pages.AgentList(h.views.Agents.Items(), h.favorited(c))
	case "builders":
		node = pages.BuilderList(h.views.Builders.Items(), h.favorited(c))
	default:
		return echo.NewHTTPError(http.StatusNotFound, "unknown fragment")
	}
	return h.renderer.RenderPage(c, http.StatusOK, node)
}

// favorited snapshots the visitor's favorites for one render. A failed load
// renders every entity as not favorited.
func (h *SiteHandler) favorited(c echo.Context) pages.Favorited {
	ctx := c.Request().Context()
	visitor, err := session.VisitorID(c)
	if err != nil {
		return nil
	}
	favs, err := h.views.Favorites.List(ctx, visitor)
	if err != nil {
		middleware.FromContext(ctx).Warn("Rendering without favorites", "error", err)
		return nil
	}
	set := make(map[domain.Favorite]bool, len(favs))
	for _, f := range favs {
		set[f] = true
	}
	return func(f domain.Favorite) bool { return set[f] }
}

// List serves GET /api/<collection>.
func List[T domain.Entity, E events.EntityChange](list *views.Collection[T, E]) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, newListResponse(list.Items(), list.Err()))
	}
}

// Get serves GET /api/<collection>/:id from the view state.
func Get[T domain.Entity, E events.EntityChange](list *views.Collection[T, E]) echo.HandlerFunc {
	return func(c echo.Context) error {
		item, ok := list.Find(c.Param("id"))
		if !ok {
			return echo.NewHTTPError(http.StatusNotFound, list.Name()+" entry not found")
		}
		return c.JSON(http.StatusOK, item)
	}
}

// Home serves GET /api/home.
func (h *SiteHandler) Home(c echo.Context) error {
	sections := h.views.Home.Sections()
	if sections == nil {
		sections = []domain.HomeSection{}
	}
	return c.JSON(http.StatusOK, HomeResponse{Sections: sections, Stale: h.views.Home.Err() != nil})
}

// Favorites serves GET /api/favorites for the current visitor.
func (h *SiteHandler) Favorites(c echo.Context) error {
	visitor, err := session.VisitorID(c)
	if err != nil {
		return err
	}
	favs, err := h.views.Favorites.List(c.Request().Context(), visitor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newListResponse(favs, nil))
}

// ToggleFavorite serves POST /api/favorites. It flips the favorite in the
// backend and announces favorites_changed. htmx requests get the updated
// button back instead of JSON.
func (h *SiteHandler) ToggleFavorite(c echo.Context) error {
	var req FavoriteRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()
	visitor, err := session.VisitorID(c)
	if err != nil {
		return err
	}

	fav := domain.Favorite{EntityType: req.EntityType, EntityID: req.EntityID}
	on, err := h.views.Favorites.Has(ctx, visitor, fav)
	if err != nil {
		return err
	}
	if on {
		err = h.backend.RemoveFavorite(ctx, visitor, fav)
	} else {
		err = h.backend.AddFavorite(ctx, visitor, fav)
	}
	if err != nil {
		return err
	}

	notify(ctx, h.hub, events.FavoritesChanged{
		Visitor:    visitor,
		EntityType: fav.EntityType,
		EntityID:   fav.EntityID,
		Favorited:  !on,
	})

	if c.Request().Header.Get("HX-Request") == "true" {
		return h.renderer.RenderPage(c, http.StatusOK, pages.FavoriteButton(fav, !on))
	}
	return c.JSON(http.StatusOK, FavoriteResponse{EntityType: fav.EntityType, EntityID: fav.EntityID, Favorited: !on})
}

// CreateInquiry serves POST /api/inquiries.
func (h *SiteHandler) CreateInquiry(c echo.Context) error {
	var in domain.Inquiry
	if err := bind(c, &in); err != nil {
		return err
	}
	created, err := h.backend.CreateInquiry(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// Preferences serves GET /api/preferences.
func (h *SiteHandler) Preferences(c echo.Context) error {
	return c.JSON(http.StatusOK, session.Preferences(c))
}

// SavePreferences serves PUT /api/preferences.
func (h *SiteHandler) SavePreferences(c echo.Context) error {
	var prefs domain.Preferences
	if err := bind(c, &prefs); err != nil {
		return err
	}
	if prefs.Theme == "" {
		prefs.Theme = domain.ThemeSystem
	}
	if err := session.SavePreferences(c, prefs); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, prefs)
}

// notify publishes ev after a successful write. Subscriber failures are
// logged; the write already happened and the request still succeeds.
func notify[E eventbus.Event](ctx context.Context, hub *eventbus.Hub, ev E) {
	if err := eventbus.Publish(ctx, hub, ev); err != nil {
		middleware.FromContext(ctx).Warn("Subscribers failed on change notification",
			"topic", ev.Topic(), "error", err)
	}
}
