package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nfrund/propertyhub/internal/domain"
	"github.com/nfrund/propertyhub/internal/handlers"
	"github.com/nfrund/propertyhub/internal/middleware"
	"github.com/nfrund/propertyhub/web"
)

// RegisterRoutes sets up all the application routes.
func (s *Server) RegisterRoutes() {
	v := s.deps.Views
	limited := middleware.RateLimiter(middleware.DefaultRequestsPerMinute)

	s.E.StaticFS("/static", echo.MustSubFS(web.FS, "static"))

	// Public site.
	s.E.GET("/", s.site.HomePage)
	s.E.GET("/fragments/:view", s.site.Fragment)

	api := s.E.Group("/api")
	api.GET("/properties", handlers.List(v.Properties))
	api.GET("/properties/:id", handlers.Get(v.Properties))
	api.GET("/projects", handlers.List(v.Projects))
	api.GET("/projects/:id", handlers.Get(v.Projects))
	api.GET("/agents", handlers.List(v.Agents))
	api.GET("/agents/:id", handlers.Get(v.Agents))
	api.GET("/builders", handlers.List(v.Builders))
	api.GET("/builders/:id", handlers.Get(v.Builders))
	api.GET("/home", s.site.Home)
	api.GET("/favorites", s.site.Favorites)
	api.POST("/favorites", s.site.ToggleFavorite)
	api.POST("/inquiries", s.site.CreateInquiry, limited)
	api.GET("/preferences", s.site.Preferences)
	api.PUT("/preferences", s.site.SavePreferences)

	// Admin.
	s.E.POST("/admin/login", s.admin.Login, limited)
	s.E.POST("/admin/logout", s.admin.Logout)
	s.E.GET("/admin/fragments/notifications", s.admin.NotificationBadge, middleware.Auth())

	admin := s.E.Group("/admin/api", middleware.Auth())
	b := s.deps.Backend
	handlers.NewEntityAdmin[domain.Property](domain.EntityProperty, b.Properties, s.deps.Hub).Register(admin.Group("/properties"))
	handlers.NewEntityAdmin[domain.Project](domain.EntityProject, b.Projects, s.deps.Hub).Register(admin.Group("/projects"))
	handlers.NewEntityAdmin[domain.Agent](domain.EntityAgent, b.Agents, s.deps.Hub).Register(admin.Group("/agents"))
	handlers.NewEntityAdmin[domain.Builder](domain.EntityBuilder, b.Builders, s.deps.Hub).Register(admin.Group("/builders"))
	admin.PUT("/home/:section", s.admin.UpdateHomeSection)
	admin.GET("/inquiries", s.admin.Inquiries)
	admin.GET("/notifications", s.admin.Notifications)

	// Push and operations.
	s.E.GET("/ws", s.deps.Bridge.Handler())
	s.E.GET("/debug/bus", s.bus.Status, middleware.Auth())
	s.E.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.deps.Registry, promhttp.HandlerOpts{})))
	s.E.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
}
