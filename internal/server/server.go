package server

import (
	"log/slog"
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nfrund/propertyhub/internal/backend"
	"github.com/nfrund/propertyhub/internal/config"
	"github.com/nfrund/propertyhub/internal/eventbus"
	"github.com/nfrund/propertyhub/internal/handlers"
	"github.com/nfrund/propertyhub/internal/middleware"
	"github.com/nfrund/propertyhub/internal/rendering"
	"github.com/nfrund/propertyhub/internal/session"
	"github.com/nfrund/propertyhub/internal/topicmgr"
	"github.com/nfrund/propertyhub/internal/views"
	"github.com/nfrund/propertyhub/internal/websocket"
)

// Dependencies are the components the HTTP server is built from. They are
// constructed by the composition root in internal/app.
type Dependencies struct {
	Config   config.Provider
	Logger   *slog.Logger
	Hub      *eventbus.Hub
	Topics   *topicmgr.Manager
	Views    *views.Set
	Poller   *views.NotificationPoller
	Backend  *backend.Client
	Bridge   *websocket.Bridge
	Renderer *rendering.UniversalRenderer
	Registry *prometheus.Registry
}

// Server holds the echo instance and the handlers it routes to.
type Server struct {
	E      *echo.Echo
	cfg    config.Provider
	logger *slog.Logger
	deps   Dependencies

	site  *handlers.SiteHandler
	admin *handlers.AdminHandler
	bus   *handlers.BusHandler
}

// New creates the server and registers every route.
func New(deps Dependencies) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handlers.NewValidator()
	e.Renderer = deps.Renderer
	e.HTTPErrorHandler = handlers.ErrorHandler()

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(requestLogger(logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: deps.Registry,
	}))

	secure := strings.HasPrefix(deps.Config.GetAppBaseURL(), "https://")
	e.Use(session.Middleware(session.NewStore(deps.Config.GetSessionSecret(), secure)))

	s := &Server{
		E:      e,
		cfg:    deps.Config,
		logger: logger.With("component", "server"),
		deps:   deps,
		site:   handlers.NewSiteHandler(deps.Views, deps.Backend, deps.Hub, deps.Renderer),
		admin:  handlers.NewAdminHandler(deps.Backend, deps.Hub, deps.Poller, deps.Renderer),
		bus:    handlers.NewBusHandler(deps.Hub, deps.Topics),
	}
	s.RegisterRoutes()
	return s
}

// requestLogger writes one slog line per request.
func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/health" || c.Path() == "/metrics"
		},
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"request_id", v.RequestID,
			}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error)
			}
			logger.InfoContext(c.Request().Context(), "Request", attrs...)
			return nil
		},
	})
}
