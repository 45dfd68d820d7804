// Package app is the composition root. It registers every long-lived
// component with a samber/do injector and starts them in order.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/samber/do/v2"
	"github.com/spf13/afero"
	"go.opentelemetry.io/otel/trace"

	"github.com/nfrund/propertyhub/internal/backend"
	"github.com/nfrund/propertyhub/internal/config"
	"github.com/nfrund/propertyhub/internal/content"
	"github.com/nfrund/propertyhub/internal/eventbus"
	"github.com/nfrund/propertyhub/internal/events"
	"github.com/nfrund/propertyhub/internal/logging"
	"github.com/nfrund/propertyhub/internal/pubsub"
	"github.com/nfrund/propertyhub/internal/rendering"
	"github.com/nfrund/propertyhub/internal/server"
	"github.com/nfrund/propertyhub/internal/topicmgr"
	"github.com/nfrund/propertyhub/internal/views"
	"github.com/nfrund/propertyhub/internal/websocket"
)

// App owns the injector and the components started by Start.
type App struct {
	injector *do.RootScope
	started  bool
}

// Option adjusts the injector before anything is resolved.
type Option func(do.Injector)

// WithLogger replaces the logger built from the config.
func WithLogger(logger *slog.Logger) Option {
	return func(i do.Injector) {
		do.OverrideValue(i, logger)
	}
}

// WithFs replaces the filesystem content overrides are read from.
func WithFs(fs afero.Fs) Option {
	return func(i do.Injector) {
		do.OverrideValue(i, fs)
	}
}

// New registers every provider. Nothing is built until Start.
func New(cfg config.Provider, opts ...Option) *App {
	i := do.New()

	do.ProvideValue(i, cfg)
	do.Provide(i, provideLogger)
	do.Provide(i, provideTelemetry)
	do.Provide(i, provideRegistry)
	do.Provide(i, provideTopics)
	do.Provide(i, provideHub)
	do.Provide(i, provideBackend)
	do.ProvideValue[afero.Fs](i, afero.NewOsFs())
	do.Provide(i, provideContentStore)
	do.Provide(i, provideContentWatcher)
	do.Provide(i, provideViews)
	do.Provide(i, providePoller)
	do.Provide(i, provideBus)
	do.Provide(i, provideRelay)
	do.Provide(i, provideBridge)
	do.Provide(i, provideRenderer)
	do.Provide(i, provideServer)

	for _, opt := range opts {
		opt(i)
	}
	return &App{injector: i}
}

// Injector exposes the container, mostly for tests.
func (a *App) Injector() do.Injector {
	return a.injector
}

// Start resolves the server and starts every background component: views
// are mounted, the relay is attached, and the bridge, content watcher and
// notification poller run until ctx is done. The server itself is not
// listening yet.
func (a *App) Start(ctx context.Context) (*server.Server, error) {
	srv, err := do.Invoke[*server.Server](a.injector)
	if err != nil {
		return nil, fmt.Errorf("build server: %w", err)
	}

	logger := do.MustInvoke[*slog.Logger](a.injector)
	hub := do.MustInvoke[*eventbus.Hub](a.injector)

	// A backend outage at boot leaves the views empty and stale rather than
	// keeping the site down; the next change notification reloads them.
	if err := do.MustInvoke[*views.Set](a.injector).Mount(ctx, hub); err != nil {
		logger.Warn("Initial view load failed", "error", err)
	}
	do.MustInvoke[*pubsub.Relay](a.injector).Attach(hub)

	if err := do.MustInvoke[*websocket.Bridge](a.injector).Start(ctx); err != nil {
		return nil, fmt.Errorf("start websocket bridge: %w", err)
	}
	if err := do.MustInvoke[*content.Watcher](a.injector).Start(ctx); err != nil {
		logger.Warn("Content overrides will not be watched", "error", err)
	}
	go do.MustInvoke[*views.NotificationPoller](a.injector).Run(ctx)

	a.started = true
	return srv, nil
}

// Run starts the app and serves HTTP until ctx is cancelled, then shuts
// every component down.
func (a *App) Run(ctx context.Context) error {
	srv, err := a.Start(ctx)
	if err != nil {
		a.Shutdown()
		return err
	}
	defer a.Shutdown()
	return srv.Start(ctx)
}

// Shutdown detaches the views and relay and shuts the injector down in
// reverse dependency order.
func (a *App) Shutdown() {
	logger, err := do.Invoke[*slog.Logger](a.injector)
	if err != nil {
		logger = slog.Default()
	}
	if a.started {
		hub := do.MustInvoke[*eventbus.Hub](a.injector)
		do.MustInvoke[*views.Set](a.injector).Unmount(hub)
		do.MustInvoke[*pubsub.Relay](a.injector).Detach(hub)
		a.started = false
	}
	logger.Info("Shutting down services", "report", a.injector.Shutdown())
}

func provideLogger(i do.Injector) (*slog.Logger, error) {
	cfg := do.MustInvoke[config.Provider](i)
	return logging.New(cfg.GetLogFormat(), cfg.GetLogLevel()), nil
}

// Telemetry carries the tracer and flushes the exporter on shutdown.
type Telemetry struct {
	Tracer   trace.Tracer
	shutdown func(context.Context) error
}

func (t *Telemetry) Shutdown(ctx context.Context) error {
	return t.shutdown(ctx)
}

func provideTelemetry(i do.Injector) (*Telemetry, error) {
	cfg := do.MustInvoke[config.Provider](i)
	tracer, shutdown, err := pubsub.SetupOTel(context.Background(), cfg.GetTracing())
	if err != nil {
		return nil, err
	}
	return &Telemetry{Tracer: tracer, shutdown: shutdown}, nil
}

func provideRegistry(i do.Injector) (*prometheus.Registry, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return registry, nil
}

func provideTopics(i do.Injector) (*topicmgr.Manager, error) {
	m := topicmgr.NewManager()
	if err := events.RegisterTopics(m); err != nil {
		return nil, err
	}
	return m, nil
}

func provideHub(i do.Injector) (*eventbus.Hub, error) {
	return eventbus.New(
		eventbus.WithLogger(do.MustInvoke[*slog.Logger](i)),
		eventbus.WithTracer(do.MustInvoke[*Telemetry](i).Tracer),
		eventbus.WithTopics(do.MustInvoke[*topicmgr.Manager](i)),
		eventbus.WithMetrics(eventbus.NewMetrics(do.MustInvoke[*prometheus.Registry](i))),
	), nil
}

func provideBackend(i do.Injector) (*backend.Client, error) {
	cfg := do.MustInvoke[config.Provider](i)
	return backend.New(cfg.GetBackendURL(),
		backend.WithTimeout(cfg.GetBackendTimeout()),
		backend.WithRetries(cfg.GetBackendRetries()),
		backend.WithLogger(do.MustInvoke[*slog.Logger](i)),
	)
}

func provideContentStore(i do.Injector) (*content.Store, error) {
	cfg := do.MustInvoke[config.Provider](i)
	fs := do.MustInvoke[afero.Fs](i)
	if err := fs.MkdirAll(cfg.GetContentDir(), 0o755); err != nil {
		return nil, fmt.Errorf("create content dir: %w", err)
	}
	return content.NewStore(fs, cfg.GetContentDir()), nil
}

func provideContentWatcher(i do.Injector) (*content.Watcher, error) {
	return content.NewWatcher(
		do.MustInvoke[*content.Store](i),
		do.MustInvoke[*eventbus.Hub](i),
		do.MustInvoke[*slog.Logger](i),
	), nil
}

func provideViews(i do.Injector) (*views.Set, error) {
	b := do.MustInvoke[*backend.Client](i)
	return views.NewSet(views.Sources{
		Properties:    b.Properties,
		Projects:      b.Projects,
		Agents:        b.Agents,
		Builders:      b.Builders,
		Home:          b,
		Overrides:     do.MustInvoke[*content.Store](i),
		Favorites:     b,
		Notifications: b,
	}, do.MustInvoke[*slog.Logger](i)), nil
}

func providePoller(i do.Injector) (*views.NotificationPoller, error) {
	cfg := do.MustInvoke[config.Provider](i)
	return views.NewNotificationPoller(
		do.MustInvoke[*backend.Client](i),
		cfg.GetPollInterval(),
		do.MustInvoke[*slog.Logger](i),
	), nil
}

// Bus is the in-process message bus between the relay and the websocket
// bridge.
type Bus struct {
	*pubsub.WatermillBridge
}

func (b *Bus) Shutdown() error {
	return b.Close()
}

func provideBus(i do.Injector) (*Bus, error) {
	return &Bus{pubsub.NewWatermillBridge(
		pubsub.WithTracer(do.MustInvoke[*Telemetry](i).Tracer),
		pubsub.WithLogger(do.MustInvoke[*slog.Logger](i)),
	)}, nil
}

func topicNames(i do.Injector) []string {
	var names []string
	for _, t := range do.MustInvoke[*topicmgr.Manager](i).List() {
		names = append(names, t.Name())
	}
	return names
}

func provideRelay(i do.Injector) (*pubsub.Relay, error) {
	return pubsub.NewRelay(do.MustInvoke[*Bus](i), topicNames(i), do.MustInvoke[*slog.Logger](i)), nil
}

func provideBridge(i do.Injector) (*websocket.Bridge, error) {
	cfg := do.MustInvoke[config.Provider](i)
	return websocket.NewBridge(do.MustInvoke[*Bus](i), topicNames(i),
		websocket.WithOriginPatterns(cfg.GetAllowedOrigins()...),
		websocket.WithLogger(do.MustInvoke[*slog.Logger](i)),
	), nil
}

func provideRenderer(i do.Injector) (*rendering.UniversalRenderer, error) {
	return rendering.NewUniversalRenderer(do.MustInvoke[*slog.Logger](i)), nil
}

func provideServer(i do.Injector) (*server.Server, error) {
	return server.New(server.Dependencies{
		Config:   do.MustInvoke[config.Provider](i),
		Logger:   do.MustInvoke[*slog.Logger](i),
		Hub:      do.MustInvoke[*eventbus.Hub](i),
		Topics:   do.MustInvoke[*topicmgr.Manager](i),
		Views:    do.MustInvoke[*views.Set](i),
		Poller:   do.MustInvoke[*views.NotificationPoller](i),
		Backend:  do.MustInvoke[*backend.Client](i),
		Bridge:   do.MustInvoke[*websocket.Bridge](i),
		Renderer: do.MustInvoke[*rendering.UniversalRenderer](i),
		Registry: do.MustInvoke[*prometheus.Registry](i),
	}), nil
}
