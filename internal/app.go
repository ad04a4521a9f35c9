package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"questlog/internal/cloud"
	"questlog/internal/controllers"
	"questlog/internal/persistence/interfaces"
	"questlog/internal/providers"
	"questlog/internal/services"
	"questlog/internal/structures"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 5 * time.Second

// App is one HTTP server with start and stop hooks around it.
type App struct {
	WebServer *http.Server
	logger    providers.Logger
	name      string
	onStart   func(ctx context.Context) error
	onStop    func(ctx context.Context) error
}

func newMux(conf *structures.Config, health *controllers.HealthController, router providers.RouterProviderInterface, metrics providers.MetricsProviderInterface, logger providers.Logger) *http.ServeMux {
	// Inner mux: API routes
	apiMux := http.NewServeMux()
	for _, route := range router.GetRoutes() {
		apiMux.Handle(route.Url, route.Handler)
	}

	// Outer mux: infrastructure + instrumented API
	mux := http.NewServeMux()
	mux.HandleFunc("/health", health.Health)
	if conf.Metrics.Enabled {
		mux.Handle("/metrics", promhttp.Handler())
	}
	mux.Handle("/", providers.MetricsMiddleware(metrics, logger, apiMux))
	return mux
}

func newApp(name string, conf *structures.Config, handler http.Handler, logger providers.Logger) *App {
	return &App{
		name:   name,
		logger: logger,
		WebServer: &http.Server{
			Addr:         conf.WebServer.Host + ":" + strconv.Itoa(conf.WebServer.Port),
			Handler:      handler,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		onStart: func(context.Context) error { return nil },
		onStop:  func(context.Context) error { return nil },
	}
}

// NewDeviceApp serves the library API. On start the local and cloud
// documents are reconciled into the library; on stop the pending cloud write
// is flushed.
func NewDeviceApp(libraryController *controllers.LibraryController, healthController *controllers.HealthController, library services.LibraryServiceInterface, scheduler interfaces.SchedulerInterface, conf *structures.Config, logger providers.Logger, router providers.RouterProviderInterface, metrics providers.MetricsProviderInterface) *App {
	app := newApp("device", conf, newMux(conf, healthController, router, metrics, logger), logger)
	app.onStart = func(ctx context.Context) error {
		state, err := scheduler.Restore(ctx)
		if err != nil {
			return fmt.Errorf("restore: %w", err)
		}
		library.Load(state)
		logger.Infof(providers.TypeApp, "Library restored with %d games", len(library.State().Library))
		scheduler.Init()
		return nil
	}
	app.onStop = func(ctx context.Context) error {
		err := scheduler.Persist(ctx)
		scheduler.Stop()
		return err
	}
	return app
}

// NewCloudApp serves the per-device document store.
func NewCloudApp(cloudController *controllers.CloudController, healthController *controllers.HealthController, backend cloud.Backend, conf *structures.Config, logger providers.Logger, router providers.RouterProviderInterface, metrics providers.MetricsProviderInterface) *App {
	app := newApp("cloud", conf, newMux(conf, healthController, router, metrics, logger), logger)
	app.onStop = func(context.Context) error {
		return backend.Close()
	}
	return app
}

// Run starts the server and blocks until ctx is cancelled or the server
// fails, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	a.logger.Infof(providers.TypeApp, "Starting %s", a.name)
	if err := a.onStart(ctx); err != nil {
		return err
	}

	serverErr := make(chan error, 1)
	go func() {
		a.logger.Infof(providers.TypeApp, "Listening HTTP clients on %s", a.WebServer.Addr)
		if err := a.WebServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Infof(providers.TypeApp, "Shutdown signal received")
	case err := <-serverErr:
		runErr = fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.WebServer.Shutdown(shutdownCtx); err != nil {
		runErr = errors.Join(runErr, err)
	}
	if err := a.onStop(shutdownCtx); err != nil {
		runErr = errors.Join(runErr, err)
	}
	if runErr == nil {
		a.logger.Infof(providers.TypeApp, "gracefully stopped")
	}
	return runErr
}

// Tool gives command line operations access to the device library without
// serving HTTP.
type Tool struct {
	Library   services.LibraryServiceInterface
	Identity  providers.IdentityProviderInterface
	scheduler interfaces.SchedulerInterface
}

func NewTool(library services.LibraryServiceInterface, identity providers.IdentityProviderInterface, scheduler interfaces.SchedulerInterface) *Tool {
	return &Tool{Library: library, Identity: identity, scheduler: scheduler}
}

// Open restores the library the same way the device server does.
func (t *Tool) Open(ctx context.Context) error {
	state, err := t.scheduler.Restore(ctx)
	if err != nil {
		return err
	}
	t.Library.Load(state)
	return nil
}

// Close pushes pending changes to the cloud and stops background work.
func (t *Tool) Close(ctx context.Context) error {
	err := t.scheduler.Persist(ctx)
	t.scheduler.Stop()
	return err
}
