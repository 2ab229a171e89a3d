package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/catalog"
	"github.com/xy-planning-network/switchback/config"
	"github.com/xy-planning-network/switchback/errpage"
	"github.com/xy-planning-network/switchback/http/middleware"
	"github.com/xy-planning-network/switchback/http/router"
	"github.com/xy-planning-network/switchback/http/template"
	"github.com/xy-planning-network/switchback/logger"
	"github.com/xy-planning-network/switchback/paths"
	"github.com/xy-planning-network/switchback/route"
)

// TracerName names the tracer dispatch spans are recorded with.
const TracerName = "github.com/xy-planning-network/switchback"

// An App manages and exposes all components of a switchback app to one another,
// dispatching every request that reaches it.
type App struct {
	ctx    context.Context
	env    switchback.Environment
	logger logger.Logger

	fsys    fs.FS
	root    string
	appDir  string
	baseDir string
	roots   []string

	cat       *catalog.Catalog
	r         *paths.Resolver
	set       *paths.Set
	store     *config.Store
	parser    *template.Parse
	table     *route.Table
	callbacks map[string]*route.Callback
	maxDepth  int

	promReg     *prometheus.Registry
	metricsPath string
	metrics     *metrics
	tracer      trace.Tracer

	mws    []middleware.Adapter
	assets fs.FS
	router *router.Router
	srv    *http.Server
}

// New constructs an App from the provided options.
// Options are applied over defaults read from environment variables;
// followups run once every default is in place.
func New(opts ...Option) (*App, error) {
	a := &App{
		env:         switchback.EnvVarOrEnv(environmentEnvVar, switchback.Development),
		root:        switchback.EnvVarOrString(rootDirEnvVar, DefaultRootDir),
		appDir:      switchback.EnvVarOrString(appDirEnvVar, DefaultAppDir),
		baseDir:     switchback.EnvVarOrString(baseDirEnvVar, DefaultBaseDir),
		callbacks:   make(map[string]*route.Callback),
		maxDepth:    errpage.DefaultMaxDepth,
		metricsPath: switchback.EnvVarOrString(metricsPathEnvVar, ""),
	}

	// NOTE: some options require data from the defaults filled in by init.
	// They return an OptFollowup to be called after init.
	followups := make([]OptFollowup, 0)
	for _, opt := range opts {
		fn, err := opt(a)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", switchback.ErrBadConfig, err)
		}

		if fn != nil {
			followups = append(followups, fn)
		}
	}

	if err := a.init(); err != nil {
		return nil, err
	}

	for _, fn := range followups {
		if err := fn(); err != nil {
			return nil, fmt.Errorf("%w: %s", switchback.ErrBadConfig, err)
		}
	}

	return a, nil
}

// init fills in every collaborator no option provided.
func (a *App) init() error {
	if a.logger == nil {
		a.logger = defaultLogger(a.env)
	}

	if a.fsys == nil {
		a.fsys = os.DirFS(a.root)
	}

	if a.cat == nil {
		a.cat = catalog.New()
	}
	registerDefaults(a.cat, a.env)

	if a.parser == nil {
		a.parser = defaultParser(a.env)
	}

	a.r = paths.NewResolver(a.fsys)
	a.set = paths.NewSet(a.appDir, a.baseDir)
	a.store = config.New(a.r, a.env, a.set.App())

	if err := a.loadRoutes(); err != nil {
		return err
	}

	if _, err := route.New(a.table, a.set, a.r, route.SettingsFrom(a.store), a.logger); err != nil {
		return err
	}

	if a.promReg == nil {
		a.promReg = prometheus.NewRegistry()
	}

	var err error
	if a.metrics, err = newMetrics(a.promReg); err != nil {
		return fmt.Errorf("%w: registering metrics: %s", switchback.ErrBadConfig, err)
	}

	a.tracer = otel.Tracer(TracerName)

	a.router = router.New(a.env, a.logger, a.assets)
	a.router.OnEveryRequest(append(defaultMiddlewares(a.env, a.logger), a.mws...)...)

	if a.metricsPath != "" {
		a.router.Handle(router.Route{
			Path:    a.metricsPath,
			Method:  http.MethodGet,
			Handler: promhttp.HandlerFor(a.promReg, promhttp.HandlerOpts{}).ServeHTTP,
		})
	}

	a.router.CatchAll(a)

	a.srv = defaultServer(a.ctx)
	a.srv.Handler = a.router

	a.logger.Debug(fmt.Sprintf("app %s serving %s over %s", a.env, a.appDir, a.baseDir), &logger.LogContext{
		Data: map[string]any{switchback.LogKindKey: switchback.AppLogKind},
	})
	return nil
}

// loadRoutes builds the route table every request is routed against from config/routes.
func (a *App) loadRoutes() error {
	block, err := a.store.Get(RoutesConfig)
	switch {
	case errors.Is(err, switchback.ErrNotExist):
		a.logger.Warn("no config/"+RoutesConfig+" found, routing on URIs alone", nil)
		block = nil
	case err != nil:
		return err
	}

	a.table, err = route.NewTable(block, a.callbacks)
	return err
}

// Catalog returns the catalog the app constructs from.
func (a *App) Catalog() *catalog.Catalog { return a.cat }

// Env returns the environment the app runs in.
func (a *App) Env() switchback.Environment { return a.env }

// Handler returns the http.Handler serving the app, middlewares included.
func (a *App) Handler() http.Handler { return a.router }

// Logger returns the logger the app logs with.
func (a *App) Logger() logger.Logger { return a.logger }

// Router returns the HTTP router, for registering endpoints outside of the app.
func (a *App) Router() *router.Router { return a.router }

// Guide begins the web server.
//
// These, and (*App).Shutdown, stop Guide:
//
// - os.Interrupt
// - syscall.SIGHUP
// - syscall.SIGINT
// - syscall.SIGQUIT
// - syscall.SIGTERM
//
// In development, changes to the application and framework directories are picked up while Guide runs.
func (a *App) Guide() error {
	parent := a.ctx
	if parent == nil {
		parent = context.Background()
	}

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGHUP, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM)
	defer signal.Stop(ch)

	go func() {
		select {
		case s := <-ch:
			a.logger.Info(fmt.Sprint("received shutdown signal: ", s), nil)
			cancel()
		case <-ctx.Done():
		}
	}()

	if a.env.WatchesFiles() && a.root != "" {
		errs := func(err error) { a.logger.Warn("watching files failed", &logger.LogContext{Error: err}) }
		if err := a.r.Watch(ctx, a.root, errs, a.appDir, a.baseDir); err != nil {
			a.logger.Warn("not watching files", &logger.LogContext{Error: err})
		}
	}

	go func() {
		a.logger.Info(fmt.Sprintf("running web server at %s", a.srv.Addr), nil)
		if err := a.srv.ListenAndServe(); err != http.ErrServerClosed {
			err = fmt.Errorf("could not listen: %w", err)
			a.logger.Error(err.Error(), nil)
			cancel()
		}
	}()

	<-ctx.Done()
	return a.Shutdown()
}

// Shutdown shutdowns the web server.
func (a *App) Shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	a.logger.Info("shutting down web server", nil)
	err := a.srv.Shutdown(shutdownCtx)
	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("could not shutdown: %w", err)
	}

	a.logger.Info("web server shutdown successfully", nil)
	return nil
}
