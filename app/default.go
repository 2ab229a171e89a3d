package app

import (
	"context"
	"net"
	"net/http"
	"os"
	"time"

	"golang.org/x/time/rate"

	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/cache"
	"github.com/xy-planning-network/switchback/catalog"
	"github.com/xy-planning-network/switchback/database"
	"github.com/xy-planning-network/switchback/http/middleware"
	"github.com/xy-planning-network/switchback/http/template"
	"github.com/xy-planning-network/switchback/input"
	"github.com/xy-planning-network/switchback/logger"
	"github.com/xy-planning-network/switchback/session"
)

const (
	// Environment defaults
	environmentEnvVar = "ENVIRONMENT"

	// Log defaults
	logLevelEnvVar = "LOG_LEVEL"

	// Directory defaults
	rootDirEnvVar  = "ROOT_DIR"
	DefaultRootDir = "."
	appDirEnvVar   = "APP_DIR"
	DefaultAppDir  = "app/"
	baseDirEnvVar  = "SYSTEM_DIR"
	DefaultBaseDir = "system/"

	// Routes config file
	RoutesConfig = "routes"

	// Transport defaults
	corsOriginEnvVar  = "CORS_ORIGIN"
	forceHTTPSEnvVar  = "FORCE_HTTPS"
	metricsPathEnvVar = "METRICS_PATH"
	rateLimitEnvVar   = "RATE_LIMIT"
	rateBurstEnvVar   = "RATE_BURST"
	DefaultRateBurst  = 20

	// Web server defaults
	DefaultPort               = ":3000"
	portEnvVar                = "PORT"
	serverReadTimeoutEnvVar   = "SERVER_READ_TIMEOUT"
	DefaultServerReadTimeout  = 5 * time.Second
	serverIdleTimeoutEnvVar   = "SERVER_IDLE_TIMEOUT"
	DefaultServerIdleTimeout  = 120 * time.Second
	serverWriteTimeoutEnvVar  = "SERVER_WRITE_TIMEOUT"
	DefaultServerWriteTimeout = 5 * time.Second
)

// defaultLogger constructs the logger.Logger used by the app.
func defaultLogger(env switchback.Environment) logger.Logger {
	return logger.New(
		logger.WithEnv(env.String()),
		logger.WithLevel(logger.NewLogLevel(os.Getenv(logLevelEnvVar))),
	)
}

// defaultParser constructs the template parser views render with.
//
// defaultParser makes available these functions in an HTML template:
//
//   - "env"
//   - "nonce"
//   - "isDevelopment"
//   - "isStaging"
//   - "isProduction"
func defaultParser(env switchback.Environment) *template.Parse {
	p := template.NewParser()
	p.AddFn(template.Env(env))
	p.AddFn(template.Nonce())
	p.AddFn("isDevelopment", env.IsDevelopment)
	p.AddFn("isStaging", env.IsStaging)
	p.AddFn("isProduction", env.IsProduction)

	return p
}

// registerDefaults makes the framework's own components available in cat,
// unless the app registered its own under the same type names.
func registerDefaults(cat *catalog.Catalog, env switchback.Environment) {
	if !cat.Has(database.TypeName) {
		database.Register(cat, env)
	}

	if !cat.Has(catalog.FrameworkPrefix + session.Family) {
		session.Register(cat, env)
	}

	if !cat.Has(catalog.FrameworkPrefix + cache.Family) {
		cache.Register(cat)
	}

	if !cat.Has(input.TypeName) {
		input.Register(cat)
	}
}

// defaultMiddlewares constructs the middlewares every request passes through before being dispatched.
//
// HTTPS is forced when FORCE_HTTPS is set;
// requests are rate limited per client address when RATE_LIMIT is above zero.
func defaultMiddlewares(env switchback.Environment, ls logger.Logger) []middleware.Adapter {
	mws := []middleware.Adapter{
		middleware.InjectIPAddress(),
		middleware.RequestID(),
		middleware.LogRequest(ls),
		middleware.CORS(switchback.EnvVarOrString(corsOriginEnvVar, "")),
	}

	if switchback.EnvVarOrBool(forceHTTPSEnvVar, false) {
		mws = append(mws, middleware.ForceHTTPS(env))
	}

	if limit := switchback.EnvVarOrInt(rateLimitEnvVar, 0); limit > 0 {
		burst := switchback.EnvVarOrInt(rateBurstEnvVar, DefaultRateBurst)
		mws = append(mws, middleware.RateLimit(middleware.NewVisitorsWithLimit(rate.Limit(limit), burst)))
	}

	return mws
}

// defaultServer constructs a default [*http.Server].
func defaultServer(ctx context.Context) *http.Server {
	port := switchback.EnvVarOrString(portEnvVar, DefaultPort)
	if port[0] != ':' {
		port = ":" + port
	}

	srv := &http.Server{
		Addr:         port,
		IdleTimeout:  switchback.EnvVarOrDuration(serverIdleTimeoutEnvVar, DefaultServerIdleTimeout),
		ReadTimeout:  switchback.EnvVarOrDuration(serverReadTimeoutEnvVar, DefaultServerReadTimeout),
		WriteTimeout: switchback.EnvVarOrDuration(serverWriteTimeoutEnvVar, DefaultServerWriteTimeout),
	}
	if ctx != nil {
		srv.BaseContext = func(_ net.Listener) context.Context { return ctx }
	}

	return srv
}
