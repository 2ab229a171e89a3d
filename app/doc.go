/*
Package app initializes and manages a switchback app with sane defaults.

# App

The main entrypoint to package app is the [App] type, constructed with [New].
An [App] is itself the dispatcher: each request it serves gets its own scope
(a router, loader, registry, container and output buffer) built over the layered directories the App shares.
The request is routed against the app's route table,
the handler the route names is loaded and its entry point called,
and terminal errors render as error pages before the output is flushed.

[*App.Guide] begins the web server.
Stop it with [*App.Shutdown] or send a signal [*App.Guide] listens for.

# Configuration

A developer configures a switchback app through options passed to [New],
environment variables, and the files under the app's config/ directory.
Environment variables ought to be set in a file called ".env"
found at the same directory the application is executed from.

Here are the available environment variables.
  - APP_DIR: the application directory, relative to ROOT_DIR; default: app/
  - CORS_ORIGIN: the origin allowed to make cross-origin requests; default: none
  - ENVIRONMENT: the environment the application is running in; cf. [switchback.Environment]
  - FORCE_HTTPS: redirects HTTP requests to HTTPS outside of development; default: false
  - LOG_LEVEL: the level at which to begin logging; default: INFO; cf. [logger.LogLevel]
  - METRICS_PATH: the path Prometheus metrics are served over; default: none
  - PORT: the port the application should listen on; default: :3000
  - RATE_BURST: the burst of requests a client may make above RATE_LIMIT; default: 20
  - RATE_LIMIT: the requests per second each client address is limited to; default: 0, unlimited
  - SENTRY_DSN: ships errors to Sentry when set; default: none
  - ROOT_DIR: the directory holding the application and framework directories; default: .
  - SERVER_IDLE_TIMEOUT: the timeout - as understood by [time.ParseDuration] - for idling between requests when using keep-alives; default: 120s
  - SERVER_READ_TIMEOUT: the timeout - as understood by [time.ParseDuration] - for reading HTTP requests; default: 5s
  - SERVER_WRITE_TIMEOUT: the timeout - as understood by [time.ParseDuration] - for writing HTTP responses; default: 5s
  - SYSTEM_DIR: the framework base directory, relative to ROOT_DIR; default: system/
*/
package app
