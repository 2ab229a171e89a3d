package router

import (
	"io/fs"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/http/middleware"
	"github.com/xy-planning-network/switchback/logger"
)

// AssetsPath is the path prefix static assets are served under.
const AssetsPath = "/assets/"

// A Route maps a path and HTTP method to an [http.HandlerFunc].
// Additional [middleware.Adapter] can be called when a server handles
// a request matching the Route.
type Route struct {
	Path        string
	Method      string
	Handler     http.HandlerFunc
	Middlewares []middleware.Adapter
}

// A Router routes requests to the handful of endpoints registered explicitly,
// funneling everything else to the dispatcher through CatchAll.
type Router struct {
	Env           switchback.Environment
	everyReqStack []middleware.Adapter
	logger        logger.Logger
	r             *mux.Router
}

// New constructs a [*Router] for the given environment.
//
// When assets is not nil, requests under [AssetsPath] are served files from it.
func New(env switchback.Environment, ls logger.Logger, assets fs.FS) *Router {
	if ls == nil {
		ls = logger.NewNop()
	}

	r := mux.NewRouter()
	if assets != nil {
		r.PathPrefix(AssetsPath).Handler(middleware.Chain(
			http.StripPrefix(AssetsPath, http.FileServer(http.FS(assets))),
			cacheControlMiddleware(),
			middleware.LogRequest(ls),
		))
	}

	return &Router{Env: env, logger: ls, r: r}
}

// CatchAll sets up a handler for all routes not otherwise registered to funnel to.
//
// Register routes before calling CatchAll; routes match in the order registered.
func (r *Router) CatchAll(handler http.Handler) {
	r.r.PathPrefix("/").Handler(
		middleware.Chain(
			middleware.Recover(r.Env, r.logger)(handler),
			r.everyReqStack...,
		),
	)
}

// Handle applies the [Route] to the [*Router].
func (r *Router) Handle(route Route) {
	r.HandleRoutes([]Route{route})
}

// HandleNotFound sets the provided [http.HandlerFunc] as the default function
// for when no other registered Route is matched.
func (r *Router) HandleNotFound(handler http.HandlerFunc) {
	r.r.NotFoundHandler = middleware.Chain(
		middleware.Recover(r.Env, r.logger)(handler),
		middleware.LogRequest(r.logger),
	)
}

// HandleRoutes registers the set of Routes on the Router
// and includes all the [middleware.Adapter] on each Route.
// Any [middleware.Adapter] already assigned to a Route is appended to middlewares,
// so are called after the default set.
func (r *Router) HandleRoutes(routes []Route, middlewares ...middleware.Adapter) {
	for _, route := range routes {
		mws := append(append([]middleware.Adapter(nil), r.everyReqStack...), middlewares...)
		mws = append(mws, route.Middlewares...)
		handler := middleware.Chain(middleware.Recover(r.Env, r.logger)(route.Handler), mws...)
		r.r.Handle(route.Path, handler).Methods(route.Method)
	}
}

// OnEveryRequest appends the middlewares to the existing stack
// that the [*Router] will apply to every request.
func (r *Router) OnEveryRequest(middlewares ...middleware.Adapter) {
	r.everyReqStack = append(r.everyReqStack, middlewares...)
}

// ServeHTTP responds to an HTTP request.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.r.ServeHTTP(w, req)
}

// Subrouter constructs a [Router] that handles requests to endpoints matching the prefix.
//
// e.g., r.Subrouter("/api/v1") handles requests to endpoints like /api/v1/users
func (r *Router) Subrouter(prefix string) *Router {
	return &Router{
		Env:           r.Env,
		r:             r.r.PathPrefix(prefix).Subrouter(),
		logger:        r.logger,
		everyReqStack: append([]middleware.Adapter(nil), r.everyReqStack...),
	}
}

// cacheControlMiddleware helps by adding a "Cache-Control" header to the response.
func cacheControlMiddleware() middleware.Adapter {
	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "max-age=2592000") // 30 days
			handler.ServeHTTP(w, r)
		})
	}
}
