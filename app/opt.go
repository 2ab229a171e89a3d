package app

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/catalog"
	"github.com/xy-planning-network/switchback/http/middleware"
	"github.com/xy-planning-network/switchback/http/template"
	"github.com/xy-planning-network/switchback/logger"
	"github.com/xy-planning-network/switchback/route"
)

// An Option configures an *App either (1) directly, immediately upon being called
// or (2) in the OptFollowup it returns.
// Some Options require the App's defaults to be in place and thus an OptFollowup can be returned
// in order to be called once they are.
//
// WithLogger is an example of the first.
// An unexported field on the passed in *App is updated with the enclosed value.
//
// WithRegistrations is an example of the second.
// The App's catalog is only populated when the closure it returns is called.
type Option func(a *App) (OptFollowup, error)
type OptFollowup func() error

// WithContext sets the context.Context the web server's requests derive from.
func WithContext(ctx context.Context) Option {
	return func(a *App) (OptFollowup, error) {
		a.ctx = ctx
		return nil, nil
	}
}

// WithEnv casts the provided string into a valid Environment.
// If it is not valid, the ENVIRONMENT environment variable is read instead.
func WithEnv(envVar string) Option {
	return func(a *App) (OptFollowup, error) {
		e := switchback.Environment(envVar)
		if e.Valid() != nil {
			e = switchback.EnvVarOrEnv(environmentEnvVar, switchback.Development)
		}

		a.env = e
		return nil, nil
	}
}

// WithLogger sets the logger.Logger the app logs with.
func WithLogger(l logger.Logger) Option {
	return func(a *App) (OptFollowup, error) {
		if l == nil {
			return nil, fmt.Errorf("%w: logger cannot be nil", switchback.ErrBadConfig)
		}

		a.logger = l
		return nil, nil
	}
}

// WithFS sets the tree holding the application and framework directories.
//
// root names the OS directory backing fsys, so changes to it can be watched;
// leave it empty when fsys is not backed by one.
func WithFS(fsys fs.FS, root string) Option {
	return func(a *App) (OptFollowup, error) {
		if fsys == nil {
			return nil, fmt.Errorf("%w: fs cannot be nil", switchback.ErrBadConfig)
		}

		a.fsys, a.root = fsys, root
		return nil, nil
	}
}

// WithDirs sets the application directory and the framework base directory,
// both relative to the root of the app's tree.
func WithDirs(appDir, baseDir string) Option {
	return func(a *App) (OptFollowup, error) {
		if appDir == "" || baseDir == "" {
			return nil, fmt.Errorf("%w: app and base directories are required", switchback.ErrBadConfig)
		}

		a.appDir, a.baseDir = appDir, baseDir
		return nil, nil
	}
}

// WithSearchRoots sets the directories a relative package path is tried against.
func WithSearchRoots(roots ...string) Option {
	return func(a *App) (OptFollowup, error) {
		a.roots = roots
		return nil, nil
	}
}

// WithCatalog sets the catalog the app's components, handlers, models and helpers are constructed from.
func WithCatalog(cat *catalog.Catalog) Option {
	return func(a *App) (OptFollowup, error) {
		a.cat = cat
		return nil, nil
	}
}

// WithRegistrations constructs a followup option that, when called,
// hands the app's catalog to each of fns.
func WithRegistrations(fns ...func(*catalog.Catalog)) Option {
	return func(a *App) (OptFollowup, error) {
		return func() error {
			for _, fn := range fns {
				fn(a.cat)
			}

			return nil
		}, nil
	}
}

// WithCallbacks makes the route callbacks available to rules in config/routes naming them.
func WithCallbacks(callbacks map[string]*route.Callback) Option {
	return func(a *App) (OptFollowup, error) {
		for name, cb := range callbacks {
			a.callbacks[name] = cb
		}

		return nil, nil
	}
}

// WithParser sets the template parser views render with.
// Each request renders with its own clone.
func WithParser(p *template.Parse) Option {
	return func(a *App) (OptFollowup, error) {
		a.parser = p
		return nil, nil
	}
}

// WithMaxErrorDepth bounds how many error pages may be shown while showing an error page.
func WithMaxErrorDepth(depth int) Option {
	return func(a *App) (OptFollowup, error) {
		a.maxDepth = depth
		return nil, nil
	}
}

// WithMetrics registers the dispatch metrics with reg, serving them over path when it is not empty.
func WithMetrics(reg *prometheus.Registry, path string) Option {
	return func(a *App) (OptFollowup, error) {
		if reg == nil {
			return nil, fmt.Errorf("%w: metrics registry cannot be nil", switchback.ErrBadConfig)
		}

		a.promReg, a.metricsPath = reg, path
		return nil, nil
	}
}

// WithMiddlewares appends the middlewares applied to every request dispatched.
func WithMiddlewares(adapters ...middleware.Adapter) Option {
	return func(a *App) (OptFollowup, error) {
		a.mws = append(a.mws, adapters...)
		return nil, nil
	}
}

// WithAssets serves static files from assets.
func WithAssets(assets fs.FS) Option {
	return func(a *App) (OptFollowup, error) {
		a.assets = assets
		return nil, nil
	}
}

// WithServer constructs a followup option that, when called,
// replaces the default *http.Server, having it serve the app.
func WithServer(s *http.Server) Option {
	return func(a *App) (OptFollowup, error) {
		if s == nil {
			return nil, fmt.Errorf("%w: server cannot be nil", switchback.ErrBadConfig)
		}

		return func() error {
			s.Handler = a.router
			a.srv = s
			return nil
		}, nil
	}
}
