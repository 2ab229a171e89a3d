package app_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/app"
	"github.com/xy-planning-network/switchback/catalog"
	"github.com/xy-planning-network/switchback/logger"
	"github.com/xy-planning-network/switchback/route"
)

const routes = `
default_handler: welcome
rules:
  - pattern: posts/(:num)
    target: blog/show/$1
  - pattern: latest
    callback: latest
`

func newFS() fstest.MapFS {
	return fstest.MapFS{
		"system/core/Handler.go":  {},
		"app/handlers/blog.go":    {},
		"app/handlers/welcome.go": {},
		"app/handlers/oops.go":    {},
		"app/config/routes.yaml":  {Data: []byte(routes)},
	}
}

func register(cat *catalog.Catalog) {
	cat.RegisterHandler("blog", func(s catalog.Scope) (catalog.Handler, error) {
		return catalog.EntryPoints{
			"index": func(context.Context, ...string) (any, error) {
				_, err := s.Output().WriteString("all posts")
				return nil, err
			},
			"show": func(_ context.Context, args ...string) (any, error) {
				_, err := s.Output().WriteString("post " + args[0])
				return nil, err
			},
		}, nil
	})

	cat.RegisterHandler("welcome", func(s catalog.Scope) (catalog.Handler, error) {
		return catalog.EntryPoints{
			"index": func(context.Context, ...string) (any, error) {
				_, err := s.Output().WriteString("welcome")
				return nil, err
			},
		}, nil
	})

	cat.RegisterHandler("oops", func(catalog.Scope) (catalog.Handler, error) {
		return catalog.EntryPoints{
			"index": func(context.Context, ...string) (any, error) {
				return nil, switchback.Fail(errors.New("boom"))
			},
		}, nil
	})
}

func newApp(t *testing.T, opts ...app.Option) *app.App {
	t.Helper()

	opts = append([]app.Option{
		app.WithEnv(switchback.Testing.String()),
		app.WithLogger(logger.NewNop()),
		app.WithFS(newFS(), ""),
		app.WithRegistrations(register),
		app.WithCallbacks(map[string]*route.Callback{
			"latest": route.Func(func(...string) string { return "blog/show/99" }),
		}),
	}, opts...)

	a, err := app.New(opts...)
	require.Nil(t, err)

	return a
}

func TestServeHTTP(t *testing.T) {
	tcs := []struct {
		name   string
		path   string
		status int
		body   string
	}{
		{"default-handler", "/", http.StatusOK, "welcome"},
		{"index", "/blog", http.StatusOK, "all posts"},
		{"entry-point", "/blog/show/5", http.StatusOK, "post 5"},
		{"rule", "/posts/42", http.StatusOK, "post 42"},
		{"callback", "/latest", http.StatusOK, "post 99"},
		{"rule-rejects", "/posts/abc", http.StatusNotFound, "404 Page Not Found: The page you requested was not found.\n"},
		{"no-handler", "/missing", http.StatusNotFound, "404 Page Not Found: The page you requested was not found.\n"},
		{"no-entry-point", "/blog/nope", http.StatusNotFound, "404 Page Not Found: The page you requested was not found.\n"},
		{"private-entry-point", "/blog/_secret", http.StatusNotFound, "404 Page Not Found: The page you requested was not found.\n"},
		{"fails", "/oops", http.StatusInternalServerError, "An Error Was Encountered: boom\n"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			a := newApp(t)
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, tc.path, nil)

			// Act
			a.Handler().ServeHTTP(w, r)

			// Assert
			require.Equal(t, tc.status, w.Code)
			require.Equal(t, tc.body, w.Body.String())
			require.NotEmpty(t, w.Header().Get("X-Request-ID"))
		})
	}
}

func TestServeHTTPRequestsAreIsolated(t *testing.T) {
	// Arrange
	a := newApp(t)

	for _, path := range []string{"/blog/show/1", "/blog/show/2"} {
		w := httptest.NewRecorder()

		// Act
		a.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

		// Assert
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "post "+path[len("/blog/show/"):], w.Body.String())
	}
}

func TestMetrics(t *testing.T) {
	// Arrange
	reg := prometheus.NewRegistry()
	a := newApp(t, app.WithMetrics(reg, "/metrics"))

	for _, path := range []string{"/blog", "/missing", "/oops"} {
		a.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	w := httptest.NewRecorder()

	// Act
	a.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	require.Contains(t, body, `switchback_dispatches_total{outcome="ok"} 1`)
	require.Contains(t, body, `switchback_dispatches_total{outcome="not_found"} 1`)
	require.Contains(t, body, `switchback_dispatches_total{outcome="error"} 1`)
	require.Contains(t, body, `switchback_dispatch_duration_seconds_count{phase="route"} 3`)
}

func TestMetricsSharedRegistry(t *testing.T) {
	// Arrange
	reg := prometheus.NewRegistry()
	first := newApp(t, app.WithMetrics(reg, ""))

	// Act
	second := newApp(t, app.WithMetrics(reg, ""))

	// Assert
	require.NotSame(t, first, second)
}

func TestResolve(t *testing.T) {
	tcs := []struct {
		name     string
		uri      string
		expected route.Stack
		err      error
	}{
		{"default", "", route.Stack{"app/", "", "welcome", "index"}, nil},
		{"remapped", "posts/7", route.Stack{"app/", "", "blog", "show", "7"}, nil},
		{"not-found", "nope", nil, switchback.ErrNotExist},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			a := newApp(t)

			// Act
			stack, err := a.Resolve(tc.uri)

			// Assert
			require.ErrorIs(t, err, tc.err)
			require.Equal(t, tc.expected, stack)
		})
	}
}

func TestNewFailures(t *testing.T) {
	tcs := []struct {
		name string
		opts []app.Option
	}{
		{"nil-logger", []app.Option{app.WithLogger(nil)}},
		{"nil-fs", []app.Option{app.WithFS(nil, "")}},
		{"no-dirs", []app.Option{app.WithDirs("", "")}},
		{"nil-registry", []app.Option{app.WithMetrics(nil, "")}},
		{"nil-server", []app.Option{app.WithServer(nil)}},
		{"unknown-callback", []app.Option{
			app.WithLogger(logger.NewNop()),
			app.WithFS(fstest.MapFS{"app/config/routes.yaml": {Data: []byte("rules:\n  - pattern: x\n    callback: nope\n")}}, ""),
		}},
		{"bad-permitted-chars", []app.Option{
			app.WithLogger(logger.NewNop()),
			app.WithFS(fstest.MapFS{"app/config/config.yaml": {Data: []byte("permitted_uri_chars: 'a-z\\'\n")}}, ""),
		}},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			_, err := app.New(tc.opts...)

			// Assert
			require.ErrorIs(t, err, switchback.ErrBadConfig)
		})
	}
}

func TestWithServer(t *testing.T) {
	// Arrange
	srv := &http.Server{Addr: ":0"}

	// Act
	a := newApp(t, app.WithServer(srv))

	// Assert
	require.Equal(t, a.Handler(), srv.Handler)
}
