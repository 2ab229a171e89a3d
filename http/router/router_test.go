package router_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/http/middleware"
	"github.com/xy-planning-network/switchback/http/router"
)

func write(s string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { io.WriteString(w, s) }
}

func TestRouter(t *testing.T) {
	// Arrange
	assets := fstest.MapFS{"app.css": {Data: []byte("body{}")}}
	r := router.New(switchback.Testing, nil, assets)

	var marked []string
	r.OnEveryRequest(func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			marked = append(marked, req.URL.Path)
			h.ServeHTTP(w, req)
		})
	})
	r.Handle(router.Route{Path: "/healthz", Method: http.MethodGet, Handler: write("ok")})
	r.CatchAll(write("dispatched"))

	tcs := []struct {
		name     string
		path     string
		expected string
	}{
		{"explicit", "/healthz", "ok"},
		{"catch-all", "/blog/show/5", "dispatched"},
		{"root", "/", "dispatched"},
		{"assets", "/assets/app.css", "body{}"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			w := httptest.NewRecorder()

			// Act
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))

			// Assert
			require.Equal(t, http.StatusOK, w.Code)
			require.Equal(t, tc.expected, w.Body.String())
		})
	}

	require.Equal(t, []string{"/healthz", "/blog/show/5", "/"}, marked)
}

func TestRouterRecovers(t *testing.T) {
	// Arrange
	r := router.New(switchback.Development, nil, nil)
	r.CatchAll(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))
	w := httptest.NewRecorder()

	// Act
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/anything", nil))

	// Assert
	require.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestSubrouter(t *testing.T) {
	// Arrange
	r := router.New(switchback.Testing, nil, nil)
	api := r.Subrouter("/api")
	api.HandleRoutes(
		[]router.Route{{Path: "/ping", Method: http.MethodGet, Handler: write("pong")}},
		middleware.NoopAdapter,
	)
	w := httptest.NewRecorder()

	// Act
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ping", nil))

	// Assert
	require.Equal(t, "pong", w.Body.String())
}
