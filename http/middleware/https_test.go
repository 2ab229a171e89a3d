package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/http/middleware"
)

func TestForceHTTPS(t *testing.T) {
	tcs := []struct {
		name     string
		env      switchback.Environment
		proto    string
		expected int
	}{
		{"Development", switchback.Development, "", http.StatusOK},
		{"Behind-Proxy", switchback.Testing, "https", http.StatusOK},
		{"Plain-HTTP", switchback.Testing, "http", http.StatusPermanentRedirect},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "https://example.com", nil)
			if tc.proto != "" {
				r.Header.Set("X-Forwarded-Proto", tc.proto)
			}

			// Act
			middleware.ForceHTTPS(tc.env)(noopHandler()).ServeHTTP(w, r)

			// Assert
			require.Equal(t, tc.expected, w.Code)
			if tc.expected == http.StatusPermanentRedirect {
				require.Contains(t, w.Header().Get("Location"), "https")
			}
		})
	}
}
