package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/xy-planning-network/switchback"
)

// RequestIDHeader is the header a request ID is read from and echoed in.
const RequestIDHeader = "X-Request-ID"

// RequestID adds a uuid to the request context under switchback.RequestIDKey,
// reusing the one a proxy set in the X-Request-ID header when it is a valid uuid.
func RequestID() Adapter {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if _, err := uuid.Parse(id); err != nil {
				id = uuid.NewString()
			}

			w.Header().Set(RequestIDHeader, id)
			ctx := context.WithValue(r.Context(), switchback.RequestIDKey, id)
			h.ServeHTTP(w, r.Clone(ctx))
		})
	}
}
