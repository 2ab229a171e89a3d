package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/logger"
)

// A statusWriter remembers the status code written through it.
type statusWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (sw *statusWriter) WriteHeader(code int) {
	if sw.status == 0 {
		sw.status = code
	}

	sw.ResponseWriter.WriteHeader(code)
}

func (sw *statusWriter) Write(b []byte) (int, error) {
	if sw.status == 0 {
		sw.status = http.StatusOK
	}

	n, err := sw.ResponseWriter.Write(b)
	sw.size += n
	return n, err
}

// LogRequest logs the request's method, requested URL, and originating IP address
// along with the status and size of the response using the enclosed implementation of logger.Logger.
//
// LogRequest scrubs the values for the following keys:
// - password
//
// if logger.Logger is nil, NoopAdapter returns and this middleware does nothing.
func LogRequest(ls logger.Logger) Adapter {
	if ls == nil {
		return NoopAdapter
	}

	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w}
			h.ServeHTTP(sw, r)

			uri := r.URL.Path
			q := r.URL.Query()
			switchback.Mask(q, "password")
			if query := q.Encode(); query != "" {
				uri += "?" + query
			}

			strs := []string{r.Method, uri}
			if val, ok := r.Context().Value(switchback.IpAddrKey).(string); ok {
				strs = append([]string{val}, strs...)
			}

			data := map[string]any{
				switchback.LogKindKey: switchback.HTTPLogKind,
				"status":              sw.status,
				"size":                sw.size,
				"duration":            time.Since(start).String(),
			}
			if id, ok := r.Context().Value(switchback.RequestIDKey).(string); ok {
				data["id"] = id
			}

			ls.Info(strings.Join(strs, " "), &logger.LogContext{Data: data})
		})
	}
}
