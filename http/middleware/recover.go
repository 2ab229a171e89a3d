package middleware

import (
	"fmt"
	"net/http"

	sentryhttp "github.com/getsentry/sentry-go/http"

	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/logger"
)

// Recover turns a panic escaping the handler into a 500, logging it with ls.
//
// Outside of development, the panic is also reported to Sentry before being recovered.
// Sentry reports nothing when the hub was never configured with a DSN.
func Recover(env switchback.Environment, ls logger.Logger) Adapter {
	if ls == nil {
		ls = logger.NewNop()
	}

	return func(h http.Handler) http.Handler {
		if !env.IsDevelopment() {
			h = sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle(h)
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}

				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				err, ok := rec.(error)
				if !ok {
					err = fmt.Errorf("%w: %v", switchback.ErrUnexpected, rec)
				}

				ls.Error("recovered from panic", &logger.LogContext{Error: err, Request: r})
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}()

			h.ServeHTTP(w, r)
		})
	}
}
