package app

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/errpage"
	"github.com/xy-planning-network/switchback/http/template"
	"github.com/xy-planning-network/switchback/loader"
	"github.com/xy-planning-network/switchback/logger"
	"github.com/xy-planning-network/switchback/registry"
	"github.com/xy-planning-network/switchback/route"
)

// Dispatch phases timed by the duration metric.
const (
	phaseAutoload = "autoload"
	phaseRoute    = "route"
	phaseHandler  = "handler"
)

// ServeHTTP dispatches r: it autoloads, routes, then loads and invokes the handler the route names,
// showing an error page for whatever terminal error any of those end with.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "dispatch", trace.WithAttributes(attribute.String("uri", r.URL.Path)))
	defer span.End()
	r = r.WithContext(ctx)

	l, err := a.newLoader(r)
	if err != nil {
		a.logger.Error("building request scope failed", &logger.LogContext{
			Data:    map[string]any{switchback.LogKindKey: switchback.DispatchLogKind},
			Error:   err,
			Request: r,
		})
		a.metrics.dispatches.WithLabelValues(OutcomeError).Inc()
		span.SetStatus(codes.Error, err.Error())
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	err = a.dispatch(ctx, l)
	a.metrics.dispatches.WithLabelValues(outcome(err)).Inc()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		pages := errpage.New(l, errpage.WithLogger(a.logger), errpage.WithMaxDepth(a.maxDepth))
		if perr := pages.Show(err); perr != nil {
			a.logger.Error("showing error page failed", &logger.LogContext{
				Data:    map[string]any{switchback.LogKindKey: switchback.DispatchLogKind},
				Error:   perr,
				Request: r,
			})
		}
	}

	if err := l.Output().Flush(w, r); err != nil {
		a.logger.Warn("flushing output failed", &logger.LogContext{Error: err, Request: r})
	}
}

// dispatch runs the phases of a request through l.
func (a *App) dispatch(ctx context.Context, l *loader.Loader) error {
	if err := a.phase(ctx, phaseAutoload, func() error { return l.Autoload() }); err != nil {
		return err
	}

	var stack route.Stack
	err := a.phase(ctx, phaseRoute, func() (err error) {
		req := l.Request()
		stack, err = l.Router().Route(req.URL.Path, req.URL.Query())
		return err
	})
	if err != nil {
		return err
	}

	return a.phase(ctx, phaseHandler, func() error {
		_, err := l.Handler(stack, registry.RoutedField, true, false)
		return err
	})
}

// phase times fn under name, recording it in a span of its own.
func (a *App) phase(ctx context.Context, name string, fn func() error) error {
	_, span := a.tracer.Start(ctx, name)
	defer span.End()

	start := time.Now()
	err := fn()
	a.metrics.duration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
	}

	return err
}

// newLoader builds the scope of a single request.
// Everything a request may mutate is cloned from what the App holds.
func (a *App) newLoader(r *http.Request) (*loader.Loader, error) {
	set := a.set.Clone()
	store := a.store.Clone()
	parser := a.parser.Clone()
	parser.AddFn(template.SiteUrl(store.SiteURL))

	rt, err := route.New(a.table, set, a.r, route.SettingsFrom(store), a.logger)
	if err != nil {
		return nil, err
	}

	return loader.New(loader.Params{
		Request:     r,
		Set:         set,
		Resolver:    a.r,
		Catalog:     a.cat,
		Config:      store,
		Router:      rt,
		Parser:      parser,
		Logger:      a.logger,
		SearchRoots: a.roots,
	})
}

// Resolve reports the route stack uri resolves to, without loading or invoking anything.
func (a *App) Resolve(uri string) (route.Stack, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", switchback.ErrNotValid, err)
	}

	r, err := http.NewRequest(http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", switchback.ErrNotValid, err)
	}

	l, err := a.newLoader(r)
	if err != nil {
		return nil, err
	}

	return l.Router().Route(u.Path, u.Query())
}
