package app

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/xy-planning-network/switchback"
)

// Dispatch outcomes counted by the dispatches metric.
const (
	OutcomeOK          = "ok"
	OutcomeNotFound    = "not_found"
	OutcomeClientError = "client_error"
	OutcomeError       = "error"
)

// metrics holds the Prometheus metrics for dispatching requests.
type metrics struct {
	dispatches *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// newMetrics registers the dispatch metrics with reg,
// reusing collectors a previous App already registered there.
func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	dispatches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "switchback",
		Name:      "dispatches_total",
		Help:      "Total number of requests dispatched, by outcome",
	}, []string{"outcome"})

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "switchback",
		Name:      "dispatch_duration_seconds",
		Help:      "Time spent in each phase of dispatching a request",
		Buckets:   prometheus.DefBuckets,
	}, []string{"phase"})

	m := new(metrics)
	var err error
	if m.dispatches, err = register(reg, dispatches); err != nil {
		return nil, err
	}

	if m.duration, err = register(reg, duration); err != nil {
		return nil, err
	}

	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}

	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(C); ok {
			return existing, nil
		}
	}

	return c, err
}

// outcome classifies the error a dispatch ended with.
func outcome(err error) string {
	e := switchback.AsError(err)
	switch {
	case e == nil:
		return OutcomeOK
	case e.Status == http.StatusNotFound:
		return OutcomeNotFound
	case e.Status < http.StatusInternalServerError:
		return OutcomeClientError
	default:
		return OutcomeError
	}
}
