package errpage

import (
	"io"
	"net/http"

	"github.com/xy-planning-network/switchback/loader"
	"github.com/xy-planning-network/switchback/logger"
	"github.com/xy-planning-network/switchback/output"
	"github.com/xy-planning-network/switchback/registry"
	"github.com/xy-planning-network/switchback/route"
)

// A Loader is what Pages needs of the request's loader.
type Loader interface {
	Request() *http.Request
	Output() *output.Buffer
	Router() *route.Router
	Container() *registry.Container
	Registry() *registry.Registry
	Handler(stack route.Stack, field string, invoke, capture bool) (loader.Outcome, error)
	RenderView(w io.Writer, name string, data any) error
}

var _ Loader = (*loader.Loader)(nil)

// An Option configures Pages.
type Option func(*Pages)

// WithLogger sets the logger error pages are reported to.
func WithLogger(l logger.Logger) Option {
	return func(p *Pages) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithMaxDepth sets how many error pages may nest before the generic template is forced.
func WithMaxDepth(n int) Option {
	return func(p *Pages) {
		if n > 0 {
			p.maxDepth = n
		}
	}
}
