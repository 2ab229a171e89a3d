package errpage

import (
	"errors"
	"fmt"
	html "html/template"
	"net/http"
	"strings"

	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/logger"
	"github.com/xy-planning-network/switchback/registry"
)

// DefaultMaxDepth bounds how many error pages may be shown while showing an error page.
const DefaultMaxDepth = 3

// TemplateDir is the directory under views/ holding the generic error templates.
const TemplateDir = "errors/"

// A Pages shows error pages for a single request.
type Pages struct {
	l        Loader
	logger   logger.Logger
	maxDepth int
	depth    int
}

// New constructs a Pages showing error pages through l.
func New(l Loader, opts ...Option) *Pages {
	p := &Pages{l: l, logger: logger.NewNop(), maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Show renders the error page err calls for into the output of the request.
//
// A *switchback.Error renders as it describes; any other error renders as a 500.
// The error override handler, or the 404 override for a 404, gets first refusal.
// Should it fail, or should no override be configured, the generic template renders.
// Show returns an error only when nothing at all could be rendered.
func (p *Pages) Show(err error) error {
	e := switchback.AsError(err)
	if e == nil {
		return nil
	}

	p.log(e)

	out := p.l.Output()
	out.Unwind()
	out.SetStatus(e.Status)

	p.depth++
	defer func() { p.depth-- }()

	if p.depth > p.maxDepth {
		rerr := fmt.Errorf("%w: %d error pages deep", switchback.ErrRecursion, p.depth)
		p.logger.Error(rerr.Error(), &logger.LogContext{Error: err})
		return p.generic(e)
	}

	if served, oerr := p.override(e); served {
		return nil
	} else if oerr != nil {
		return p.Show(oerr)
	}

	return p.generic(e)
}

// override hands e to the override handler, reporting whether it served the page.
func (p *Pages) override(e *switchback.Error) (bool, error) {
	stack, ok := p.l.Router().ErrorRoute(e.Status == http.StatusNotFound)
	if !ok {
		return false, nil
	}

	stack = stack.WithArgs(e.Heading, strings.Join(e.Messages, "\n"))
	p.l.Container().Unbind(registry.RoutedField)
	p.l.Registry().UnmarkHandler(registry.RoutedField)

	if _, err := p.l.Handler(stack, registry.RoutedField, true, false); err != nil {
		return false, err
	}

	return true, nil
}

// generic renders e through views/errors/<template>, or as plain text when the template is missing.
func (p *Pages) generic(e *switchback.Error) error {
	tmpl := e.Template
	if tmpl == "" {
		tmpl = switchback.GeneralTemplate
	}

	data := map[string]any{
		"heading": e.Heading,
		"message": Paragraphs(e.Messages),
		"status":  e.Status,
	}

	out := p.l.Output()
	err := p.l.RenderView(out, TemplateDir+tmpl, data)
	if err == nil {
		return nil
	}

	if !errors.Is(err, switchback.ErrNotExist) {
		p.logger.Error("rendering error template failed", &logger.LogContext{Error: err})
	}

	h := out.Header()
	h.Set("Content-Type", "text/plain; charset=utf-8")
	h.Set("X-Content-Type-Options", "nosniff")
	_, werr := fmt.Fprintln(out, e.Heading+": "+strings.Join(e.Messages, " "))
	return werr
}

func (p *Pages) log(e *switchback.Error) {
	lc := &logger.LogContext{Error: e, Request: p.l.Request()}
	if e.Status == http.StatusNotFound {
		p.logger.Info("404 Page Not Found --> "+e.Page, lc)
		return
	}

	if e.Status < http.StatusInternalServerError {
		p.logger.Warn(e.Error(), lc)
		return
	}

	p.logger.Error(e.Error(), lc)
}

// Paragraphs wraps each of messages in a <p> element, escaping them.
func Paragraphs(messages []string) html.HTML {
	var b strings.Builder
	for i, msg := range messages {
		if i > 0 {
			b.WriteString("\n")
		}

		b.WriteString("<p>")
		b.WriteString(html.HTMLEscapeString(msg))
		b.WriteString("</p>")
	}

	return html.HTML(b.String())
}
