package loader

import (
	"fmt"
	"strings"

	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/catalog"
	"github.com/xy-planning-network/switchback/logger"
	"github.com/xy-planning-network/switchback/route"
)

// HandlerBase is the name of the abstraction every handler builds on.
const HandlerBase = "Handler"

// An Outcome reports what loading a handler did.
type Outcome struct {
	// Value is what the entry point returned.
	Value any

	// Output is what the entry point wrote, when captured.
	Output string

	// Invoked is set when an entry point ran.
	Invoked bool
}

// HandlerURI validates uri into a Stack, then loads the handler it names as Handler does.
func (l *Loader) HandlerURI(uri, field string, invoke, capture bool) (Outcome, error) {
	stack, ok := l.router.Validate(route.Segments(uri, ""))
	if !ok {
		return Outcome{}, switchback.NotFound(uri)
	}

	return l.Handler(stack, field, invoke, capture)
}

// Handler loads the handler the route names, binding it under field, or its lowercased name when empty,
// then, when invoke is set, calls the entry point of the route with its arguments.
//
// A handler already loaded under field is reused.
// When capture is set, whatever the entry point writes to the output is returned in the Outcome instead.
func (l *Loader) Handler(stack route.Stack, field string, invoke, capture bool) (Outcome, error) {
	if len(stack) <= route.SegEntry {
		err := fmt.Errorf("%w: route of %d segments", switchback.ErrNotValid, len(stack))
		return Outcome{}, switchback.Fail(err)
	}

	class := stack.Handler()
	if field == "" {
		field = strings.ToLower(class)
	}

	if !l.reg.HasHandler(field) {
		if err := l.loadHandler(stack, field); err != nil {
			return Outcome{}, err
		}
	}

	if !invoke {
		return Outcome{}, nil
	}

	v, _ := l.c.Get(field)
	h, ok := v.(catalog.Handler)
	if !ok {
		err := fmt.Errorf("%w: %s is bound to %T", switchback.ErrNameConflict, field, v)
		return Outcome{}, switchback.Fail(err)
	}

	if capture {
		l.out.Push()
	}

	val, err := l.call(h, stack)
	out := Outcome{Value: val, Invoked: true}
	if capture {
		out.Output = l.out.Pop()
	}

	return out, err
}

func (l *Loader) loadHandler(stack route.Stack, field string) error {
	if l.c.Has(field) {
		err := fmt.Errorf("%w: handler %s", switchback.ErrNameConflict, field)
		return switchback.Fail(err, "The handler name you are loading is the name of a resource that is already being used: "+field)
	}

	if err := l.ensureHandlerBase(); err != nil {
		return err
	}

	dir, subdir, class := stack.Path(), stack.Subdirectory(), stack.Handler()
	src := dir + "handlers/" + subdir + strings.ToLower(class) + l.srcExt
	if !l.r.Exists(src) {
		src = dir + "handlers/" + subdir + class + l.srcExt
		if !l.r.Exists(src) {
			return switchback.NotFound(subdir + class)
		}
	}

	factory, ok := l.cat.Handler(subdir + class)
	if !ok {
		err := fmt.Errorf("%w: handler %s%s", switchback.ErrNotExist, subdir, class)
		return switchback.Fail(err, "Non-existent class: "+class)
	}

	h, err := factory(l)
	if err != nil {
		return switchback.Fail(err, "Unable to construct the requested handler: "+class)
	}

	for _, w := range l.wrappers {
		if h, err = w(h, l); err != nil {
			return switchback.Fail(err, "Unable to construct the requested handler: "+class)
		}
	}

	l.c.Bind(field, h)
	l.reg.MarkHandler(field)
	l.reg.Record(strings.ToLower(class), field, src)
	l.logger.Debug("handler loaded", &logger.LogContext{Data: map[string]any{"field": field, "source": src}})
	return nil
}

// ensureHandlerBase requires the handler abstraction and, when present, its subclass, the first time a handler loads.
func (l *Loader) ensureHandlerBase() error {
	if _, ok := l.reg.Base(HandlerBase); ok {
		return nil
	}

	base, ok := l.r.Resolve(l.set.Library(), "core/"+HandlerBase+l.srcExt)
	if !ok {
		err := fmt.Errorf("%w: core/%s%s", switchback.ErrNotExist, HandlerBase, l.srcExt)
		return switchback.Fail(err, "Unable to load the requested class: "+HandlerBase)
	}

	var wrappers []catalog.HandlerWrapper
	if w, ok := l.cat.Wrapper(l.framework + HandlerBase); ok {
		wrappers = append(wrappers, w)
	}

	sub := l.subclass + HandlerBase
	if dir, ok := l.r.Resolve(l.set.MVC(), "core/"+sub+l.srcExt); ok {
		w, ok := l.cat.Wrapper(sub)
		if !ok {
			err := fmt.Errorf("%w: %s found in %s but not registered", switchback.ErrNotExist, sub, dir)
			return switchback.Fail(err, "Non-existent class: "+sub)
		}

		wrappers = append(wrappers, w)
		l.reg.MarkBase(sub, dir+"core/"+sub+l.srcExt)
	}

	l.wrappers = wrappers
	l.reg.MarkBase(HandlerBase, base+"core/"+HandlerBase+l.srcExt)
	return nil
}

// call invokes the entry point of stack on h.
// An entry point h does not offer, or one marked private by a leading underscore, is a 404.
func (l *Loader) call(h catalog.Handler, stack route.Stack) (any, error) {
	class, entry, args := stack.Handler(), stack.EntryPoint(), stack.Args()
	if entry == "" {
		entry = route.Index
	}

	ctx := switchback.WithRoute(l.Context(), stack[route.SegHandler:])
	if rm, ok := h.(catalog.Remapper); ok {
		return rm.Remap(ctx, entry, args...)
	}

	ep, ok := h.EntryPoints()[entry]
	if !ok || ep == nil || strings.HasPrefix(entry, "_") {
		return nil, switchback.NotFound(class + "/" + entry)
	}

	return ep(ctx, args...)
}
