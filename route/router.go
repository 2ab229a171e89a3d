package route

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/logger"
	"github.com/xy-planning-network/switchback/paths"
)

// A Router resolves the request URI into the Stack the request dispatches to.
//
// A Router is scoped to one request: it routes once,
// after which its Stack may only be adjusted through its setters.
type Router struct {
	table    *Table
	set      *paths.Set
	r        *paths.Resolver
	settings Settings
	logger   logger.Logger

	permitted *regexp.Regexp
	stack     Stack
	routed    bool
}

// New constructs a Router.
//
// set is consulted at validation time,
// so packages added to it after construction take part in routing.
// New fails with [switchback.ErrBadConfig] when settings.PermittedChars is not a valid character class.
func New(table *Table, set *paths.Set, r *paths.Resolver, settings Settings, l logger.Logger) (*Router, error) {
	if table == nil {
		table = new(Table)
	}

	if l == nil {
		l = logger.NewNop()
	}

	rt := &Router{
		table:    table,
		set:      set,
		r:        r,
		settings: settings.withDefaults(),
		logger:   l,
		stack:    NewStack(),
	}

	if chars := rt.settings.PermittedChars; chars != "" {
		re, err := regexp.Compile("(?i)^[" + chars + "]+$")
		if err != nil {
			return nil, fmt.Errorf("%w: permitted_uri_chars: %s", switchback.ErrBadConfig, err)
		}

		rt.permitted = re
	}

	return rt, nil
}

// Table returns the Table the Router matches against.
func (rt *Router) Table() *Table { return rt.table }

// Route resolves uri, or the triggers in query when query string dispatch is enabled, into the Router's Stack.
//
// Route fails with a [*switchback.Error]:
// a 404 when no handler serves the request,
// a 400 when a segment carries disallowed characters.
// Routing a second time fails with [switchback.ErrNotValid].
func (rt *Router) Route(uri string, query url.Values) (Stack, error) {
	if rt.routed {
		return nil, fmt.Errorf("%w: request already routed", switchback.ErrNotValid)
	}

	s := rt.settings
	if s.QueryStrings && query.Has(s.HandlerTrigger) {
		var segs []string
		if query.Has(s.DirectoryTrigger) {
			segs = append(segs, strings.TrimSpace(query.Get(s.DirectoryTrigger)))
		}

		handler := strings.TrimSpace(query.Get(s.HandlerTrigger))
		segs = append(segs, handler)
		if query.Has(s.EntryTrigger) {
			segs = append(segs, strings.TrimSpace(query.Get(s.EntryTrigger)))
		}

		if err := rt.check(segs); err != nil {
			return nil, err
		}

		return rt.set404(segs, handler)
	}

	segs := Segments(uri, s.Suffix)
	if err := rt.check(segs); err != nil {
		return nil, err
	}

	target := segs
	if remapped, ok := rt.table.Match(segs); ok {
		rt.logger.Debug("route remapped", &logger.LogContext{Data: map[string]any{"uri": strings.Join(segs, "/"), "route": remapped}})
		target = remapped
	}

	var page string
	if len(segs) > 0 {
		page = segs[0]
	}

	return rt.set404(target, page)
}

// RouteSegments resolves already split segments, skipping suffix and query string handling.
func (rt *Router) RouteSegments(segs []string) (Stack, error) {
	if rt.routed {
		return nil, fmt.Errorf("%w: request already routed", switchback.ErrNotValid)
	}

	target := segs
	if remapped, ok := rt.table.Match(segs); ok {
		target = remapped
	}

	var page string
	if len(segs) > 0 {
		page = segs[0]
	}

	return rt.set404(target, page)
}

func (rt *Router) set404(segs []string, page string) (Stack, error) {
	stack, ok := rt.Validate(segs)
	if !ok {
		rt.logger.Debug("route not found", &logger.LogContext{Data: map[string]any{"segments": segs}})
		return nil, switchback.NotFound(page)
	}

	rt.stack = stack
	rt.routed = true
	rt.SetSubdirectory(stack[SegSubdir])
	rt.SetHandler(stack[SegHandler])

	rt.logger.Debug("route resolved", &logger.LogContext{Route: rt.stack})
	return rt.Stack(), nil
}

func (rt *Router) check(segs []string) error {
	if rt.permitted == nil {
		return nil
	}

	for _, seg := range segs {
		if seg != "" && !rt.permitted.MatchString(seg) {
			return switchback.BadRequest("The URI you submitted has disallowed characters.")
		}
	}

	return nil
}

// Validate resolves segments into a Stack by searching the MVC directories for a handler.
//
// Empty segments resolve to the default handler.
// When the first segment names a subdirectory of handlers/,
// the second names the handler in it; without one, the default handler is used,
// its first segment skipped.
func (rt *Router) Validate(segs []string) (Stack, bool) {
	route := append([]string(nil), segs...)
	if len(route) == 0 {
		route = rt.table.DefaultSegments()
		if len(route) == 0 {
			return nil, false
		}
	}

	ext := rt.settings.Ext
	for _, dir := range rt.set.MVC() {
		if rt.r.Exists(dir + "handlers/" + route[0] + ext) {
			if len(route) < 2 {
				route = append(route, Index)
			}

			return append(Stack{dir, ""}, route...), true
		}

		if !rt.r.IsDir(dir + "handlers/" + route[0] + "/") {
			continue
		}

		var (
			handler, entry string
			rest           []string
		)
		if len(route) > 1 {
			handler = route[1]
			entry = Index
			if len(route) > 2 {
				entry = route[2]
			}
		} else {
			def := rt.table.DefaultSegments()
			if len(def) == 0 {
				continue
			}

			handler = def[1]
			entry = Index
			if len(def) > 2 {
				entry = def[2]
				rest = def[3:]
			}
		}

		if !rt.r.Exists(dir + "handlers/" + route[0] + "/" + handler + ext) {
			continue
		}

		out := append(Stack{dir, route[0] + "/"}, route[1:]...)
		if len(route) < 2 {
			out = append(out, handler)
		}
		if len(route) < 3 {
			out = append(out, entry)
		}

		return append(out, rest...), true
	}

	return nil, false
}

// ErrorRoute validates the 404 or error override route, if one is configured.
func (rt *Router) ErrorRoute(is404 bool) (Stack, bool) {
	override := rt.table.ErrorOverride
	if is404 {
		override = rt.table.NotFoundOverride
	}

	if override == "" {
		return nil, false
	}

	return rt.Validate(strings.Split(override, "/"))
}

// Routed reports whether the Router resolved a Stack.
func (rt *Router) Routed() bool { return rt.routed }

// Stack returns a copy of the resolved Stack.
func (rt *Router) Stack() Stack { return rt.stack.Clone() }

// Segments returns the routed segments, the handler onward.
func (rt *Router) Segments() []string {
	return append([]string(nil), rt.stack[SegHandler:]...)
}

// Handler returns the handler name.
func (rt *Router) Handler() string { return rt.stack[SegHandler] }

// EntryPoint returns the entry point name,
// reporting [Index] when it is the same as the handler name.
func (rt *Router) EntryPoint() string {
	if e := rt.stack[SegEntry]; e != rt.stack[SegHandler] {
		return e
	}

	return Index
}

// Subdirectory returns the handler subdirectory.
func (rt *Router) Subdirectory() string { return rt.stack[SegSubdir] }

// BasePath returns the base directory the handler was found in.
func (rt *Router) BasePath() string { return rt.stack[SegPath] }

// SetHandler sets the handler name, stripping path characters from it.
func (rt *Router) SetHandler(name string) { rt.stack[SegHandler] = sanitize(name) }

// SetEntryPoint sets the entry point name, stripping path characters from it.
func (rt *Router) SetEntryPoint(name string) { rt.stack[SegEntry] = sanitize(name) }

// SetSubdirectory sets the handler subdirectory, stripping path characters from it.
func (rt *Router) SetSubdirectory(dir string) {
	if dir = sanitize(dir); dir != "" {
		dir += "/"
	}

	rt.stack[SegSubdir] = dir
}

// SetBasePath sets the base directory of the handler.
func (rt *Router) SetBasePath(dir string) { rt.stack[SegPath] = paths.Dir(dir) }

// Overrides redirect a routed request, as a front controller may do before dispatching.
type Overrides struct {
	Directory  *string
	Handler    string
	EntryPoint *string
}

// SetOverrides applies o to the Stack.
// A present but empty entry point becomes [Index].
func (rt *Router) SetOverrides(o Overrides) {
	if o.Directory != nil {
		rt.SetSubdirectory(*o.Directory)
	}

	if o.Handler != "" {
		rt.SetHandler(o.Handler)
	}

	if o.EntryPoint != nil {
		entry := *o.EntryPoint
		if entry == "" {
			entry = Index
		}
		rt.SetEntryPoint(entry)
	}
}

var pathChars = strings.NewReplacer("/", "", ".", "")

func sanitize(name string) string {
	return pathChars.Replace(name)
}

// Segments splits uri on slashes after stripping suffix,
// dropping empty segments and trimming space around the rest.
func Segments(uri, suffix string) []string {
	uri = strings.TrimSpace(uri)
	if suffix != "" {
		uri = strings.TrimSuffix(uri, suffix)
	}

	var segs []string
	for _, seg := range strings.Split(uri, "/") {
		if seg = strings.TrimSpace(seg); seg != "" {
			segs = append(segs, seg)
		}
	}

	return segs
}
