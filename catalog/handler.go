package catalog

import (
	"context"
	"net/http"
	"strings"

	"github.com/xy-planning-network/switchback/output"
)

// An EntryPoint is an operation of a Handler a route may invoke.
type EntryPoint func(ctx context.Context, args ...string) (any, error)

// A Handler serves the requests routed to it through its entry points.
type Handler interface {
	EntryPoints() map[string]EntryPoint
}

// A Remapper is a Handler that chooses which of its operations serves an entry point itself.
type Remapper interface {
	Handler
	Remap(ctx context.Context, entry string, args ...string) (any, error)
}

// A HandlerFactory builds a Handler for the request s.
type HandlerFactory func(s Scope) (Handler, error)

// A HandlerWrapper layers behavior shared by every handler of an app over h.
type HandlerWrapper func(h Handler, s Scope) (Handler, error)

// The Scope is what handlers and models see of the request they serve.
type Scope interface {
	// Get returns what the request bound to field.
	Get(field string) (any, bool)

	// Component loads the component named name, binding it under field, or a default field when empty.
	Component(name string, cfg Config, field string) error

	// Model loads the model named name, binding it under field, or a default field when empty.
	Model(name, field string) error

	// Helper makes the functions of the named helpers available to views.
	Helper(names ...string) error

	// View renders the view named name; when capture is set, the rendered view is returned instead of written.
	View(name string, vars map[string]any, capture bool) (string, error)

	// Vars caches variables available to every view rendered after.
	Vars(vars map[string]any)

	// Output returns the response being assembled.
	Output() *output.Buffer

	// Request returns the request being served.
	Request() *http.Request
}

// RegisterHandler makes the handler named name available.
// name includes any subdirectory, e.g., "admin/users".
func (c *Catalog) RegisterHandler(name string, f HandlerFactory) {
	if f == nil {
		panic("catalog: RegisterHandler factory is nil for " + name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	key := strings.ToLower(name)
	if _, dup := c.handlers[key]; dup {
		panic("catalog: handler registered twice " + name)
	}

	c.handlers[key] = f
}

// Handler returns the HandlerFactory registered for name.
func (c *Catalog) Handler(name string) (HandlerFactory, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, ok := c.handlers[strings.ToLower(name)]
	return f, ok
}

// WrapHandlers registers w under typeName, e.g., "MY_Handler".
// When the source of typeName is present, every handler is wrapped by w.
func (c *Catalog) WrapHandlers(typeName string, w HandlerWrapper) {
	if w == nil {
		panic("catalog: WrapHandlers wrapper is nil for " + typeName)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, dup := c.wrappers[typeName]; dup {
		panic("catalog: handler wrapper registered twice " + typeName)
	}

	c.wrappers[typeName] = w
}

// Wrapper returns the HandlerWrapper registered under typeName.
func (c *Catalog) Wrapper(typeName string) (HandlerWrapper, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	w, ok := c.wrappers[typeName]
	return w, ok
}

// EntryPoints adapts a map of entry points into a Handler.
type EntryPoints map[string]EntryPoint

func (e EntryPoints) EntryPoints() map[string]EntryPoint { return e }
