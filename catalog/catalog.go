package catalog

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/xy-planning-network/switchback"
)

// Default type name prefixes.
const (
	FrameworkPrefix = "SB_"
	SubclassPrefix  = "MY_"
)

// A Config is the configuration block a component is constructed with.
// A Constructor receives a nil Config when no block was found for the component.
type Config = map[string]any

// A FuncMap holds the functions a helper makes available to views.
type FuncMap = map[string]any

// A Constructor builds a component.
type Constructor func(cfg Config) (any, error)

// An Extender builds an override of a component around the base instance it delegates to.
type Extender func(base any, cfg Config) (any, error)

// A ModelFactory builds a model for the request s.
type ModelFactory func(s Scope) (any, error)

type entry struct {
	name     string
	ctor     Constructor
	baseName string
	ext      Extender
}

// A Catalog maps the type names of components, handlers, models and helpers to the code implementing them.
//
// Source files found in the layered directories name what to load;
// the Catalog supplies it.
// A Catalog is populated once at startup and is safe for concurrent use.
type Catalog struct {
	mu       sync.RWMutex
	types    map[string]entry
	handlers map[string]HandlerFactory
	wrappers map[string]HandlerWrapper
	models   map[string]ModelFactory
	helpers  map[string]FuncMap
	drivers  map[string]map[string]Constructor
}

// New constructs an empty Catalog.
func New() *Catalog {
	return &Catalog{
		types:    make(map[string]entry),
		handlers: make(map[string]HandlerFactory),
		wrappers: make(map[string]HandlerWrapper),
		models:   make(map[string]ModelFactory),
		helpers:  make(map[string]FuncMap),
		drivers:  make(map[string]map[string]Constructor),
	}
}

// Register makes the component type typeName available.
//
// Register panics if ctor is nil or typeName is already registered.
func (c *Catalog) Register(typeName string, ctor Constructor) {
	if ctor == nil {
		panic("catalog: Register constructor is nil for " + typeName)
	}

	c.set(entry{name: typeName, ctor: ctor})
}

// Override makes the component type typeName available as an extension of baseTypeName:
// constructing typeName constructs baseTypeName, then hands it to ext.
//
// Override panics if ext is nil, typeName is already registered, or typeName is baseTypeName.
func (c *Catalog) Override(typeName, baseTypeName string, ext Extender) {
	if ext == nil {
		panic("catalog: Override extender is nil for " + typeName)
	}

	if strings.EqualFold(typeName, baseTypeName) {
		panic("catalog: Override of " + typeName + " by itself")
	}

	c.set(entry{name: typeName, baseName: baseTypeName, ext: ext})
}

func (c *Catalog) set(e entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := strings.ToLower(e.name)
	if _, dup := c.types[key]; dup {
		panic("catalog: type registered twice " + e.name)
	}

	c.types[key] = e
}

// Has asserts whether typeName is registered.
// Type names are matched without regard to case.
func (c *Catalog) Has(typeName string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.types[strings.ToLower(typeName)]
	return ok
}

// Types returns the registered component type names, sorted.
func (c *Catalog) Types() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]string, 0, len(c.types))
	for _, e := range c.types {
		out = append(out, e.name)
	}

	sort.Strings(out)
	return out
}

// Construct builds the component type typeName.
func (c *Catalog) Construct(typeName string, cfg Config) (any, error) {
	return c.construct(typeName, cfg, 0)
}

func (c *Catalog) construct(typeName string, cfg Config, depth int) (any, error) {
	c.mu.RLock()
	e, ok := c.types[strings.ToLower(typeName)]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: non-existent type %s", switchback.ErrNotExist, typeName)
	}

	if e.ext == nil {
		return e.ctor(cfg)
	}

	if depth > len(c.types) {
		return nil, fmt.Errorf("%w: %s overrides form a cycle", switchback.ErrBadConfig, typeName)
	}

	base, err := c.construct(e.baseName, cfg, depth+1)
	if err != nil {
		return nil, err
	}

	return e.ext(base, cfg)
}

// RegisterModel makes the model named name available.
// name includes any subdirectory, e.g., "blog/posts".
func (c *Catalog) RegisterModel(name string, f ModelFactory) {
	if f == nil {
		panic("catalog: RegisterModel factory is nil for " + name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	key := strings.ToLower(name)
	if _, dup := c.models[key]; dup {
		panic("catalog: model registered twice " + name)
	}

	c.models[key] = f
}

// Model returns the ModelFactory registered for name.
func (c *Catalog) Model(name string) (ModelFactory, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, ok := c.models[strings.ToLower(name)]
	return f, ok
}

// RegisterHelper makes the helper named name available, e.g., "url_helper" or "MY_url_helper".
func (c *Catalog) RegisterHelper(name string, fns FuncMap) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, dup := c.helpers[name]; dup {
		panic("catalog: helper registered twice " + name)
	}

	c.helpers[name] = fns
}

// Helper returns the functions registered for the helper named name.
func (c *Catalog) Helper(name string) (FuncMap, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	fns, ok := c.helpers[name]
	return fns, ok
}
