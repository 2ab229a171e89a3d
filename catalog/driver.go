package catalog

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/xy-planning-network/switchback"
)

// A DriverHost is a component heading a driver family:
// a component living in a subdirectory named after itself, e.g., components/Cache/Cache.go,
// whose implementations are chosen among the drivers registered for the family.
type DriverHost interface {
	UseDrivers(ds *DriverSet) error
}

// RegisterDriver makes the driver named name available to the family.
func (c *Catalog) RegisterDriver(family, name string, ctor Constructor) {
	if ctor == nil {
		panic("catalog: RegisterDriver constructor is nil for " + family + "/" + name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	key := strings.ToLower(family)
	if c.drivers[key] == nil {
		c.drivers[key] = make(map[string]Constructor)
	}

	if _, dup := c.drivers[key][name]; dup {
		panic("catalog: driver registered twice " + family + "/" + name)
	}

	c.drivers[key][name] = ctor
}

// Drivers returns the DriverSet of family, configured by cfg.
func (c *Catalog) Drivers(family string, cfg Config) *DriverSet {
	c.mu.RLock()
	defer c.mu.RUnlock()

	key := strings.ToLower(family)
	ctors := make(map[string]Constructor, len(c.drivers[key]))
	for name, ctor := range c.drivers[key] {
		ctors[name] = ctor
	}

	return &DriverSet{family: family, cfg: cfg, ctors: ctors, loaded: make(map[string]any)}
}

// A DriverSet lazily constructs the drivers of a family.
type DriverSet struct {
	family string
	cfg    Config
	ctors  map[string]Constructor

	mu     sync.Mutex
	loaded map[string]any
}

// Family returns the name of the driver family.
func (ds *DriverSet) Family() string { return ds.family }

// Names returns the names of the drivers available, sorted.
func (ds *DriverSet) Names() []string {
	out := make([]string, 0, len(ds.ctors))
	for name := range ds.ctors {
		out = append(out, name)
	}

	sort.Strings(out)
	return out
}

// Load constructs the driver named name, once.
//
// A driver is configured by the family block, overlaid with the family block's entry
// under the driver's own name when that entry is a block itself.
func (ds *DriverSet) Load(name string) (any, error) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	if d, ok := ds.loaded[name]; ok {
		return d, nil
	}

	ctor, ok := ds.ctors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s driver %s", switchback.ErrNotExist, ds.family, name)
	}

	cfg := ds.cfg
	if sub, ok := ds.cfg[name].(map[string]any); ok {
		cfg = make(Config, len(ds.cfg)+len(sub))
		for k, v := range ds.cfg {
			cfg[k] = v
		}
		for k, v := range sub {
			cfg[k] = v
		}
	}

	d, err := ctor(cfg)
	if err != nil {
		return nil, err
	}

	ds.loaded[name] = d
	return d, nil
}
