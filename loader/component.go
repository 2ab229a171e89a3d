package loader

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/catalog"
	"github.com/xy-planning-network/switchback/logger"
	"github.com/xy-planning-network/switchback/registry"
)

// DriverBase is the name of the abstraction every driver family builds on.
const DriverBase = "Driver"

// fieldAliases map the lowercased names of components to the fields they bind under by default.
var fieldAliases = map[string]string{
	"unit_test":  "unit",
	"user_agent": "agent",
}

var reservedFields = map[string]bool{
	registry.RouterField: true,
	registry.LoadField:   true,
	registry.ConfigField: true,
	registry.OutputField: true,
}

// Components loads each of names with default configuration and fields.
func (l *Loader) Components(names ...string) error {
	for _, name := range names {
		if err := l.Component(name, nil, ""); err != nil {
			return err
		}
	}

	return nil
}

// Component loads the component named name, an optional subdirectory of components/ followed by its class,
// e.g., "Email" or "payments/Stripe".
//
// cfg configures the component; nil probes for a configuration file named after it.
// field names where the instance is bound; empty binds under the lowercased name.
//
// Loading a component twice is a no-op unless field names a field not yet bound,
// in which case a second, independent instance is bound there.
func (l *Loader) Component(name string, cfg catalog.Config, field string) error {
	name = strings.TrimSuffix(strings.Trim(strings.TrimSpace(name), "/"), l.srcExt)
	if name == "" || reservedFields[strings.ToLower(name)] {
		return nil
	}

	return l.loadComponent(name, cfg, field)
}

// Driver loads the driver family named name.
// A name without a subdirectory is inferred to live in one named after it, e.g., "Cache" loads "Cache/Cache".
func (l *Loader) Driver(name string, cfg catalog.Config, field string) error {
	name = strings.Trim(strings.TrimSpace(name), "/")
	if name == "" {
		return nil
	}

	if !strings.Contains(name, "/") {
		name = ucfirst(name) + "/" + name
	}

	if err := l.ensureDrivers(); err != nil {
		return err
	}

	return l.Component(name, cfg, field)
}

func (l *Loader) loadComponent(name string, cfg catalog.Config, field string) error {
	var subdir string
	if i := strings.LastIndex(name, "/"); i >= 0 {
		subdir, name = name[:i+1], name[i+1:]
	}

	for _, class := range []string{ucfirst(name), strings.ToLower(name)} {
		// An override is only valid alongside the base implementation it extends.
		rel := "components/" + subdir + l.subclass + class + l.srcExt
		for _, dir := range l.set.Library() {
			src := dir + rel
			if !l.r.Exists(src) {
				continue
			}

			base := l.set.Base() + "components/" + subdir + ucfirst(class) + l.srcExt
			if !l.r.Exists(base) {
				err := fmt.Errorf("%w: %s overrides missing %s", switchback.ErrNotExist, src, base)
				return switchback.Fail(err, "Unable to load the requested class: "+class)
			}

			return l.claim(src, class, l.subclass, cfg, field, false)
		}

		rel = "components/" + subdir + class + l.srcExt
		for _, dir := range l.set.Library() {
			src := dir + rel
			if !l.r.Exists(src) {
				continue
			}

			family := strings.EqualFold(subdir, class+"/")
			if family {
				if err := l.ensureDrivers(); err != nil {
					return err
				}
			}

			return l.claim(src, class, "", cfg, field, family)
		}
	}

	switch {
	case subdir == "":
		return l.loadComponent(strings.ToLower(name)+"/"+name, cfg, field)
	case ucfirst(subdir) != subdir:
		return l.loadComponent(ucfirst(subdir)+name, cfg, field)
	}

	err := fmt.Errorf("%w: component %s%s", switchback.ErrNotExist, subdir, name)
	return switchback.Fail(err, "Unable to load the requested class: "+name)
}

// claim instantiates the component at src unless it is already loaded.
func (l *Loader) claim(src, class, prefix string, cfg catalog.Config, field string, family bool) error {
	if l.reg.HasFile(src) {
		if field != "" && !l.c.Has(field) {
			return l.instantiate(class, prefix, cfg, field, src, family)
		}

		l.logger.Debug("duplicate load ignored", &logger.LogContext{Data: map[string]any{"source": src}})
		return nil
	}

	if f := fieldFor(strings.ToLower(class), field); l.c.Has(f) {
		err := fmt.Errorf("%w: component %s", switchback.ErrNameConflict, f)
		return switchback.Fail(err, "The component name you are loading is the name of a resource that is already being used: "+f)
	}

	l.reg.MarkFile(src)
	return l.instantiate(class, prefix, cfg, field, src, family)
}

// fieldFor names the field a component of lowercased class lc binds to when the caller names none.
func fieldFor(lc, field string) string {
	if field != "" {
		return field
	}

	if alias, ok := fieldAliases[lc]; ok {
		return alias
	}

	return lc
}

func (l *Loader) instantiate(class, prefix string, cfg catalog.Config, field, src string, family bool) error {
	lc := strings.ToLower(class)
	if cfg == nil {
		probed, err := l.probeConfig(lc)
		if err != nil {
			return switchback.Fail(err, "Unable to read the configuration of class: "+class)
		}

		cfg = probed
	}

	typeName := prefix + class
	if prefix == "" {
		switch {
		case l.cat.Has(l.framework + class):
			typeName = l.framework + class
		case l.cat.Has(l.subclass + class):
			typeName = l.subclass + class
		}
	}

	if !l.cat.Has(typeName) {
		err := fmt.Errorf("%w: non-existent class %s", switchback.ErrNotExist, typeName)
		return switchback.Fail(err, "Non-existent class: "+class)
	}

	field = fieldFor(lc, field)

	l.reg.Record(lc, field, src)

	inst, err := l.cat.Construct(typeName, cfg)
	if err != nil {
		return switchback.Fail(err, "Unable to construct the requested class: "+class)
	}

	if host, ok := inst.(catalog.DriverHost); ok && family {
		if err := host.UseDrivers(l.cat.Drivers(class, cfg)); err != nil {
			return switchback.Fail(err, "Unable to load the drivers of class: "+class)
		}
	}

	l.c.Bind(field, inst)
	l.logger.Debug("component loaded", &logger.LogContext{Data: map[string]any{"type": typeName, "field": field, "source": src}})
	return nil
}

// probeConfig looks for a configuration file named after a component, lowercased then capitalized.
func (l *Loader) probeConfig(lc string) (catalog.Config, error) {
	for _, name := range []string{lc, ucfirst(lc)} {
		b, err := l.store.Get(name)
		switch {
		case errors.Is(err, switchback.ErrNotExist):
			continue
		case err != nil:
			return nil, err
		}

		return b, nil
	}

	return nil, nil
}

// ensureDrivers requires the driver abstraction in the framework base the first time a driver family loads.
func (l *Loader) ensureDrivers() error {
	if l.reg.HasDrivers() {
		return nil
	}

	src := l.set.Base() + "components/" + DriverBase + l.srcExt
	if !l.r.Exists(src) {
		err := fmt.Errorf("%w: %s", switchback.ErrNotExist, src)
		return switchback.Fail(err, "Unable to load the requested class: "+DriverBase)
	}

	l.reg.MarkDrivers()
	l.reg.MarkBase(DriverBase, src)
	return nil
}
