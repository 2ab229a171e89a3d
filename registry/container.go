package registry

import (
	"fmt"
	"sort"

	"github.com/xy-planning-network/switchback"
)

// Reserved fields every request binds before loading anything.
const (
	RouterField = "router"
	LoadField   = "load"
	ConfigField = "config"
	OutputField = "output"
)

// RoutedField is where the handler serving the request is bound.
const RoutedField = "routed"

// A Container binds the instances a request has loaded to field names,
// much as the properties of a single application object.
type Container struct {
	fields map[string]any
}

// NewContainer constructs an empty Container.
func NewContainer() *Container {
	return &Container{fields: make(map[string]any)}
}

// Bind sets field to v, replacing whatever was bound there.
func (c *Container) Bind(field string, v any) {
	c.fields[field] = v
}

// BindNew sets field to v, failing with [switchback.ErrNameConflict] when field is already bound.
func (c *Container) BindNew(field string, v any) error {
	if _, ok := c.fields[field]; ok {
		return fmt.Errorf("%w: %s", switchback.ErrNameConflict, field)
	}

	c.fields[field] = v
	return nil
}

// Get returns what is bound to field.
func (c *Container) Get(field string) (any, bool) {
	v, ok := c.fields[field]
	return v, ok
}

// Has asserts whether field is bound.
func (c *Container) Has(field string) bool {
	_, ok := c.fields[field]
	return ok
}

// Unbind drops field.
func (c *Container) Unbind(field string) {
	delete(c.fields, field)
}

// Fields returns the bound field names, sorted.
func (c *Container) Fields() []string {
	out := make([]string, 0, len(c.fields))
	for f := range c.fields {
		out = append(out, f)
	}

	sort.Strings(out)
	return out
}

// Lookup returns what is bound to field as a T.
func Lookup[T any](c *Container, field string) (T, bool) {
	v, ok := c.Get(field)
	if !ok {
		var zero T
		return zero, false
	}

	t, ok := v.(T)
	return t, ok
}
