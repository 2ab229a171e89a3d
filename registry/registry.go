package registry

import "strings"

// A Record notes one instantiation of a component:
// its logical name, the field it was bound under, and the source it was resolved from.
type Record struct {
	Name   string
	Field  string
	Source string
}

// A Registry tracks what a request has loaded so far.
//
// A Registry is scoped to a single request and is not safe for concurrent use.
type Registry struct {
	records  []Record
	classes  map[string]string
	files    map[string]bool
	handlers map[string]bool
	models   map[string]bool
	helpers  map[string]bool
	bases    map[string]string
	drivers  bool
}

// New constructs an empty Registry.
func New() *Registry {
	return &Registry{
		classes:  make(map[string]string),
		files:    make(map[string]bool),
		handlers: make(map[string]bool),
		models:   make(map[string]bool),
		helpers:  make(map[string]bool),
		bases:    make(map[string]string),
	}
}

// Record notes that name was instantiated from source and bound under field.
func (r *Registry) Record(name, field, source string) {
	r.records = append(r.records, Record{Name: name, Field: field, Source: source})
	r.classes[strings.ToLower(name)] = field
}

// Records returns every instantiation noted, in order.
func (r *Registry) Records() []Record {
	return append([]Record(nil), r.records...)
}

// IsLoaded returns the field the component named name was last bound under.
func (r *Registry) IsLoaded(name string) (string, bool) {
	field, ok := r.classes[strings.ToLower(name)]
	return field, ok
}

// MarkFile notes that the component source at path has been loaded.
func (r *Registry) MarkFile(path string) { r.files[path] = true }

// HasFile asserts whether the component source at path has been loaded.
func (r *Registry) HasFile(path string) bool { return r.files[path] }

// MarkHandler notes a handler has been instantiated under field.
func (r *Registry) MarkHandler(field string) { r.handlers[field] = true }

// HasHandler asserts whether a handler has been instantiated under field.
func (r *Registry) HasHandler(field string) bool { return r.handlers[field] }

// UnmarkHandler forgets the handler instantiated under field, so another may take its place.
func (r *Registry) UnmarkHandler(field string) { delete(r.handlers, field) }

// MarkModel notes a model has been instantiated under field.
func (r *Registry) MarkModel(field string) { r.models[field] = true }

// HasModel asserts whether a model has been instantiated under field.
func (r *Registry) HasModel(field string) bool { return r.models[field] }

// MarkHelper notes the helper named name has been loaded.
func (r *Registry) MarkHelper(name string) { r.helpers[name] = true }

// HasHelper asserts whether the helper named name has been loaded.
func (r *Registry) HasHelper(name string) bool { return r.helpers[name] }

// MarkBase notes the base abstraction of kind, e.g., "Handler", was loaded from source.
func (r *Registry) MarkBase(kind, source string) { r.bases[kind] = source }

// Base returns the source the base abstraction of kind was loaded from.
func (r *Registry) Base(kind string) (string, bool) {
	src, ok := r.bases[kind]
	return src, ok
}

// MarkDrivers notes the driver family base abstraction is available.
func (r *Registry) MarkDrivers() { r.drivers = true }

// HasDrivers asserts whether the driver family base abstraction is available.
func (r *Registry) HasDrivers() bool { return r.drivers }
