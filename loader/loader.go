package loader

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/catalog"
	"github.com/xy-planning-network/switchback/config"
	"github.com/xy-planning-network/switchback/http/template"
	"github.com/xy-planning-network/switchback/logger"
	"github.com/xy-planning-network/switchback/output"
	"github.com/xy-planning-network/switchback/paths"
	"github.com/xy-planning-network/switchback/registry"
	"github.com/xy-planning-network/switchback/route"
)

// Default file extensions.
const (
	DefaultSourceExt = ".go"
	DefaultViewExt   = ".tmpl"
)

// A Language loads string tables on behalf of a Loader.
type Language interface {
	Load(file string) error
}

// Params are the collaborators a Loader resolves and binds components with.
//
// Set, Resolver, Catalog and Config are required.
// Every other field is defaulted when left nil.
type Params struct {
	Request   *http.Request
	Set       *paths.Set
	Resolver  *paths.Resolver
	Catalog   *catalog.Catalog
	Config    *config.Store
	Registry  *registry.Registry
	Container *registry.Container
	Router    *route.Router
	Output    *output.Buffer
	Parser    *template.Parse
	Logger    logger.Logger
	Language  Language

	// SearchRoots are the directories a relative package path is tried against, in order.
	SearchRoots []string
}

// A Loader resolves components, handlers, models, helpers and views of one request
// against the layered directories of its Set and binds them in its Container.
//
// A Loader is scoped to a single request and is not safe for concurrent use.
type Loader struct {
	req    *http.Request
	set    *paths.Set
	r      *paths.Resolver
	cat    *catalog.Catalog
	store  *config.Store
	reg    *registry.Registry
	c      *registry.Container
	router *route.Router
	out    *output.Buffer
	parser *template.Parse
	logger logger.Logger
	lang   Language
	roots  []string

	srcExt    string
	viewExt   string
	framework string
	subclass  string

	vars     map[string]any
	wrappers []catalog.HandlerWrapper
	autoload Autoload
}

// New constructs a Loader, binds the core fields of the request, and autoloads the packages
// and configuration files named by the autoload block.
func New(p Params) (*Loader, error) {
	if p.Set == nil || p.Resolver == nil || p.Catalog == nil || p.Config == nil {
		return nil, fmt.Errorf("%w: loader requires a set, resolver, catalog and config store", switchback.ErrBadConfig)
	}

	l := &Loader{
		req:    p.Request,
		set:    p.Set,
		r:      p.Resolver,
		cat:    p.Catalog,
		store:  p.Config,
		reg:    p.Registry,
		c:      p.Container,
		router: p.Router,
		out:    p.Output,
		parser: p.Parser,
		logger: p.Logger,
		lang:   p.Language,
		roots:  p.SearchRoots,
		vars:   make(map[string]any),
	}

	if l.logger == nil {
		l.logger = logger.NewNop()
	}

	if l.reg == nil {
		l.reg = registry.New()
	}

	if l.c == nil {
		l.c = registry.NewContainer()
	}

	if l.out == nil {
		l.out = output.New()
	}

	if l.parser == nil {
		l.parser = template.NewParser()
	}

	if l.router == nil {
		rt, err := route.New(nil, l.set, l.r, route.SettingsFrom(l.store), l.logger)
		if err != nil {
			return nil, err
		}

		l.router = rt
	}

	l.srcExt = l.store.StringOr("source_ext", DefaultSourceExt)
	l.viewExt = l.store.StringOr("view_ext", DefaultViewExt)
	l.framework = l.store.StringOr("framework_prefix", catalog.FrameworkPrefix)
	l.subclass = l.store.StringOr("subclass_prefix", catalog.SubclassPrefix)

	l.c.Bind(registry.RouterField, l.router)
	l.c.Bind(registry.LoadField, l)
	l.c.Bind(registry.ConfigField, l.store)
	l.c.Bind(registry.OutputField, l.out)

	if err := l.initAutoload(); err != nil {
		return nil, err
	}

	return l, nil
}

// Context returns the context of the request, or a background context when there is no request.
func (l *Loader) Context() context.Context {
	if l.req == nil {
		return context.Background()
	}

	return l.req.Context()
}

// Request returns the request being served.
func (l *Loader) Request() *http.Request { return l.req }

// Output returns the response being assembled.
func (l *Loader) Output() *output.Buffer { return l.out }

// Router returns the Router of the request.
func (l *Loader) Router() *route.Router { return l.router }

// Registry returns the Registry of the request.
func (l *Loader) Registry() *registry.Registry { return l.reg }

// Container returns the Container of the request.
func (l *Loader) Container() *registry.Container { return l.c }

// Set returns the layered directories the Loader searches.
func (l *Loader) Set() *paths.Set { return l.set }

// Parser returns the view parser of the request.
func (l *Loader) Parser() *template.Parse { return l.parser }

// Get returns what the request bound to field.
func (l *Loader) Get(field string) (any, bool) { return l.c.Get(field) }

// IsLoaded returns the field the component named name was bound under.
func (l *Loader) IsLoaded(name string) (string, bool) { return l.reg.IsLoaded(name) }

// Config merges the configuration file named name into the core items.
func (l *Loader) Config(name string) error {
	if err := l.store.Load(name); err != nil {
		return switchback.Fail(err, fmt.Sprintf("The configuration file %s does not exist.", name))
	}

	return nil
}

// Language hands each of files to the Language collaborator.
// Without one, Language is a no-op.
func (l *Loader) Language(files ...string) error {
	if l.lang == nil {
		l.logger.Debug("language files skipped", &logger.LogContext{Data: map[string]any{"files": files}})
		return nil
	}

	for _, f := range files {
		if f == "" {
			continue
		}

		if err := l.lang.Load(f); err != nil {
			return switchback.Fail(err, "Unable to load the requested language file: "+f)
		}
	}

	return nil
}

// AddPackagePath makes the package at path searched before every directory added earlier,
// and appends it to the configuration search paths.
//
// viewCascade set to false stops view lookups at the package.
func (l *Loader) AddPackagePath(path string, viewCascade bool) {
	dir := l.r.ResolvePackageRoot(path, l.roots)
	l.set.Add(dir, viewCascade)
	l.store.AddPath(dir)
	l.logger.Debug("package path added", &logger.LogContext{Data: map[string]any{"path": dir}})
}

// RemovePackagePath undoes AddPackagePath for path.
// An empty path removes the package added most recently.
// The application and base directories are never removed.
func (l *Loader) RemovePackagePath(path string) {
	dir := path
	if path != "" {
		dir = l.r.ResolvePackageRoot(path, l.roots)
	}

	removed, ok := l.set.Remove(dir)
	if !ok {
		return
	}

	l.store.RemovePath(removed)
	l.logger.Debug("package path removed", &logger.LogContext{Data: map[string]any{"path": removed}})
}

// Database constructs the data-access component of the connection group named name and binds it under "db".
// An empty name selects the configured active group.
//
// Database is a no-op when "db" is bound and name is empty.
func (l *Loader) Database(name string) error {
	if name == "" && l.c.Has(DatabaseField) {
		return nil
	}

	block, err := l.store.Get(DatabaseConfig)
	switch {
	case errors.Is(err, switchback.ErrNotExist):
		return switchback.Fail(err, "No database connection settings were found in the database config file.")
	case err != nil:
		return switchback.Fail(err)
	}

	group := name
	if group == "" {
		group, _ = block["active_group"].(string)
	}

	if group == "" {
		group = "default"
	}

	cfg, ok := block[group].(map[string]any)
	if !ok {
		err := fmt.Errorf("%w: database group %s", switchback.ErrBadConfig, group)
		return switchback.Fail(err, "You have specified an invalid database connection group ("+group+") in your config/database file.")
	}

	typeName := l.framework + DatabaseType
	db, err := l.cat.Construct(typeName, cfg)
	if err != nil {
		return switchback.Fail(err, "Unable to connect to your database server using the provided settings.")
	}

	l.c.Bind(DatabaseField, db)
	l.reg.Record(DatabaseType, DatabaseField, typeName)
	l.logger.Debug("database loaded", &logger.LogContext{Data: map[string]any{"group": group}})
	return nil
}

// Data-access component names.
const (
	DatabaseConfig = "database"
	DatabaseField  = "db"
	DatabaseType   = "DB"
)

func ucfirst(s string) string {
	if s == "" {
		return s
	}

	return strings.ToUpper(s[:1]) + s[1:]
}
