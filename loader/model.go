package loader

import (
	"fmt"
	"strings"

	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/logger"
)

// ModelBase is the name of the abstraction every model builds on.
const ModelBase = "Model"

// Models loads each of names under its default field.
func (l *Loader) Models(names ...string) error {
	for _, name := range names {
		if err := l.Model(name, ""); err != nil {
			return err
		}
	}

	return nil
}

// Model loads the model named name, an optional subdirectory of models/ followed by the model,
// binding it under field, or name when empty.
//
// Loading a model under a field already holding one is a no-op.
func (l *Loader) Model(name, field string) error {
	return l.model(name, field, false, "")
}

// ModelDB loads the model as Model does, first loading the database connection group named conn
// unless a database is already bound.
func (l *Loader) ModelDB(name, field, conn string) error {
	return l.model(name, field, true, conn)
}

func (l *Loader) model(name, field string, withDB bool, conn string) error {
	name = strings.Trim(strings.TrimSpace(name), "/")
	if name == "" {
		return nil
	}

	var dir string
	if i := strings.LastIndex(name, "/"); i >= 0 {
		dir, name = name[:i+1], name[i+1:]
	}

	if field == "" {
		field = name
	}

	if l.reg.HasModel(field) {
		return nil
	}

	if l.c.Has(field) {
		err := fmt.Errorf("%w: model %s", switchback.ErrNameConflict, field)
		return switchback.Fail(err, "The model name you are loading is the name of a resource that is already being used: "+field)
	}

	if withDB && !l.c.Has(DatabaseField) {
		if err := l.Database(conn); err != nil {
			return err
		}
	}

	if err := l.ensureModelBase(); err != nil {
		return err
	}

	lc := strings.ToLower(name)
	src, ok := l.r.Resolve(l.set.MVC(), "models/"+dir+lc+l.srcExt)
	if !ok {
		err := fmt.Errorf("%w: model %s%s", switchback.ErrNotExist, dir, lc)
		return switchback.Fail(err, "Unable to locate the model you have specified: "+lc)
	}
	src += "models/" + dir + lc + l.srcExt

	factory, ok := l.cat.Model(dir + lc)
	if !ok {
		err := fmt.Errorf("%w: model %s%s found in %s but not registered", switchback.ErrNotExist, dir, lc, src)
		return switchback.Fail(err, "Non-existent class: "+ucfirst(lc))
	}

	m, err := factory(l)
	if err != nil {
		return switchback.Fail(err, "Unable to construct the requested model: "+ucfirst(lc))
	}

	l.c.Bind(field, m)
	l.reg.MarkModel(field)
	l.reg.Record(lc, field, src)
	l.logger.Debug("model loaded", &logger.LogContext{Data: map[string]any{"field": field, "source": src}})
	return nil
}

// ensureModelBase requires the model abstraction the first time a model loads, noting its subclass when present.
func (l *Loader) ensureModelBase() error {
	if _, ok := l.reg.Base(ModelBase); ok {
		return nil
	}

	rel := "core/" + ModelBase + l.srcExt
	dir, ok := l.r.Resolve(l.set.Library(), rel)
	if !ok {
		err := fmt.Errorf("%w: %s", switchback.ErrNotExist, rel)
		return switchback.Fail(err, "Unable to load the requested class: "+ModelBase)
	}

	sub := "core/" + l.subclass + ModelBase + l.srcExt
	if subDir, ok := l.r.Resolve(l.set.MVC(), sub); ok {
		l.reg.MarkBase(l.subclass+ModelBase, subDir+sub)
	}

	l.reg.MarkBase(ModelBase, dir+rel)
	return nil
}
