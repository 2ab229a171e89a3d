package loader

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"path"

	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/http/template"
	"github.com/xy-planning-network/switchback/paths"
)

// View renders the view named name, searching the views/ directory of each view path in turn.
// A name without an extension gets the view extension.
//
// vars are cached for every view rendered after.
// When capture is set, the rendered view is returned instead of written to the output.
func (l *Loader) View(name string, vars map[string]any, capture bool) (string, error) {
	file := name
	if path.Ext(file) == "" {
		file += l.viewExt
	}

	dirs := l.viewDirs()
	if _, ok := l.r.Resolve(dirs, file); !ok {
		err := fmt.Errorf("%w: view %s", switchback.ErrNotExist, file)
		return "", switchback.Fail(err, "Unable to load the requested file: "+file)
	}

	l.Vars(vars)
	return l.render(template.Layered(l.r, dirs...), file, capture)
}

// RenderView renders the view named name into w with data alone, leaving cached variables untouched.
func (l *Loader) RenderView(w io.Writer, name string, data any) error {
	file := name
	if path.Ext(file) == "" {
		file += l.viewExt
	}

	dirs := l.viewDirs()
	if _, ok := l.r.Resolve(dirs, file); !ok {
		return fmt.Errorf("%w: view %s", switchback.ErrNotExist, file)
	}

	return l.parser.Render(w, template.Layered(l.r, dirs...), data, file)
}

// File renders the file at name, relative to the root of the backing store, the way View renders a view.
func (l *Loader) File(name string, capture bool) (string, error) {
	name = paths.Join("", name)
	if !l.r.Exists(name) {
		err := fmt.Errorf("%w: file %s", switchback.ErrNotExist, name)
		return "", switchback.Fail(err, "Unable to load the requested file: "+path.Base(name))
	}

	return l.render(l.r.FS(), name, capture)
}

func (l *Loader) render(fsys fs.FS, file string, capture bool) (string, error) {
	if !capture {
		if err := l.parser.Render(l.out, fsys, l.GetVars(), file); err != nil {
			return "", switchback.Fail(err)
		}

		return "", nil
	}

	b := new(bytes.Buffer)
	if err := l.parser.Render(b, fsys, l.GetVars(), file); err != nil {
		return "", switchback.Fail(err)
	}

	return b.String(), nil
}

func (l *Loader) viewDirs() []string {
	views := l.set.Views()
	dirs := make([]string, 0, len(views))
	for _, dir := range views {
		dirs = append(dirs, dir+"views/")
	}

	return dirs
}

// Vars caches vars for every view rendered after.
func (l *Loader) Vars(vars map[string]any) {
	for k, v := range vars {
		l.vars[k] = v
	}
}

// Var caches a single variable for every view rendered after.
func (l *Loader) Var(key string, val any) { l.vars[key] = val }

// GetVar returns the cached view variable named key.
func (l *Loader) GetVar(key string) (any, bool) {
	v, ok := l.vars[key]
	return v, ok
}

// GetVars returns a copy of every cached view variable.
func (l *Loader) GetVars() map[string]any {
	out := make(map[string]any, len(l.vars))
	for k, v := range l.vars {
		out[k] = v
	}

	return out
}
