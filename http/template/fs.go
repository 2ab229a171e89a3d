package template

import (
	"io/fs"

	"github.com/xy-planning-network/switchback/paths"
)

// layeredFS implements fs.FS
type layeredFS struct {
	r    *paths.Resolver
	dirs []string
}

// Layered constructs an fs.FS opening each name from the first of dirs holding it.
//
// Lookups go through r, so they share its probe cache.
func Layered(r *paths.Resolver, dirs ...string) fs.FS {
	return &layeredFS{r: r, dirs: dirs}
}

// Open opens the file matching the name from the first directory holding it.
func (l *layeredFS) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}

	dir, ok := l.r.Resolve(l.dirs, name)
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}

	return l.r.FS().Open(paths.Join(dir, name))
}
