package paths

import (
	"io/fs"
	"strings"
	"sync"
)

type probe struct {
	exists bool
	dir    bool
}

// A Resolver probes an [io/fs.FS] for layered resources.
//
// A Resolver is safe for concurrent use; its probe cache is shared by every request.
type Resolver struct {
	fsys  fs.FS
	mu    sync.RWMutex
	cache map[string]probe
}

// NewResolver constructs a Resolver over fsys.
func NewResolver(fsys fs.FS) *Resolver {
	return &Resolver{fsys: fsys, cache: make(map[string]probe)}
}

// FS returns the backing store.
func (r *Resolver) FS() fs.FS { return r.fsys }

func (r *Resolver) stat(name string) probe {
	r.mu.RLock()
	p, ok := r.cache[name]
	r.mu.RUnlock()
	if ok {
		return p
	}

	if fi, err := fs.Stat(r.fsys, name); err == nil {
		p = probe{exists: true, dir: fi.IsDir()}
	}

	r.mu.Lock()
	r.cache[name] = p
	r.mu.Unlock()

	return p
}

// Exists asserts whether name, a file or directory, is in the backing store.
//
// A trailing slash on name only matches directories.
func (r *Resolver) Exists(name string) bool {
	if strings.HasSuffix(name, "/") {
		return r.IsDir(name)
	}

	return r.stat(Join("", name)).exists
}

// IsDir asserts whether name is a directory in the backing store.
func (r *Resolver) IsDir(name string) bool {
	return r.stat(Join("", name)).dir
}

// ReadFile reads name from the backing store.
func (r *Resolver) ReadFile(name string) ([]byte, error) {
	return fs.ReadFile(r.fsys, Join("", name))
}

// Resolve returns the first of dirs in which rel exists.
func (r *Resolver) Resolve(dirs []string, rel string) (string, bool) {
	for _, dir := range dirs {
		if r.Exists(dir + rel) {
			return dir, true
		}
	}

	return "", false
}

// ResolvePackageRoot normalizes raw into a package directory.
//
// If raw exists it is returned as is;
// otherwise each of searchRoots is tried as a prefix.
// When nothing matches, the normalized raw is returned:
// a package may be registered before it exists.
func (r *Resolver) ResolvePackageRoot(raw string, searchRoots []string) string {
	dir := strings.TrimRight(raw, "/") + "/"
	if r.IsDir(dir) {
		return Dir(dir)
	}

	rel := strings.TrimLeft(dir, "/")
	for _, root := range searchRoots {
		if candidate := Dir(root) + rel; r.IsDir(candidate) {
			return Dir(candidate)
		}
	}

	return Dir(dir)
}

// Reset empties the probe cache.
func (r *Resolver) Reset() {
	r.mu.Lock()
	r.cache = make(map[string]probe)
	r.mu.Unlock()
}
