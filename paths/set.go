package paths

import (
	"path"
	"strings"
)

type pkg struct {
	dir     string
	cascade bool
}

// A Set is the ordered candidate directory list a request resolves resources against.
//
// The application root and framework base are fixed;
// package directories are pushed onto the front.
type Set struct {
	app      string
	base     string
	packages []pkg
}

// NewSet constructs a Set around the application root and framework base directories.
func NewSet(app, base string) *Set {
	return &Set{app: Dir(app), base: Dir(base)}
}

// App returns the application root directory.
func (s *Set) App() string { return s.app }

// Base returns the framework base directory.
func (s *Set) Base() string { return s.base }

// Add pushes dir onto the front of the Set.
//
// viewCascade determines whether view lookups continue past dir when a view is not found in it.
// Adding a directory already present moves it to the front.
func (s *Set) Add(dir string, viewCascade bool) {
	dir = Dir(dir)
	if dir == s.app || dir == s.base {
		return
	}

	s.drop(dir)
	s.packages = append([]pkg{{dir: dir, cascade: viewCascade}}, s.packages...)
}

// Remove drops dir from the Set, returning the directory actually removed.
//
// An empty dir removes the most recently added package directory.
// The application root and framework base are never removed.
func (s *Set) Remove(dir string) (string, bool) {
	if dir == "" {
		if len(s.packages) == 0 {
			return "", false
		}

		removed := s.packages[0].dir
		s.packages = s.packages[1:]
		return removed, true
	}

	dir = Dir(dir)
	if dir == s.app || dir == s.base {
		return "", false
	}

	return dir, s.drop(dir)
}

func (s *Set) drop(dir string) bool {
	for i, p := range s.packages {
		if p.dir == dir {
			s.packages = append(s.packages[:i:i], s.packages[i+1:]...)
			return true
		}
	}

	return false
}

// Packages returns the package directories, most recently added first.
func (s *Set) Packages() []string {
	out := make([]string, 0, len(s.packages))
	for _, p := range s.packages {
		out = append(out, p.dir)
	}

	return out
}

// Library returns the directories components, helpers and the handler base are searched in.
func (s *Set) Library() []string {
	return append(s.MVC(), s.base)
}

// MVC returns the directories handlers, models and subclass abstractions are searched in.
func (s *Set) MVC() []string {
	return append(s.Packages(), s.app)
}

// Views returns the directories views are searched in.
func (s *Set) Views() []string {
	out := make([]string, 0, len(s.packages)+1)
	for _, p := range s.packages {
		out = append(out, p.dir)
		if !p.cascade {
			return out
		}
	}

	return append(out, s.app)
}

// Clone copies the Set so a request may add or remove packages without touching the template.
func (s *Set) Clone() *Set {
	c := *s
	c.packages = append([]pkg(nil), s.packages...)
	return &c
}

// Dir normalizes p into a directory name valid within an [io/fs.FS]:
// cleaned, without a leading slash, and with a trailing one.
//
// The root of the FS normalizes to the empty string.
func Dir(p string) string {
	p = path.Clean("/" + strings.TrimSpace(p))
	if p == "/" {
		return ""
	}

	return strings.TrimPrefix(p, "/") + "/"
}

// Join concatenates a directory from a Set with a relative resource path into a name valid within an [io/fs.FS].
func Join(dir, rel string) string {
	name := path.Clean("/" + dir + rel)
	if name == "/" {
		return "."
	}

	return strings.TrimPrefix(name, "/")
}
