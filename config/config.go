package config

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"

	"dario.cat/mergo"
	"github.com/BurntSushi/toml"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/paths"
)

// Extensions lists, in order of preference, the file extensions a configuration file may have.
var Extensions = []string{".yaml", ".yml", ".toml", ".json"}

// CoreName is the name of the configuration file holding core items.
const CoreName = "config"

// A Block is a decoded configuration file.
type Block = map[string]any

type blockCache struct {
	mu     sync.Mutex
	blocks map[string]Block
}

// A Store loads configuration blocks from config/ directories across layered search paths.
//
// The application root is searched first; package paths are appended as they are added.
// A key set in an earlier path wins over the same key in a later path.
// Within each path, config/<ENVIRONMENT>/<name> overrides config/<name>.
type Store struct {
	r      *paths.Resolver
	env    switchback.Environment
	search []string
	cache  *blockCache
	items  Block
	loaded map[string]bool
}

// New constructs a Store reading from r with the search paths provided.
func New(r *paths.Resolver, env switchback.Environment, search ...string) *Store {
	s := &Store{
		r:      r,
		env:    env,
		cache:  &blockCache{blocks: make(map[string]Block)},
		loaded: make(map[string]bool),
	}
	for _, dir := range search {
		s.AddPath(dir)
	}

	return s
}

// Clone copies the Store for use by a single request.
//
// The clone shares decoded blocks with s but adds paths and sets items on its own.
func (s *Store) Clone() *Store {
	c := *s
	c.search = append([]string(nil), s.search...)
	c.loaded = make(map[string]bool, len(s.loaded))
	for k, v := range s.loaded {
		c.loaded[k] = v
	}

	if s.items != nil {
		c.items = make(Block, len(s.items))
		for k, v := range s.items {
			c.items[k] = v
		}
	}

	return &c
}

// Environment returns the environment whose overrides the Store applies.
func (s *Store) Environment() switchback.Environment { return s.env }

// Paths returns the search paths in order.
func (s *Store) Paths() []string { return append([]string(nil), s.search...) }

// AddPath appends dir to the search paths.
func (s *Store) AddPath(dir string) {
	dir = paths.Dir(dir)
	for _, p := range s.search {
		if p == dir {
			return
		}
	}

	s.search = append(s.search, dir)
}

// RemovePath drops dir from the search paths.
func (s *Store) RemovePath(dir string) {
	dir = paths.Dir(dir)
	for i, p := range s.search {
		if p == dir {
			s.search = append(s.search[:i:i], s.search[i+1:]...)
			return
		}
	}
}

// Has asserts whether a configuration file named name exists in any search path.
func (s *Store) Has(name string) bool {
	for _, dir := range s.search {
		if _, ok := s.find(dir + "config/" + name); ok {
			return true
		}

		if _, ok := s.find(dir + "config/" + s.env.String() + "/" + name); ok {
			return true
		}
	}

	return false
}

// Get loads the configuration block named name.
//
// Get returns [switchback.ErrNotExist] when no search path holds a file for name.
func (s *Store) Get(name string) (Block, error) {
	key := s.env.String() + "|" + strings.Join(s.search, "|") + "|" + name

	s.cache.mu.Lock()
	b, ok := s.cache.blocks[key]
	s.cache.mu.Unlock()
	if ok {
		return b, nil
	}

	var (
		merged Block
		found  bool
	)
	for _, dir := range s.search {
		b, ok, err := s.load(dir, name)
		if err != nil {
			return nil, err
		}

		if !ok {
			continue
		}

		found = true
		if merged == nil {
			merged = b
			continue
		}

		if err := mergo.Merge(&merged, b); err != nil {
			return nil, fmt.Errorf("%w: merging %s: %s", switchback.ErrBadConfig, name, err)
		}
	}

	if !found {
		return nil, fmt.Errorf("%w: config file %s", switchback.ErrNotExist, name)
	}

	s.cache.mu.Lock()
	s.cache.blocks[key] = merged
	s.cache.mu.Unlock()

	return merged, nil
}

// load decodes config/<name> and config/<ENVIRONMENT>/<name> under dir.
func (s *Store) load(dir, name string) (Block, bool, error) {
	base, hasBase, err := s.decode(dir + "config/" + name)
	if err != nil {
		return nil, false, err
	}

	env, hasEnv, err := s.decode(dir + "config/" + s.env.String() + "/" + name)
	if err != nil {
		return nil, false, err
	}

	switch {
	case hasBase && hasEnv:
		if err := mergo.Merge(&base, env, mergo.WithOverride); err != nil {
			return nil, false, fmt.Errorf("%w: merging %s: %s", switchback.ErrBadConfig, name, err)
		}
		return base, true, nil
	case hasEnv:
		return env, true, nil
	default:
		return base, hasBase, nil
	}
}

func (s *Store) find(stem string) (string, bool) {
	for _, ext := range Extensions {
		if s.r.Exists(stem + ext) {
			return stem + ext, true
		}
	}

	return "", false
}

func (s *Store) decode(stem string) (Block, bool, error) {
	name, ok := s.find(stem)
	if !ok {
		return nil, false, nil
	}

	data, err := s.r.ReadFile(name)
	if err != nil {
		return nil, false, fmt.Errorf("%w: reading %s: %s", switchback.ErrBadConfig, name, err)
	}

	b := make(Block)
	switch path.Ext(name) {
	case ".toml":
		err = toml.Unmarshal(data, &b)
	default:
		// NOTE: JSON is a subset of YAML 1.2
		err = yaml.Unmarshal(data, &b)
	}

	if err != nil {
		return nil, false, fmt.Errorf("%w: decoding %s: %s", switchback.ErrBadConfig, name, err)
	}

	return b, true, nil
}

// Load merges the block named name into the core items, overriding existing keys.
//
// Loading a name twice is a no-op.
func (s *Store) Load(name string) error {
	if s.loaded[name] {
		return nil
	}

	b, err := s.Get(name)
	if err != nil {
		return err
	}

	if err := s.ensureItems(); err != nil {
		return err
	}

	for k, v := range b {
		s.items[k] = v
	}

	s.loaded[name] = true
	return nil
}

func (s *Store) ensureItems() error {
	if s.items != nil {
		return nil
	}

	s.items = make(Block)
	b, err := s.Get(CoreName)
	switch {
	case errors.Is(err, switchback.ErrNotExist):
		return nil
	case err != nil:
		return err
	}

	for k, v := range b {
		s.items[k] = v
	}

	return nil
}

// Item returns the core item named key, or nil.
func (s *Store) Item(key string) any {
	if err := s.ensureItems(); err != nil {
		return nil
	}

	return s.items[key]
}

// SetItem sets the core item named key for the life of the Store.
func (s *Store) SetItem(key string, val any) {
	if s.ensureItems() != nil {
		s.items = make(Block)
	}

	s.items[key] = val
}

// SlashItem returns the core item named key with a trailing slash, or "" when not set.
func (s *Store) SlashItem(key string) string {
	val := strings.TrimSpace(s.String(key))
	if val == "" {
		return ""
	}

	return strings.TrimRight(val, "/") + "/"
}

// String returns the core item named key cast to a string.
func (s *Store) String(key string) string { return cast.ToString(s.Item(key)) }

// Bool returns the core item named key cast to a bool.
func (s *Store) Bool(key string) bool { return cast.ToBool(s.Item(key)) }

// Int returns the core item named key cast to an int.
func (s *Store) Int(key string) int { return cast.ToInt(s.Item(key)) }

// StringSlice returns the core item named key cast to a []string.
func (s *Store) StringSlice(key string) []string { return cast.ToStringSlice(s.Item(key)) }

// StringOr returns the core item named key cast to a string, or def when unset or empty.
func (s *Store) StringOr(key, def string) string {
	if val := s.String(key); val != "" {
		return val
	}

	return def
}
