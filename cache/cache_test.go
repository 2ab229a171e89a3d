package cache_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/cache"
	"github.com/xy-planning-network/switchback/catalog"
	"github.com/xy-planning-network/switchback/config"
	"github.com/xy-planning-network/switchback/loader"
	"github.com/xy-planning-network/switchback/paths"
)

func newLoader(t *testing.T, cat *catalog.Catalog, cfg string) *loader.Loader {
	t.Helper()

	fsys := fstest.MapFS{
		"system/components/Driver.go":      {},
		"system/components/Cache/Cache.go": {},
		"app/config/cache.yaml":            {Data: []byte(cfg)},
	}

	r := paths.NewResolver(fsys)
	l, err := loader.New(loader.Params{
		Request:  httptest.NewRequest("GET", "/", nil),
		Set:      paths.NewSet("app/", "system/"),
		Resolver: r,
		Catalog:  cat,
		Config:   config.New(r, switchback.Testing, "app/"),
	})
	require.Nil(t, err)

	return l
}

func load(t *testing.T, l *loader.Loader) *cache.Cache {
	t.Helper()

	require.Nil(t, l.Driver("cache", nil, ""))
	v, ok := l.Get("cache")
	require.True(t, ok)

	return v.(*cache.Cache)
}

func TestAdapter(t *testing.T) {
	tcs := []struct {
		name     string
		cfg      string
		expected string
	}{
		{"default", "", cache.MemoryDriver},
		{"dummy", "adapter: dummy\n", cache.DummyDriver},
		{"unsupported-falls-back", "adapter: redis\nbackup: memory\nredis:\n  address: 127.0.0.1:1\n", cache.MemoryDriver},
		{"nothing-supported", "adapter: redis\nbackup: redis\nredis:\n  address: 127.0.0.1:1\n", cache.DummyDriver},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			cat := catalog.New()
			cache.Register(cat)

			// Act
			c := load(t, newLoader(t, cat, tc.cfg))

			// Assert
			require.Equal(t, tc.expected, c.Adapter())
		})
	}
}

func TestUnknownAdapter(t *testing.T) {
	// Arrange
	cat := catalog.New()
	cache.Register(cat)
	l := newLoader(t, cat, "adapter: file\n")

	// Act
	err := l.Driver("cache", nil, "")

	// Assert
	require.ErrorIs(t, err, switchback.ErrNotExist)
}

func TestSharedAcrossRequests(t *testing.T) {
	// Arrange
	ctx := context.Background()
	cat := catalog.New()
	cache.Register(cat)
	first := load(t, newLoader(t, cat, "key_prefix: app_\n"))
	second := load(t, newLoader(t, cat, "key_prefix: app_\n"))
	other := load(t, newLoader(t, cat, "key_prefix: other_\n"))

	// Act
	err := first.Save(ctx, "greeting", []byte("hi"), 0)

	// Assert
	require.Nil(t, err)
	b, err := second.Get(ctx, "greeting")
	require.Nil(t, err)
	require.Equal(t, "hi", string(b))

	_, err = other.Get(ctx, "greeting")
	require.ErrorIs(t, err, switchback.ErrNotExist)

	// Act
	err = second.Delete(ctx, "greeting")

	// Assert
	require.Nil(t, err)
	_, err = first.Get(ctx, "greeting")
	require.ErrorIs(t, err, switchback.ErrNotExist)
}

func TestIncrement(t *testing.T) {
	// Arrange
	ctx := context.Background()
	cat := catalog.New()
	cache.Register(cat)
	c := load(t, newLoader(t, cat, ""))

	// Act
	n, err := c.Increment(ctx, "hits", 5)

	// Assert
	require.Nil(t, err)
	require.EqualValues(t, 5, n)

	n, err = c.Decrement(ctx, "hits", 2)
	require.Nil(t, err)
	require.EqualValues(t, 3, n)

	// Arrange
	require.Nil(t, c.Save(ctx, "word", []byte("three"), time.Minute))

	// Act
	_, err = c.Increment(ctx, "word", 1)

	// Assert
	require.ErrorIs(t, err, switchback.ErrNotValid)
}

func TestClean(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mem := cache.NewMemory()
	require.Nil(t, mem.Save(ctx, "a", []byte("1"), 0))
	require.Nil(t, mem.Save(ctx, "b", []byte("2"), 0))

	// Act
	err := mem.Clean(ctx)

	// Assert
	require.Nil(t, err)
	_, err = mem.Get(ctx, "a")
	require.ErrorIs(t, err, switchback.ErrNotExist)
}

func TestCanceled(t *testing.T) {
	// Arrange
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	mem := cache.NewMemory()

	// Act
	err := mem.Save(ctx, "a", []byte("1"), 0)

	// Assert
	require.ErrorIs(t, err, context.Canceled)
}

func TestDummy(t *testing.T) {
	// Arrange
	ctx := context.Background()
	d := cache.Dummy{}

	// Act
	err := d.Save(ctx, "a", []byte("1"), 0)

	// Assert
	require.Nil(t, err)
	_, err = d.Get(ctx, "a")
	require.ErrorIs(t, err, switchback.ErrNotExist)
}

func TestDecodeConfig(t *testing.T) {
	// Act
	c, err := cache.DecodeConfig(catalog.Config{"ttl": "300", "adapter": "redis"})

	// Assert
	require.Nil(t, err)
	require.Equal(t, cache.Config{Adapter: cache.RedisDriver, Backup: cache.DummyDriver, TTL: 300}, c)
}
