package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-viper/mapstructure/v2"

	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/catalog"
)

// Family names the driver family, which is also the type name of its host component
// once prefixed with catalog.FrameworkPrefix.
const Family = "Cache"

// Driver names.
const (
	DummyDriver  = "dummy"
	MemoryDriver = "memory"
	RedisDriver  = "redis"
)

const defaultTTL = 60 // seconds

// A Driver stores cached values.
//
// Get returns an error wrapping switchback.ErrNotExist when key is not cached.
type Driver interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Increment(ctx context.Context, key string, offset int64) (int64, error)
	Clean(ctx context.Context) error
	IsSupported(ctx context.Context) bool
}

// A Config is what config/cache holds.
type Config struct {
	Adapter   string `mapstructure:"adapter"`
	Backup    string `mapstructure:"backup"`
	KeyPrefix string `mapstructure:"key_prefix"`

	// The number of seconds a value is cached for by default.
	TTL int `mapstructure:"ttl"`
}

// DecodeConfig reads cfg into a Config, filling in defaults.
func DecodeConfig(cfg catalog.Config) (Config, error) {
	c := Config{Adapter: MemoryDriver, Backup: DummyDriver, TTL: defaultTTL}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &c,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return Config{}, err
	}

	if err := dec.Decode(cfg); err != nil {
		return Config{}, fmt.Errorf("%w: cache: %s", switchback.ErrBadConfig, err)
	}

	return c, nil
}

// A Cache heads the Cache driver family.
type Cache struct {
	cfg    Config
	name   string
	driver Driver
}

// New constructs the Cache configured by cfg.
// Its driver is chosen once the family's drivers are made available to it.
func New(cfg catalog.Config) (any, error) {
	c, err := DecodeConfig(cfg)
	if err != nil {
		return nil, err
	}

	return &Cache{cfg: c}, nil
}

// UseDrivers picks the adapter, or the backup when the adapter is not supported,
// or the dummy driver when neither is.
func (c *Cache) UseDrivers(ds *catalog.DriverSet) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	for _, name := range []string{c.cfg.Adapter, c.cfg.Backup} {
		d, err := load(ds, name)
		if err != nil {
			return err
		}

		if d.IsSupported(ctx) {
			c.name, c.driver = name, d
			return nil
		}
	}

	c.name, c.driver = DummyDriver, Dummy{}
	return nil
}

func load(ds *catalog.DriverSet, name string) (Driver, error) {
	v, err := ds.Load(name)
	if err != nil {
		return nil, err
	}

	d, ok := v.(Driver)
	if !ok {
		return nil, fmt.Errorf("%w: %s driver %s is a %T", switchback.ErrNotValid, Family, name, v)
	}

	return d, nil
}

// Adapter returns the name of the driver in use.
func (c *Cache) Adapter() string { return c.name }

// Get retrieves the value cached under key.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	return c.use().Get(ctx, c.cfg.KeyPrefix+key)
}

// Save caches val under key for ttl, or for the configured ttl when ttl is zero.
func (c *Cache) Save(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = time.Duration(c.cfg.TTL) * time.Second
	}

	return c.use().Save(ctx, c.cfg.KeyPrefix+key, val, ttl)
}

// Delete removes key from the cache.
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.use().Delete(ctx, c.cfg.KeyPrefix+key)
}

// Increment adds offset to the integer cached under key, starting from 0.
func (c *Cache) Increment(ctx context.Context, key string, offset int64) (int64, error) {
	return c.use().Increment(ctx, c.cfg.KeyPrefix+key, offset)
}

// Decrement subtracts offset from the integer cached under key, starting from 0.
func (c *Cache) Decrement(ctx context.Context, key string, offset int64) (int64, error) {
	return c.use().Increment(ctx, c.cfg.KeyPrefix+key, -offset)
}

// Clean empties the cache.
func (c *Cache) Clean(ctx context.Context) error {
	return c.use().Clean(ctx)
}

func (c *Cache) use() Driver {
	if c.driver == nil {
		return Dummy{}
	}

	return c.driver
}

// Register makes the Cache family available in cat:
// its host under catalog.FrameworkPrefix+Family, and its dummy, memory and redis drivers.
//
// Every Cache constructed shares the one memory store and the redis clients made for each address.
func Register(cat *catalog.Catalog) {
	mem := NewMemory()
	clients := newClients()

	cat.Register(catalog.FrameworkPrefix+Family, New)
	cat.RegisterDriver(Family, DummyDriver, func(catalog.Config) (any, error) { return Dummy{}, nil })
	cat.RegisterDriver(Family, MemoryDriver, func(catalog.Config) (any, error) { return mem, nil })
	cat.RegisterDriver(Family, RedisDriver, clients.driver)
}

var _ catalog.DriverHost = (*Cache)(nil)
