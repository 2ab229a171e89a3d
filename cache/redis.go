package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/go-viper/mapstructure/v2"

	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/catalog"
)

// A RedisConfig is what the redis block of config/cache holds.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	// Seconds.
	Timeout int `mapstructure:"timeout"`
}

// A Redis caches values in a Redis backend.
type Redis struct {
	client *redis.Client
}

// NewRedis constructs a Redis with the options passed in.
func NewRedis(opts *redis.Options) *Redis {
	return &Redis{client: redis.NewClient(opts)}
}

// Get retrieves the value paired to key from the connected Redis backend.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", switchback.ErrNotExist, key)
	}

	return b, err
}

// Save pairs val to key in the Redis backend.
func (r *Redis) Save(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	return r.client.Set(ctx, key, val, ttl).Err()
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r *Redis) Increment(ctx context.Context, key string, offset int64) (int64, error) {
	return r.client.IncrBy(ctx, key, offset).Result()
}

// Clean flushes the selected database.
func (r *Redis) Clean(ctx context.Context) error {
	return r.client.FlushDB(ctx).Err()
}

// IsSupported pings the Redis backend.
func (r *Redis) IsSupported(ctx context.Context) bool {
	return r.client.Ping(ctx).Err() == nil
}

// clients holds the Redis made for each distinct backend.
type clients struct {
	mu  sync.Mutex
	all map[RedisConfig]*Redis
}

func newClients() *clients { return &clients{all: make(map[RedisConfig]*Redis)} }

func (cs *clients) driver(cfg catalog.Config) (any, error) {
	rc := RedisConfig{Address: "localhost:6379", Timeout: 1}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &rc,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}

	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("%w: cache redis: %s", switchback.ErrBadConfig, err)
	}

	cs.mu.Lock()
	defer cs.mu.Unlock()

	if r, ok := cs.all[rc]; ok {
		return r, nil
	}

	timeout := time.Duration(rc.Timeout) * time.Second
	r := NewRedis(&redis.Options{
		Addr:        rc.Address,
		Password:    rc.Password,
		DB:          rc.DB,
		DialTimeout: timeout,
		ReadTimeout: timeout,
		MaxRetries:  -1,
	})
	cs.all[rc] = r

	return r, nil
}
