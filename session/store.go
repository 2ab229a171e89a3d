package session

import (
	"encoding/gob"
	"encoding/hex"
	"fmt"

	"github.com/boj/redistore"
	"github.com/go-viper/mapstructure/v2"
	gorilla "github.com/gorilla/sessions"

	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/catalog"
)

// Family names the driver family, which is also the type name of its host component
// once prefixed with catalog.FrameworkPrefix.
const Family = "Session"

// Driver names.
const (
	CookieDriver = "cookie"
	RedisDriver  = "redis"
)

const (
	defaultCookieName = "sb_session"
	defaultMaxAge     = 86400 // 1 day
	defaultPoolSize   = 10
)

func init() {
	gob.Register(Flash{})
}

// A Config is what config/session holds.
type Config struct {
	Driver     string `mapstructure:"driver"`
	CookieName string `mapstructure:"cookie_name"`

	// Hex-encoded keys.
	AuthKey    string `mapstructure:"auth_key"`
	EncryptKey string `mapstructure:"encrypt_key"`

	// The number of seconds a session is valid.
	MaxAge int `mapstructure:"max_age"`

	// Redis only.
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	PoolSize int    `mapstructure:"pool_size"`
}

// DecodeConfig reads cfg into a Config, filling in defaults.
func DecodeConfig(cfg catalog.Config) (Config, error) {
	c := Config{
		Driver:     CookieDriver,
		CookieName: defaultCookieName,
		MaxAge:     defaultMaxAge,
		PoolSize:   defaultPoolSize,
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &c,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return Config{}, err
	}

	if err := dec.Decode(cfg); err != nil {
		return Config{}, fmt.Errorf("%w: session: %s", switchback.ErrBadConfig, err)
	}

	if c.CookieName == "" {
		return Config{}, fmt.Errorf("%w: session: cookie_name cannot be %q", switchback.ErrBadConfig, c.CookieName)
	}

	return c, nil
}

func (c Config) keys() (ak, ek []byte, err error) {
	ak, err = hex.DecodeString(c.AuthKey)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: authentication key is not valid: %s", switchback.ErrBadConfig, err)
	}

	ek, err = hex.DecodeString(c.EncryptKey)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: encryption key is not valid: %s", switchback.ErrBadConfig, err)
	}

	return ak, ek, nil
}

// A Manager heads the Session driver family,
// starting the session of a request in the store its driver provides.
type Manager struct {
	cfg   Config
	store gorilla.Store
}

// NewManager constructs the Manager configured by cfg.
// Its store is set once the family's drivers are made available to it.
func NewManager(cfg catalog.Config) (any, error) {
	c, err := DecodeConfig(cfg)
	if err != nil {
		return nil, err
	}

	return &Manager{cfg: c}, nil
}

// UseDrivers loads the driver the Manager is configured for.
func (m *Manager) UseDrivers(ds *catalog.DriverSet) error {
	d, err := ds.Load(m.cfg.Driver)
	if err != nil {
		return err
	}

	store, ok := d.(gorilla.Store)
	if !ok {
		return fmt.Errorf("%w: %s driver %s is a %T", switchback.ErrNotValid, Family, m.cfg.Driver, d)
	}

	m.store = store
	return nil
}

// Driver returns the name of the driver storing sessions.
func (m *Manager) Driver() string { return m.cfg.Driver }

// Start retrieves the session of the request s serves, or creates a brand new one.
func (m *Manager) Start(s catalog.Scope) (*Session, error) {
	if m.store == nil {
		return nil, fmt.Errorf("%w: %s has no driver", switchback.ErrBadConfig, Family)
	}

	r := s.Request()
	g, err := m.store.Get(r, m.cfg.CookieName)
	if g == nil {
		return nil, err
	}

	// NOTE: a session that fails to decode is handed back new alongside the error;
	// a stale cookie should not fail the request.
	return &Session{s: g, w: s.Output(), r: r}, nil
}

// NewCookieStore constructs the cookie driver.
func NewCookieStore(env switchback.Environment) catalog.Constructor {
	return func(cfg catalog.Config) (any, error) {
		c, err := DecodeConfig(cfg)
		if err != nil {
			return nil, err
		}

		ak, ek, err := c.keys()
		if err != nil {
			return nil, err
		}

		var store *gorilla.CookieStore
		if !env.IsTesting() {
			store = gorilla.NewCookieStore(ak, ek)
		} else {
			store = gorilla.NewCookieStore(ak)
		}

		store.Options.Secure = !(env.IsDevelopment() || env.IsTesting())
		store.Options.HttpOnly = true
		store.MaxAge(c.MaxAge)

		return store, nil
	}
}

// NewRedisStore constructs the redis driver.
//
// To authenticate to the Redis server, configure password, otherwise leave it out.
func NewRedisStore(env switchback.Environment) catalog.Constructor {
	return func(cfg catalog.Config) (any, error) {
		c, err := DecodeConfig(cfg)
		if err != nil {
			return nil, err
		}

		if c.Address == "" {
			return nil, fmt.Errorf("%w: %s driver requires an address", switchback.ErrBadConfig, RedisDriver)
		}

		ak, ek, err := c.keys()
		if err != nil {
			return nil, err
		}

		store, err := redistore.NewRediStore(c.PoolSize, "tcp", c.Address, c.Password, ak, ek)
		if err != nil {
			return nil, fmt.Errorf("%w: failed initializing Redis: %s", switchback.ErrBadConfig, err)
		}

		store.Options.Secure = !(env.IsDevelopment() || env.IsTesting())
		store.Options.HttpOnly = true
		store.SetMaxAge(c.MaxAge)

		return store, nil
	}
}

// Register makes the Session family available in cat:
// its host under catalog.FrameworkPrefix+Family, and its cookie and redis drivers.
func Register(cat *catalog.Catalog, env switchback.Environment) {
	cat.Register(catalog.FrameworkPrefix+Family, NewManager)
	cat.RegisterDriver(Family, CookieDriver, NewCookieStore(env))
	cat.RegisterDriver(Family, RedisDriver, NewRedisStore(env))
}

var _ catalog.DriverHost = (*Manager)(nil)
