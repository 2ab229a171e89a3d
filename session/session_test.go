package session_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/catalog"
	"github.com/xy-planning-network/switchback/config"
	"github.com/xy-planning-network/switchback/loader"
	"github.com/xy-planning-network/switchback/paths"
	"github.com/xy-planning-network/switchback/session"
)

func newFS(cfg string) fstest.MapFS {
	return fstest.MapFS{
		"system/components/Driver.go":          {},
		"system/components/Session/Session.go": {},
		"app/config/session.yaml":              {Data: []byte(cfg)},
	}
}

func newLoader(t *testing.T, fsys fstest.MapFS, req *http.Request) *loader.Loader {
	t.Helper()

	cat := catalog.New()
	session.Register(cat, switchback.Testing)

	r := paths.NewResolver(fsys)
	l, err := loader.New(loader.Params{
		Request:  req,
		Set:      paths.NewSet("app/", "system/"),
		Resolver: r,
		Catalog:  cat,
		Config:   config.New(r, switchback.Testing, "app/"),
	})
	require.Nil(t, err)

	return l
}

func start(t *testing.T, l *loader.Loader) *session.Session {
	t.Helper()

	require.Nil(t, l.Driver("session", nil, ""))
	v, ok := l.Get("session")
	require.True(t, ok)

	sess, err := v.(*session.Manager).Start(l)
	require.Nil(t, err)

	return sess
}

func cookies(l *loader.Loader) []*http.Cookie {
	return (&http.Response{Header: l.Output().Header()}).Cookies()
}

func TestStart(t *testing.T) {
	// Arrange
	fsys := newFS("auth_key: ABCD\nencrypt_key: ABCD\n")
	l := newLoader(t, fsys, httptest.NewRequest(http.MethodGet, "/", nil))
	sess := start(t, l)

	// Act
	err := sess.Set("theme", "dark")

	// Assert
	require.Nil(t, err)
	require.True(t, sess.IsNew())
	cs := cookies(l)
	require.Len(t, cs, 1)
	require.Equal(t, "sb_session", cs[0].Name)
	require.True(t, cs[0].HttpOnly)

	// Arrange
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cs[0])
	next := newLoader(t, fsys, req)

	// Act
	again := start(t, next)

	// Assert
	require.False(t, again.IsNew())
	require.Equal(t, "dark", again.Get("theme"))
	str, err := again.GetString("theme")
	require.Nil(t, err)
	require.Equal(t, "dark", str)
}

func TestFlashes(t *testing.T) {
	// Arrange
	fsys := newFS("cookie_name: flashy\nauth_key: ABCD\n")
	l := newLoader(t, fsys, httptest.NewRequest(http.MethodGet, "/", nil))
	flash := session.Flash{Class: session.FlashSuccess, Msg: "Saved!"}

	// Act
	err := start(t, l).SetFlash(flash)

	// Assert
	require.Nil(t, err)
	cs := cookies(l)
	require.Len(t, cs, 1)
	require.Equal(t, "flashy", cs[0].Name)

	// Arrange
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cs[0])
	next := newLoader(t, fsys, req)
	sess := start(t, next)

	// Act
	fs, err := sess.Flashes()

	// Assert
	require.Nil(t, err)
	require.Equal(t, []session.Flash{flash}, fs)

	fs, err = sess.Flashes()
	require.Nil(t, err)
	require.Empty(t, fs)
}

func TestGetStringNotValid(t *testing.T) {
	// Arrange
	l := newLoader(t, newFS("auth_key: ABCD\n"), httptest.NewRequest(http.MethodGet, "/", nil))
	sess := start(t, l)
	require.Nil(t, sess.Set("count", 3))

	// Act
	_, err := sess.GetString("count")

	// Assert
	require.ErrorIs(t, err, session.ErrNotValid)

	// Act
	str, err := sess.GetString("missing")

	// Assert
	require.Nil(t, err)
	require.Empty(t, str)
}

func TestDelete(t *testing.T) {
	// Arrange
	l := newLoader(t, newFS("auth_key: ABCD\n"), httptest.NewRequest(http.MethodGet, "/", nil))
	sess := start(t, l)

	// Act
	err := sess.Delete()

	// Assert
	require.Nil(t, err)
	cs := cookies(l)
	require.Len(t, cs, 1)
	require.Less(t, cs[0].MaxAge, 0)
}

func TestDriverFailures(t *testing.T) {
	tcs := []struct {
		name string
		cfg  string
		err  error
	}{
		{"unknown-driver", "driver: file\n", switchback.ErrNotExist},
		{"not-hex", "auth_key: zz\n", switchback.ErrBadConfig},
		{"no-cookie-name", "cookie_name: ''\n", switchback.ErrBadConfig},
		{"redis-without-address", "driver: redis\nauth_key: ABCD\n", switchback.ErrBadConfig},
		{"redis-not-hex", "driver: redis\nredis:\n  address: localhost:6379\n  encrypt_key: zz\n", switchback.ErrBadConfig},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			l := newLoader(t, newFS(tc.cfg), httptest.NewRequest(http.MethodGet, "/", nil))

			// Act
			err := l.Driver("session", nil, "")

			// Assert
			require.ErrorIs(t, err, tc.err)
			require.False(t, l.Container().Has("session"))
		})
	}
}

func TestStartWithoutDriver(t *testing.T) {
	// Arrange
	l := newLoader(t, newFS(""), httptest.NewRequest(http.MethodGet, "/", nil))
	m, err := session.NewManager(nil)
	require.Nil(t, err)

	// Act
	_, err = m.(*session.Manager).Start(l)

	// Assert
	require.ErrorIs(t, err, switchback.ErrBadConfig)
}

func TestDecodeConfig(t *testing.T) {
	// Act
	c, err := session.DecodeConfig(catalog.Config{"max_age": "60", "driver": "redis"})

	// Assert
	require.Nil(t, err)
	require.Equal(t, session.Config{
		Driver:     session.RedisDriver,
		CookieName: "sb_session",
		MaxAge:     60,
		PoolSize:   10,
	}, c)
}
