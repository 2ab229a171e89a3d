package loader_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/catalog"
	"github.com/xy-planning-network/switchback/loader"
	"github.com/xy-planning-network/switchback/route"
)

func TestHandlerURI(t *testing.T) {
	tcs := []struct {
		name     string
		uri      string
		capture  bool
		expected loader.Outcome
		body     string
	}{
		{"index", "blog", false, loader.Outcome{Value: "index", Invoked: true}, ""},
		{"writes-output", "blog/show/5/6", false, loader.Outcome{Value: "5,6", Invoked: true}, "post 5,6"},
		{"captures-output", "blog/show/7", true, loader.Outcome{Value: "7", Output: "post 7", Invoked: true}, ""},
		{"route-in-context", "blog/route/1", false, loader.Outcome{Value: []string{"blog", "route", "1"}, Invoked: true}, ""},
		{"remapped", "admin/users/list/2", false, loader.Outcome{Value: "remapped list 2", Invoked: true}, ""},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			l := newLoader(t, newFS(), newFixture())

			// Act
			out, err := l.HandlerURI(tc.uri, "", true, tc.capture)

			// Assert
			require.Nil(t, err)
			require.Equal(t, tc.expected, out)
			require.Equal(t, tc.body, l.Output().String())
			require.Equal(t, 0, l.Output().Level())
		})
	}
}

func TestHandlerNotFound(t *testing.T) {
	tcs := []struct {
		name string
		uri  string
	}{
		{"no-handler", "missing/page"},
		{"no-entry-point", "blog/nope"},
		{"private-entry-point", "blog/_secret"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			l := newLoader(t, newFS(), newFixture())

			// Act
			_, err := l.HandlerURI(tc.uri, "", true, false)

			// Assert
			require.ErrorIs(t, err, switchback.ErrNotExist)
			require.Equal(t, http.StatusNotFound, switchback.AsError(err).Status)
		})
	}
}

func TestHandlerLoadedOnce(t *testing.T) {
	// Arrange
	f := newFixture()
	l := newLoader(t, newFS(), f)

	// Act
	first, err := l.HandlerURI("blog/index", "", false, false)
	require.Nil(t, err)
	_, err = l.HandlerURI("blog/show/1", "", true, false)
	require.Nil(t, err)

	// Assert
	require.Equal(t, loader.Outcome{}, first)
	require.Equal(t, 1, f.handlers)
	require.True(t, l.Registry().HasHandler("blog"))

	// Act
	_, err = l.HandlerURI("blog/index", "second", false, false)

	// Assert
	require.Nil(t, err)
	require.Equal(t, 2, f.handlers)
}

func TestHandlerNameConflict(t *testing.T) {
	// Arrange
	l := newLoader(t, newFS(), newFixture())
	require.Nil(t, l.Component("Mailer", nil, "blog"))

	// Act
	_, err := l.HandlerURI("blog", "", true, false)

	// Assert
	require.ErrorIs(t, err, switchback.ErrNameConflict)
}

func TestHandlerShortRoute(t *testing.T) {
	// Arrange
	l := newLoader(t, newFS(), newFixture())

	// Act
	_, err := l.Handler(route.Stack{"app/", "", "blog"}, "", true, false)

	// Assert
	require.ErrorIs(t, err, switchback.ErrNotValid)
}

func TestHandlerRequiresBase(t *testing.T) {
	// Arrange
	fsys := newFS()
	delete(fsys, "system/core/Handler.go")
	l := newLoader(t, fsys, newFixture())

	// Act
	_, err := l.HandlerURI("blog", "", true, false)

	// Assert
	require.ErrorIs(t, err, switchback.ErrNotExist)
	require.Equal(t, http.StatusInternalServerError, switchback.AsError(err).Status)
}

type guarded struct {
	catalog.Handler
}

func (g guarded) EntryPoints() map[string]catalog.EntryPoint {
	eps := make(map[string]catalog.EntryPoint)
	for name, ep := range g.Handler.EntryPoints() {
		ep := ep
		eps[name] = func(ctx context.Context, args ...string) (any, error) {
			if len(args) > 0 && args[0] == "0" {
				return nil, errors.New("guarded")
			}
			return ep(ctx, args...)
		}
	}

	return eps
}

func TestHandlerSubclass(t *testing.T) {
	// Arrange
	fsys := newFS()
	fsys["app/core/MY_Handler.go"] = fsys["system/core/Handler.go"]
	f := newFixture()
	f.cat.WrapHandlers("MY_Handler", func(h catalog.Handler, _ catalog.Scope) (catalog.Handler, error) {
		return guarded{Handler: h}, nil
	})
	l := newLoader(t, fsys, f)

	// Act
	out, err := l.HandlerURI("blog/show/0", "", true, false)

	// Assert
	require.EqualError(t, err, "guarded")
	require.True(t, out.Invoked)

	base, ok := l.Registry().Base("MY_Handler")
	require.True(t, ok)
	require.Equal(t, "app/core/MY_Handler.go", base)
}

func TestHandlerSubclassUnregistered(t *testing.T) {
	// Arrange
	fsys := newFS()
	fsys["app/core/MY_Handler.go"] = fsys["system/core/Handler.go"]
	l := newLoader(t, fsys, newFixture())

	// Act
	_, err := l.HandlerURI("blog", "", true, false)

	// Assert
	require.ErrorIs(t, err, switchback.ErrNotExist)
}
