package loader_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/switchback"
)

func TestModel(t *testing.T) {
	tcs := []struct {
		name  string
		model string
		field string
		bound string
	}{
		{"default-field", "posts", "", "posts"},
		{"named-field", "posts", "articles", "articles"},
		{"subdirectory", "blog/comments", "", "comments"},
		{"capitalized", "Posts", "", "Posts"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			l := newLoader(t, newFS(), newFixture())

			// Act
			err := l.Model(tc.model, tc.field)

			// Assert
			require.Nil(t, err)
			require.True(t, l.Container().Has(tc.bound))
			require.True(t, l.Registry().HasModel(tc.bound))
		})
	}
}

func TestModelScope(t *testing.T) {
	// Arrange
	l := newLoader(t, newFS(), newFixture())

	// Act
	require.Nil(t, l.Model("posts", ""))
	first, _ := l.Get("posts")
	require.Nil(t, l.Model("posts", ""))
	again, _ := l.Get("posts")

	// Assert
	require.Same(t, first, again)
	require.Same(t, l, first.(*posts).s)
}

func TestModelFailures(t *testing.T) {
	tcs := []struct {
		name  string
		model string
		field string
		err   error
	}{
		{"missing", "authors", "", switchback.ErrNotExist},
		{"unregistered", "drafts", "", switchback.ErrNotExist},
		{"conflict", "posts", "output", switchback.ErrNameConflict},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			l := newLoader(t, newFS(), newFixture())

			// Act
			err := l.Model(tc.model, tc.field)

			// Assert
			require.ErrorIs(t, err, tc.err)
		})
	}
}

func TestModelRequiresBase(t *testing.T) {
	// Arrange
	fsys := newFS()
	delete(fsys, "system/core/Model.go")
	l := newLoader(t, fsys, newFixture())

	// Act
	err := l.Model("posts", "")

	// Assert
	require.ErrorIs(t, err, switchback.ErrNotExist)
}

func TestModelDB(t *testing.T) {
	// Arrange
	f := newFixture()
	l := newLoader(t, newFS(), f)

	// Act
	err := l.ModelDB("blog/comments", "", "")

	// Assert
	require.Nil(t, err)
	require.True(t, l.Container().Has("db"))
	require.True(t, l.Container().Has("comments"))
	require.Equal(t, []string{"db"}, f.constructed)
}
