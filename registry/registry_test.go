package registry_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/registry"
)

func TestRegistry(t *testing.T) {
	// Arrange
	r := registry.New()

	// Act
	r.Record("Email", "email", "app/components/Email.go")
	r.Record("Email", "mailer", "app/components/Email.go")
	r.MarkFile("app/components/Email.go")
	r.MarkHandler("blog")
	r.MarkModel("posts")
	r.MarkHelper("url_helper")
	r.MarkBase("Handler", "system/core/Handler.go")
	r.MarkDrivers()

	// Assert
	field, ok := r.IsLoaded("email")
	require.True(t, ok)
	require.Equal(t, "mailer", field)

	_, ok = r.IsLoaded("Cache")
	require.False(t, ok)

	require.True(t, r.HasFile("app/components/Email.go"))
	require.False(t, r.HasFile("system/components/Email.go"))
	require.True(t, r.HasHandler("blog"))
	require.False(t, r.HasHandler("posts"))
	require.True(t, r.HasModel("posts"))
	require.True(t, r.HasHelper("url_helper"))
	require.True(t, r.HasDrivers())

	src, ok := r.Base("Handler")
	require.True(t, ok)
	require.Equal(t, "system/core/Handler.go", src)

	require.Equal(t, []registry.Record{
		{Name: "Email", Field: "email", Source: "app/components/Email.go"},
		{Name: "Email", Field: "mailer", Source: "app/components/Email.go"},
	}, r.Records())
}

func TestContainer(t *testing.T) {
	// Arrange
	c := registry.NewContainer()
	c.Bind(registry.RouterField, "router")

	// Act
	err := c.BindNew(registry.RouterField, "other")

	// Assert
	require.ErrorIs(t, err, switchback.ErrNameConflict)

	// Act
	require.Nil(t, c.BindNew("email", 42))

	// Assert
	n, ok := registry.Lookup[int](c, "email")
	require.True(t, ok)
	require.Equal(t, 42, n)

	_, ok = registry.Lookup[string](c, "email")
	require.False(t, ok)

	require.Equal(t, []string{"email", "router"}, c.Fields())

	// Act
	c.Unbind("email")

	// Assert
	require.False(t, c.Has("email"))
}

func TestUnmarkHandler(t *testing.T) {
	// Arrange
	r := registry.New()
	r.MarkHandler("routed")

	// Act
	r.UnmarkHandler("routed")

	// Assert
	require.False(t, r.HasHandler("routed"))
}
