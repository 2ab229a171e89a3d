package paths_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/switchback/paths"
)

func TestWatch(t *testing.T) {
	// Arrange
	root := t.TempDir()
	require.Nil(t, os.MkdirAll(filepath.Join(root, "app", "handlers"), 0o755))

	r := paths.NewResolver(os.DirFS(root))
	require.False(t, r.Exists("app/handlers/blog.go"))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	// Act
	err := r.Watch(ctx, root, nil, "app")
	require.Nil(t, err)
	require.Nil(t, os.WriteFile(filepath.Join(root, "app", "handlers", "blog.go"), []byte("package handlers"), 0o644))

	// Assert
	require.Eventually(t, func() bool {
		return r.Exists("app/handlers/blog.go")
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWatchMissingDir(t *testing.T) {
	r := paths.NewResolver(os.DirFS(t.TempDir()))
	require.NotNil(t, r.Watch(context.Background(), t.TempDir(), nil, "nope"))
}
