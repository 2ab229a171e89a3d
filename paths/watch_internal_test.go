package paths

import (
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/require"
)

func TestInvalidates(t *testing.T) {
	tcs := []struct {
		name     string
		evt      fsnotify.Event
		expected bool
	}{
		{"write", fsnotify.Event{Name: "app/handlers/blog.go", Op: fsnotify.Write}, true},
		{"remove", fsnotify.Event{Name: "app/views/home.tmpl", Op: fsnotify.Remove}, true},
		{"chmod", fsnotify.Event{Name: "app/handlers/blog.go", Op: fsnotify.Chmod}, false},
		{"hidden", fsnotify.Event{Name: "app/handlers/.blog.go.swp", Op: fsnotify.Create}, false},
		{"blank", fsnotify.Event{Name: " ", Op: fsnotify.Create}, false},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, invalidates(tc.evt))
		})
	}
}
