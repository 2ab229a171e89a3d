package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/switchback"
)

func TestMemoryExpiry(t *testing.T) {
	// Arrange
	ctx := context.Background()
	now := time.Date(2021, time.June, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemory()
	m.now = func() time.Time { return now }

	require.Nil(t, m.Save(ctx, "short", []byte("a"), time.Second))
	require.Nil(t, m.Save(ctx, "forever", []byte("b"), 0))

	// Act
	now = now.Add(2 * time.Second)
	_, err := m.Get(ctx, "short")

	// Assert
	require.ErrorIs(t, err, switchback.ErrNotExist)
	b, err := m.Get(ctx, "forever")
	require.Nil(t, err)
	require.Equal(t, "b", string(b))

	// Act
	require.Nil(t, m.Save(ctx, "other", []byte("c"), 0))

	// Assert
	require.NotContains(t, m.vals, "short")
	require.Contains(t, m.vals, "forever")
}
