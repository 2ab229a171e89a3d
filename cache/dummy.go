package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/xy-planning-network/switchback"
)

// A Dummy caches nothing.
type Dummy struct{}

func (Dummy) Get(_ context.Context, key string) ([]byte, error) {
	return nil, fmt.Errorf("%w: %s", switchback.ErrNotExist, key)
}

func (Dummy) Save(context.Context, string, []byte, time.Duration) error { return nil }
func (Dummy) Delete(context.Context, string) error                       { return nil }
func (Dummy) Increment(context.Context, string, int64) (int64, error)    { return 0, nil }
func (Dummy) Clean(context.Context) error                                { return nil }
func (Dummy) IsSupported(context.Context) bool                           { return true }
