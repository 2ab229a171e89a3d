package cache

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/xy-planning-network/switchback"
)

type memoryVal struct {
	val []byte
	at  time.Time
	ttl time.Duration
}

func (v memoryVal) expired(now time.Time) bool {
	return v.ttl > 0 && now.Sub(v.at) > v.ttl
}

// A Memory caches values in a map.
//
// Server restarts reset it.
type Memory struct {
	mu   sync.Mutex
	vals map[string]memoryVal
	now  func() time.Time
}

// NewMemory constructs an empty Memory.
func NewMemory() *Memory {
	return &Memory{vals: make(map[string]memoryVal), now: time.Now}
}

// Get retrieves the value cached under key much like a regular map.
func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.vals[key]
	if !ok || v.expired(m.now()) {
		return nil, fmt.Errorf("%w: %s", switchback.ErrNotExist, key)
	}

	return append([]byte(nil), v.val...), nil
}

// Save overwrites the value paired to key.
//
// For each call to Save, expired keys are evicted.
func (m *Memory) Save(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for k, v := range m.vals {
		if v.expired(now) {
			delete(m.vals, k)
		}
	}

	m.vals[key] = memoryVal{val: append([]byte(nil), val...), at: now, ttl: ttl}
	return nil
}

// Delete removes key.
func (m *Memory) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.vals, key)
	return nil
}

// Increment adds offset to the integer stored under key, keeping its expiry.
func (m *Memory) Increment(ctx context.Context, key string, offset int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	v, ok := m.vals[key]
	if !ok || v.expired(now) {
		v = memoryVal{at: now}
	}

	var n int64
	if len(v.val) > 0 {
		var err error
		n, err = strconv.ParseInt(string(v.val), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s is not an integer", switchback.ErrNotValid, key)
		}
	}

	n += offset
	v.val = []byte(strconv.FormatInt(n, 10))
	m.vals[key] = v

	return n, nil
}

// Clean removes every key.
func (m *Memory) Clean(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.vals = make(map[string]memoryVal)
	return nil
}

func (m *Memory) IsSupported(context.Context) bool { return true }
