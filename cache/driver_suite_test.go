package cache_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/suite"

	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/cache"
)

// DriverTestSuite holds every cache.Driver to the same behavior.
type DriverTestSuite struct {
	suite.Suite

	driver cache.Driver
	ctx    context.Context
}

func TestMemoryDriver(t *testing.T) {
	suite.Run(t, &DriverTestSuite{driver: cache.NewMemory()})
}

// TestRedisDriver runs against the Redis server at REDIS_ADDR, when set.
// The database it selects is flushed.
func TestRedisDriver(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	suite.Run(t, &DriverTestSuite{driver: cache.NewRedis(&redis.Options{Addr: addr, DB: 15})})
}

func (s *DriverTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.Require().True(s.driver.IsSupported(s.ctx))
	s.Require().Nil(s.driver.Clean(s.ctx))
}

func (s *DriverTestSuite) TestSaveGet() {
	// Act
	err := s.driver.Save(s.ctx, "greeting", []byte("hi"), time.Minute)

	// Assert
	s.Require().Nil(err)
	val, err := s.driver.Get(s.ctx, "greeting")
	s.Require().Nil(err)
	s.Require().Equal([]byte("hi"), val)
}

func (s *DriverTestSuite) TestGetMissing() {
	// Act
	_, err := s.driver.Get(s.ctx, "missing")

	// Assert
	s.Require().ErrorIs(err, switchback.ErrNotExist)
}

func (s *DriverTestSuite) TestDelete() {
	// Arrange
	s.Require().Nil(s.driver.Save(s.ctx, "greeting", []byte("hi"), time.Minute))

	// Act
	err := s.driver.Delete(s.ctx, "greeting")

	// Assert
	s.Require().Nil(err)
	_, err = s.driver.Get(s.ctx, "greeting")
	s.Require().ErrorIs(err, switchback.ErrNotExist)
	s.Require().Nil(s.driver.Delete(s.ctx, "greeting"))
}

func (s *DriverTestSuite) TestIncrement() {
	// Act
	first, err := s.driver.Increment(s.ctx, "hits", 2)
	s.Require().Nil(err)
	second, err := s.driver.Increment(s.ctx, "hits", -5)
	s.Require().Nil(err)

	// Assert
	s.Require().Equal(int64(2), first)
	s.Require().Equal(int64(-3), second)
}

func (s *DriverTestSuite) TestClean() {
	// Arrange
	s.Require().Nil(s.driver.Save(s.ctx, "a", []byte("1"), time.Minute))
	s.Require().Nil(s.driver.Save(s.ctx, "b", []byte("2"), time.Minute))

	// Act
	err := s.driver.Clean(s.ctx)

	// Assert
	s.Require().Nil(err)
	for _, key := range []string{"a", "b"} {
		_, err := s.driver.Get(s.ctx, key)
		s.Require().ErrorIs(err, switchback.ErrNotExist)
	}
}
