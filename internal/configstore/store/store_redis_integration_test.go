//go:build integration

package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"tracker/internal/configstore/models"
	"tracker/internal/configstore/store"
	"tracker/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	contractSuite
	redis *containers.RedisContainer
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.ctx = context.Background()
	s.store = store.NewRedis(s.redis.Client, store.WithHash("tracker:config:test"))
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(s.ctx))
}

func (s *RedisStoreSuite) TestValuesLiveInOneHash() {
	s.Require().NoError(s.store.Create(s.ctx, models.Entry{Key: "k1", Value: "v1"}))

	got, err := s.redis.Client.HGet(s.ctx, "tracker:config:test", "k1").Result()
	s.Require().NoError(err)
	s.Equal("v1", got)
}
