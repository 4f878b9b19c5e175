package mocks

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
)

type MockRedisClient struct {
	mock.Mock
	redis.UniversalClient
}

func (m *MockRedisClient) TxPipeline() redis.Pipeliner {
	args := m.Called()
	return args.Get(0).(redis.Pipeliner)
}

type MockTxPipeline struct {
	mock.Mock
	redis.Pipeliner
}

func (m *MockTxPipeline) IncrBy(ctx context.Context, key string, value int64) *redis.IntCmd {
	args := m.Called(ctx, key, value)
	return args.Get(0).(*redis.IntCmd)
}

func (m *MockTxPipeline) XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd {
	args := m.Called(ctx, a)
	return args.Get(0).(*redis.StringCmd)
}

func (m *MockTxPipeline) Exec(ctx context.Context) ([]redis.Cmder, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]redis.Cmder), args.Error(1)
}

type MockRedisError struct {
	Msg string
}

func (m MockRedisError) Error() string {
	return m.Msg
}

func (m MockRedisError) RedisError() {
	// This method is used to satisfy the redis.Error interface.
}
