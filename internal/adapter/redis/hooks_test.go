package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/pscheid92/rogrow/internal/adapter/metrics"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func failingProcess(msg string) goredis.ProcessHook {
	return func(ctx context.Context, cmd goredis.Cmder) error {
		return errors.New(msg)
	}
}

func succeedingProcess(ctx context.Context, cmd goredis.Cmder) error {
	return nil
}

func TestCircuitBreakerHook_NormalOperation(t *testing.T) {
	hook := NewCircuitBreakerHook(nil)

	// Circuit should start in closed state
	assert.Equal(t, gobreaker.StateClosed, hook.GetState())

	ctx := context.Background()
	for i := 0; i < 10; i++ {
		err := hook.ProcessHook(succeedingProcess)(ctx, goredis.NewStringCmd(ctx, "get", "key"))
		assert.NoError(t, err)
	}

	assert.Equal(t, gobreaker.StateClosed, hook.GetState())
	counts := hook.GetCounts()
	assert.Equal(t, uint32(10), counts.Requests)
	assert.Equal(t, uint32(10), counts.TotalSuccesses)
	assert.Equal(t, uint32(0), counts.TotalFailures)
}

func TestCircuitBreakerHook_NilIsNotAFailure(t *testing.T) {
	hook := NewCircuitBreakerHook(nil)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		err := hook.ProcessHook(func(ctx context.Context, cmd goredis.Cmder) error {
			return goredis.Nil
		})(ctx, goredis.NewStringCmd(ctx, "get", "missing"))
		require.ErrorIs(t, err, goredis.Nil)
	}

	assert.Equal(t, gobreaker.StateClosed, hook.GetState())
	assert.Equal(t, uint32(0), hook.GetCounts().TotalFailures)
}

func TestCircuitBreakerHook_TransientFailures(t *testing.T) {
	hook := NewCircuitBreakerHook(nil)
	ctx := context.Background()

	// Two failures stay below the minimum of five requests.
	for i := 0; i < 2; i++ {
		err := hook.ProcessHook(failingProcess("connection refused"))(ctx, goredis.NewStringCmd(ctx, "get", "key"))
		assert.Error(t, err)
		assert.NotErrorIs(t, err, gobreaker.ErrOpenState)
	}

	assert.Equal(t, gobreaker.StateClosed, hook.GetState())
}

func TestCircuitBreakerHook_OpensAfterSustainedFailures(t *testing.T) {
	m := metrics.NewRedisMetrics(prometheus.NewRegistry())
	hook := NewCircuitBreakerHook(m)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		err := hook.ProcessHook(failingProcess("connection timeout"))(ctx, goredis.NewStringCmd(ctx, "get", "key"))
		assert.Error(t, err)
	}

	assert.Equal(t, gobreaker.StateOpen, hook.GetState())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BreakerStateChanges.WithLabelValues("open")))
}

func TestCircuitBreakerHook_FailsFastWhenOpen(t *testing.T) {
	hook := NewCircuitBreakerHook(nil)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_ = hook.ProcessHook(failingProcess("redis down"))(ctx, goredis.NewStringCmd(ctx, "get", "key"))
	}
	require.Equal(t, gobreaker.StateOpen, hook.GetState())

	called := false
	err := hook.ProcessHook(func(ctx context.Context, cmd goredis.Cmder) error {
		called = true
		return nil
	})(ctx, goredis.NewStatusCmd(ctx, "set", "key", "value"))

	require.Error(t, err)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Contains(t, err.Error(), "circuit breaker open")
	assert.False(t, called, "Redis should not be called when circuit is open")
}

func TestCircuitBreakerHook_PipelineFailsFastWhenOpen(t *testing.T) {
	hook := NewCircuitBreakerHook(nil)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_ = hook.ProcessPipelineHook(func(ctx context.Context, cmds []goredis.Cmder) error {
			return errors.New("redis down")
		})(ctx, nil)
	}

	err := hook.ProcessPipelineHook(func(ctx context.Context, cmds []goredis.Cmder) error {
		return nil
	})(ctx, nil)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
}

func TestCircuitBreakerHook_ClosesAfterSuccessfulRecovery(t *testing.T) {
	hook := &CircuitBreakerHook{
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "redis-test",
			MaxRequests: 3,
			Interval:    60 * time.Second,
			Timeout:     100 * time.Millisecond,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.Requests >= 3 && float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
			},
		}),
	}
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_ = hook.ProcessHook(failingProcess("failure"))(ctx, goredis.NewStringCmd(ctx, "get", "key"))
	}
	require.Equal(t, gobreaker.StateOpen, hook.GetState())

	time.Sleep(150 * time.Millisecond)

	err := hook.ProcessHook(succeedingProcess)(ctx, goredis.NewStringCmd(ctx, "get", "key"))
	require.NoError(t, err)
	assert.Equal(t, gobreaker.StateHalfOpen, hook.GetState())

	for i := 0; i < 2; i++ {
		err := hook.ProcessHook(succeedingProcess)(ctx, goredis.NewStringCmd(ctx, "get", "key"))
		require.NoError(t, err)
	}
	assert.Equal(t, gobreaker.StateClosed, hook.GetState())
}

func TestMetricsHook_RecordsOperations(t *testing.T) {
	m := metrics.NewRedisMetrics(prometheus.NewRegistry())
	hook := NewMetricsHook(m)
	ctx := context.Background()

	_ = hook.ProcessHook(succeedingProcess)(ctx, goredis.NewStringCmd(ctx, "get", "key"))
	_ = hook.ProcessHook(func(ctx context.Context, cmd goredis.Cmder) error {
		return goredis.Nil
	})(ctx, goredis.NewStringCmd(ctx, "get", "missing"))
	_ = hook.ProcessHook(failingProcess("boom"))(ctx, goredis.NewStatusCmd(ctx, "set", "key", "v"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.OpsTotal.WithLabelValues("get", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OpsTotal.WithLabelValues("set", "error")))
}
