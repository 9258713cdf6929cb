package idempotency

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func newRedis(t *testing.T) *redis.Client {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}

	ctx := context.Background()
	ctr, err := tcredis.Run(ctx, "redis:7-alpine")
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	uri, err := ctr.ConnectionString(ctx)
	require.NoError(t, err)

	opts, err := redis.ParseURL(uri)
	require.NoError(t, err)

	client := redis.NewClient(opts)
	t.Cleanup(func() { client.Close() })

	return client
}

func TestStateTracker_Exec(t *testing.T) {
	client := newRedis(t)
	st := New(client, "test:idem:")
	ctx := context.Background()

	calls := 0
	op := func(context.Context) error {
		calls++
		return nil
	}

	require.NoError(t, st.Exec(ctx, "issue-1", op, WithStateTTL(time.Minute)))
	assert.ErrorIs(t, st.Exec(ctx, "issue-1", op), ErrAlreadyCompleted)
	assert.Equal(t, 1, calls)

	val, err := client.Get(ctx, "test:idem:issue-1").Result()
	require.NoError(t, err)
	assert.Equal(t, StateCompleted.String(), val)
}

func TestStateTracker_ExecFailure(t *testing.T) {
	client := newRedis(t)
	st := New(client, "")
	ctx := context.Background()

	errSend := errors.New("smtp down")
	err := st.Exec(ctx, "issue-2", func(context.Context) error { return errSend })
	assert.ErrorIs(t, err, errSend)

	err = st.Exec(ctx, "issue-2", func(context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrAlreadyFailed)

	val, err := client.Get(ctx, DefaultPrefix+"issue-2").Result()
	require.NoError(t, err)
	assert.Equal(t, StateFailed.String(), val)
}

func TestStateTracker_Acquire(t *testing.T) {
	client := newRedis(t)
	st := New(client, "test:idem:")
	ctx := context.Background()

	state, err := st.Acquire(ctx, "issue-3", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, StateNone, state)

	state, err = st.Acquire(ctx, "issue-3", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, StateInProgress, state)

	require.NoError(t, client.Set(ctx, "test:idem:issue-4", "garbage", time.Minute).Err())
	state, err = st.Acquire(ctx, "issue-4", time.Minute)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, StateError, state)
}

func TestStateTracker_ExecReleaseOnError(t *testing.T) {
	client := newRedis(t)
	st := New(client, "test:idem:")
	ctx := context.Background()

	errSend := errors.New("smtp down")
	err := st.Exec(ctx, "issue-5", func(context.Context) error { return errSend }, WithReleaseOnError())
	assert.ErrorIs(t, err, errSend)

	exists, err := client.Exists(ctx, "test:idem:issue-5").Result()
	require.NoError(t, err)
	assert.Zero(t, exists)

	calls := 0
	require.NoError(t, st.Exec(ctx, "issue-5", func(context.Context) error {
		calls++
		return nil
	}, WithReleaseOnError()))
	assert.Equal(t, 1, calls)
}

func TestStateTracker_ExecRecordsAfterCancel(t *testing.T) {
	client := newRedis(t)
	st := New(client, "test:idem:")
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, st.Exec(ctx, "issue-6", func(context.Context) error {
		cancel()
		return nil
	}))

	val, err := client.Get(context.Background(), "test:idem:issue-6").Result()
	require.NoError(t, err)
	assert.Equal(t, StateCompleted.String(), val)
}
