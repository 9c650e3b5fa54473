package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)

	cfg := RedisConfig{Addr: mr.Addr(), Timeout: time.Second}
	client, err := NewRedisClient(cfg)
	require.NoError(t, err)

	logger, err := zap.NewDevelopment()
	require.NoError(t, err)

	t.Cleanup(func() {
		client.Close()
		mr.Close()
		_ = logger.Sync()
	})
	return NewRedis(client, cfg, logger), mr
}

func TestRedis_SetGetUsesPrefixAndTTL(t *testing.T) {
	r, mr := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "post_votes_7", []byte("payload"), time.Hour))

	assert.True(t, mr.Exists("voting_system:post_votes_7"))
	assert.Equal(t, time.Hour, mr.TTL("voting_system:post_votes_7"))

	got, ok := r.Get(ctx, "post_votes_7")
	require.True(t, ok)
	assert.Equal(t, "payload", string(got))

	mr.FastForward(time.Hour)
	_, ok = r.Get(ctx, "post_votes_7")
	assert.False(t, ok, "entry should expire with its TTL")
}

func TestRedis_Delete(t *testing.T) {
	r, mr := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, r.Set(ctx, "b", []byte("2"), time.Minute))

	require.NoError(t, r.Delete(ctx, "a", "b", "never-set"))
	assert.False(t, mr.Exists("voting_system:a"))
	assert.False(t, mr.Exists("voting_system:b"))
}

func TestRedis_FlushOnlyTouchesNamespace(t *testing.T) {
	r, mr := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, r.Set(ctx, "b", []byte("2"), time.Minute))
	require.NoError(t, mr.Set("other_app:key", "keep"))

	n, err := r.Flush(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, mr.Exists("other_app:key"))
	assert.False(t, mr.Exists("voting_system:a"))
}

func TestRedis_OutageIsAMiss(t *testing.T) {
	r, mr := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "a", []byte("1"), time.Minute))
	mr.Close()

	assert.False(t, r.Available(ctx))
	_, ok := r.Get(ctx, "a")
	assert.False(t, ok)
	assert.Error(t, r.Set(ctx, "a", []byte("2"), time.Minute))
	assert.Error(t, r.Delete(ctx, "a"))
}

func TestRedis_BulkCallsAreBounded(t *testing.T) {
	r, mr := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "a", []byte("1"), time.Minute))
	r.bulkTimeout = time.Nanosecond

	_, err := r.Flush(ctx)
	assert.Error(t, err)
	assert.True(t, mr.Exists("voting_system:a"), "flush should give up before deleting")

	_, err = r.Stats(ctx)
	assert.Error(t, err)
}

func TestParseInfo(t *testing.T) {
	fields := parseInfo("# Server\r\nredis_version:7.2.4\r\n\r\n# Clients\r\nconnected_clients:3\r\n")
	assert.Equal(t, "7.2.4", fields["redis_version"])
	assert.Equal(t, "3", fields["connected_clients"])
}

func TestOpenPrefersRedisAndFallsBack(t *testing.T) {
	mr := miniredis.RunT(t)
	logger := zap.NewNop()

	tier, closeFn := Open(context.Background(), RedisConfig{Addr: mr.Addr()}, logger)
	defer closeFn()
	_, isRedis := tier.(*Redis)
	assert.True(t, isRedis)

	tier, closeFn = Open(context.Background(), RedisConfig{}, logger)
	defer closeFn()
	_, isMemory := tier.(*Memory)
	assert.True(t, isMemory)
}
