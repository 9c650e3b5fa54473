package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func newTestMemory() (*Memory, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	m := NewMemory(nil)
	m.now = clock.now
	return m, clock
}

func TestMemory_SetGetDelete(t *testing.T) {
	m, _ := newTestMemory()
	ctx := context.Background()

	_, ok := m.Get(ctx, "post_votes_1")
	assert.False(t, ok, "empty cache should miss")

	require.NoError(t, m.Set(ctx, "post_votes_1", []byte(`{"upvotes":1}`), time.Minute))
	got, ok := m.Get(ctx, "post_votes_1")
	require.True(t, ok)
	assert.Equal(t, `{"upvotes":1}`, string(got))

	require.NoError(t, m.Delete(ctx, "post_votes_1", "missing"))
	_, ok = m.Get(ctx, "post_votes_1")
	assert.False(t, ok)
}

func TestMemory_TTLExpiry(t *testing.T) {
	m, clock := newTestMemory()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", []byte("v"), 10*time.Second))

	clock.t = clock.t.Add(9 * time.Second)
	_, ok := m.Get(ctx, "k")
	assert.True(t, ok, "should still hit before TTL")

	clock.t = clock.t.Add(time.Second)
	_, ok = m.Get(ctx, "k")
	assert.False(t, ok, "should miss once TTL is reached")

	assert.Equal(t, 1, m.evictExpired())
	stats, err := m.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Keys)
}

func TestMemory_ReturnedValueIsACopy(t *testing.T) {
	m, _ := newTestMemory()
	ctx := context.Background()

	src := []byte("abc")
	require.NoError(t, m.Set(ctx, "k", src, time.Minute))
	src[0] = 'z'

	got, _ := m.Get(ctx, "k")
	got[1] = 'z'

	again, _ := m.Get(ctx, "k")
	assert.Equal(t, "abc", string(again))
}

func TestMemory_Flush(t *testing.T) {
	m, _ := newTestMemory()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, m.Set(ctx, "b", []byte("2"), time.Minute))

	n, err := m.Flush(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, ok := m.Get(ctx, "a")
	assert.False(t, ok)
}

func TestNoop_IsNeverAvailable(t *testing.T) {
	var tier Tier = Noop{}
	ctx := context.Background()

	assert.False(t, tier.Available(ctx))
	_, ok := tier.Get(ctx, "k")
	assert.False(t, ok)
	assert.ErrorIs(t, tier.Set(ctx, "k", nil, time.Second), ErrUnavailable)
	assert.ErrorIs(t, tier.Delete(ctx, "k"), ErrUnavailable)
}
