package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	SkinTone  string  `json:"skinTone"`
	Undertone string  `json:"undertone"`
	Score     float64 `json:"score"`
}

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()

	var got payload
	hit, err := c.Get(ctx, "missing", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	want := payload{SkinTone: "Tan", Undertone: "Neutral", Score: 0.9}
	require.NoError(t, c.Set(ctx, "k", want, 0))

	hit, err = c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, want, got)

	require.NoError(t, c.Del(ctx, "k"))
	hit, err = c.Get(ctx, "k", nil)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	c := NewMemory()
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))

	now = now.Add(59 * time.Second)
	hit, err := c.Get(ctx, "k", nil)
	require.NoError(t, err)
	assert.True(t, hit)

	now = now.Add(time.Second)
	hit, err = c.Get(ctx, "k", nil)
	require.NoError(t, err)
	assert.False(t, hit, "entry should expire at its deadline")
}

func TestMemoryCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := NewMemory()
	assert.ErrorIs(t, c.Set(ctx, "k", 1, 0), context.Canceled)
	_, err := c.Get(ctx, "k", nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRedisKeyPrefix(t *testing.T) {
	assert.Equal(t, "makeup:analysis:abc", (&Redis{prefix: "makeup"}).key("analysis:abc"))
	assert.Equal(t, "analysis:abc", (&Redis{}).key("analysis:abc"))
}

func TestNewRedisRejectsBadURL(t *testing.T) {
	_, err := NewRedis(context.Background(), "not a url", "")
	assert.Error(t, err)
}
