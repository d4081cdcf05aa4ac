package database

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assignment-workers/internal/common/config"
	"assignment-workers/internal/common/errors"
	"assignment-workers/internal/matching"
)

// ==========================
// Test Helper Functions
// ==========================

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func abeBob() *matching.MatchInstance {
	return matching.NewMatchInstance([]string{"abe", "bob"}, []string{"cod", "tim"})
}

func sampleResult() *matching.Result {
	return &matching.Result{
		Score:    4.5,
		Strategy: "lapjv",
		Pairs: []matching.Pair{
			{ProductIndex: 0, CustomerIndex: 0, Product: "cod", Customer: "abe", Similarity: 150},
			{ProductIndex: 1, CustomerIndex: 1, Product: "tim", Customer: "bob", Similarity: 300},
		},
	}
}

// ==========================
// Key Tests
// ==========================

func TestScoreKey(t *testing.T) {
	key := ScoreKey("lapjv", abeBob())
	assert.True(t, strings.HasPrefix(key, "assignment:score:lapjv:"))
	assert.Len(t, strings.TrimPrefix(key, "assignment:score:lapjv:"), 64)

	parsed, err := matching.ParseLine(1, "abe,bob;cod,tim")
	require.NoError(t, err)
	assert.Equal(t, key, ScoreKey("lapjv", parsed), "line and lists share a key")

	assert.NotEqual(t, key, ScoreKey("munkres", abeBob()))
	assert.NotEqual(t, key, ScoreKey("lapjv", matching.NewMatchInstance([]string{"abe,bob"}, []string{"cod", "tim"})))
	assert.NotEqual(t, key, ScoreKey("lapjv", matching.NewMatchInstance([]string{"cod", "tim"}, []string{"abe", "bob"})))
}

// ==========================
// Cache Tests
// ==========================

func TestScoreCache_RoundTrip(t *testing.T) {
	mr, client := setupRedis(t)
	cache := NewScoreCache(client, 10*time.Minute)
	ctx := context.Background()

	got, err := cache.Get(ctx, "lapjv", abeBob())
	require.NoError(t, err)
	assert.Nil(t, got, "miss before put")

	require.NoError(t, cache.Put(ctx, "lapjv", abeBob(), sampleResult()))

	got, err = cache.Get(ctx, "lapjv", abeBob())
	require.NoError(t, err)
	assert.Equal(t, sampleResult(), got)

	key := ScoreKey("lapjv", abeBob())
	assert.True(t, mr.Exists(key))
	assert.Equal(t, 10*time.Minute, mr.TTL(key))

	mr.FastForward(11 * time.Minute)
	got, err = cache.Get(ctx, "lapjv", abeBob())
	require.NoError(t, err)
	assert.Nil(t, got, "expired")
}

func TestScoreCache_CorruptEntryIsMiss(t *testing.T) {
	mr, client := setupRedis(t)
	cache := NewScoreCache(client, time.Minute)
	require.NoError(t, mr.Set(ScoreKey("munkres", abeBob()), "{not json"))

	got, err := cache.Get(context.Background(), "munkres", abeBob())
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestScoreCache_Nil(t *testing.T) {
	cache := NewScoreCache(nil, time.Minute)
	assert.Nil(t, cache)

	got, err := cache.Get(context.Background(), "lapjv", abeBob())
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, cache.Put(context.Background(), "lapjv", abeBob(), sampleResult()))
}

func TestScoreCache_Unavailable(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewScoreCache(client, time.Minute)
	key := ScoreKey("lapjv", abeBob())

	mock.ExpectGet(key).SetErr(fmt.Errorf("connection refused"))
	_, err := cache.Get(context.Background(), "lapjv", abeBob())
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeCacheUnavailable, errors.CodeOf(err))

	mock.Regexp().ExpectSet(key, `.*`, time.Minute).SetErr(fmt.Errorf("connection refused"))
	err = cache.Put(context.Background(), "lapjv", abeBob(), sampleResult())
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeCacheUnavailable, errors.CodeOf(err))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScoreCache_MissViaMock(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewScoreCache(client, time.Minute)

	mock.ExpectGet(ScoreKey("lapjv", abeBob())).RedisNil()
	got, err := cache.Get(context.Background(), "lapjv", abeBob())
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Client Tests
// ==========================

func TestNewRedis(t *testing.T) {
	assert.Nil(t, NewRedis(config.RedisConfig{}))

	mr := miniredis.RunT(t)
	rc := NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NotNil(t, rc)
	t.Cleanup(func() { _ = rc.Close() })

	assert.NoError(t, rc.Ping(context.Background()))
	assert.NotNil(t, rc.GetClient())

	var nilClient *RedisClient
	assert.Nil(t, nilClient.GetClient())
	assert.NoError(t, nilClient.Close())
}
