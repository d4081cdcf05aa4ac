package database

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"assignment-workers/internal/common/errors"
	"assignment-workers/internal/matching"
)

const scoreKeyPrefix = "assignment:score:"

// ScoreCache memoizes scored instances in Redis. A nil *ScoreCache is valid
// and never hits.
type ScoreCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewScoreCache(client *redis.Client, ttl time.Duration) *ScoreCache {
	if client == nil {
		return nil
	}
	return &ScoreCache{client: client, ttl: ttl}
}

// ScoreKey is assignment:score:<strategy>:<sha256 of the instance names>.
// Names are hashed as a JSON array pair so that a line and the equivalent
// customers/products lists share a key.
func ScoreKey(strategy string, inst *matching.MatchInstance) string {
	names := [2][]string{profileNames(inst.Customers), profileNames(inst.Products)}
	data, _ := json.Marshal(names)
	sum := sha256.Sum256(data)
	return scoreKeyPrefix + strategy + ":" + hex.EncodeToString(sum[:])
}

func profileNames(profiles []matching.Profile) []string {
	out := make([]string, len(profiles))
	for i, p := range profiles {
		out[i] = p.Name
	}
	return out
}

// Get returns the cached result, or (nil, nil) on a miss. Connection
// failures come back as CACHE_UNAVAILABLE.
func (c *ScoreCache) Get(ctx context.Context, strategy string, inst *matching.MatchInstance) (*matching.Result, error) {
	if c == nil {
		return nil, nil
	}

	val, err := c.client.Get(ctx, ScoreKey(strategy, inst)).Result()
	if stderrors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewCacheUnavailableError(err)
	}

	var res matching.Result
	if err := json.Unmarshal([]byte(val), &res); err != nil {
		// treat a corrupt entry as a miss, it is overwritten on Put
		return nil, nil
	}
	return &res, nil
}

// Put stores res under the instance key for the configured TTL. A zero TTL
// keeps the entry until evicted.
func (c *ScoreCache) Put(ctx context.Context, strategy string, inst *matching.MatchInstance, res *matching.Result) error {
	if c == nil {
		return nil
	}

	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal score result: %w", err)
	}
	if err := c.client.Set(ctx, ScoreKey(strategy, inst), data, c.ttl).Err(); err != nil {
		return errors.NewCacheUnavailableError(err)
	}
	return nil
}
