package storeconfig

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CacheClient is the subset of *redis.Client the cache needs.
type CacheClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

type cachedRepo struct {
	next   Repository
	client CacheClient
	ttl    time.Duration
	log    *zap.Logger
}

// NewCachedRepository wraps next with a read-through Redis cache of raw
// records. Records are cached before decoding, so a malformed document keeps
// failing on every read instead of being masked. Redis failures fall back to
// next.
func NewCachedRepository(next Repository, client CacheClient, ttl time.Duration, log *zap.Logger) Repository {
	return &cachedRepo{next: next, client: client, ttl: ttl, log: log}
}

func cacheKey(storeID string) string { return "storeconfig:" + storeID }

func (r *cachedRepo) GetStoreConfig(ctx context.Context, storeID string) (*Record, error) {
	key := cacheKey(storeID)

	raw, err := r.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		rec := &Record{}
		if err := json.Unmarshal(raw, rec); err == nil {
			return rec, nil
		}
		r.log.Warn("discarding undecodable cached store config", zap.String("store_id", storeID))
	case !errors.Is(err, redis.Nil):
		r.log.Warn("store config cache read failed", zap.String("store_id", storeID), zap.Error(err))
	}

	rec, err := r.next.GetStoreConfig(ctx, storeID)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		r.log.Warn("store config not cacheable", zap.String("store_id", storeID), zap.Error(err))
		return rec, nil
	}
	if err := r.client.Set(ctx, key, payload, r.ttl).Err(); err != nil {
		r.log.Warn("store config cache write failed", zap.String("store_id", storeID), zap.Error(err))
	}
	return rec, nil
}
