package redis

import (
	"context"
	"encoding/json"
	"time"

	"consulta-vehicular/internal/domain/model"
	"consulta-vehicular/internal/infra/metrics"
)

// SnapshotCache holds usage snapshots per user. Entries are invalidated only
// on successful credit consumption or a plan change; the TTL is a backstop
// against other devices mutating the same user's grants.
type SnapshotCache struct {
	client RedisClient
	ttl    time.Duration
}

func NewSnapshotCache(client RedisClient, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{client: client, ttl: ttl}
}

func (c *SnapshotCache) key(userID string) string { return "uso:" + userID }

func (c *SnapshotCache) Get(ctx context.Context, userID string) (*model.UsageSnapshot, bool) {
	val, err := c.client.Get(ctx, c.key(userID))
	if err != nil {
		metrics.IncCacheRequest("snapshot", "miss")
		return nil, false
	}
	var snap model.UsageSnapshot
	if json.Unmarshal([]byte(val), &snap) != nil {
		metrics.IncCacheRequest("snapshot", "miss")
		return nil, false
	}
	metrics.IncCacheRequest("snapshot", "hit")
	return &snap, true
}

func (c *SnapshotCache) Store(ctx context.Context, userID string, snap *model.UsageSnapshot) {
	b, err := json.Marshal(snap)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, c.key(userID), b, c.ttl)
}

func (c *SnapshotCache) Invalidate(ctx context.Context, userID string) {
	_ = c.client.Del(ctx, c.key(userID))
}
