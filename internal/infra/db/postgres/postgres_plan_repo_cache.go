package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"consulta-vehicular/internal/domain/model"
	"consulta-vehicular/internal/domain/ports/repository"
	"consulta-vehicular/internal/infra/metrics"
	red "consulta-vehicular/internal/infra/redis"
)

var _ repository.PlanRepository = (*planRepoCacheDecorator)(nil)

// planRepoCacheDecorator caches the read-mostly plan catalog in Redis.
type planRepoCacheDecorator struct {
	inner repository.PlanRepository
	cache red.RedisClient
	ttl   time.Duration
}

func NewPlanRepoCacheDecorator(inner repository.PlanRepository, cache red.RedisClient) repository.PlanRepository {
	return &planRepoCacheDecorator{
		inner: inner,
		cache: cache,
		ttl:   1 * time.Hour,
	}
}

func (d *planRepoCacheDecorator) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Plan, error) {
	key := fmt.Sprintf("plan:%s", id)
	if val, err := d.cache.Get(ctx, key); err == nil {
		var plan model.Plan
		if json.Unmarshal([]byte(val), &plan) == nil {
			metrics.IncCacheRequest("plan", "hit")
			return &plan, nil
		}
	}

	metrics.IncCacheRequest("plan", "miss")
	plan, err := d.inner.FindByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if plan != nil {
		if b, err := json.Marshal(plan); err == nil {
			_ = d.cache.Set(ctx, key, b, d.ttl)
		}
	}
	return plan, nil
}

// Writes invalidate both the per-plan entry and the full catalog.
func (d *planRepoCacheDecorator) Save(ctx context.Context, tx repository.Tx, plan *model.Plan) error {
	_ = d.cache.Del(ctx, fmt.Sprintf("plan:%s", plan.ID), "planes:all")
	return d.inner.Save(ctx, tx, plan)
}

func (d *planRepoCacheDecorator) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Plan, error) {
	const key = "planes:all"
	if val, err := d.cache.Get(ctx, key); err == nil {
		var planes []*model.Plan
		if json.Unmarshal([]byte(val), &planes) == nil {
			metrics.IncCacheRequest("plan_list", "hit")
			return planes, nil
		}
	}

	metrics.IncCacheRequest("plan_list", "miss")
	planes, err := d.inner.ListAll(ctx, tx)
	if err != nil {
		return nil, err
	}
	if len(planes) > 0 {
		if b, err := json.Marshal(planes); err == nil {
			_ = d.cache.Set(ctx, key, b, d.ttl)
		}
	}
	return planes, nil
}
