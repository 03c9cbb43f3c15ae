package trigger

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const cacheKeyPrefix = "intelligence:trigger:name:"

// CachedRepository is a redis read-through cache in front of another trigger
// repository. Trigger metadata is advisory on the scoring hot path, so a
// slightly stale entry is acceptable; every mutation invalidates the cached
// name entry. Redis being unreachable silently degrades to the inner
// repository.
type CachedRepository struct {
	inner Repository
	rdb   *redis.Client
	ttl   time.Duration
}

// NewCachedRepository wraps a repository with a redis trigger-by-name cache
func NewCachedRepository(inner Repository, rdb *redis.Client, ttl time.Duration) Repository {
	r := CachedRepository{
		inner: inner,
		rdb:   rdb,
		ttl:   ttl,
	}
	var ifm Repository = &r
	return ifm
}

func (r *CachedRepository) GetActiveByName(name string) (Trigger, bool, error) {
	ctx := context.Background()
	raw, err := r.rdb.Get(ctx, cacheKeyPrefix+name).Result()
	if err == nil {
		var t Trigger
		if err := json.Unmarshal([]byte(raw), &t); err == nil {
			return t, true, nil
		}
		zap.L().Warn("Corrupted trigger cache entry", zap.String("name", name))
	} else if err != redis.Nil {
		zap.L().Debug("Trigger cache read failed", zap.String("name", name), zap.Error(err))
	}

	t, found, err := r.inner.GetActiveByName(name)
	if err != nil || !found {
		return t, found, err
	}

	if data, err := json.Marshal(t); err == nil {
		if err := r.rdb.Set(ctx, cacheKeyPrefix+name, data, r.ttl).Err(); err != nil {
			zap.L().Debug("Trigger cache write failed", zap.String("name", name), zap.Error(err))
		}
	}
	return t, true, nil
}

func (r *CachedRepository) Create(t Trigger) (int64, error) {
	id, err := r.inner.Create(t)
	if err == nil {
		r.invalidate(t.Name)
	}
	return id, err
}

func (r *CachedRepository) Get(id int64) (Trigger, bool, error) {
	return r.inner.Get(id)
}

func (r *CachedRepository) Update(t Trigger) error {
	err := r.inner.Update(t)
	if err == nil {
		r.invalidate(t.Name)
	}
	return err
}

func (r *CachedRepository) SetEnabled(id int64, enabled bool) error {
	err := r.inner.SetEnabled(id, enabled)
	if err == nil {
		if t, found, getErr := r.inner.Get(id); getErr == nil && found {
			r.invalidate(t.Name)
		}
	}
	return err
}

func (r *CachedRepository) Touch(id int64, firedAt time.Time) error {
	err := r.inner.Touch(id, firedAt)
	if err == nil {
		if t, found, getErr := r.inner.Get(id); getErr == nil && found {
			r.invalidate(t.Name)
		}
	}
	return err
}

func (r *CachedRepository) GetAll() ([]Trigger, error) {
	return r.inner.GetAll()
}

func (r *CachedRepository) GetAllEnabled() ([]Trigger, error) {
	return r.inner.GetAllEnabled()
}

func (r *CachedRepository) invalidate(name string) {
	if err := r.rdb.Del(context.Background(), cacheKeyPrefix+name).Err(); err != nil {
		zap.L().Debug("Trigger cache invalidation failed", zap.String("name", name), zap.Error(err))
	}
}
