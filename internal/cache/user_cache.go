// Package cache holds the read-through user cache.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/training/practice/internal/config"
	"github.com/training/practice/internal/model"
)

// UserCache stores user DTOs by id. A miss is (nil, nil).
type UserCache interface {
	Get(ctx context.Context, id string) (*model.UserDTO, error)
	Set(ctx context.Context, dto *model.UserDTO) error
	Delete(ctx context.Context, id string) error
}

// RedisUserCache keeps JSON-encoded user DTOs in Redis with a fixed TTL.
type RedisUserCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewUserCache returns a Redis-backed cache, or a no-op cache when rdb is nil.
func NewUserCache(rdb *redis.Client, ttl time.Duration) UserCache {
	if rdb == nil {
		return NoopUserCache{}
	}
	return &RedisUserCache{rdb: rdb, ttl: ttl}
}

func (c *RedisUserCache) Get(ctx context.Context, id string) (*model.UserDTO, error) {
	data, err := c.rdb.Get(ctx, config.CacheKey.UserKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cached user: %w", err)
	}

	var dto model.UserDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, fmt.Errorf("unmarshal cached user: %w", err)
	}
	return &dto, nil
}

func (c *RedisUserCache) Set(ctx context.Context, dto *model.UserDTO) error {
	data, err := json.Marshal(dto)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	if err := c.rdb.Set(ctx, config.CacheKey.UserKey(dto.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache user: %w", err)
	}
	return nil
}

func (c *RedisUserCache) Delete(ctx context.Context, id string) error {
	if err := c.rdb.Del(ctx, config.CacheKey.UserKey(id)).Err(); err != nil {
		return fmt.Errorf("evict user: %w", err)
	}
	return nil
}

// NoopUserCache is used when Redis is not configured.
type NoopUserCache struct{}

func (NoopUserCache) Get(context.Context, string) (*model.UserDTO, error) { return nil, nil }
func (NoopUserCache) Set(context.Context, *model.UserDTO) error           { return nil }
func (NoopUserCache) Delete(context.Context, string) error                { return nil }
