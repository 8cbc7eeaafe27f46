package mealplan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

// LocalCache is the client side fallback slot, one value per owner.
type LocalCache interface {
	Load(ctx context.Context, ownerID string) (PlanMap, error)
	Save(ctx context.Context, ownerID string, plans PlanMap) error
}

const cacheKeyPrefix = "mealplan:local:"

// CacheKey returns the slot key for an owner.
func CacheKey(ownerID string) string {
	return cacheKeyPrefix + ownerID
}

// RedisCache keeps each owner's PlanMap as one JSON value in Redis.
// Values never expire: the slot is the durable fallback copy.
type RedisCache struct {
	client *redis.Client
}

// Ensure RedisCache implements LocalCache
var _ LocalCache = (*RedisCache)(nil)

// NewRedisCache creates a RedisCache on top of an existing client.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Load returns the stored PlanMap, or an empty one when the slot is unset.
func (c *RedisCache) Load(ctx context.Context, ownerID string) (PlanMap, error) {
	data, err := c.client.Get(ctx, CacheKey(ownerID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return PlanMap{}, nil
	}
	if err != nil {
		return PlanMap{}, fmt.Errorf("failed to read local meal plans from Redis: %w", err)
	}
	return decodePlans(data)
}

// Save replaces the owner's slot.
func (c *RedisCache) Save(ctx context.Context, ownerID string, plans PlanMap) error {
	data, err := encodePlans(plans)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, CacheKey(ownerID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save local meal plans to Redis: %w", err)
	}
	return nil
}

// MemoryCache is an in-process LocalCache. It stores serialized values so
// callers never share slices with the cache.
type MemoryCache struct {
	mu    sync.Mutex
	slots map[string][]byte
}

// Ensure MemoryCache implements LocalCache
var _ LocalCache = (*MemoryCache)(nil)

// NewMemoryCache creates an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{slots: make(map[string][]byte)}
}

func (c *MemoryCache) Load(_ context.Context, ownerID string) (PlanMap, error) {
	c.mu.Lock()
	data, ok := c.slots[CacheKey(ownerID)]
	c.mu.Unlock()
	if !ok {
		return PlanMap{}, nil
	}
	return decodePlans(data)
}

func (c *MemoryCache) Save(_ context.Context, ownerID string, plans PlanMap) error {
	data, err := encodePlans(plans)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.slots[CacheKey(ownerID)] = data
	c.mu.Unlock()
	return nil
}

func encodePlans(plans PlanMap) ([]byte, error) {
	if plans == nil {
		plans = PlanMap{}
	}
	data, err := json.Marshal(plans)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal meal plans: %w", err)
	}
	return data, nil
}

func decodePlans(data []byte) (PlanMap, error) {
	plans := PlanMap{}
	if len(data) == 0 {
		return plans, nil
	}
	if err := json.Unmarshal(data, &plans); err != nil {
		return PlanMap{}, fmt.Errorf("failed to unmarshal meal plans: %w", err)
	}
	if plans == nil {
		plans = PlanMap{}
	}
	for key, entries := range plans {
		if len(entries) == 0 {
			delete(plans, key)
		}
	}
	return plans, nil
}
