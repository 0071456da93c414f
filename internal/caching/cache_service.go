package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "dine"

// ReportCache stores computed report payloads as JSON, grouped per restaurant
// so a mutation can drop every report of the restaurant it touched.
type ReportCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	InvalidateRestaurant(ctx context.Context, restaurantID int64) error
	Ping(ctx context.Context) error
}

// ReportKey builds the cache key of one report of a restaurant.
func ReportKey(restaurantID int64, report string, params ...string) string {
	key := fmt.Sprintf("%s:report:%d:%s", keyPrefix, restaurantID, report)
	if len(params) > 0 {
		key += ":" + strings.Join(params, ":")
	}
	return key
}

type redisReportCache struct {
	client *redis.Client
}

// NewRedisClient parses addr, which may be host:port or a redis:// URL.
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		opts, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		if password != "" {
			opts.Password = password
		}
		return redis.NewClient(opts), nil
	}
	return redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db}), nil
}

func NewRedisReportCache(client *redis.Client) ReportCache {
	return &redisReportCache{client: client}
}

// Get decodes the cached value into dest. A miss returns false with no error.
func (r *redisReportCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		// a stale layout is treated as a miss and overwritten by the next Set
		log.Warnf("discarding undecodable cache entry %s: %v", key, err)
		return false, nil
	}
	return true, nil
}

func (r *redisReportCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisReportCache) InvalidateRestaurant(ctx context.Context, restaurantID int64) error {
	pattern := fmt.Sprintf("%s:report:%d:*", keyPrefix, restaurantID)
	keys, err := r.client.Keys(ctx, pattern).Result()
	if err != nil {
		return err
	}
	if len(keys) > 0 {
		return r.client.Del(ctx, keys...).Err()
	}
	return nil
}

func (r *redisReportCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// NoopReportCache never hits. Used when Redis is not configured.
type NoopReportCache struct{}

func (NoopReportCache) Get(context.Context, string, any) (bool, error) { return false, nil }
func (NoopReportCache) Set(context.Context, string, any, time.Duration) error { return nil }
func (NoopReportCache) InvalidateRestaurant(context.Context, int64) error { return nil }
func (NoopReportCache) Ping(context.Context) error { return nil }
