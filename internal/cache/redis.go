package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/hallbooking/config"
	"github.com/Domenick1991/hallbooking/internal/domain"
	"github.com/redis/go-redis/v9"
)

const hallListPattern = "halls:*"

type RedisCache struct {
	client   *redis.Client
	hallsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, hallsTTL time.Duration) *RedisCache {
	return NewRedisCacheWithClient(redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}), hallsTTL)
}

func NewRedisCacheWithClient(client *redis.Client, hallsTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, hallsTTL: hallsTTL}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// GetHalls returns ok=false on a cache miss.
func (c *RedisCache) GetHalls(ctx context.Context, key string) ([]domain.Hall, bool, error) {
	var halls []domain.Hall
	ok, err := c.get(ctx, key, &halls)
	return halls, ok, err
}

func (c *RedisCache) SetHalls(ctx context.Context, key string, halls []domain.Hall) error {
	return c.set(ctx, key, halls)
}

func (c *RedisCache) GetHall(ctx context.Context, id int64) (*domain.Hall, bool, error) {
	var hall domain.Hall
	ok, err := c.get(ctx, HallKey(id), &hall)
	if !ok || err != nil {
		return nil, ok, err
	}
	return &hall, true, nil
}

func (c *RedisCache) SetHall(ctx context.Context, hall *domain.Hall) error {
	return c.set(ctx, HallKey(hall.ID), hall)
}

// InvalidateHall drops the hall's own entry and every cached hall listing.
func (c *RedisCache) InvalidateHall(ctx context.Context, id int64) error {
	keys := []string{HallKey(id)}
	iter := c.client.Scan(ctx, 0, hallListPattern, 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *RedisCache) get(ctx context.Context, key string, dst any) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (c *RedisCache) set(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, c.hallsTTL).Err()
}

func HallKey(id int64) string {
	return fmt.Sprintf("hall:%d", id)
}

func ListKey(page domain.Page) string {
	return fmt.Sprintf("halls:page=%d:limit=%d", page.Number, page.Limit)
}

func SearchKey(query string) string {
	return "halls:search:name:" + query
}

func LocationKey(location string) string {
	return "halls:filter:location:" + location
}
