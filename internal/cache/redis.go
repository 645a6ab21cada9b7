package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/restate/config"
	"github.com/Domenick1991/restate/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client        *redis.Client
	propertiesTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, propertiesTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:        redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		propertiesTTL: propertiesTTL,
	}
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// GetProperties returns the cached listing for filter, or nil on a miss.
func (c *RedisCache) GetProperties(ctx context.Context, filter domain.PropertyFilter) ([]domain.Property, error) {
	version, err := c.propertiesVersion(ctx)
	if err != nil {
		return nil, err
	}
	var properties []domain.Property
	if ok, err := c.getJSON(ctx, propertiesKey(version, filter), &properties); err != nil || !ok {
		return nil, err
	}
	return properties, nil
}

func (c *RedisCache) SetProperties(ctx context.Context, filter domain.PropertyFilter, properties []domain.Property) error {
	version, err := c.propertiesVersion(ctx)
	if err != nil {
		return err
	}
	return c.setJSON(ctx, propertiesKey(version, filter), properties, c.propertiesTTL)
}

// GetProperty returns the cached property, or nil on a miss.
func (c *RedisCache) GetProperty(ctx context.Context, id string) (*domain.Property, error) {
	var p domain.Property
	if ok, err := c.getJSON(ctx, propertyKey(id), &p); err != nil || !ok {
		return nil, err
	}
	return &p, nil
}

func (c *RedisCache) SetProperty(ctx context.Context, p *domain.Property) error {
	return c.setJSON(ctx, propertyKey(p.ID), p, c.propertiesTTL)
}

// InvalidateProperties drops every cached listing by bumping the listing
// version, and removes the cached detail of id when given.
func (c *RedisCache) InvalidateProperties(ctx context.Context, id string) error {
	if err := c.client.Incr(ctx, propertiesVersionKey()).Err(); err != nil {
		return err
	}
	if id == "" {
		return nil
	}
	return c.client.Del(ctx, propertyKey(id)).Err()
}

// GetRating returns the cached rating summary, or nil on a miss.
func (c *RedisCache) GetRating(ctx context.Context, propertyID string) (*domain.RatingSummary, error) {
	var s domain.RatingSummary
	if ok, err := c.getJSON(ctx, ratingKey(propertyID), &s); err != nil || !ok {
		return nil, err
	}
	return &s, nil
}

func (c *RedisCache) SetRating(ctx context.Context, propertyID string, s domain.RatingSummary, ttl time.Duration) error {
	return c.setJSON(ctx, ratingKey(propertyID), s, ttl)
}

func (c *RedisCache) DeleteRating(ctx context.Context, propertyID string) error {
	return c.client.Del(ctx, ratingKey(propertyID)).Err()
}

func (c *RedisCache) propertiesVersion(ctx context.Context) (int64, error) {
	v, err := c.client.Get(ctx, propertiesVersionKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

func (c *RedisCache) getJSON(ctx context.Context, key string, dst any) (bool, error) {
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

func (c *RedisCache) setJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, ttl).Err()
}

func propertiesVersionKey() string {
	return "cache:properties:version"
}

func propertiesKey(version int64, f domain.PropertyFilter) string {
	f = f.Normalize()
	return fmt.Sprintf("cache:properties:v%d:%s:%s:%d", version, strings.ToLower(f.Type), strings.ToLower(f.Query), f.Limit)
}

func propertyKey(id string) string {
	return "cache:property:" + id
}

func ratingKey(propertyID string) string {
	return "cache:rating:" + propertyID
}
