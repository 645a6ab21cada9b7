package cache

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

// Publish sends payload as JSON on a Redis channel.
func (c *RedisCache) Publish(ctx context.Context, channel string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return c.client.Publish(ctx, channel, data).Err()
}

// Subscribe returns a subscription on channel. Callers must Close it.
func (c *RedisCache) Subscribe(ctx context.Context, channel string) *redis.PubSub {
	return c.client.Subscribe(ctx, channel)
}

func NotificationChannel(userID string) string {
	return "notifications:" + userID
}
