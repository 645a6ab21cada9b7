package cache

import (
	"context"
	"time"
)

// AcquirePropertyLock takes the short booking lock for a property. It reports
// false when another request already holds it.
func (c *RedisCache) AcquirePropertyLock(ctx context.Context, propertyID string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, propertyLockKey(propertyID), "locked", ttl).Result()
}

func (c *RedisCache) ReleasePropertyLock(ctx context.Context, propertyID string) error {
	return c.client.Del(ctx, propertyLockKey(propertyID)).Err()
}

func propertyLockKey(propertyID string) string {
	return "lock:property:" + propertyID + ":booking"
}
