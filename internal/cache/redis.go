package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/chargebooking/config"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(cfg config.RedisConfig) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
	}
}

// AcquireStationLock takes the fast-path serializing lock for one station's
// local calendar day. The advisory-locked transaction in the repository is
// the authoritative guard; this lock keeps concurrent writers for the same
// day from piling onto it.
func (c *RedisCache) AcquireStationLock(ctx context.Context, stationID, localDay string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, stationLockKey(stationID, localDay), "locked", ttl).Result()
}

func (c *RedisCache) ReleaseStationLock(ctx context.Context, stationID, localDay string) error {
	return c.client.Del(ctx, stationLockKey(stationID, localDay)).Err()
}

func stationLockKey(stationID, localDay string) string {
	return fmt.Sprintf("lock:station:%s:day:%s", stationID, localDay)
}
