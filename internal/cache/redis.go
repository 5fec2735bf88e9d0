package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Domenick1991/flightroutes/config"
	"github.com/Domenick1991/flightroutes/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisCache keeps a serialized copy of the last loaded dataset so a fresh
// process can skip the source stores.
type RedisCache struct {
	client      redis.Cmdable
	snapshotTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig) *RedisCache {
	return NewRedisCacheWithClient(
		redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		time.Duration(cfg.SnapshotTTLSeconds)*time.Second,
	)
}

func NewRedisCacheWithClient(client redis.Cmdable, snapshotTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, snapshotTTL: snapshotTTL}
}

// GetDataset returns nil, nil on a cache miss.
func (c *RedisCache) GetDataset(ctx context.Context) (*domain.Dataset, error) {
	data, err := c.client.Get(ctx, datasetKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var ds domain.Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, err
	}
	return &ds, nil
}

func (c *RedisCache) SetDataset(ctx context.Context, ds *domain.Dataset) error {
	payload, err := json.Marshal(ds)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, datasetKey(), payload, c.snapshotTTL).Err()
}

func (c *RedisCache) DeleteDataset(ctx context.Context) error {
	return c.client.Del(ctx, datasetKey()).Err()
}

func (c *RedisCache) Close() error {
	if closer, ok := c.client.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

func datasetKey() string {
	return "cache:flight-routes:dataset"
}
