package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/anyulbade/marketplace-pricer/internal/model"
)

// RedisStore keeps each session's list in a Redis list that expires ttl
// after the last write.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) Append(ctx context.Context, sessionID string, p model.Product) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode product: %w", err)
	}

	key := productsKey(sessionID)
	pipe := s.rdb.TxPipeline()
	pipe.RPush(ctx, key, data)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append product: %w", err)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context, sessionID string) ([]model.Product, error) {
	items, err := s.rdb.LRange(ctx, productsKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	products := make([]model.Product, 0, len(items))
	for i, item := range items {
		var p model.Product
		if err := json.Unmarshal([]byte(item), &p); err != nil {
			return nil, fmt.Errorf("decode product %d: %w", i, err)
		}
		products = append(products, p)
	}
	return products, nil
}

func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.rdb.Del(ctx, productsKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("clear products: %w", err)
	}
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func productsKey(sessionID string) string { return fmt.Sprintf("session:%s:products", sessionID) }
