// Package redis implements persistence.KV on a Redis server.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/tLat87/VisitTours/internal/persistence"
)

// KV stores every snapshot as a plain Redis string.
type KV struct {
	client *redis.Client
}

// NewKV wraps an existing client.
func NewKV(client *redis.Client) *KV {
	return &KV{client: client}
}

// Connect creates a client and checks that the server answers.
func Connect(ctx context.Context, opts *redis.Options) (*KV, error) {
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewKV(client), nil
}

// Close closes the underlying client.
func (kv *KV) Close() error {
	return kv.client.Close()
}

func (kv *KV) Get(ctx context.Context, key string) (string, error) {
	value, err := kv.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", persistence.ErrKeyNotFound
		}
		return "", fmt.Errorf("redis get: %w", err)
	}
	return value, nil
}

func (kv *KV) Set(ctx context.Context, key, value string) error {
	if err := kv.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (kv *KV) Delete(ctx context.Context, key string) error {
	if err := kv.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Keys walks the keyspace with SCAN.
func (kv *KV) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	iter := kv.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan: %w", err)
	}
	return keys, nil
}
