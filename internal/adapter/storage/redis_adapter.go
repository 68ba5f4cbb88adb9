package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/rl1809/pantry-tracker/internal/core/domain"
)

const collectionKeyPrefix = "collection:"

// Each collection is one hash: field = document key, value = quantity.
var adjustQuantityScript = redis.NewScript(`
local key = KEYS[1]
local field = ARGV[1]
local delta = tonumber(ARGV[2])

local current = redis.call('HGET', key, field)
if not current then
	if delta <= 0 then
		return 0
	end
	redis.call('HSET', key, field, delta)
	return delta
end

local next = tonumber(current) + delta
if next <= 0 then
	redis.call('HDEL', key, field)
	return 0
end

redis.call('HSET', key, field, next)
return next
`)

type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

func (r *RedisAdapter) ListDocuments(ctx context.Context, collection string) ([]domain.Document, error) {
	fields, err := r.client.HGetAll(ctx, collectionKeyPrefix+collection).Result()
	if err != nil {
		return nil, err
	}

	docs := make([]domain.Document, 0, len(fields))
	for key, raw := range fields {
		quantity, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("parse quantity of %q: %w", key, err)
		}
		docs = append(docs, domain.Document{Key: key, Quantity: quantity})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Key < docs[j].Key })
	return docs, nil
}

func (r *RedisAdapter) GetDocument(ctx context.Context, collection, key string) (*domain.Document, error) {
	quantity, err := r.client.HGet(ctx, collectionKeyPrefix+collection, key).Int()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &domain.Document{Key: key, Quantity: quantity}, nil
}

func (r *RedisAdapter) SetDocument(ctx context.Context, collection string, doc domain.Document) error {
	return r.client.HSet(ctx, collectionKeyPrefix+collection, doc.Key, doc.Quantity).Err()
}

func (r *RedisAdapter) DeleteDocument(ctx context.Context, collection, key string) error {
	return r.client.HDel(ctx, collectionKeyPrefix+collection, key).Err()
}

func (r *RedisAdapter) AdjustQuantity(ctx context.Context, collection, key string, delta int) (int, error) {
	return adjustQuantityScript.Run(ctx, r.client, []string{collectionKeyPrefix + collection}, key, delta).Int()
}

func (r *RedisAdapter) Close() error {
	return r.client.Close()
}
