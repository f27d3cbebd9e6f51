package cart

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Carts are per-visitor, not shared; a month of inactivity drops them.
const snapshotTTL = 30 * 24 * time.Hour

// RedisStorage persists the cart snapshot in Redis, keyed per session, so
// a cart survives across storefront restarts and instances.
type RedisStorage struct {
	client *redis.Client
	key    string
}

func NewRedisStorage(client *redis.Client, sessionID string) *RedisStorage {
	return &RedisStorage{
		client: client,
		key:    "cart:" + sessionID,
	}
}

func (r *RedisStorage) Save(ctx context.Context, s State) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key, data, snapshotTTL).Err()
}

func (r *RedisStorage) Load(ctx context.Context) (State, bool) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		return State{}, false
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return State{}, false
	}
	return s, true
}
