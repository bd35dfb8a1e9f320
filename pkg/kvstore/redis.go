package kvstore

import (
	"context"
	"time"

	"github.com/lcorp/storefront/pkg/redis"
)

type redisBackend interface {
	Get(context.Context, string) (string, error)
	Set(context.Context, string, any, time.Duration) error
	Del(context.Context, ...string) error
	SessionKey(sessionID, item string) string
	Ping(context.Context) error
}

// Redis stores each item under sf:session:<session>:<key> with a sliding TTL.
type Redis struct {
	client redisBackend
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) GetItem(ctx context.Context, sessionID, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, r.client.SessionKey(sessionID, key))
	if err != nil {
		if redis.IsNil(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

func (r *Redis) SetItem(ctx context.Context, sessionID, key, value string) error {
	return r.client.Set(ctx, r.client.SessionKey(sessionID, key), value, r.ttl)
}

func (r *Redis) RemoveItem(ctx context.Context, sessionID, key string) error {
	return r.client.Del(ctx, r.client.SessionKey(sessionID, key))
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx)
}
