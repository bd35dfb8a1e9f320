// Package kvstore persists per-session string items, mirroring the browser's
// local storage contract: values are opaque strings under fixed keys.
package kvstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lcorp/storefront/pkg/config"
	"github.com/lcorp/storefront/pkg/db"
	"github.com/lcorp/storefront/pkg/redis"
)

// Persisted item keys.
const (
	KeyToken               = "token"
	KeyRole                = "role"
	KeyUsername            = "username"
	KeyUserID              = "user_id"
	KeyCart                = "cart"
	KeyCartSelectedItems   = "cart_selected_items"
	KeyCartObservedIDs     = "cart_observed_ids"
	KeyCheckoutItems       = "checkout_items"
	KeyCheckoutSelectedIDs = "checkout_selected_ids"
	KeyCheckoutFromCart    = "checkout_from_cart"
)

// Store is the storage contract. GetItem reports ok=false for absent keys.
type Store interface {
	GetItem(ctx context.Context, sessionID, key string) (value string, ok bool, err error)
	SetItem(ctx context.Context, sessionID, key, value string) error
	RemoveItem(ctx context.Context, sessionID, key string) error
	Ping(ctx context.Context) error
}

// Open picks the backend named by cfg.Storage.Driver. Only the dependency for
// the selected driver needs to be non-nil.
func Open(cfg *config.Config, redisClient *redis.Client, dbClient *db.Client) (Store, error) {
	ttl := cfg.Storage.TTL
	switch strings.ToLower(strings.TrimSpace(cfg.Storage.Driver)) {
	case config.StorageDriverMemory, "":
		return NewMemory(ttl), nil
	case config.StorageDriverRedis:
		if redisClient == nil {
			return nil, fmt.Errorf("redis storage driver selected without a redis client")
		}
		return NewRedis(redisClient, ttl), nil
	case config.StorageDriverSQL:
		if dbClient == nil {
			return nil, fmt.Errorf("sql storage driver selected without a database client")
		}
		return NewSQL(dbClient, ttl), nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}

func expiryFrom(now time.Time, ttl time.Duration) *time.Time {
	if ttl <= 0 {
		return nil
	}
	at := now.Add(ttl)
	return &at
}
