package service

import (
	"context"
	"encoding/json"
	"time"

	"bclick/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const userCachePrefix = "user:subject:"

// UserCache is a short-TTL read-through cache of internal users keyed by the
// identity provider subject. Writes to a user go through Forget.
type UserCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewUserCache(rdb *redis.Client, ttl time.Duration) *UserCache {
	return &UserCache{rdb: rdb, ttl: ttl}
}

func (c *UserCache) enabled() bool { return c != nil && c.rdb != nil }

func (c *UserCache) Get(ctx context.Context, subject string) (*model.User, bool) {
	if !c.enabled() {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, userCachePrefix+subject).Bytes()
	if err != nil {
		return nil, false
	}
	var u model.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, false
	}
	return &u, true
}

func (c *UserCache) Put(ctx context.Context, u *model.User) {
	if !c.enabled() {
		return
	}
	b, err := json.Marshal(u)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, userCachePrefix+u.ExternalID, b, c.ttl).Err(); err != nil {
		log.Debug().Err(err).Str("subject", u.ExternalID).Msg("user cache write failed")
	}
}

func (c *UserCache) Forget(ctx context.Context, subject string) {
	if !c.enabled() {
		return
	}
	if err := c.rdb.Del(ctx, userCachePrefix+subject).Err(); err != nil {
		log.Warn().Err(err).Str("subject", subject).Msg("user cache invalidation failed")
	}
}
