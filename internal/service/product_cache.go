package service

import (
	"context"
	"encoding/json"
	"time"

	"bclick/internal/dto"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const productCachePrefix = "product:barcode:"

// ProductCache keeps bar-code lookups in Redis. A nil cache (or one without a
// client) is a valid no-op, which keeps unit tests free of Redis.
type ProductCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewProductCache(rdb *redis.Client, ttl time.Duration) *ProductCache {
	return &ProductCache{rdb: rdb, ttl: ttl}
}

func (c *ProductCache) enabled() bool { return c != nil && c.rdb != nil }

func (c *ProductCache) Get(ctx context.Context, barcode string) (*dto.BarcodeLookupResponse, bool) {
	if !c.enabled() {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, productCachePrefix+barcode).Bytes()
	if err != nil {
		return nil, false
	}
	var resp dto.BarcodeLookupResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, false
	}
	return &resp, true
}

// Put is best effort.
func (c *ProductCache) Put(ctx context.Context, barcode string, resp *dto.BarcodeLookupResponse) {
	if !c.enabled() || barcode == "" {
		return
	}
	b, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, productCachePrefix+barcode, b, c.ttl).Err(); err != nil {
		log.Debug().Err(err).Str("barcode", barcode).Msg("product cache write failed")
	}
}

// Forget drops the given bar codes; empty codes are skipped.
func (c *ProductCache) Forget(ctx context.Context, barcodes ...string) {
	if !c.enabled() {
		return
	}
	keys := make([]string, 0, len(barcodes))
	for _, b := range barcodes {
		if b != "" {
			keys = append(keys, productCachePrefix+b)
		}
	}
	if len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		log.Warn().Err(err).Strs("keys", keys).Msg("product cache invalidation failed")
	}
}
