package domain

import (
	"context"
	"strconv"
)

// Cache keys live here so they do not spread across packages.
func CacheKeyDocMeta(id DocID) string { return "docmeta:" + id.String() }
func CacheKeyDocHTML(id DocID, ver int64) string {
	return "dochtml:" + id.String() + ":" + strconv.FormatInt(ver, 10)
}
func CacheKeyListVersion(owner string) string { return "listver:" + owner }
func CacheKeyTokenJTI(jti string) string      { return "jti:" + jti }

// PublicListOwner is the pseudo-owner under which the anonymous/public list
// version counter is kept.
const PublicListOwner = "public"

// Simple k/v interface. Implementation is Redis.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte, ttlSeconds int) error
	Del(ctx context.Context, keys ...string) error
	// Version counters for selective list invalidation.
	Incr(ctx context.Context, key string) (int64, error)
	SetNX(ctx context.Context, key string, val []byte, ttlSeconds int) (bool, error)
	Exists(ctx context.Context, key string) (bool, error)
	Ping(context.Context) error
	Close()
}
