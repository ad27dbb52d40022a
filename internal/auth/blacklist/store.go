package blacklist

import (
	"context"
	"time"

	"github.com/EgorLis/mdshare/internal/domain"
)

// KV is the minimal slice of the cache we need.
type KV interface {
	SetNX(ctx context.Context, key string, val []byte, ttlSeconds int) (bool, error)
	Exists(ctx context.Context, key string) (bool, error)
}

type Store struct {
	kv KV
}

var _ domain.TokenBlacklist = (*Store)(nil)

func NewStore(kv KV) *Store {
	return &Store{kv: kv}
}

func (s *Store) key(jti string) string { return domain.CacheKeyTokenJTI(jti) }

// Revoke marks jti as revoked until exp (TTL = exp-now).
func (s *Store) Revoke(ctx context.Context, jti string, exp time.Time) error {
	ttl := time.Until(exp)
	if ttl <= 0 {
		ttl = time.Minute // exp already passed; keep the marker briefly anyway
	}
	// round up: a sub-second remainder must not become ttl 0 (= no expiry)
	secs := int((ttl + time.Second - 1) / time.Second)
	_, err := s.kv.SetNX(ctx, s.key(jti), []byte("1"), secs)
	return err
}

func (s *Store) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return s.kv.Exists(ctx, s.key(jti))
}
