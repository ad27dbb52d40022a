package blacklist

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memKV struct {
	vals map[string][]byte
	ttls map[string]int
}

func newMemKV() *memKV {
	return &memKV{vals: map[string][]byte{}, ttls: map[string]int{}}
}

func (m *memKV) SetNX(_ context.Context, key string, val []byte, ttlSeconds int) (bool, error) {
	if _, ok := m.vals[key]; ok {
		return false, nil
	}
	m.vals[key] = val
	m.ttls[key] = ttlSeconds
	return true, nil
}

func (m *memKV) Exists(_ context.Context, key string) (bool, error) {
	_, ok := m.vals[key]
	return ok, nil
}

func TestRevokeAndCheck(t *testing.T) {
	kv := newMemKV()
	s := NewStore(kv)
	ctx := context.Background()

	revoked, err := s.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, s.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)))

	revoked, err = s.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	// TTL tracks the token expiry, give or take rounding
	ttl := kv.ttls["jti:jti-1"]
	assert.InDelta(t, 3600, ttl, 5)
}

func TestRevokeExpiredTokenStillMarks(t *testing.T) {
	kv := newMemKV()
	s := NewStore(kv)
	ctx := context.Background()

	require.NoError(t, s.Revoke(ctx, "jti-2", time.Now().Add(-time.Hour)))

	revoked, err := s.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.Greater(t, kv.ttls["jti:jti-2"], 0)
}

func TestRevokeAlmostExpiredTokenGetsPositiveTTL(t *testing.T) {
	kv := newMemKV()
	s := NewStore(kv)
	ctx := context.Background()

	// under a second left: the marker still needs a real expiry
	require.NoError(t, s.Revoke(ctx, "jti-4", time.Now().Add(300*time.Millisecond)))

	revoked, err := s.IsRevoked(ctx, "jti-4")
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.GreaterOrEqual(t, kv.ttls["jti:jti-4"], 1)
}

func TestRevokeIdempotent(t *testing.T) {
	kv := newMemKV()
	s := NewStore(kv)
	ctx := context.Background()

	exp := time.Now().Add(time.Hour)
	require.NoError(t, s.Revoke(ctx, "jti-3", exp))
	require.NoError(t, s.Revoke(ctx, "jti-3", exp))

	revoked, err := s.IsRevoked(ctx, "jti-3")
	require.NoError(t, err)
	assert.True(t, revoked)
}
