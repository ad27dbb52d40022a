package token

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueParseRoundtrip(t *testing.T) {
	m := New("test-secret", "mdshare-test", time.Hour)
	uid := uuid.New()

	raw, claims, err := m.Issue(context.Background(), uid, "johnsmith")
	require.NoError(t, err)
	require.NotEmpty(t, raw)
	assert.Equal(t, uid, claims.UserID)
	assert.Equal(t, "johnsmith", claims.Login)
	assert.NotEmpty(t, claims.JTI)

	parsed, err := m.Parse(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, claims.JTI, parsed.JTI)
	assert.Equal(t, uid, parsed.UserID)
	assert.Equal(t, "johnsmith", parsed.Login)
	assert.WithinDuration(t, claims.ExpiresAt, parsed.ExpiresAt, time.Second)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	issuer := New("secret-a", "mdshare-test", time.Hour)
	verifier := New("secret-b", "mdshare-test", time.Hour)

	raw, _, err := issuer.Issue(context.Background(), uuid.New(), "johnsmith")
	require.NoError(t, err)

	_, err = verifier.Parse(context.Background(), raw)
	assert.Error(t, err)
}

func TestParseRejectsExpired(t *testing.T) {
	m := New("test-secret", "mdshare-test", -time.Minute)

	raw, _, err := m.Issue(context.Background(), uuid.New(), "johnsmith")
	require.NoError(t, err)

	_, err = m.Parse(context.Background(), raw)
	assert.Error(t, err)
}

func TestParseRejectsGarbage(t *testing.T) {
	m := New("test-secret", "mdshare-test", time.Hour)
	_, err := m.Parse(context.Background(), "not.a.jwt")
	assert.Error(t, err)
}
