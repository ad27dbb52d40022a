package mw

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EgorLis/mdshare/internal/auth/token"
	"github.com/EgorLis/mdshare/internal/domain"
)

type fakeBlacklist struct {
	revoked map[string]bool
}

func (f *fakeBlacklist) Revoke(_ context.Context, jti string, _ time.Time) error {
	f.revoked[jti] = true
	return nil
}

func (f *fakeBlacklist) IsRevoked(_ context.Context, jti string) (bool, error) {
	return f.revoked[jti], nil
}

func authSetup(t *testing.T) (AuthDeps, string, domain.UserID, *fakeBlacklist) {
	t.Helper()
	tokens := token.New("test-secret", "mdshare-test", time.Hour)
	bl := &fakeBlacklist{revoked: map[string]bool{}}
	uid := uuid.New()
	raw, _, err := tokens.Issue(context.Background(), uid, "johnsmith")
	require.NoError(t, err)
	return AuthDeps{Tokens: tokens, Blacklist: bl}, raw, uid, bl
}

func captureUser(t *testing.T, called *bool, wantID *domain.UserID) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		u, ok := UserFromCtx(r.Context())
		if wantID == nil {
			assert.False(t, ok)
			return
		}
		require.True(t, ok)
		assert.Equal(t, *wantID, u.ID)
		assert.Equal(t, "johnsmith", u.Login)
	})
}

func TestRequireAuthValidToken(t *testing.T) {
	deps, raw, uid, _ := authSetup(t)

	var called bool
	h := RequireAuth(deps, captureUser(t, &called, &uid))

	req := httptest.NewRequest(http.MethodGet, "/api/docs", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAuthQueryToken(t *testing.T) {
	deps, raw, uid, _ := authSetup(t)

	var called bool
	h := RequireAuth(deps, captureUser(t, &called, &uid))

	req := httptest.NewRequest(http.MethodGet, "/api/docs?token="+raw, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.True(t, called)
}

func TestRequireAuthMissingToken(t *testing.T) {
	deps, _, _, _ := authSetup(t)

	var called bool
	h := RequireAuth(deps, captureUser(t, &called, nil))

	req := httptest.NewRequest(http.MethodGet, "/api/docs", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "unauthorized")
}

func TestRequireAuthRevokedToken(t *testing.T) {
	deps, raw, _, bl := authSetup(t)

	claims, err := deps.Tokens.Parse(context.Background(), raw)
	require.NoError(t, err)
	require.NoError(t, bl.Revoke(context.Background(), claims.JTI, claims.ExpiresAt))

	var called bool
	h := RequireAuth(deps, captureUser(t, &called, nil))

	req := httptest.NewRequest(http.MethodGet, "/api/docs", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOptionalAuthAnonymous(t *testing.T) {
	deps, _, _, _ := authSetup(t)

	var called bool
	h := OptionalAuth(deps, captureUser(t, &called, nil))

	req := httptest.NewRequest(http.MethodGet, "/api/docs", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOptionalAuthInvalidTokenFallsThrough(t *testing.T) {
	deps, _, _, _ := authSetup(t)

	var called bool
	h := OptionalAuth(deps, captureUser(t, &called, nil))

	req := httptest.NewRequest(http.MethodGet, "/api/docs", nil)
	req.Header.Set("Authorization", "Bearer not.a.jwt")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOptionalAuthValidToken(t *testing.T) {
	deps, raw, uid, _ := authSetup(t)

	var called bool
	h := OptionalAuth(deps, captureUser(t, &called, &uid))

	req := httptest.NewRequest(http.MethodGet, "/api/docs", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.True(t, called)
}
