package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/databridge-consult/databridge-api/model"
)

type fakeSessionStore struct {
	sessions  map[string]*model.Session
	createErr error
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]*model.Session)}
}

func (f *fakeSessionStore) CreateSession(_ context.Context, s *model.Session) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.sessions[s.RefreshToken] = s
	return nil
}

func (f *fakeSessionStore) FindSessionByRefreshToken(_ context.Context, token string) (*model.Session, error) {
	s, ok := f.sessions[token]
	if !ok {
		return nil, errors.New("session not found")
	}
	return s, nil
}

func (f *fakeSessionStore) DeleteSessionByRefreshToken(_ context.Context, token string) error {
	delete(f.sessions, token)
	return nil
}

func newTestManager(t *testing.T) (*JWTManager, *fakeSessionStore) {
	t.Helper()
	store := newFakeSessionStore()
	manager := NewJWTManager(JWTConfig{
		Secret:        "test-secret",
		Issuer:        "databridge-consult",
		Expiry:        time.Hour,
		RefreshExpiry: 7 * 24 * time.Hour,
	}, NewMemoryBlacklist(), store)
	return manager, store
}

func TestJWTManager_IssueAndVerifyAccessToken(t *testing.T) {
	ctx := context.Background()
	manager, _ := newTestManager(t)

	token, err := manager.IssueAccessToken("user-1", "a@example.com", model.RoleAdmin)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.VerifyAccessToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "a@example.com", claims.Email)
	assert.Equal(t, model.RoleAdmin, claims.Role)
	assert.Equal(t, "databridge-consult", claims.Issuer)
	assert.Empty(t, claims.RefreshID)
}

func TestJWTManager_IssueRefreshTokenCreatesSession(t *testing.T) {
	ctx := context.Background()
	manager, store := newTestManager(t)

	token, err := manager.IssueRefreshToken(ctx, "user-1", "a@example.com", model.RoleUser)
	require.NoError(t, err)

	session, err := store.FindSessionByRefreshToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", session.UserID)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), session.ExpiresAt, time.Minute)

	claims, err := manager.VerifyRefreshToken(ctx, token)
	require.NoError(t, err)
	assert.NotEmpty(t, claims.RefreshID)
}

func TestJWTManager_IssueRefreshTokenSessionFailure(t *testing.T) {
	ctx := context.Background()
	manager, store := newTestManager(t)
	store.createErr = errors.New("db down")

	_, err := manager.IssueRefreshToken(ctx, "user-1", "a@example.com", model.RoleUser)
	assert.ErrorIs(t, err, ErrSignFailed)
	assert.Empty(t, store.sessions)
}

func TestJWTManager_RefreshIDsAreUnique(t *testing.T) {
	ctx := context.Background()
	manager, _ := newTestManager(t)

	first, err := manager.IssueRefreshToken(ctx, "user-1", "a@example.com", model.RoleUser)
	require.NoError(t, err)
	second, err := manager.IssueRefreshToken(ctx, "user-1", "a@example.com", model.RoleUser)
	require.NoError(t, err)

	firstClaims, err := manager.VerifyRefreshToken(ctx, first)
	require.NoError(t, err)
	secondClaims, err := manager.VerifyRefreshToken(ctx, second)
	require.NoError(t, err)
	assert.NotEqual(t, firstClaims.RefreshID, secondClaims.RefreshID)
}

func TestJWTManager_MissingSecret(t *testing.T) {
	ctx := context.Background()
	manager := NewJWTManager(JWTConfig{
		Issuer:        "databridge-consult",
		Expiry:        time.Hour,
		RefreshExpiry: time.Hour,
	}, NewMemoryBlacklist(), newFakeSessionStore())

	_, err := manager.IssueAccessToken("user-1", "a@example.com", model.RoleUser)
	assert.ErrorIs(t, err, ErrMissingSecret)

	_, err = manager.IssueRefreshToken(ctx, "user-1", "a@example.com", model.RoleUser)
	assert.ErrorIs(t, err, ErrMissingSecret)

	_, err = manager.VerifyAccessToken(ctx, "some.token.here")
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestJWTManager_VerifyMissingToken(t *testing.T) {
	manager, _ := newTestManager(t)

	_, err := manager.VerifyAccessToken(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestJWTManager_VerifyTamperedToken(t *testing.T) {
	ctx := context.Background()
	manager, _ := newTestManager(t)

	other := NewJWTManager(JWTConfig{
		Secret:        "a-different-secret",
		Issuer:        "databridge-consult",
		Expiry:        time.Hour,
		RefreshExpiry: time.Hour,
	}, NewMemoryBlacklist(), newFakeSessionStore())

	forged, err := other.IssueAccessToken("user-1", "a@example.com", model.RoleSuperadmin)
	require.NoError(t, err)

	_, err = manager.VerifyAccessToken(ctx, forged)
	assert.ErrorIs(t, err, ErrVerificationFailed)
}

func TestJWTManager_VerifyWrongIssuer(t *testing.T) {
	ctx := context.Background()
	manager, _ := newTestManager(t)

	other := NewJWTManager(JWTConfig{
		Secret:        "test-secret",
		Issuer:        "someone-else",
		Expiry:        time.Hour,
		RefreshExpiry: time.Hour,
	}, NewMemoryBlacklist(), newFakeSessionStore())

	token, err := other.IssueAccessToken("user-1", "a@example.com", model.RoleUser)
	require.NoError(t, err)

	_, err = manager.VerifyAccessToken(ctx, token)
	assert.ErrorIs(t, err, ErrVerificationFailed)
}

func TestJWTManager_VerifyExpiredToken(t *testing.T) {
	ctx := context.Background()
	store := newFakeSessionStore()
	manager := NewJWTManager(JWTConfig{
		Secret:        "test-secret",
		Issuer:        "databridge-consult",
		Expiry:        -time.Minute,
		RefreshExpiry: time.Hour,
	}, NewMemoryBlacklist(), store)

	token, err := manager.IssueAccessToken("user-1", "a@example.com", model.RoleUser)
	require.NoError(t, err)

	_, err = manager.VerifyAccessToken(ctx, token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTManager_VerifyRejectsWrongTokenKind(t *testing.T) {
	ctx := context.Background()
	manager, _ := newTestManager(t)

	access, err := manager.IssueAccessToken("user-1", "a@example.com", model.RoleUser)
	require.NoError(t, err)
	refresh, err := manager.IssueRefreshToken(ctx, "user-1", "a@example.com", model.RoleUser)
	require.NoError(t, err)

	_, err = manager.VerifyAccessToken(ctx, refresh)
	assert.ErrorIs(t, err, ErrVerificationFailed)

	_, err = manager.VerifyRefreshToken(ctx, access)
	assert.ErrorIs(t, err, ErrVerificationFailed)
}

func TestJWTManager_VerifyRejectsUnexpectedAlgorithm(t *testing.T) {
	ctx := context.Background()
	manager, _ := newTestManager(t)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		Email: "a@example.com",
		Role:  model.RoleSuperadmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			Issuer:    "databridge-consult",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = manager.VerifyAccessToken(ctx, token)
	assert.ErrorIs(t, err, ErrVerificationFailed)
}

func TestJWTManager_RevokeAccessToken(t *testing.T) {
	ctx := context.Background()
	manager, _ := newTestManager(t)

	token, err := manager.IssueAccessToken("user-1", "a@example.com", model.RoleUser)
	require.NoError(t, err)

	manager.Revoke(ctx, token)

	_, err = manager.VerifyAccessToken(ctx, token)
	assert.ErrorIs(t, err, ErrTokenBlacklisted)
}

func TestJWTManager_RevokeRefreshTokenDeletesSession(t *testing.T) {
	ctx := context.Background()
	manager, store := newTestManager(t)

	token, err := manager.IssueRefreshToken(ctx, "user-1", "a@example.com", model.RoleUser)
	require.NoError(t, err)

	manager.Revoke(ctx, token)

	_, err = manager.VerifyRefreshToken(ctx, token)
	assert.ErrorIs(t, err, ErrTokenBlacklisted)
	assert.Empty(t, store.sessions)
}

func TestJWTManager_RevokeToleratesGarbage(t *testing.T) {
	ctx := context.Background()
	manager, _ := newTestManager(t)

	assert.NotPanics(t, func() {
		manager.Revoke(ctx, "")
		manager.Revoke(ctx, "not-a-jwt-at-all")
	})
}
