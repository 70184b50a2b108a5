package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/databridge-consult/databridge-api/model"
)

var (
	ErrMissingSecret      = errors.New("jwt signing secret is not configured")
	ErrSignFailed         = errors.New("failed to sign token")
	ErrVerificationFailed = errors.New("token verification failed")
	ErrExpiredToken       = errors.New("token has expired")
	ErrTokenBlacklisted   = errors.New("token has been revoked")
	ErrMissingToken       = errors.New("no token provided")
	ErrInvalidToken       = errors.New("invalid token")
)

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret        string
	Issuer        string
	Expiry        time.Duration
	RefreshExpiry time.Duration
}

// Claims represents the token payload. Access and refresh tokens share the
// shape; only refresh tokens carry a RefreshID.
type Claims struct {
	Email     string     `json:"email"`
	Role      model.Role `json:"role"`
	RefreshID string     `json:"refresh_id,omitempty"`
	jwt.RegisteredClaims
}

// IsRefresh reports whether the claims belong to a refresh token
func (c *Claims) IsRefresh() bool {
	return c.RefreshID != ""
}

// SessionStore is the persistence contract backing refresh tokens. Sessions
// are the durable source of truth for refresh validity: a refresh token
// without a live session row is dead regardless of its signature.
type SessionStore interface {
	CreateSession(ctx context.Context, session *model.Session) error
	FindSessionByRefreshToken(ctx context.Context, refreshToken string) (*model.Session, error)
	DeleteSessionByRefreshToken(ctx context.Context, refreshToken string) error
}

// JWTManager issues, verifies and revokes both token kinds
type JWTManager struct {
	config    JWTConfig
	blacklist Blacklist
	sessions  SessionStore
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(config JWTConfig, blacklist Blacklist, sessions SessionStore) *JWTManager {
	return &JWTManager{
		config:    config,
		blacklist: blacklist,
		sessions:  sessions,
	}
}

// AccessTTL returns the configured access token lifetime
func (j *JWTManager) AccessTTL() time.Duration {
	return j.config.Expiry
}

// RefreshTTL returns the configured refresh token lifetime
func (j *JWTManager) RefreshTTL() time.Duration {
	return j.config.RefreshExpiry
}

// IssueAccessToken signs a short-lived access token for the given identity.
// Access tokens are never persisted; validity is signature + expiry +
// blacklist membership.
func (j *JWTManager) IssueAccessToken(userID, email string, role model.Role) (string, error) {
	if j.config.Secret == "" {
		return "", ErrMissingSecret
	}

	now := time.Now()
	claims := Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    j.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.config.Expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(j.config.Secret))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSignFailed, err)
	}
	return signed, nil
}

// IssueRefreshToken signs a refresh token with a fresh random refresh id and
// synchronously creates the paired session row. If the session cannot be
// persisted the token is not handed out: a refresh token without a backing
// session would be unrevocable.
func (j *JWTManager) IssueRefreshToken(ctx context.Context, userID, email string, role model.Role) (string, error) {
	if j.config.Secret == "" {
		return "", ErrMissingSecret
	}

	now := time.Now()
	expiresAt := now.Add(j.config.RefreshExpiry)
	claims := Claims{
		Email:     email,
		Role:      role,
		RefreshID: uuid.New().String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    j.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(j.config.Secret))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSignFailed, err)
	}

	session := &model.Session{
		UserID:       userID,
		RefreshToken: signed,
		ExpiresAt:    expiresAt,
	}
	if err := j.sessions.CreateSession(ctx, session); err != nil {
		return "", fmt.Errorf("%w: create session: %v", ErrSignFailed, err)
	}

	return signed, nil
}

// VerifyAccessToken checks an access token and returns its claims. Refresh
// tokens presented here are rejected.
func (j *JWTManager) VerifyAccessToken(ctx context.Context, tokenString string) (*Claims, error) {
	claims, err := j.verify(ctx, tokenString)
	if err != nil {
		return nil, err
	}
	if claims.IsRefresh() {
		return nil, ErrVerificationFailed
	}
	return claims, nil
}

// VerifyRefreshToken checks a refresh token and returns its claims. The
// signature check alone is necessary but not sufficient: callers must also
// confirm a live session exists for the token value before trusting it.
func (j *JWTManager) VerifyRefreshToken(ctx context.Context, tokenString string) (*Claims, error) {
	claims, err := j.verify(ctx, tokenString)
	if err != nil {
		return nil, err
	}
	if !claims.IsRefresh() {
		return nil, ErrVerificationFailed
	}
	return claims, nil
}

func (j *JWTManager) verify(ctx context.Context, tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	revoked, err := j.blacklist.Contains(ctx, tokenString)
	if err != nil {
		// Failing open here would let a logged-out token back in.
		return nil, fmt.Errorf("%w: blacklist lookup: %v", ErrVerificationFailed, err)
	}
	if revoked {
		return nil, ErrTokenBlacklisted
	}

	if j.config.Secret == "" {
		return nil, ErrMissingSecret
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(j.config.Secret), nil
	}, jwt.WithIssuer(j.config.Issuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrVerificationFailed
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrVerificationFailed
	}

	return claims, nil
}

// Revoke blacklists a token until its own expiry and, for refresh tokens,
// deletes the backing session. Best-effort: an already expired or
// unparseable token is logged and tolerated, never escalated.
func (j *JWTManager) Revoke(ctx context.Context, tokenString string) {
	if tokenString == "" {
		return
	}

	claims, err := j.extractClaims(tokenString)
	if err != nil {
		log.Printf("revoke: could not parse token, skipping: %v", err)
		return
	}

	expiresAt := time.Now()
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	if err := j.blacklist.Add(ctx, tokenString, expiresAt); err != nil {
		log.Printf("revoke: blacklist add failed: %v", err)
	}

	if claims.IsRefresh() {
		if err := j.sessions.DeleteSessionByRefreshToken(ctx, tokenString); err != nil {
			log.Printf("revoke: session delete failed: %v", err)
		}
	}
}

// extractClaims decodes claims without validating the signature. Used only
// for revocation bookkeeping, never for authentication.
func (j *JWTManager) extractClaims(tokenString string) (*Claims, error) {
	token, _, err := jwt.NewParser().ParseUnverified(tokenString, &Claims{})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
