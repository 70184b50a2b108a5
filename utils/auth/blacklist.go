package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/databridge-consult/databridge-api/utils/cache"
)

// Blacklist records tokens revoked before their natural expiry. An entry
// only needs to outlive the token it shadows, so every entry is keyed by
// the token's own expiry.
type Blacklist interface {
	Add(ctx context.Context, token string, expiresAt time.Time) error
	Contains(ctx context.Context, token string) (bool, error)
}

// MemoryBlacklist is the in-process fallback used when Redis is not
// configured. Entries are pruned lazily on every lookup, so the map stays
// bounded without a background sweep. Revocations do not survive a process
// restart; acceptable only for a single-instance deployment.
type MemoryBlacklist struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewMemoryBlacklist creates an empty in-memory blacklist
func NewMemoryBlacklist() *MemoryBlacklist {
	return &MemoryBlacklist{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Add records a revoked token until expiresAt
func (b *MemoryBlacklist) Add(_ context.Context, token string, expiresAt time.Time) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[token] = expiresAt
	b.prune()
	return nil
}

// Contains reports whether the token is currently revoked
func (b *MemoryBlacklist) Contains(_ context.Context, token string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.prune()
	_, found := b.entries[token]
	return found, nil
}

// prune removes entries whose token has expired on its own. Callers hold mu.
func (b *MemoryBlacklist) prune() {
	now := b.now()
	for token, exp := range b.entries {
		if exp.Before(now) {
			delete(b.entries, token)
		}
	}
}

// RedisBlacklist stores revocations in Redis keyed by token digest with a
// TTL matching the token's remaining lifetime, so revocation is durable
// across restarts and shared between instances. Keys expire on their own;
// no pruning needed.
type RedisBlacklist struct {
	cache *cache.RedisCache
}

// NewRedisBlacklist creates a blacklist backed by the given Redis cache
func NewRedisBlacklist(c *cache.RedisCache) *RedisBlacklist {
	return &RedisBlacklist{cache: c}
}

func blacklistKey(token string) string {
	// Tokens are long; store a digest rather than the token itself.
	sum := sha256.Sum256([]byte(token))
	return "auth:blacklist:" + hex.EncodeToString(sum[:])
}

// Add records a revoked token until expiresAt
func (b *RedisBlacklist) Add(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		// Already expired; verification rejects it regardless.
		return nil
	}
	return b.cache.Set(ctx, blacklistKey(token), "revoked", ttl)
}

// Contains reports whether the token is currently revoked
func (b *RedisBlacklist) Contains(ctx context.Context, token string) (bool, error) {
	return b.cache.Exists(ctx, blacklistKey(token))
}
