package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBlacklist_AddAndContains(t *testing.T) {
	ctx := context.Background()
	bl := NewMemoryBlacklist()

	found, err := bl.Contains(ctx, "token-a")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, bl.Add(ctx, "token-a", time.Now().Add(time.Hour)))

	found, err = bl.Contains(ctx, "token-a")
	require.NoError(t, err)
	assert.True(t, found)

	found, err = bl.Contains(ctx, "token-b")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryBlacklist_PrunesExpiredEntries(t *testing.T) {
	ctx := context.Background()
	bl := NewMemoryBlacklist()

	base := time.Now()
	bl.now = func() time.Time { return base }

	require.NoError(t, bl.Add(ctx, "short-lived", base.Add(time.Minute)))
	require.NoError(t, bl.Add(ctx, "long-lived", base.Add(time.Hour)))

	// Advance past the first entry's expiry.
	bl.now = func() time.Time { return base.Add(2 * time.Minute) }

	found, err := bl.Contains(ctx, "short-lived")
	require.NoError(t, err)
	assert.False(t, found)

	found, err = bl.Contains(ctx, "long-lived")
	require.NoError(t, err)
	assert.True(t, found)

	// The pruned entry is gone from the map, not just hidden.
	bl.mu.Lock()
	_, stillThere := bl.entries["short-lived"]
	bl.mu.Unlock()
	assert.False(t, stillThere)
}

func TestMemoryBlacklist_PruneRunsOnAdd(t *testing.T) {
	ctx := context.Background()
	bl := NewMemoryBlacklist()

	base := time.Now()
	bl.now = func() time.Time { return base }
	require.NoError(t, bl.Add(ctx, "stale", base.Add(time.Second)))

	bl.now = func() time.Time { return base.Add(time.Minute) }
	require.NoError(t, bl.Add(ctx, "fresh", base.Add(time.Hour)))

	bl.mu.Lock()
	defer bl.mu.Unlock()
	assert.Len(t, bl.entries, 1)
}

func TestBlacklistKey_IsDigestNotToken(t *testing.T) {
	key := blacklistKey("some.jwt.token")
	assert.NotContains(t, key, "some.jwt.token")
	assert.Contains(t, key, "auth:blacklist:")
	assert.Equal(t, blacklistKey("some.jwt.token"), key)
	assert.NotEqual(t, blacklistKey("other.jwt.token"), key)
}
