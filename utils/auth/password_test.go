package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("correct horse battery")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery", hash)

	assert.NoError(t, hasher.Verify(hash, "correct horse battery"))
	assert.ErrorIs(t, hasher.Verify(hash, "wrong password!"), ErrPasswordMismatch)
}

func TestPasswordHasher_HashIsSalted(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)

	first, err := hasher.Hash("same password here")
	require.NoError(t, err)
	second, err := hasher.Hash("same password here")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestPasswordHasher_RejectsShortPassword(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)

	_, err := hasher.Hash("short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestPasswordHasher_ClampsInvalidCost(t *testing.T) {
	hasher := NewPasswordHasher(99)

	hash, err := hasher.Hash("a perfectly fine password")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}

func TestPasswordHasher_VerifyGarbageHash(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)

	err := hasher.Verify("not-a-bcrypt-hash", "whatever password")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPasswordMismatch)
}
