package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/databridge-consult/databridge-api/model"
)

type fakeCredentialStore struct {
	increments []string
	resets     []string
	attempts   []*model.LoginAttempt
	failErr    error
}

func (f *fakeCredentialStore) IncrementFailedAttempts(_ context.Context, userID string, _ time.Time) error {
	if f.failErr != nil {
		return f.failErr
	}
	f.increments = append(f.increments, userID)
	return nil
}

func (f *fakeCredentialStore) ResetFailedAttempts(_ context.Context, userID string) error {
	if f.failErr != nil {
		return f.failErr
	}
	f.resets = append(f.resets, userID)
	return nil
}

func (f *fakeCredentialStore) AppendLoginAttempt(_ context.Context, attempt *model.LoginAttempt) error {
	if f.failErr != nil {
		return f.failErr
	}
	f.attempts = append(f.attempts, attempt)
	return nil
}

func newTestGuard(store *fakeCredentialStore) *Guard {
	return NewGuard(store, 5, 15*time.Minute)
}

func TestGuard_AllowsFreshAccount(t *testing.T) {
	store := &fakeCredentialStore{}
	guard := newTestGuard(store)

	user := &model.User{ID: "u1", Status: model.StatusActive}
	admission := guard.CheckAdmission(context.Background(), user)

	assert.True(t, admission.Allowed)
	assert.False(t, admission.Locked)
	assert.False(t, admission.Suspended)
}

func TestGuard_SuspendedIsTerminal(t *testing.T) {
	store := &fakeCredentialStore{}
	guard := newTestGuard(store)

	// Suspension wins even when the account is also locked out.
	last := time.Now()
	user := &model.User{
		ID:                  "u1",
		Status:              model.StatusSuspended,
		FailedLoginAttempts: 10,
		LastFailedLogin:     &last,
	}
	admission := guard.CheckAdmission(context.Background(), user)

	assert.True(t, admission.Suspended)
	assert.False(t, admission.Allowed)
	assert.False(t, admission.Locked)
}

func TestGuard_LockedWithRemainingSeconds(t *testing.T) {
	store := &fakeCredentialStore{}
	guard := newTestGuard(store)

	base := time.Now()
	guard.now = func() time.Time { return base }

	last := base.Add(-5 * time.Minute)
	user := &model.User{
		ID:                  "u1",
		Status:              model.StatusActive,
		FailedLoginAttempts: 5,
		LastFailedLogin:     &last,
	}
	admission := guard.CheckAdmission(context.Background(), user)

	assert.True(t, admission.Locked)
	assert.False(t, admission.Allowed)
	assert.Equal(t, int((10 * time.Minute).Seconds()), admission.RemainingSeconds)
	assert.Empty(t, store.resets)
}

func TestGuard_RemainingSecondsNeverZeroWhileLocked(t *testing.T) {
	store := &fakeCredentialStore{}
	guard := newTestGuard(store)

	base := time.Now()
	guard.now = func() time.Time { return base }

	// 500ms of lockout left; truncation must not report 0.
	last := base.Add(-15*time.Minute + 500*time.Millisecond)
	user := &model.User{
		ID:                  "u1",
		Status:              model.StatusActive,
		FailedLoginAttempts: 5,
		LastFailedLogin:     &last,
	}
	admission := guard.CheckAdmission(context.Background(), user)

	assert.True(t, admission.Locked)
	assert.Equal(t, 1, admission.RemainingSeconds)
}

func TestGuard_ExpiredLockoutResetsAndAllows(t *testing.T) {
	store := &fakeCredentialStore{}
	guard := newTestGuard(store)

	base := time.Now()
	guard.now = func() time.Time { return base }

	last := base.Add(-16 * time.Minute)
	user := &model.User{
		ID:                  "u1",
		Status:              model.StatusActive,
		FailedLoginAttempts: 5,
		LastFailedLogin:     &last,
	}
	admission := guard.CheckAdmission(context.Background(), user)

	assert.True(t, admission.Allowed)
	assert.Equal(t, []string{"u1"}, store.resets)
	assert.Equal(t, 0, user.FailedLoginAttempts)
	assert.Nil(t, user.LastFailedLogin)
}

func TestGuard_BelowThresholdAllows(t *testing.T) {
	store := &fakeCredentialStore{}
	guard := newTestGuard(store)

	last := time.Now()
	user := &model.User{
		ID:                  "u1",
		Status:              model.StatusActive,
		FailedLoginAttempts: 4,
		LastFailedLogin:     &last,
	}
	admission := guard.CheckAdmission(context.Background(), user)

	assert.True(t, admission.Allowed)
	assert.Empty(t, store.resets)
}

func TestGuard_RecordFailure(t *testing.T) {
	store := &fakeCredentialStore{}
	guard := newTestGuard(store)

	user := &model.User{ID: "u1", Email: "a@example.com"}
	guard.RecordFailure(context.Background(), user, "203.0.113.9", "curl/8.0")

	assert.Equal(t, []string{"u1"}, store.increments)
	require.Len(t, store.attempts, 1)
	attempt := store.attempts[0]
	assert.Equal(t, "u1", attempt.UserID)
	assert.Equal(t, "a@example.com", attempt.Email)
	assert.Equal(t, "203.0.113.9", attempt.IPAddress)
	assert.Equal(t, "curl/8.0", attempt.UserAgent)
	assert.False(t, attempt.Successful)
}

func TestGuard_RecordSuccess(t *testing.T) {
	store := &fakeCredentialStore{}
	guard := newTestGuard(store)

	user := &model.User{ID: "u1", Email: "a@example.com"}
	guard.RecordSuccess(context.Background(), user, "203.0.113.9", "curl/8.0")

	assert.Equal(t, []string{"u1"}, store.resets)
	require.Len(t, store.attempts, 1)
	assert.True(t, store.attempts[0].Successful)
}

func TestGuard_RecordingIsBestEffort(t *testing.T) {
	store := &fakeCredentialStore{failErr: errors.New("db down")}
	guard := newTestGuard(store)

	user := &model.User{ID: "u1", Email: "a@example.com"}
	assert.NotPanics(t, func() {
		guard.RecordFailure(context.Background(), user, "", "")
		guard.RecordSuccess(context.Background(), user, "", "")
	})
}
