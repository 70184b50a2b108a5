package auth

import (
	"context"
	"log"
	"time"

	"github.com/databridge-consult/databridge-api/model"
)

// CredentialStore is the persistence contract the guard needs: counter
// updates on the user row plus an append-only audit trail.
type CredentialStore interface {
	IncrementFailedAttempts(ctx context.Context, userID string, at time.Time) error
	ResetFailedAttempts(ctx context.Context, userID string) error
	AppendLoginAttempt(ctx context.Context, attempt *model.LoginAttempt) error
}

// Admission is the guard's verdict on a login attempt
type Admission struct {
	Allowed          bool
	Suspended        bool
	Locked           bool
	RemainingSeconds int
}

// Guard throttles password logins per account. Lockout is purely
// time-based: a locked account becomes eligible again once the window
// since the last failure elapses, with no manual unlock step.
type Guard struct {
	store           CredentialStore
	maxAttempts     int
	lockoutDuration time.Duration
	now             func() time.Time
}

// NewGuard creates a brute-force guard
func NewGuard(store CredentialStore, maxAttempts int, lockoutDuration time.Duration) *Guard {
	return &Guard{
		store:           store,
		maxAttempts:     maxAttempts,
		lockoutDuration: lockoutDuration,
		now:             time.Now,
	}
}

// CheckAdmission decides whether a login attempt against the given user may
// proceed to password verification. Suspension is terminal and checked
// first; an expired lockout resets the counter so the attempt is judged
// fresh.
func (g *Guard) CheckAdmission(ctx context.Context, user *model.User) Admission {
	if user.Status == model.StatusSuspended {
		return Admission{Suspended: true}
	}

	if user.FailedLoginAttempts >= g.maxAttempts && user.LastFailedLogin != nil {
		lockedUntil := user.LastFailedLogin.Add(g.lockoutDuration)
		remaining := lockedUntil.Sub(g.now())
		if remaining > 0 {
			seconds := int(remaining.Seconds())
			if seconds < 1 {
				seconds = 1
			}
			return Admission{Locked: true, RemainingSeconds: seconds}
		}

		// Lockout window elapsed; clear the stale counter so the user
		// gets a full set of attempts again.
		if err := g.store.ResetFailedAttempts(ctx, user.ID); err != nil {
			log.Printf("brute force guard: reset after lockout expiry failed for %s: %v", user.ID, err)
		}
		user.FailedLoginAttempts = 0
		user.LastFailedLogin = nil
	}

	return Admission{Allowed: true}
}

// RecordFailure bumps the account's failure counter and appends an audit
// row. Both writes are best-effort: a bookkeeping error must not change the
// caller's uniform invalid-credentials response.
func (g *Guard) RecordFailure(ctx context.Context, user *model.User, ip, userAgent string) {
	if err := g.store.IncrementFailedAttempts(ctx, user.ID, g.now()); err != nil {
		log.Printf("brute force guard: increment failed for %s: %v", user.ID, err)
	}

	g.audit(ctx, user, ip, userAgent, false)
}

// RecordSuccess clears the account's failure counter and appends an audit
// row. Best-effort for the same reason as RecordFailure.
func (g *Guard) RecordSuccess(ctx context.Context, user *model.User, ip, userAgent string) {
	if err := g.store.ResetFailedAttempts(ctx, user.ID); err != nil {
		log.Printf("brute force guard: reset failed for %s: %v", user.ID, err)
	}

	g.audit(ctx, user, ip, userAgent, true)
}

func (g *Guard) audit(ctx context.Context, user *model.User, ip, userAgent string, successful bool) {
	attempt := &model.LoginAttempt{
		UserID:     user.ID,
		Email:      user.Email,
		IPAddress:  ip,
		UserAgent:  userAgent,
		Successful: successful,
	}
	if err := g.store.AppendLoginAttempt(ctx, attempt); err != nil {
		log.Printf("brute force guard: audit append failed for %s: %v", user.ID, err)
	}
}
