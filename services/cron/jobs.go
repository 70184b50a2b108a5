package cron

import (
	"context"
	"log"
	"time"
)

// loginAttemptRetention is how long audit rows are kept before the daily
// trim removes them.
const loginAttemptRetention = 90 * 24 * time.Hour

// PurgeExpiredSessions removes session rows whose refresh token has passed
// its expiry. Verification already rejects those tokens; this just stops
// the table growing without bound.
func (m *CronManager) PurgeExpiredSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	removed, err := m.store.DeleteExpiredSessions(ctx)
	if err != nil {
		log.Printf("purge_expired_sessions failed: %v", err)
		return
	}
	if removed > 0 {
		log.Printf("purge_expired_sessions removed %d sessions", removed)
	}
}

// TrimLoginAttempts deletes audit rows older than the retention window
func (m *CronManager) TrimLoginAttempts() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := time.Now().Add(-loginAttemptRetention)
	removed, err := m.store.DeleteLoginAttemptsBefore(ctx, cutoff)
	if err != nil {
		log.Printf("trim_login_attempts failed: %v", err)
		return
	}
	if removed > 0 {
		log.Printf("trim_login_attempts removed %d rows older than %s", removed, cutoff.Format(time.RFC3339))
	}
}
