package cron

import (
	"log"

	"github.com/robfig/cron/v3"

	"github.com/databridge-consult/databridge-api/database"
)

// CronManager manages all scheduled maintenance jobs
type CronManager struct {
	cron  *cron.Cron
	store *database.GORMStore
}

// NewCronManager creates a new cron manager
func NewCronManager(store *database.GORMStore) *CronManager {
	// Create cron with seconds precision
	c := cron.New(cron.WithSeconds())

	return &CronManager{
		cron:  c,
		store: store,
	}
}

// Start starts all cron jobs
func (m *CronManager) Start() error {
	log.Println("Starting cron jobs...")

	if err := m.registerJobs(); err != nil {
		return err
	}

	m.cron.Start()

	log.Println("Cron jobs started successfully")
	return nil
}

// Stop stops all cron jobs
func (m *CronManager) Stop() {
	log.Println("Stopping cron jobs...")
	ctx := m.cron.Stop()
	<-ctx.Done()
	log.Println("Cron jobs stopped")
}

// registerJobs registers all cron jobs with their schedules
func (m *CronManager) registerJobs() error {
	// 1. Every hour: purge sessions whose refresh token already expired
	_, err := m.cron.AddFunc("0 0 * * * *", func() {
		m.logJobStart("purge_expired_sessions")
		m.PurgeExpiredSessions()
	})
	if err != nil {
		return err
	}

	// 2. Daily at 3 AM: trim the login attempt audit trail
	_, err = m.cron.AddFunc("0 0 3 * * *", func() {
		m.logJobStart("trim_login_attempts")
		m.TrimLoginAttempts()
	})
	if err != nil {
		return err
	}

	log.Println("All cron jobs registered successfully")
	return nil
}

func (m *CronManager) logJobStart(name string) {
	log.Printf("Cron job started: %s", name)
}
