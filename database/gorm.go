package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/databridge-consult/databridge-api/config"
	"github.com/databridge-consult/databridge-api/model"
)

// Storage is the persistence contract the rest of the app depends on
type Storage interface {
	// Lifecycle methods
	Init() error
	Close() error
	HealthCheck() error

	// GORM DB access
	GetDB() *gorm.DB
}

type GORMStore struct {
	db *gorm.DB
}

// StartGORM initializes a GORM connection to PostgreSQL
func StartGORM() (*GORMStore, error) {
	getEnv, err := config.Get()
	if err != nil {
		return nil, err
	}

	// Build DSN (Data Source Name)
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		getEnv.DB_HOST,
		getEnv.DB_USER_NAME,
		getEnv.DB_PASSWORD,
		getEnv.DB_NAME,
		getEnv.DB_PORT,
		getEnv.DB_SSL_MODE,
	)

	// Configure GORM logger
	gormLogger := logger.Default.LogMode(logger.Info)
	if getEnv.IsProduction() {
		gormLogger = logger.Default.LogMode(logger.Error)
	}

	// Open GORM connection
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: false,
		PrepareStmt:            true,
	})
	if err != nil {
		log.Println("Unable to connect to PostgreSQL with GORM:", err)
		return nil, err
	}

	// Get underlying *sql.DB to configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// Connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("Successfully connected to PostgreSQL Database with GORM.")

	return NewGORMStore(db), nil
}

// NewGORMStore wraps an existing GORM connection. StartGORM uses it after
// dialing; tests use it to bring their own connection.
func NewGORMStore(db *gorm.DB) *GORMStore {
	return &GORMStore{db: db}
}

// Init runs the AutoMigrate to create/update tables
func (s *GORMStore) Init() error {
	log.Println("Running GORM AutoMigrate for all models...")

	err := s.db.AutoMigrate(
		// Identity & session models
		&model.User{},
		&model.Session{},
		&model.LoginAttempt{},

		// Catalog models
		&model.Service{},
		&model.Product{},
		&model.BlogPost{},

		// Customer activity models
		&model.Order{},
		&model.Message{},
		&model.ResearchRequest{},
	)

	if err != nil {
		log.Println("Error running AutoMigrate:", err)
		return err
	}

	log.Println("GORM AutoMigrate completed successfully!")
	return nil
}

// Close closes the database connection
func (s *GORMStore) Close() error {
	log.Println("Closing GORM PostgreSQL connection...")
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetDB returns the GORM DB instance for use in handlers
func (s *GORMStore) GetDB() *gorm.DB {
	return s.db
}

// HealthCheck verifies the database connection is alive
func (s *GORMStore) HealthCheck() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// --- auth.SessionStore implementation ---

// CreateSession persists a refresh-token session row
func (s *GORMStore) CreateSession(ctx context.Context, session *model.Session) error {
	return s.db.WithContext(ctx).Create(session).Error
}

// FindSessionByRefreshToken looks up a live session by the token value
func (s *GORMStore) FindSessionByRefreshToken(ctx context.Context, refreshToken string) (*model.Session, error) {
	var session model.Session
	err := s.db.WithContext(ctx).
		Where("refresh_token = ? AND expires_at > ?", refreshToken, time.Now()).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// DeleteSessionByRefreshToken removes the session backing a refresh token
func (s *GORMStore) DeleteSessionByRefreshToken(ctx context.Context, refreshToken string) error {
	return s.db.WithContext(ctx).
		Where("refresh_token = ?", refreshToken).
		Delete(&model.Session{}).Error
}

// DeleteExpiredSessions removes sessions whose refresh token already expired.
// Returns the number of rows removed.
func (s *GORMStore) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("expires_at <= ?", time.Now()).
		Delete(&model.Session{})
	return result.RowsAffected, result.Error
}

// --- auth.CredentialStore implementation ---

// IncrementFailedAttempts bumps the failure counter and stamps the failure time
func (s *GORMStore) IncrementFailedAttempts(ctx context.Context, userID string, at time.Time) error {
	return s.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"failed_login_attempts": gorm.Expr("failed_login_attempts + 1"),
			"last_failed_login":     at,
		}).Error
}

// ResetFailedAttempts clears the failure counter after a success or an
// elapsed lockout
func (s *GORMStore) ResetFailedAttempts(ctx context.Context, userID string) error {
	return s.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"failed_login_attempts": 0,
			"last_failed_login":     nil,
		}).Error
}

// AppendLoginAttempt records an audit row for a login attempt
func (s *GORMStore) AppendLoginAttempt(ctx context.Context, attempt *model.LoginAttempt) error {
	return s.db.WithContext(ctx).Create(attempt).Error
}

// DeleteLoginAttemptsBefore trims the audit table to a retention window.
// Returns the number of rows removed.
func (s *GORMStore) DeleteLoginAttemptsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&model.LoginAttempt{})
	return result.RowsAffected, result.Error
}
