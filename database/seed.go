package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/databridge-consult/databridge-api/config"
	"github.com/databridge-consult/databridge-api/model"
	"github.com/databridge-consult/databridge-api/utils/auth"
)

// Seeder handles database seeding operations
type Seeder struct {
	db     *gorm.DB
	hasher *auth.PasswordHasher
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, hasher *auth.PasswordHasher) *Seeder {
	return &Seeder{db: db, hasher: hasher}
}

// SeedAll runs all seed functions
func (s *Seeder) SeedAll() error {
	log.Println("🌱 Starting database seeding...")

	if err := s.SeedSuperadmin(); err != nil {
		return fmt.Errorf("failed to seed superadmin: %w", err)
	}

	log.Println("✅ Database seeding completed successfully!")
	return nil
}

// SeedSuperadmin creates the bootstrap superadmin account from
// SUPERADMIN_EMAIL / SUPERADMIN_PASSWORD. Idempotent: skipped when a
// superadmin already exists or the credentials are unset.
func (s *Seeder) SeedSuperadmin() error {
	var count int64
	if err := s.db.Model(&model.User{}).Where("role = ?", model.RoleSuperadmin).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("⏭️  Superadmin already exists, skipping...")
		return nil
	}

	getEnv, err := config.Get()
	if err != nil {
		return err
	}

	if getEnv.SUPERADMIN_EMAIL == "" || getEnv.SUPERADMIN_PASSWORD == "" {
		log.Println("⚠️  SUPERADMIN_EMAIL and SUPERADMIN_PASSWORD not set, skipping superadmin creation")
		return nil
	}

	passwordHash, err := s.hasher.Hash(getEnv.SUPERADMIN_PASSWORD)
	if err != nil {
		return err
	}

	superadmin := model.User{
		Email:        getEnv.SUPERADMIN_EMAIL,
		PasswordHash: passwordHash,
		Role:         model.RoleSuperadmin,
		Status:       model.StatusActive,
	}

	if err := s.db.Create(&superadmin).Error; err != nil {
		return err
	}

	log.Printf("✅ Superadmin created: %s", superadmin.Email)
	return nil
}
