package config

import (
	"errors"
	"log"

	"clubportal/internal/adapters/persistence/models"
	"clubportal/internal/core/domain"
	"clubportal/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db   *gorm.DB
	seed SeedConfig
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, seed SeedConfig) *Seeder {
	return &Seeder{db: db, seed: seed}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedAdminAccount(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedAdminAccount creates the bootstrap admin when no admin exists yet.
// Without ADMIN_EMAIL/ADMIN_PASSWORD nothing is created.
func (s *Seeder) seedAdminAccount() error {
	var count int64
	if err := s.db.Model(&models.Account{}).Where("account_level = ?", string(domain.LevelAdmin)).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if s.seed.AdminEmail == "" || s.seed.AdminPassword == "" {
		log.Println("⚠️ No admin account exists and ADMIN_EMAIL/ADMIN_PASSWORD are not set")
		return nil
	}
	if !password.ValidatePassword(s.seed.AdminPassword) {
		return errors.New("ADMIN_PASSWORD does not meet the password rules")
	}

	hashed, err := password.Hash(s.seed.AdminPassword)
	if err != nil {
		return err
	}

	admin := &models.Account{
		Email:        s.seed.AdminEmail,
		Password:     hashed,
		FirstName:    "Portal",
		LastName:     "Admin",
		AccountLevel: string(domain.LevelAdmin),
		RoleStatus:   string(domain.RoleStatusApproved),
		IsActive:     true,
		Version:      1,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// An existing account with the seed email is promoted instead
		var existing models.Account
		err := tx.Where("email = ?", admin.Email).First(&existing).Error
		if err == nil {
			return tx.Model(&existing).Updates(map[string]interface{}{
				"account_level":  admin.AccountLevel,
				"role_status":    admin.RoleStatus,
				"requested_role": "",
				"version":        gorm.Expr("version + 1"),
			}).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(admin).Error
	})
	if err != nil {
		return err
	}

	log.Printf("✅ Admin account ready: %s", admin.Email)
	return nil
}
