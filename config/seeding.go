package config

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"mariua.net/obras/models"
)

// SeedAdmin creates the administrator account when it does not exist yet.
// An empty password skips seeding.
func SeedAdmin(db *gorm.DB, email, password string, logger *zap.Logger) error {
	if password == "" {
		logger.Warn("ADMIN_PASSWORD not set, skipping admin seeding")
		return nil
	}

	email = strings.ToLower(strings.TrimSpace(email))

	var existing models.User
	res := db.Where("email = ?", email).Limit(1).Find(&existing)
	if res.Error != nil {
		return fmt.Errorf("look up admin: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}
	admin := models.User{
		Name:         "Administrador",
		Email:        email,
		PasswordHash: string(hash),
		IsActive:     true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	logger.Info("Admin user seeded", zap.String("email", email))
	return nil
}
