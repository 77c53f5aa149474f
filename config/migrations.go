package config

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
	"mariua.net/obras/models"
)

func Migrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "18102026_create_users",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.User{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("users")
			},
		},
		{
			ID: "18102026_create_planned_tasks",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.PlannedTaskRow{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("planned_tasks")
			},
		},
	})
	return m.Migrate()
}
