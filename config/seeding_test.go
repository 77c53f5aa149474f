package config

import (
	"bytes"
	"log"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"mariua.net/obras/models"
)

func TestSeedAdmin(t *testing.T) {
	var sqlLog bytes.Buffer
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "seed.db")), &gorm.Config{
		Logger: gormlogger.New(log.New(&sqlLog, "", 0), gormlogger.Config{LogLevel: gormlogger.Warn}),
	})
	require.NoError(t, err)
	require.NoError(t, Migrations(db))

	logger := zap.NewNop()
	require.NoError(t, SeedAdmin(db, " Admin@Mariua.net ", "segredo123", logger))
	require.NoError(t, SeedAdmin(db, "admin@mariua.net", "outra", logger))

	var users []models.User
	require.NoError(t, db.Find(&users).Error)
	require.Len(t, users, 1)
	assert.Equal(t, "admin@mariua.net", users[0].Email)
	assert.NotContains(t, sqlLog.String(), "record not found")
}

func TestSeedAdmin_NoPassword(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "seed.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, Migrations(db))

	require.NoError(t, SeedAdmin(db, "admin@mariua.net", "", zap.NewNop()))

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}
