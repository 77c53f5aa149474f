package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Config is the process configuration, read from the environment after an
// optional .env file.
type Config struct {
	Port     string
	LogLevel string

	DBDriver string
	DBDSN    string

	JWTSecret     string
	AdminEmail    string
	AdminPassword string

	UploadDir         string
	MaxUploadMB       int64
	ScheduleFile      string
	ScheduleSheet     string
	ScheduleSchema    string
	DailyScheduleFile string
	ProductionLogFile string

	UseGCS    bool
	GCSBucket string
	GCSPrefix string
}

// Load reads .env (if present) and the environment.
func Load(logger *zap.Logger) Config {
	if err := godotenv.Load(); err != nil && logger != nil {
		logger.Info("No .env file found, using system environment variables")
	}

	return Config{
		Port:     getenv("PORT", "5000"),
		LogLevel: getenv("LOG_LEVEL", "info"),

		DBDriver: getenv("DB_DRIVER", "sqlite"),
		DBDSN:    getenv("DB_DSN", "obras.db"),

		JWTSecret:     os.Getenv("JWT_SECRET"),
		AdminEmail:    getenv("ADMIN_EMAIL", "admin@mariua.net"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		UploadDir:         getenv("UPLOAD_DIR", "uploads"),
		MaxUploadMB:       getenvInt("MAX_UPLOAD_MB", 16),
		ScheduleFile:      getenv("SCHEDULE_FILE", "PROGRAMACAO - NOVEMBRO.xlsx"),
		ScheduleSheet:     os.Getenv("SCHEDULE_SHEET"),
		ScheduleSchema:    os.Getenv("SCHEDULE_SCHEMA_FILE"),
		DailyScheduleFile: getenv("DAILY_SCHEDULE_FILE", "PROGRAMACAO DIARIA.xlsx"),
		ProductionLogFile: getenv("PRODUCTION_LOG_FILE", "PRODUCAO.xlsx"),

		// Cloud Run sets K_SERVICE
		UseGCS:    os.Getenv("USE_GCS") == "true" || os.Getenv("K_SERVICE") != "",
		GCSBucket: os.Getenv("GCS_BUCKET"),
		GCSPrefix: os.Getenv("GCS_PREFIX"),
	}
}

// NewLogger builds a production zap logger at the given level.
func NewLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if strings.EqualFold(level, "debug") {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// Connect opens the database and runs migrations.
func Connect(cfg Config, logger *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "postgres":
		dialector = postgres.Open(cfg.DBDSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DBDSN)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.Info("Database ready", zap.String("driver", cfg.DBDriver))
	return db, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
