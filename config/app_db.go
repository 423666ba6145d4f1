package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redweb/donor-registry/internal/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type DBConfig struct {
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	SSLMode         string // "require" unless POSTGRES_SSLMODE says otherwise
}

func DefaultDBConfig() *DBConfig {
	return &DBConfig{
		MaxIdleConns:    10,
		MaxOpenConns:    100,
		ConnMaxLifetime: time.Minute,
		SSLMode:         "require",
	}
}

func NewDatabase(logger *log.Logger, cfg *DBConfig) (*gorm.DB, error) {
	if cfg == nil {
		cfg = DefaultDBConfig()
	}

	dsn, err := BuildDSNFromEnv(logger, cfg)
	if err != nil {
		return nil, err
	}

	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		logger.Error("Failed to get database instance", "error", err)
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		logger.Error("Database ping failed", "error", err)
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	logger.Info("Database connection established successfully")
	return gdb, nil
}

// BuildDSNFromEnv prefers APP_DATABASE_URL and otherwise assembles a
// key/value DSN from the POSTGRES_* variables.
func BuildDSNFromEnv(logger *log.Logger, cfg *DBConfig) (string, error) {
	if url := sanitizeEnv(GetValueFromEnvironmentVariable("APP_DATABASE_URL", "")); url != "" {
		logger.Info("Using APP_DATABASE_URL for database connection")
		return url, nil
	}

	p := readPostgresEnv()
	if p.sslMode == "" {
		p.sslMode = cfg.SSLMode
	}

	var missing []string
	for _, required := range []struct{ name, value string }{
		{"POSTGRES_HOST", p.host},
		{"POSTGRES_PORT", p.port},
		{"POSTGRES_USER", p.user},
		{"POSTGRES_DB_NAME", p.dbName},
	} {
		if required.value == "" {
			missing = append(missing, required.name)
		}
	}

	if len(missing) > 0 {
		logger.Error("Missing required database environment variables", "missing_vars", strings.Join(missing, ", "))
		return "", fmt.Errorf("missing required database env vars: %s", strings.Join(missing, ", "))
	}

	port, err := strconv.Atoi(p.port)
	if err != nil {
		logger.Error("Invalid POSTGRES_PORT", "error", err)
		return "", fmt.Errorf("invalid POSTGRES_PORT %q: %w", p.port, err)
	}

	logger.Info("Connecting to database",
		"host", p.host,
		"port", port,
		"user", p.user,
		"dbname", p.dbName,
		"sslmode", p.sslMode,
	)

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.host, port, p.user, p.password, p.dbName, p.sslMode,
	), nil
}

type postgresEnv struct {
	host, port, user, password, dbName, sslMode string
}

func readPostgresEnv() postgresEnv {
	get := func(key string) string {
		return sanitizeEnv(GetValueFromEnvironmentVariable(key, ""))
	}

	return postgresEnv{
		host:     get("POSTGRES_HOST"),
		port:     get("POSTGRES_PORT"),
		user:     get("POSTGRES_USER"),
		password: get("POSTGRES_PASSWORD"),
		dbName:   get("POSTGRES_DB_NAME"),
		sslMode:  get("POSTGRES_SSLMODE"),
	}
}

// sanitizeEnv strips whitespace and one layer of matching quotes, which
// some .env tooling leaves in place.
func sanitizeEnv(v string) string {
	s := strings.TrimSpace(v)

	if len(s) >= 2 && ((s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'')) {
		s = s[1 : len(s)-1]
	}

	return s
}

func AutoMigrate(logger *log.Logger, db *gorm.DB, models ...interface{}) error {
	if db == nil {
		logger.Error("Cannot migrate: db is empty")
		return fmt.Errorf("cannot migrate: db is empty")
	}

	if err := db.AutoMigrate(models...); err != nil {
		logger.Error("Database migration failed", "error", err)
		return fmt.Errorf("auto-migrate failed: %w", err)
	}

	logger.Info("Database migration completed successfully")

	return nil
}

func CloseDatabase(db *gorm.DB, logger *log.Logger) {
	if db == nil {
		return
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("Failed to get SQL DB instance", "error", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		logger.Error("Failed to close database", "error", err)
	} else {
		logger.Info("Database closed successfully")
	}
}
