package v1

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/churchops/church-backend/pkg/telemetry"
	"github.com/churchops/church-backend/v1/models"
)

// DatabaseConfig holds GORM database connection configuration
type DatabaseConfig struct {
	Host            string
	Port            string
	Username        string
	Password        string
	Database        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// NewDatabaseConfig creates the database configuration from the environment
func NewDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		Host:            getEnvOrDefault("CHURCH_DATABASE_HOSTNAME", "localhost"),
		Port:            getEnvOrDefault("CHURCH_DATABASE_PORT", "5432"),
		Username:        getEnvOrDefault("CHURCH_DATABASE_USERNAME", "postgres"),
		Password:        getEnvOrDefault("CHURCH_DATABASE_PASSWORD", "password"),
		Database:        getEnvOrDefault("CHURCH_DATABASE_DATABASENAME", "church"),
		SSLMode:         getEnvOrDefault("CHURCH_DATABASE_SSLMODE", "require"),
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: 30 * time.Minute,
	}
}

// getEnvOrDefault gets environment variable or returns default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

const telemetryStartKey = "telemetry:start_time"

// registerTelemetryCallbacks hooks latency recording into every GORM
// operation so database timings land in the metrics pipeline
func registerTelemetryCallbacks(db *gorm.DB) error {
	begin := func(tx *gorm.DB) {
		tx.InstanceSet(telemetryStartKey, time.Now())
	}
	end := func(operation string) func(tx *gorm.DB) {
		return func(tx *gorm.DB) {
			value, ok := tx.InstanceGet(telemetryStartKey)
			if !ok {
				return
			}
			start, ok := value.(time.Time)
			if !ok {
				return
			}
			telemetry.RecordDBCall(tx.Statement.Context, operation, time.Since(start), tx.Error)
		}
	}

	if err := db.Callback().Create().Before("gorm:create").Register("telemetry:create_begin", begin); err != nil {
		return err
	}
	if err := db.Callback().Create().After("gorm:create").Register("telemetry:create_end", end("create")); err != nil {
		return err
	}
	if err := db.Callback().Query().Before("gorm:query").Register("telemetry:query_begin", begin); err != nil {
		return err
	}
	if err := db.Callback().Query().After("gorm:query").Register("telemetry:query_end", end("query")); err != nil {
		return err
	}
	if err := db.Callback().Update().Before("gorm:update").Register("telemetry:update_begin", begin); err != nil {
		return err
	}
	if err := db.Callback().Update().After("gorm:update").Register("telemetry:update_end", end("update")); err != nil {
		return err
	}
	if err := db.Callback().Delete().Before("gorm:delete").Register("telemetry:delete_begin", begin); err != nil {
		return err
	}
	if err := db.Callback().Delete().After("gorm:delete").Register("telemetry:delete_end", end("delete")); err != nil {
		return err
	}
	if err := db.Callback().Row().Before("gorm:row").Register("telemetry:row_begin", begin); err != nil {
		return err
	}
	if err := db.Callback().Row().After("gorm:row").Register("telemetry:row_end", end("row")); err != nil {
		return err
	}
	if err := db.Callback().Raw().Before("gorm:raw").Register("telemetry:raw_begin", begin); err != nil {
		return err
	}
	return db.Callback().Raw().After("gorm:raw").Register("telemetry:raw_end", end("raw"))
}

// ConnectGormDB establishes a GORM connection to PostgreSQL
func ConnectGormDB(config *DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.Username, config.Password, config.Database, config.SSLMode)

	gormLogger := logger.Default.LogMode(logger.Warn)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB to configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(config.MaxOpenConns)
	sqlDB.SetMaxIdleConns(config.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(config.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(config.ConnMaxIdleTime)

	if err := registerTelemetryCallbacks(db); err != nil {
		return nil, fmt.Errorf("failed to register telemetry callbacks: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Info("Successfully connected to PostgreSQL database with GORM",
		"host", config.Host,
		"port", config.Port,
		"database", config.Database)

	// Only run migration if environment variable is set
	if os.Getenv("RUN_MIGRATION") == "true" {
		slog.Info("Running GORM auto-migration")
		err = db.AutoMigrate(
			&models.Cell{},
			&models.Member{},
			&models.Ministry{},
			&models.MemberMinistry{},
			&models.Event{},
			&models.EventRegistration{},
			&models.EventAttendance{},
			&models.Contribution{},
			&models.Announcement{},
			&models.User{},
			&models.AuditEvent{},
		)
		if err != nil {
			return nil, fmt.Errorf("failed to run auto-migration: %w", err)
		}
		slog.Info("GORM auto-migration completed successfully")
	} else {
		slog.Info("Database connected (migration skipped)")
	}

	return db, nil
}
