package v1

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestNewDatabaseConfigDefaults(t *testing.T) {
	config := NewDatabaseConfig()

	assert.Equal(t, "localhost", config.Host)
	assert.Equal(t, "5432", config.Port)
	assert.Equal(t, "postgres", config.Username)
	assert.Equal(t, "church", config.Database)
	assert.Equal(t, "require", config.SSLMode)
	assert.Equal(t, 25, config.MaxOpenConns)
	assert.Equal(t, 5, config.MaxIdleConns)
	assert.Equal(t, time.Hour, config.ConnMaxLifetime)
	assert.Equal(t, 30*time.Minute, config.ConnMaxIdleTime)
}

func TestNewDatabaseConfigFromEnvironment(t *testing.T) {
	t.Setenv("CHURCH_DATABASE_HOSTNAME", "db.internal")
	t.Setenv("CHURCH_DATABASE_PORT", "5433")
	t.Setenv("CHURCH_DATABASE_USERNAME", "churchops")
	t.Setenv("CHURCH_DATABASE_PASSWORD", "s3cret")
	t.Setenv("CHURCH_DATABASE_DATABASENAME", "church_prod")
	t.Setenv("CHURCH_DATABASE_SSLMODE", "disable")

	config := NewDatabaseConfig()

	assert.Equal(t, "db.internal", config.Host)
	assert.Equal(t, "5433", config.Port)
	assert.Equal(t, "churchops", config.Username)
	assert.Equal(t, "s3cret", config.Password)
	assert.Equal(t, "church_prod", config.Database)
	assert.Equal(t, "disable", config.SSLMode)
}

func TestRegisterTelemetryCallbacks(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, registerTelemetryCallbacks(db))

	// Instrumented operations still execute normally
	require.NoError(t, db.Exec("CREATE TABLE sample_rows (id INTEGER PRIMARY KEY, name TEXT)").Error)
	require.NoError(t, db.Exec("INSERT INTO sample_rows (name) VALUES (?)", "first").Error)

	var count int64
	require.NoError(t, db.Table("sample_rows").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("CHURCH_TEST_VALUE", "set")

	assert.Equal(t, "set", getEnvOrDefault("CHURCH_TEST_VALUE", "fallback"))
	assert.Equal(t, "fallback", getEnvOrDefault("CHURCH_TEST_VALUE_MISSING", "fallback"))
}
