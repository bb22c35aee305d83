package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestHealthHandler(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	healthHandler(db)(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestHealthHandlerUnhealthyDatabase(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	w := httptest.NewRecorder()
	healthHandler(db)(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestGetEnvOrDefaultMain(t *testing.T) {
	t.Setenv("CHURCH_MAIN_TEST_VALUE", "set")

	assert.Equal(t, "set", getEnvOrDefault("CHURCH_MAIN_TEST_VALUE", "fallback"))
	assert.Equal(t, "fallback", getEnvOrDefault("CHURCH_MAIN_TEST_MISSING", "fallback"))
}
