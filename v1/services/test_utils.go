package services

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/churchops/church-backend/v1/models"
)

// SetupSQLiteTestDB creates an in-memory SQLite database for testing.
// It automatically migrates all models and cleans up data after each test.
//
// Exported for use in handler and middleware tests.
func SetupSQLiteTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

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
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		CleanupTestData(t, db)
	})

	return db
}

// CleanupTestData removes all test data from the database.
// Exported for use in handler tests.
func CleanupTestData(t *testing.T, db *gorm.DB) {
	// Delete in reverse order of dependencies
	tables := []string{
		"audit_events",
		"event_attendances",
		"event_registrations",
		"member_ministries",
		"announcements",
		"contributions",
		"events",
		"users",
		"members",
		"ministries",
		"cells",
	}
	for _, table := range tables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			t.Logf("Warning: failed to cleanup %s: %v", table, err)
		}
	}
}
