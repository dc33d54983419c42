package testutil

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/chiyadani/chiyadani-api/config"
	"github.com/chiyadani/chiyadani-api/models"
)

// RequireTestEnvironment ensures that tests are running in the test environment.
// This prevents accidental execution of tests against production or development databases.
// It will fail the test immediately if GO_ENV is not set to "test".
func RequireTestEnvironment(t *testing.T) {
	t.Helper()

	env := os.Getenv("GO_ENV")
	if env != "test" {
		t.Fatalf("SAFETY CHECK FAILED: Tests must run with GO_ENV=test to prevent data loss. Current GO_ENV=%q. Set GO_ENV=test before running tests.", env)
	}
}

// MustSetTestEnvironment sets GO_ENV to test and fails if it cannot be set.
// Use this in TestMain or suite setup functions.
func MustSetTestEnvironment(t *testing.T) {
	t.Helper()

	if err := os.Setenv("GO_ENV", "test"); err != nil {
		t.Fatalf("Failed to set GO_ENV=test: %v", err)
	}

	if os.Getenv("GO_ENV") != "test" {
		t.Fatal("Failed to verify GO_ENV=test")
	}
}

// OpenTestDatabase opens a fresh in-memory database with all application
// models migrated and registers it as the global connection
func OpenTestDatabase(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Settings{},
		&models.Staff{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.SessionEntry{},
		&models.Bill{},
		&models.Transaction{},
		&models.Customer{},
	))
	config.SetDB(db)
	return db
}

// TestConfig returns a configuration suitable for in-process testing
func TestConfig() *config.Config {
	cfg := &config.Config{
		Port:        "8080",
		GoEnv:       "test",
		JWTSecret:   "test-secret",
		JWTIssuer:   "https://chiyadani-api/",
		JWTAudience: "https://chiyadani-api",
	}
	config.SetConfig(cfg)
	return cfg
}
