// Package testdb opens migrated in-memory SQLite databases for tests.
package testdb

import (
	"testing"

	"digital-menu-api/config"

	"gorm.io/gorm"
)

// Open returns a fresh migrated database that lives as long as the test.
// The pool is pinned to one connection so the in-memory database is shared
// by every query.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := config.OpenDB(config.DatabaseConfig{
		Driver:       "sqlite",
		DSN:          ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		LogLevel:     "silent",
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}
