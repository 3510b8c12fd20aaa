package db

import (
	"testing"

	"gorm.io/gorm"
)

// NewTestDB returns a migrated in-memory SQLite database closed at test end.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	gdb, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	if err := Migrate(gdb); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	return gdb
}
