// Package dbtest provides migrated in-memory stores for tests.
package dbtest

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"careerlink/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// New returns a fresh migrated SQLite database private to t.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%s?mode=memory&cache=shared&_foreign_keys=on", name, uuid.NewString())

	// A single connection keeps every statement on the same in-memory database.
	db, err := database.Open(sqlite.Open(dsn), 1, 1)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// NewFile returns a migrated SQLite database in a temp file served by maxConns
// connections, for tests where transactions must really overlap. Transactions
// begin IMMEDIATE so writers queue on the database lock.
func NewFile(t testing.TB, maxConns int) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "store.db")
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_txlock=immediate&_busy_timeout=10000", path)

	db, err := database.Open(sqlite.Open(dsn), maxConns, maxConns)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}
