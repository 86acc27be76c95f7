// Package testdb provides in-memory SQLite databases for tests.
package testdb

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/weiwangfds/noteapi/config"
	"github.com/weiwangfds/noteapi/internal/database"
	"gorm.io/gorm"
)

// New opens a fresh, fully migrated in-memory database closed at test end.
// Every call yields an independent database.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Init(config.DatabaseConfig{
		Driver:   "sqlite",
		DSN:      ":memory:",
		LogLevel: "silent",
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = database.Close(db)
	})
	return db
}

// CreateUser inserts a user row and returns its id.
// It accepts *testing.T as well as *rapid.T.
func CreateUser(t require.TestingT, db *gorm.DB, name string) uint {
	user := database.User{
		FullName: name,
		Email:    fmt.Sprintf("%s-%d@example.test", name, nextSeq()),
	}
	require.NoError(t, db.Create(&user).Error)
	return user.ID
}

var seq atomic.Int64

func nextSeq() int64 {
	return seq.Add(1)
}
