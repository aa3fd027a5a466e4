package orm

import (
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// WithSqlite opens a workspace file. Exports replace every line at once, so a busy timeout lets a
// concurrent reader wait for the write to finish.
func WithSqlite(file string) gorm.Dialector {
	return sqlite.Open(file + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
}

// WithSqliteInMemory opens a throwaway workspace. The storage keeps a single connection, otherwise every
// connection would see its own empty database.
func WithSqliteInMemory() gorm.Dialector {
	return sqlite.Open(":memory:")
}
