package pg

import (
	"database/sql"
	"strings"

	sqlite3 "github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	// SQLiteDriverName is the database/sql driver used for sqlite. Its
	// connections carry SQLiteLowerFunc.
	SQLiteDriverName = "sqlite3_unicode"

	// SQLiteLowerFunc lower-cases the full Unicode range; the builtin LOWER
	// only folds ASCII.
	SQLiteLowerFunc = "unicode_lower"
)

func init() {
	sql.Register(SQLiteDriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc(SQLiteLowerFunc, strings.ToLower, true)
		},
	})
}

func SQLiteDialector(dsn string) gorm.Dialector {
	return sqlite.New(sqlite.Config{DriverName: SQLiteDriverName, DSN: dsn})
}
