package database

import "errors"

// Ground: mnohosten-laura-db/pkg/database/errors.go's package-level sentinel
// error style.
var (
	// ErrTableExists is returned by CreateTable when name is already in use.
	ErrTableExists = errors.New("database: table already exists")

	// ErrTableMissing names the missing-table condition. Database's own
	// methods do not return it: GetTable and DeleteTable report a missing
	// table with a false result.
	ErrTableMissing = errors.New("database: table not found")

	// ErrDatabaseExists is returned by CreateDatabase when the target file
	// already exists.
	ErrDatabaseExists = errors.New("database: database file already exists")
)
