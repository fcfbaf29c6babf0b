// Package sqlite persists placement traces for offline analysis: one row
// per run × frame × marker, recording the engine's inputs and the placement
// it produced. The engine itself never reads this data — the store exists
// for the simulator and the report tooling.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps the trace database connection.
type DB struct {
	*sql.DB
}

// dsnPragmas are applied to every pooled connection, not just the first.
const dsnPragmas = "?_pragma=journal_mode(WAL)" +
	"&_pragma=busy_timeout(5000)" +
	"&_pragma=synchronous(NORMAL)" +
	"&_pragma=foreign_keys(1)"

// Open opens (creating if needed) the trace database at path, applies the
// connection PRAGMAs and runs any pending migrations.
func Open(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path+dsnPragmas)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace db: %w", err)
	}

	db := &DB{sqlDB}
	if err := db.MigrateUp(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}
