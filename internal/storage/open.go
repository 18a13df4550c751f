// Package storage persists VRF keys and the per-network epoch randomness
// they produce.
package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3" // Set database engine.
)

const (
	// DriverSQLite selects the embedded sqlite3 engine.
	DriverSQLite = "sqlite3"
	// DriverMySQL selects MySQL.
	DriverMySQL = "mysql"
)

// Open the database specified by driver and dsn.
func Open(driver, dsn string) (*sql.DB, error) {
	switch driver {
	case DriverMySQL:
		return openMySQL(dsn)
	case DriverSQLite:
		return openSQLite(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

func openMySQL(dsn string) (*sql.DB, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, err
	}

	// MySQL flags that affect storage logic.
	cfg.ClientFoundRows = true // Return number of matching rows instead of rows changed.
	cfg.ParseTime = true       // Parse time values to time.Time
	cfg.Loc = time.UTC

	db, err := sql.Open(DriverMySQL, cfg.FormatDSN())
	if err != nil {
		return nil, err
	}
	return db, db.Ping()
}

func openSQLite(dsn string) (*sql.DB, error) {
	db, err := sql.Open(DriverSQLite, dsn)
	if err != nil {
		return nil, err
	}
	// A single connection keeps ":memory:" databases and the foreign key
	// pragma consistent across the pool.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, err
	}
	return db, db.Ping()
}
