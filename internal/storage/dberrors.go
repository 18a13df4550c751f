package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/VividCortex/mysqlerr"
	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
)

var (
	// ErrNotFound is returned when no row matches.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a unique constraint is violated.
	ErrAlreadyExists = errors.New("already exists")
)

// Errorf tries to extract a meaningful error kind from err, the err returned from the database.
func Errorf(err error, format string, a ...interface{}) error {
	if err == nil {
		return nil
	}
	msg := fmt.Sprintf(format, a...)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%v: %w", msg, ErrNotFound)
	}
	if mysqlErr, ok := err.(*mysql.MySQLError); ok && mysqlErr.Number == mysqlerr.ER_DUP_ENTRY {
		return fmt.Errorf("%v: %w: %v", msg, ErrAlreadyExists, err)
	}
	if sqliteErr, ok := err.(sqlite3.Error); ok {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return fmt.Errorf("%v: %w: %v", msg, ErrAlreadyExists, err)
		}
	}
	return fmt.Errorf("%v: %v", msg, err)
}
