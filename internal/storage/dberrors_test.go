package storage

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/VividCortex/mysqlerr"
	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
)

func TestErrorf(t *testing.T) {
	for _, tc := range []struct {
		desc    string
		err     error
		wantErr error
	}{
		{"nil", nil, nil},
		{"no rows", sql.ErrNoRows, ErrNotFound},
		{"mysql duplicate", &mysql.MySQLError{Number: mysqlerr.ER_DUP_ENTRY, Message: "Duplicate entry"}, ErrAlreadyExists},
		{"mysql deadlock", &mysql.MySQLError{Number: mysqlerr.ER_LOCK_DEADLOCK, Message: "Deadlock"}, nil},
		{"sqlite unique", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}, ErrAlreadyExists},
		{"sqlite foreign key", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintForeignKey}, nil},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			got := Errorf(tc.err, "op %d", 1)
			if tc.err == nil {
				if got != nil {
					t.Fatalf("Errorf(nil) = %v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatalf("Errorf(%v) = nil", tc.err)
			}
			if tc.wantErr != nil && !errors.Is(got, tc.wantErr) {
				t.Errorf("Errorf(%v) = %v, want %v", tc.err, got, tc.wantErr)
			}
			if tc.wantErr == nil && (errors.Is(got, ErrAlreadyExists) || errors.Is(got, ErrNotFound)) {
				t.Errorf("Errorf(%v) = %v, want an unclassified error", tc.err, got)
			}
		})
	}
}
