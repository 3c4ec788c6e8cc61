package database

import (
	"database/sql"
	"errors"

	"github.com/mattn/go-sqlite3"
)

// Sentinel errors returned by the query layer. Callers check these with
// errors.Is instead of matching driver error text.
var (
	// ErrNotFound indicates the requested row does not exist.
	ErrNotFound = errors.New("database: record not found")

	// ErrUsernameTaken indicates an insert violated the users.username
	// UNIQUE constraint.
	ErrUsernameTaken = errors.New("database: username already exists")
)

// translateUserInsertErr maps driver-level errors from a user insert to
// the package sentinels.
func translateUserInsertErr(err error) error {
	if err == nil {
		return nil
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		if sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey {
			return ErrUsernameTaken
		}
	}
	return err
}

// translateScanErr maps sql.ErrNoRows to ErrNotFound.
func translateScanErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
