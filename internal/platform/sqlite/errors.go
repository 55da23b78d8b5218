package sqlite

import (
	"errors"

	sqlitelib "modernc.org/sqlite"
)

// sqlite extended result codes
const (
	sqliteConstraintUnique     = 2067 // SQLITE_CONSTRAINT_UNIQUE
	sqliteConstraintPrimaryKey = 1555 // SQLITE_CONSTRAINT_PRIMARYKEY
)

// isUniqueViolation checks if the given error is a sqlite unique
// constraint violation. This is used to detect when an operation fails
// due to a unique index, such as the (module, date) exercise constraint.
func isUniqueViolation(err error) bool {
	var se *sqlitelib.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqliteConstraintUnique, sqliteConstraintPrimaryKey:
			return true
		}
	}
	return false
}
