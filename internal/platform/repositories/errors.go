package repositories

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// ErrDuplicateUsername is returned by Create when the username row already exists.
var ErrDuplicateUsername = errors.New("username already exists")

// isUniqueViolation recognises a unique constraint failure from any of the
// supported drivers.
func isUniqueViolation(err error) bool {
	if isMattnUniqueViolation(err) {
		return true
	}
	var modernErr *sqlite.Error
	if errors.As(err, &modernErr) && modernErr.Code() == sqlite3lib.SQLITE_CONSTRAINT_UNIQUE {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	// modernc reports the primary code when extended codes are off
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
