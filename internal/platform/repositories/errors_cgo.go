//go:build cgo

package repositories

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

// isMattnUniqueViolation checks for a unique constraint failure from the cgo
// sqlite3 driver.
func isMattnUniqueViolation(err error) bool {
	var mattnErr sqlite3.Error
	return errors.As(err, &mattnErr) && mattnErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
