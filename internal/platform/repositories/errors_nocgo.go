//go:build !cgo

package repositories

// isMattnUniqueViolation always reports false without cgo: the mattn sqlite3
// driver is a stub in that case and never returns sqlite3.Error.
func isMattnUniqueViolation(err error) bool {
	return false
}
