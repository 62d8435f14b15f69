package repository

import "strings"

// isDuplicateKeyError reports whether the error is a unique index violation.
// Postgres phrases these as "duplicate key value violates unique constraint".
func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint")
}

// isLockError reports whether the error came from row lock contention
func isLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "deadlock") ||
		strings.Contains(msg, "lock not available") ||
		strings.Contains(msg, "could not serialize access") ||
		strings.Contains(msg, "lock timeout")
}

// isConstraintError reports whether the error is any integrity violation
func isConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "violates") ||
		strings.Contains(msg, "constraint") ||
		isDuplicateKeyError(err)
}
