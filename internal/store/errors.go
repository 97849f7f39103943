package store

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Storage outcomes the handlers branch on. Everything the database can fail
// with collapses into one of these three.
var (
	// ErrNotFound means the requested row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConstraintViolation means a uniqueness or required-reference rule
	// rejected a write (duplicate asset_tag, duplicate username, ...).
	ErrConstraintViolation = errors.New("constraint violation")
	// ErrStorageUnavailable means the backend itself failed.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// classify maps a GORM/driver error onto the taxonomy above. GORM's error
// translation covers postgres and sqlite; the message fallback catches
// drivers that predate it.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, gorm.ErrForeignKeyViolated) {
		return fmt.Errorf("%w: %v", ErrConstraintViolation, err)
	}
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "FOREIGN KEY constraint failed") {
		return fmt.Errorf("%w: %v", ErrConstraintViolation, err)
	}
	return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
}
