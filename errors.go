package lookout

import (
	"errors"
	"fmt"
)

// ConfigError reports missing or invalid prepared-query configuration:
// no mapper, no descriptor, or a descriptor that fails its own
// invariants. Configuration errors are surfaced synchronously and are
// never retried.
type ConfigError struct {
	// Reason is a human-readable description of what is missing.
	Reason string

	// Err is the underlying descriptor validation error, if any.
	Err error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("lookout: %s: %v", e.Reason, e.Err)
	}
	return "lookout: " + e.Reason
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error { return e.Err }

// StorageError reports that the storage engine could not satisfy a
// query: a rejected statement, a missing table, or an I/O failure during
// cursor iteration or release.
type StorageError struct {
	// Op is the failing operation: "select", "iterate", or "close".
	Op string

	// Stmt is the statement text, when known at the failure site.
	Stmt string

	// Err is the engine's error.
	Err error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	if e.Stmt != "" {
		return fmt.Sprintf("lookout: storage %s failed for %q: %v", e.Op, e.Stmt, e.Err)
	}
	return fmt.Sprintf("lookout: storage %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the engine's error.
func (e *StorageError) Unwrap() error { return e.Err }

// MapError reports that the row mapper could not convert a row. The
// cursor is always released before a MapError propagates.
type MapError struct {
	// Row is the zero-based index of the failing row in cursor order.
	Row int

	// Err is the mapper's error.
	Err error
}

// Error implements the error interface.
func (e *MapError) Error() string {
	return fmt.Sprintf("lookout: mapping row %d failed: %v", e.Row, e.Err)
}

// Unwrap returns the mapper's error.
func (e *MapError) Unwrap() error { return e.Err }

// IsConfigError reports whether err is (or wraps) a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// IsStorageError reports whether err is (or wraps) a StorageError.
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

// IsMapError reports whether err is (or wraps) a MapError.
func IsMapError(err error) bool {
	var me *MapError
	return errors.As(err, &me)
}
