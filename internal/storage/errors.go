package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrCacheCorrupt indicates the persisted cache could not be decoded.
	ErrCacheCorrupt = errors.New("storage: cache corrupt")
)

// StorageError wraps cache errors with operation and key context.
//
// Use errors.As to inspect:
//
//	var storErr *storage.StorageError
//	if errors.As(err, &storErr) {
//		fmt.Printf("failed to %s %s: %v\n", storErr.Op, storErr.Key, storErr.Err)
//	}
type StorageError struct {
	// Op is the operation that failed: "read" or "write".
	Op string
	// Key is the file path or cache key involved.
	Key string
	// Err is the underlying error.
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
