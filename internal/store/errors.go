// Package store holds the pieces shared by the file-backed user services:
// the typed errors they return and the whole-file writer they persist with.
package store

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is matching. Each typed error below reports true for
// its sentinel.
var (
	ErrLoad            = errors.New("store: load failed")
	ErrDuplicateID     = errors.New("store: duplicate identifier")
	ErrIndexOutOfRange = errors.New("store: index out of range")
	ErrPersistence     = errors.New("store: persistence failed")
)

// LoadError reports a backing document that could not be read or parsed.
// Construction of the service is aborted.
type LoadError struct {
	Path string // empty for inline documents
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("load inline document: %v", e.Err)
	}
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

func (e *LoadError) Is(target error) bool { return target == ErrLoad }

// DuplicateIDError is returned when adding a user whose identifier is
// already present.
type DuplicateIDError struct {
	ID string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("user %q already exists", e.ID)
}

func (e *DuplicateIDError) Is(target error) bool { return target == ErrDuplicateID }

// IndexOutOfRangeError is returned when removing by a position outside
// [0, Len).
type IndexOutOfRangeError struct {
	Index int
	Len   int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("index %d out of range [0,%d)", e.Index, e.Len)
}

func (e *IndexOutOfRangeError) Is(target error) bool { return target == ErrIndexOutOfRange }

// PersistenceError reports a failed write of the backing document. The
// mutation that triggered it has not been applied in memory.
type PersistenceError struct {
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }
