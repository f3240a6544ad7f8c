package service

import (
	"errors"
	"fmt"
)

// ValidationError marks input the client must correct. Handlers map it to
// a 400 response with the message as-is.
type ValidationError string

func (e ValidationError) Error() string {
	return string(e)
}

// StorageError wraps a persistence failure. Op is the client-facing
// message; handlers map the error to a 500 response.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	if e.Err == nil {
		return e.Op
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ErrNoReports is returned when an export finds nothing to export.
var ErrNoReports = errors.New("no reports to export")
