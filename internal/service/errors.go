package service

import (
	"errors"
	"strings"

	"github.com/dmehra2102/prod-golang-projects/healthtrack/internal/domain/patient"
)

// ValidationError lists every missing or blank required field of a command.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == patient.ErrInvalidFormat
}

// storageError wraps an unexpected store error unless it already carries a
// domain kind the transport knows how to report.
func storageError(op string, err error) error {
	if errors.Is(err, patient.ErrConflict) || errors.Is(err, patient.ErrStorageFailure) {
		return err
	}
	return &patient.StorageError{Op: op, Err: err}
}
