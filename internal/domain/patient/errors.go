package patient

import (
	"errors"
	"fmt"
)

var (
	ErrRecordNotFound = errors.New("patient record not found")

	// Error kinds. Concrete errors below match them with errors.Is.
	ErrInvalidFormat  = errors.New("invalid format")
	ErrConflict       = errors.New("conflict")
	ErrStorageFailure = errors.New("storage failure")
)

// Field identifies which unique attribute a conflict is about.
type Field string

const (
	FieldNationalID Field = "nid"
	FieldName       Field = "name"
	// FieldUnknown is used when the store rejected a write on a unique
	// constraint it could not attribute to a column.
	FieldUnknown Field = ""
)

type FormatError struct {
	Field  string
	Reason string
}

func (e *FormatError) Error() string {
	return e.Reason
}

func (e *FormatError) Is(target error) bool {
	return target == ErrInvalidFormat
}

type ConflictError struct {
	Field Field
}

func (e *ConflictError) Error() string {
	switch e.Field {
	case FieldNationalID:
		return "a patient with the same national ID already exists"
	case FieldName:
		return "a patient with the same name already exists"
	default:
		return "a patient with the same name or national ID already exists"
	}
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// StorageError carries an unexpected store error. Its message is the
// underlying error text.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, ErrStorageFailure)
	}
	return e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorageFailure
}
