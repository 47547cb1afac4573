package compiler

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupportedSchemaType is returned when the flattener meets a schema
	// type it cannot turn into columns.
	ErrUnsupportedSchemaType = errors.New("unsupported schema type")

	// ErrUnsupportedType is returned when a type/format pair has no SQL type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrIdentifierTooLong is returned when a compiled table name exceeds
	// ir.MaxTableNameLength.
	ErrIdentifierTooLong = errors.New("identifier too long")

	// ErrParameterResolution is returned when a shared parameter reference
	// cannot be found in the document.
	ErrParameterResolution = errors.New("parameter cannot be resolved")

	// ErrMissingResponseSchema is returned when a GET operation has no schema
	// for its 200 response.
	ErrMissingResponseSchema = errors.New("missing 200 response schema")

	// ErrDuplicateTable is returned when two operations compile to the same
	// table name.
	ErrDuplicateTable = errors.New("duplicate table name")
)

// Error carries the location of a compilation failure. It unwraps to one of
// the sentinel errors above.
type Error struct {
	Operation string // operation id, when known
	Path      string // API path, when known
	Detail    string
	Err       error
}

func (e *Error) Error() string {
	var loc []string
	if e.Operation != "" {
		loc = append(loc, "operation "+e.Operation)
	}
	if e.Path != "" {
		loc = append(loc, "path "+e.Path)
	}

	msg := e.Err.Error()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if len(loc) > 0 {
		return fmt.Sprintf("%s: %s", strings.Join(loc, ", "), msg)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// errorf builds an *Error without location; the extractor fills it in with
// locate as the error travels up.
func errorf(sentinel error, format string, args ...any) error {
	return &Error{Err: sentinel, Detail: fmt.Sprintf(format, args...)}
}

// locate attaches the operation and path to err, keeping any location that is
// already set.
func locate(err error, operation, path string) error {
	var cerr *Error
	if !errors.As(err, &cerr) {
		return &Error{Operation: operation, Path: path, Err: err}
	}
	if cerr.Operation == "" {
		cerr.Operation = operation
	}
	if cerr.Path == "" {
		cerr.Path = path
	}
	return cerr
}

// withDetail prefixes the detail of a compilation error with context.
func withDetail(err error, context string) error {
	var cerr *Error
	if !errors.As(err, &cerr) {
		return fmt.Errorf("%s: %w", context, err)
	}
	if cerr.Detail == "" {
		cerr.Detail = context
	} else {
		cerr.Detail = context + ": " + cerr.Detail
	}
	return err
}
