package mock

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies why a route failed to load.
type ErrorKind string

const (
	DatasetNotFound  ErrorKind = "DatasetNotFound"
	DatasetLoad      ErrorKind = "DatasetLoad"
	SchemaConflict   ErrorKind = "SchemaConflict"
	RecordValidation ErrorKind = "RecordValidation"
	StoreFailure     ErrorKind = "StoreFailure"
)

// DatasetNotFoundError means no recorded dataset exists for a route.
type DatasetNotFoundError struct {
	Route string
	Tried []string
}

func (e *DatasetNotFoundError) Error() string {
	return fmt.Sprintf("no dataset for route %q (tried %s)", e.Route, strings.Join(e.Tried, ", "))
}

// DatasetLoadError wraps a failure to read a dataset file.
type DatasetLoadError struct {
	Route string
	Path  string
	Err   error
}

func (e *DatasetLoadError) Error() string {
	return fmt.Sprintf("load dataset %s for route %q: %v", e.Path, e.Route, e.Err)
}

func (e *DatasetLoadError) Unwrap() error { return e.Err }

// SchemaConflictError is returned when the destination table cannot be
// (re)created. Exists is set when the table was already present.
type SchemaConflictError struct {
	Table  string
	Exists bool
	Err    error
}

func (e *SchemaConflictError) Error() string {
	if e.Exists {
		return fmt.Sprintf("create table %q: table already exists: %v", e.Table, e.Err)
	}
	return fmt.Sprintf("create table %q: %v", e.Table, e.Err)
}

func (e *SchemaConflictError) Unwrap() error { return e.Err }

// RecordValidationError reports the first record that did not fit the
// route's schema. Row is the zero-based position in the dataset.
type RecordValidationError struct {
	Route  string
	Row    int
	Field  string
	Value  any
	Reason string
	Err    error
}

func (e *RecordValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("route %q row %d: %s", e.Route, e.Row, e.Reason)
	}
	return fmt.Sprintf("route %q row %d field %q (value %v): %s", e.Route, e.Row, e.Field, e.Value, e.Reason)
}

func (e *RecordValidationError) Unwrap() error { return e.Err }

// KindOf maps an error returned by the builder to its ErrorKind.
func KindOf(err error) ErrorKind {
	var (
		notFound *DatasetNotFoundError
		load     *DatasetLoadError
		conflict *SchemaConflictError
		invalid  *RecordValidationError
	)
	switch {
	case errors.As(err, &notFound):
		return DatasetNotFound
	case errors.As(err, &load):
		return DatasetLoad
	case errors.As(err, &conflict):
		return SchemaConflict
	case errors.As(err, &invalid):
		return RecordValidation
	}
	return StoreFailure
}
