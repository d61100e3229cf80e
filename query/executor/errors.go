package executor

import (
	"errors"
	"reflect"
)

// ErrNotFound is returned when a single-row lookup matches nothing.
var ErrNotFound = errors.New("record not found")

// MappingError reports a row-to-entity mapping failure.
type MappingError struct {
	Type reflect.Type
	Err  error
}

func (e *MappingError) Error() string {
	return "mapping row into " + e.Type.String() + ": " + e.Err.Error()
}

func (e *MappingError) Unwrap() error {
	return e.Err
}
