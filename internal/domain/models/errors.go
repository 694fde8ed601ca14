package models

import (
	"errors"
	"fmt"
)

// DataError reports input data that cannot be modeled: too few observations,
// or non-positive / non-finite prices. It is fatal and surfaced before any
// fitting starts; it is never retried.
type DataError struct {
	Field   string
	Message string
	Index   int // offending element index, -1 when not applicable
}

func (e *DataError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("%s[%d]: %s", e.Field, e.Index, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewDataError creates a DataError for the given field.
func NewDataError(field, message string) *DataError {
	return &DataError{Field: field, Message: message, Index: -1}
}

// WithIndex attaches the offending element index.
func (e *DataError) WithIndex(i int) *DataError {
	e.Index = i
	return e
}

// IsDataError reports whether err is (or wraps) a DataError.
func IsDataError(err error) bool {
	var de *DataError
	return errors.As(err, &de)
}
