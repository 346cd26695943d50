package core

import (
	"errors"
	"fmt"
)

var (
	ErrValidation          = errors.New("validation failed")
	ErrProviderUnavailable = errors.New("embedding provider unavailable")
	ErrDimensionMismatch   = errors.New("embedding dimension mismatch")
	ErrSnapshotVersion     = errors.New("unsupported snapshot version")
	ErrNotFound            = errors.New("not found")
	ErrGeneration          = errors.New("answer generation failed")
)

// QueryError carries the operation and query text that produced an error.
type QueryError struct {
	Op    string
	Query string
	Err   error
}

func (e *QueryError) Error() string {
	if e.Query != "" {
		return fmt.Sprintf("%s [query=%q]: %v", e.Op, e.Query, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

func NewQueryError(op, query string, err error) *QueryError {
	return &QueryError{Op: op, Query: query, Err: err}
}
