package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrTableNotFound is returned when a table is not in the registry.
	ErrTableNotFound = errors.New("table not found")
	// ErrTableAlreadyExists is returned by CreateTable for registered names.
	ErrTableAlreadyExists = errors.New("table already exists")
	// ErrDuplicateRow is returned by Insert when an identical row exists.
	ErrDuplicateRow = errors.New("duplicate row")
	// ErrNoMatchingRow is returned by Update and DeleteEntry when the
	// condition matches nothing.
	ErrNoMatchingRow = errors.New("no matching row")
	// ErrReservedTable is returned for writes aimed at the registry table.
	ErrReservedTable = errors.New("reserved table")
	// ErrEmptyTable is returned by VisualizeTable when there is nothing to draw.
	ErrEmptyTable = errors.New("table is empty")
	ErrColumnNotFound    = errors.New("column not found")
	ErrInvalidIdentifier = errors.New("invalid identifier")
	ErrInvalidSchema     = errors.New("invalid schema")
	ErrInvalidCondition  = errors.New("invalid condition")
)

// EngineError wraps a failure reported by SQLite itself.
type EngineError struct {
	// Op describes what was being attempted, e.g. "insert row".
	Op  string
	Err error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

func engineErr(op string, err error) error {
	return &EngineError{Op: op, Err: err}
}
