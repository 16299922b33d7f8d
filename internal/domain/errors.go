package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("dataset not found")

	// ErrUnavailable marks records whose model-backed analysis could not be
	// produced. Heuristic fields are still populated for such records.
	ErrUnavailable = errors.New("analysis unavailable")
)

// FormatError reports an input payload that could not be parsed at all.
// An upload failing with it leaves no dataset behind.
type FormatError struct {
	Format string
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse %s: %s: %v", e.Format, e.Reason, e.Err)
	}
	return fmt.Sprintf("parse %s: %s", e.Format, e.Reason)
}

func (e *FormatError) Unwrap() error { return e.Err }

// ValidationError reports a record-level problem (e.g. a missing text field).
// Ingest counts these per record instead of failing the whole payload.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
