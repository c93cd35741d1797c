package core

import (
	"errors"
	"strings"
)

// Common errors.
var (
	ErrValidation  = errors.New("validation failed")
	ErrNotFound    = errors.New("note not found")
	ErrSummary     = errors.New("summary generation failed")
	ErrPersistence = errors.New("persistence failed")
	ErrKeyNotFound = errors.New("key not found")
)

// Messages recorded in the store snapshot when an operation fails unexpectedly.
const (
	MsgCreateFailed    = "Failed to create note"
	MsgUpdateFailed    = "Failed to update note"
	MsgDeleteFailed    = "Failed to delete note"
	MsgSummarizeFailed = "Failed to generate summary"
)

// ValidationError lists the fields that were rejected.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid note: " + strings.Join(e.Fields, ", ") + " must not be empty"
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
