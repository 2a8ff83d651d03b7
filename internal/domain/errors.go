package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across layers.
var (
	ErrNotFound        = errors.New("not found")
	ErrAlreadyExists   = errors.New("already exists")
	ErrVersionConflict = errors.New("version conflict, re-fetch and retry")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
)

// ValidationError rejects user input at a call boundary. The message is
// meant to be shown to the user as-is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Result is the outcome of a user-facing mutation that can fail validation.
// Validation problems are reported here instead of as an error.
type Result struct {
	Success bool
	Error   string
	Item    *PantryItem
}

// Fail builds an unsuccessful result from an error.
func Fail(err error) Result {
	return Result{Success: false, Error: err.Error()}
}
