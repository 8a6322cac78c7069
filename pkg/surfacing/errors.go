package surfacing

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed input to Append. The caller must fix
// the input; it is never silently coerced.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError is returned when MarkUsed references an unknown item id.
type NotFoundError struct {
	ID string
}

func (e NotFoundError) Error() string {
	if e.ID == "" {
		return "candidate item not found"
	}
	return "candidate item not found: " + e.ID
}

// InvalidArgumentError reports a selection parameter outside its allowed
// range.
type InvalidArgumentError struct {
	Arg    string
	Reason string
}

func (e InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %s: %s", e.Arg, e.Reason)
}

// TransientStoreError wraps a durability-layer failure (timeout, connection
// loss). Readers recover by treating the result as empty; fire-and-forget
// writers log and move on.
type TransientStoreError struct {
	Op  string
	Err error
}

func (e TransientStoreError) Error() string {
	return fmt.Sprintf("store unavailable during %s: %v", e.Op, e.Err)
}

func (e TransientStoreError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

// IsInvalidArgument reports whether err is an InvalidArgumentError.
func IsInvalidArgument(err error) bool {
	var ia InvalidArgumentError
	return errors.As(err, &ia)
}

// IsTransient reports whether err is a TransientStoreError.
func IsTransient(err error) bool {
	var ts TransientStoreError
	return errors.As(err, &ts)
}
