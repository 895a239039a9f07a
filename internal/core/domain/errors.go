package domain

import (
	"errors"
	"fmt"
)

// ErrReasonRequired indicates a rejection or cancellation is missing its reason.
var ErrReasonRequired = errors.New("reason is required")

// ErrMoaNotExpirable indicates the submission does not qualify for MOA expiry.
var ErrMoaNotExpirable = errors.New("submission MOA is not eligible for expiry")

// InvalidTransitionError reports an operation attempted from a state it does not
// accept. Required names the state the entity must be in first.
type InvalidTransitionError struct {
	Operation string
	Current   string
	Required  string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s: current status is %s, requires %s", e.Operation, e.Current, e.Required)
}

// IsInvalidTransition reports whether err wraps an InvalidTransitionError.
func IsInvalidTransition(err error) bool {
	var target *InvalidTransitionError
	return errors.As(err, &target)
}
