package command

import (
	"errors"
	"fmt"
)

// ValidationError describes a malformed or out-of-range command parameter.
// It is surfaced to the originator before any proposal is created.
type ValidationError struct {
	Command string
	Param   string
	Reason  string
}

func (e *ValidationError) Error() string {
	if e.Param == "" {
		return fmt.Sprintf("invalid /%v command: %v", e.Command, e.Reason)
	}
	return fmt.Sprintf("invalid /%v command: %v: %v", e.Command, e.Param, e.Reason)
}

// NewValidationError creates a parameter level validation error.
func NewValidationError(command, param, reason string) error {
	return &ValidationError{Command: command, Param: param, Reason: reason}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func NewUnknownCommandError(name string) error {
	return fmt.Errorf("command %v not found", name)
}
