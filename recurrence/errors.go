package recurrence

import (
	"errors"
	"fmt"
)

// ErrInvalidRule is wrapped by every rule validation failure.
var ErrInvalidRule = errors.New("invalid recurrence rule")

// ErrorType identifies which validation a rule failed.
type ErrorType string

const (
	ErrUnknownFrequency   ErrorType = "unknown_frequency"
	ErrMissingAnchor      ErrorType = "missing_anchor"
	ErrMissingWeekdays    ErrorType = "missing_weekdays"
	ErrInvalidWeekday     ErrorType = "invalid_weekday"
	ErrMissingMonthlyMode ErrorType = "missing_monthly_mode"
	ErrInvalidInterval    ErrorType = "invalid_interval"
	ErrUntilBeforeAnchor  ErrorType = "until_before_anchor"
)

// Error describes a rejected rule.
type Error struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func invalid(t ErrorType, format string, args ...any) *Error {
	return &Error{Type: t, Message: fmt.Sprintf(format, args...), Err: ErrInvalidRule}
}
