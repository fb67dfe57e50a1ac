package mission

import (
	"errors"
	"fmt"
)

// MissionError is returned when a mission cannot be started. Code carries
// the status the attempt would have ended with.
type MissionError struct {
	// Code identifies the failure.
	Code StatusCode

	// Message is a human-readable error message.
	Message string

	// Cause is the underlying error, if any.
	Cause error

	// Context provides additional detail for logs.
	Context map[string]any
}

// Error implements the error interface.
func (e *MissionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the cause for errors.Is and errors.As.
func (e *MissionError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a MissionError with the same code.
func (e *MissionError) Is(target error) bool {
	var missionErr *MissionError
	if errors.As(target, &missionErr) {
		return e.Code == missionErr.Code
	}
	return false
}

// WithContext adds contextual information to the error.
func (e *MissionError) WithContext(key string, value any) *MissionError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// NewMissionError creates a MissionError with the given code and message.
func NewMissionError(code StatusCode, message string) *MissionError {
	return &MissionError{
		Code:    code,
		Message: message,
		Context: make(map[string]any),
	}
}

// WrapMissionError wraps cause with a mission code.
func WrapMissionError(code StatusCode, message string, cause error) *MissionError {
	return &MissionError{
		Code:    code,
		Message: message,
		Cause:   cause,
		Context: make(map[string]any),
	}
}

// CodeOf returns the status code of a MissionError in err's chain, or "".
func CodeOf(err error) StatusCode {
	var missionErr *MissionError
	if errors.As(err, &missionErr) {
		return missionErr.Code
	}
	return ""
}
