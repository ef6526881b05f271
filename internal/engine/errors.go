package engine

import (
	"errors"
	"fmt"
)

// ConfigError reports a part that cannot be generated because it is
// incompletely or inconsistently configured. It is returned before any
// statement is produced.
type ConfigError struct {
	// Code identifies the failed precondition.
	Code ConfigErrorCode

	// Message is a human-readable description.
	Message string

	// Part names the offending part, if it has a name.
	Part string
}

// ConfigErrorCode categorizes configuration errors.
type ConfigErrorCode string

const (
	// ErrCodeMissingEnd indicates no end time was set.
	ErrCodeMissingEnd ConfigErrorCode = "MISSING_END"

	// ErrCodeEndBeforeStart indicates end < start.
	ErrCodeEndBeforeStart ConfigErrorCode = "END_BEFORE_START"

	// ErrCodeMissingDuration indicates no duration stream was set.
	ErrCodeMissingDuration ConfigErrorCode = "MISSING_DURATION"

	// ErrCodeMissingDelay indicates no delay stream was set.
	ErrCodeMissingDelay ConfigErrorCode = "MISSING_DELAY"

	// ErrCodeMissingInstrument indicates no instrument number was set.
	ErrCodeMissingInstrument ConfigErrorCode = "MISSING_INSTRUMENT"

	// ErrCodeInvalidInstrument indicates an instrument number below 1.
	ErrCodeInvalidInstrument ConfigErrorCode = "INVALID_INSTRUMENT"
)

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Part != "" {
		return fmt.Sprintf("%s: %s (part=%s)", e.Code, e.Message, e.Part)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// GenerationError reports a failure while the loop is running.
type GenerationError struct {
	Code    GenerationErrorCode
	Message string
	Part    string

	// Step is the 0-based index of the statement being built.
	Step int
}

// GenerationErrorCode categorizes generation errors.
type GenerationErrorCode string

const (
	// ErrCodeNonNumeric indicates a duration or delay stream returned a
	// value that is not a number.
	ErrCodeNonNumeric GenerationErrorCode = "NON_NUMERIC"

	// ErrCodeQuotaExceeded indicates the part hit its statement cap.
	ErrCodeQuotaExceeded GenerationErrorCode = "QUOTA_EXCEEDED"
)

// Error implements the error interface.
func (e *GenerationError) Error() string {
	if e.Part != "" {
		return fmt.Sprintf("%s: %s (part=%s, step=%d)", e.Code, e.Message, e.Part, e.Step)
	}
	return fmt.Sprintf("%s: %s (step=%d)", e.Code, e.Message, e.Step)
}

// IsConfigError reports whether err is, or wraps, a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// ConfigCode returns the ConfigErrorCode carried by err, or "" if err is
// not a configuration error.
func ConfigCode(err error) ConfigErrorCode {
	var ce *ConfigError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

// IsQuotaError reports whether err is a statement cap violation.
// Uses errors.As to handle wrapped errors.
func IsQuotaError(err error) bool {
	var ge *GenerationError
	if errors.As(err, &ge) {
		return ge.Code == ErrCodeQuotaExceeded
	}
	return false
}

func newConfigError(part string, code ConfigErrorCode, format string, args ...any) *ConfigError {
	return &ConfigError{Code: code, Message: fmt.Sprintf(format, args...), Part: part}
}
