package errors

import (
	"errors"
	"fmt"
	"io/fs"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Workflow aborts
	ErrToolMissing      ErrorCode = "TOOL_MISSING"
	ErrRunAsRoot        ErrorCode = "RUN_AS_ROOT"
	ErrUserQuit         ErrorCode = "USER_QUIT"
	ErrHelperUnresolved ErrorCode = "HELPER_UNRESOLVED"
	ErrCloneFailed      ErrorCode = "CLONE_FAILED"

	// Process errors
	ErrCommandFailed   ErrorCode = "COMMAND_FAILED"
	ErrCommandNotFound ErrorCode = "COMMAND_NOT_FOUND"

	// Prompt errors
	ErrInputClosed ErrorCode = "INPUT_CLOSED"
	ErrInterrupted ErrorCode = "INTERRUPTED"

	// FileSystem errors
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess   ErrorCode = "FILE_ACCESS"
	ErrCopyFailed   ErrorCode = "COPY_FAILED"
	ErrRemoveFailed ErrorCode = "REMOVE_FAILED"
	ErrSeedFailed   ErrorCode = "SEED_FAILED"
	ErrDirCreate    ErrorCode = "DIR_CREATE"
)

// OverlayError represents a structured error with code and details
type OverlayError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *OverlayError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *OverlayError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *OverlayError) Is(target error) bool {
	var targetErr *OverlayError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new OverlayError with the given code and message
func New(code ErrorCode, message string) *OverlayError {
	return &OverlayError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new OverlayError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *OverlayError {
	return &OverlayError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with an OverlayError
func Wrap(err error, code ErrorCode, message string) *OverlayError {
	if err == nil {
		return nil
	}
	return &OverlayError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *OverlayError {
	if err == nil {
		return nil
	}
	return &OverlayError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *OverlayError) WithDetail(key string, value interface{}) *OverlayError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code anywhere in its chain
func IsErrorCode(err error, code ErrorCode) bool {
	for err != nil {
		var overlayErr *OverlayError
		if !errors.As(err, &overlayErr) {
			return false
		}
		if overlayErr.Code == code {
			return true
		}
		err = overlayErr.Wrapped
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not an OverlayError
func GetErrorCode(err error) ErrorCode {
	var overlayErr *OverlayError
	if errors.As(err, &overlayErr) {
		return overlayErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not an OverlayError
func GetErrorDetails(err error) map[string]interface{} {
	var overlayErr *OverlayError
	if errors.As(err, &overlayErr) {
		return overlayErr.Details
	}
	return nil
}

// IsAbort reports whether err ends the workflow cleanly (user quit or interrupt).
func IsAbort(err error) bool {
	return IsErrorCode(err, ErrUserQuit) || IsErrorCode(err, ErrInterrupted)
}

// IsNotExist reports whether err says a file or directory does not exist
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
