package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
	// Context carries the values named in Message (marker, count, segment, path...)
	Context map[string]interface{}
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// With attaches a context value and returns the same error
func (e *AppError) With(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   err,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithCode adds an error code to an existing error
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    code,
			Message: appErr.Message,
			Cause:   appErr.Cause,
			Context: appErr.Context,
		}
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
		Cause:   err,
	}
}

// IsAppError checks if an error is or wraps an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// GetCode returns the code of the outermost AppError in the chain, otherwise "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// HasCode reports whether err carries the given code
func HasCode(err error, code string) bool {
	return GetCode(err) == code
}

// ContextValue returns a context value from the innermost AppError that has it
func ContextValue(err error, key string) (interface{}, bool) {
	for err != nil {
		if appErr, ok := err.(*AppError); ok && appErr.Context != nil {
			if v, ok := appErr.Context[key]; ok {
				return v, true
			}
		}
		err = stderrors.Unwrap(err)
	}
	return nil, false
}

// Predefined error codes
const (
	CodeConfigInvalid       = "CONFIG_INVALID"
	CodeDatabaseError       = "DATABASE_ERROR"
	CodeInternalError       = "INTERNAL_ERROR"
	CodeInvalidInput        = "INVALID_INPUT"
	CodeSourceNotFound      = "SOURCE_NOT_FOUND"
	CodeSheetNotFound       = "SHEET_NOT_FOUND"
	CodeUnreadableFormat    = "UNREADABLE_FORMAT"
	CodeInsufficientHeaders = "INSUFFICIENT_HEADERS"
	CodeEmptySegment        = "EMPTY_SEGMENT"
	CodeDataFileNotFound    = "DATA_FILE_NOT_FOUND"
	CodeMalformedData       = "MALFORMED_DATA"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func DatabaseError(message string, cause error) *AppError {
	return &AppError{Code: CodeDatabaseError, Message: message, Cause: cause}
}

func InternalError(message string, cause error) *AppError {
	return &AppError{Code: CodeInternalError, Message: message, Cause: cause}
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

func SourceNotFound(path string) *AppError {
	return New(CodeSourceNotFound, fmt.Sprintf("workbook not found: %s", path)).With("path", path)
}

func SheetNotFound(sheet string, available []string) *AppError {
	return New(CodeSheetNotFound, fmt.Sprintf("sheet %q not found (available: %v)", sheet, available)).
		With("sheet", sheet)
}

func UnreadableFormat(path string, cause error) *AppError {
	e := &AppError{Code: CodeUnreadableFormat, Message: fmt.Sprintf("cannot read %s as a workbook", path), Cause: cause}
	return e.With("path", path)
}

func InsufficientHeaders(marker string, found int) *AppError {
	return New(CodeInsufficientHeaders,
		fmt.Sprintf("could not find two header rows with marker '%s'; found %d header row(s)", marker, found)).
		With("marker", marker).
		With("found", found)
}

func EmptySegment(segment string) *AppError {
	return New(CodeEmptySegment, fmt.Sprintf("%s has no data rows after cleaning", segment)).
		With("segment", segment)
}

func DataFileNotFound(path string) *AppError {
	return New(CodeDataFileNotFound, fmt.Sprintf("data file not found: %s", path)).With("path", path)
}

func MalformedData(message string, cause error) *AppError {
	return &AppError{Code: CodeMalformedData, Message: message, Cause: cause}
}
