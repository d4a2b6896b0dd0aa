// Package errors provides coded errors shared by the fontnode CLI and the
// node host.
//
// A [Code] is stable and machine-readable; the node host returns it in error
// bodies and maps it to an HTTP status. Codes group by prefix:
//
//   - INVALID_*, OUT_OF_RANGE: a node parameter was rejected
//   - *NOT_FOUND: unknown node or resource
//   - NETWORK_ERROR, TIMEOUT, RATE_LIMITED: the fonts API could not be reached
//   - RENDER_FAILED: the browser could not produce a bitmap
//   - INTERNAL_ERROR: anything else
//
// Parameter errors carry the offending parameter in [Error.Field]:
//
//	err := errors.New(errors.ErrCodeInvalidWeight, "unknown font weight: %q", w).WithField("font_weight")
//	if errors.IsValidation(err) {
//	    // 400
//	}
package errors

import (
	"errors"
	"fmt"
)

type Code string

const (
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidFamily    Code = "INVALID_FAMILY"
	ErrCodeInvalidWeight    Code = "INVALID_WEIGHT"
	ErrCodeInvalidStyle     Code = "INVALID_STYLE"
	ErrCodeInvalidAlign     Code = "INVALID_ALIGN"
	ErrCodeInvalidTransform Code = "INVALID_TRANSFORM"
	ErrCodeInvalidGeometry  Code = "INVALID_GEOMETRY"
	ErrCodeInvalidColor     Code = "INVALID_COLOR"
	ErrCodeOutOfRange       Code = "OUT_OF_RANGE"

	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeNodeNotFound Code = "NODE_NOT_FOUND"

	ErrCodeNetwork     Code = "NETWORK_ERROR"
	ErrCodeTimeout     Code = "TIMEOUT"
	ErrCodeRateLimited Code = "RATE_LIMITED"

	ErrCodeRender   Code = "RENDER_FAILED"
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Validation reports whether c rejects a caller-supplied parameter.
func (c Code) Validation() bool {
	switch c {
	case ErrCodeInvalidInput, ErrCodeInvalidFamily, ErrCodeInvalidWeight,
		ErrCodeInvalidStyle, ErrCodeInvalidAlign, ErrCodeInvalidTransform,
		ErrCodeInvalidGeometry, ErrCodeInvalidColor, ErrCodeOutOfRange:
		return true
	}
	return false
}

// Coder is implemented by error types that are not an [*Error] but still
// map to a code, such as [*RateLimitedError].
type Coder interface {
	Code() Code
}

// Error is a coded error with an optional parameter name and cause.
type Error struct {
	Code    Code
	Message string
	Field   string // node parameter at fault, if any
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// WithField records the parameter that caused e and returns e.
func (e *Error) WithField(field string) *Error {
	e.Field = field
	return e
}

func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether the outermost coded error in err's chain has code.
func Is(err error, code Code) bool {
	return code != "" && GetCode(err) == code
}

// GetCode returns the code of the outermost [*Error] in err's chain, or of
// a [Coder] when there is none. It returns "" for uncoded errors.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var c Coder
	if errors.As(err, &c) {
		return c.Code()
	}
	return ""
}

// GetField returns the parameter recorded on the outermost [*Error], if any.
func GetField(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Field
	}
	return ""
}

func IsValidation(err error) bool {
	return GetCode(err).Validation()
}

// UserMessage strips the code prefix from coded errors.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// RateLimitedError reports a 429 from the fonts API.
type RateLimitedError struct {
	RetryAfter int // seconds; zero when the server gave no hint
}

func (e *RateLimitedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited: retry after %d seconds", e.RetryAfter)
	}
	return "rate limited"
}

func (e *RateLimitedError) Code() Code { return ErrCodeRateLimited }
