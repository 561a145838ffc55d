// Package errors defines the error taxonomy shared by all estimators.
//
// Error types mirror the exception classes users know from scikit-learn
// (NotFittedError, ValueError, ...) while staying idiomatic Go: every type
// supports errors.Is / errors.As through wrapping, and the cockroachdb/errors
// backend records stack traces for %+v formatting.
//
// Two kinds matter for method delegation:
//
//   - NotFittedError: the capability exists but Fit has not been called yet.
//   - AttributeError: the capability is not available on this estimator at
//     all, so presence probes must report it absent.
package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Sentinel errors for errors.Is checks across the library.
var (
	// ErrNotFitted indicates an operation that requires a trained model.
	ErrNotFitted = errors.New("model is not fitted")

	// ErrEmptyData indicates an empty input matrix or vector.
	ErrEmptyData = errors.New("empty data")

	// ErrNotImplemented indicates a feature that is not implemented.
	ErrNotImplemented = errors.New("not implemented")

	// ErrDimensionMismatch indicates incompatible input dimensions.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrInvalidInput indicates input that failed validation.
	ErrInvalidInput = errors.New("invalid input")
)

// New returns an error with the supplied message and a captured stack trace.
func New(msg string) error {
	return errors.New(msg)
}

// Wrap annotates err with msg, preserving the original error for
// errors.Is / errors.As.
func Wrap(err error, msg string) error {
	return errors.Wrap(err, msg)
}

// Wrapf annotates err with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// NotFittedError is returned when a method that requires a trained model is
// called before Fit.
type NotFittedError struct {
	ModelName string // Name of the estimator type
	Method    string // Method that was called
}

// NewNotFittedError creates a NotFittedError for the given estimator and method.
func NewNotFittedError(modelName, method string) error {
	return &NotFittedError{ModelName: modelName, Method: method}
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("goml: %s.%s: %v, call Fit first", e.ModelName, e.Method, ErrNotFitted)
}

// Unwrap lets errors.Is(err, ErrNotFitted) succeed.
func (e *NotFittedError) Unwrap() error {
	return ErrNotFitted
}

// AttributeError is returned when a conditionally exposed method is not
// available on an estimator. Delegating metaestimators translate this into
// "the capability is absent", the same way Python's hasattr treats a raised
// AttributeError.
type AttributeError struct {
	ModelName string // Name of the estimator type
	Method    string // Method that is unavailable
}

// NewAttributeError creates an AttributeError for the given estimator and method.
func NewAttributeError(modelName, method string) error {
	return &AttributeError{ModelName: modelName, Method: method}
}

func (e *AttributeError) Error() string {
	return fmt.Sprintf("goml: %s has no attribute %q", e.ModelName, e.Method)
}

// ValueError is returned when an argument has an invalid value.
type ValueError struct {
	Op      string // Operation that rejected the value
	Message string // Why the value was rejected
}

// NewValueError creates a ValueError for the given operation.
func NewValueError(op, message string) error {
	return &ValueError{Op: op, Message: message}
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("goml: %s: %s", e.Op, e.Message)
}

// Unwrap lets errors.Is(err, ErrInvalidInput) succeed.
func (e *ValueError) Unwrap() error {
	return ErrInvalidInput
}

// DimensionError is returned when input dimensions do not match what the
// estimator expects.
type DimensionError struct {
	Op       string // Operation that detected the mismatch
	Expected int    // Expected size
	Got      int    // Actual size
	Axis     int    // Axis on which the mismatch occurred (0 = rows, 1 = columns)
}

// NewDimensionError creates a DimensionError for the given operation.
func NewDimensionError(op string, expected, got, axis int) error {
	return &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("goml: %s: dimension mismatch on axis %d: expected %d, got %d",
		e.Op, e.Axis, e.Expected, e.Got)
}

// Unwrap lets errors.Is(err, ErrDimensionMismatch) succeed.
func (e *DimensionError) Unwrap() error {
	return ErrDimensionMismatch
}

// ValidationError is returned when a named input fails validation.
type ValidationError struct {
	Field   string      // Name of the offending field or argument
	Message string      // Why validation failed
	Value   interface{} // The offending value
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string, value interface{}) error {
	return &ValidationError{Field: field, Message: message, Value: value}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("goml: validation failed for %s: %s (got %v)", e.Field, e.Message, e.Value)
}

// Unwrap lets errors.Is(err, ErrInvalidInput) succeed.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// ModelError wraps a lower-level error with the operation and a message.
type ModelError struct {
	Op      string // Operation that failed, e.g. "StandardScaler.Fit"
	Message string // Human-readable description
	Err     error  // Underlying cause
}

// NewModelError creates a ModelError wrapping err.
func NewModelError(op, message string, err error) error {
	return &ModelError{Op: op, Message: message, Err: err}
}

func (e *ModelError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("goml: %s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("goml: %s: %s: %v", e.Op, e.Message, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ModelError) Unwrap() error {
	return e.Err
}

// Recover converts a panic in op into an error assigned to *errp.
// Use as: defer errors.Recover(&err, "StandardScaler.Fit")
func Recover(errp *error, op string) {
	if r := recover(); r != nil {
		if err, ok := r.(error); ok {
			*errp = NewModelError(op, "panic recovered", err)
			return
		}
		*errp = NewModelError(op, fmt.Sprintf("panic recovered: %v", r), nil)
	}
}
