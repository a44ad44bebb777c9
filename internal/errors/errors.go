package errors

import "fmt"

// Kind categorizes engine failures.
type Kind string

const (
	// KindDecode marks an unusable pixel buffer (nil, empty, or with a data
	// length that disagrees with its declared dimensions). It is the only
	// kind that is fatal to a whole analysis call.
	KindDecode Kind = "decode"

	// KindCapabilityUnavailable marks a detector whose optional native
	// capability (FFT, keypoint matcher, re-encoder) was not injected.
	KindCapabilityUnavailable Kind = "capability_unavailable"

	// KindTimeout marks a detector that exceeded its soft time budget.
	KindTimeout Kind = "timeout"

	// KindInternal marks unexpected failures (recovered panics and the like).
	KindInternal Kind = "internal"
)

// EngineError is the structured error type used throughout the engine.
type EngineError struct {
	Kind    Kind
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error.
func (e *EngineError) Unwrap() error {
	return e.Cause
}

// NewDecodeError creates an error for an unusable pixel buffer.
func NewDecodeError(message string, cause error) *EngineError {
	return &EngineError{Kind: KindDecode, Message: message, Cause: cause}
}

// NewCapabilityError creates an error for a missing optional capability.
func NewCapabilityError(message string) *EngineError {
	return &EngineError{Kind: KindCapabilityUnavailable, Message: message}
}

// NewTimeoutError creates an error for an exceeded detector time budget.
func NewTimeoutError(message string, cause error) *EngineError {
	return &EngineError{Kind: KindTimeout, Message: message, Cause: cause}
}

// NewInternalError creates an error for an unexpected internal failure.
func NewInternalError(message string, cause error) *EngineError {
	return &EngineError{Kind: KindInternal, Message: message, Cause: cause}
}

// IsKind checks whether err is an *EngineError of the given kind.
func IsKind(err error, kind Kind) bool {
	if engErr, ok := err.(*EngineError); ok {
		return engErr.Kind == kind
	}
	return false
}
