package analysis

import "errors"

// ErrIdeaInvalid is the message-bearing sentinel behind every ValidationError.
var ErrIdeaInvalid = errors.New("startup idea is invalid")

const ideaRequirement = "Startup idea is required and must be a non-empty string with at least 10 characters."

// ValidationError rejects a request before any generator is contacted.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrIdeaInvalid }

// ConfigurationError reports that the live generator could not be built.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string { return "ai service misconfigured: " + e.Reason }

// UpstreamError wraps a failed generation or an unusable reply.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string { return e.Err.Error() }

func (e *UpstreamError) Unwrap() error { return e.Err }
