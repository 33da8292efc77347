package ai

import "errors"

// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("ai quota exceeded")

// ErrBlocked indicates the content tripped one of the configured safety thresholds.
var ErrBlocked = errors.New("ai content blocked by safety settings")

// ErrEmptyResponse indicates the provider answered without any text.
var ErrEmptyResponse = errors.New("empty response from AI")

// ErrMalformedResponse indicates the reply could not be read as an analysis.
var ErrMalformedResponse = errors.New("invalid JSON response from AI")
