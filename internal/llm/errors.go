package llm

import (
	"errors"
	"fmt"
)

// ErrMissingCredentials is returned when a hosted provider is constructed
// without an API key in either configuration or environment.
var ErrMissingCredentials = errors.New("missing API credentials")

// ErrorKind classifies provider failures so callers can decide retry policy.
type ErrorKind string

const (
	// KindUnavailable covers connection refusal and request timeouts.
	KindUnavailable ErrorKind = "unavailable"
	// KindAuth covers authentication rejection.
	KindAuth ErrorKind = "auth"
	// KindRateLimit covers throttling responses.
	KindRateLimit ErrorKind = "rate_limit"
	// KindResponse covers non-2xx statuses, empty bodies and other
	// malformed provider replies.
	KindResponse ErrorKind = "response"
)

// ProviderError is a classified failure from a provider backend.
type ProviderError struct {
	Provider string
	Kind     ErrorKind
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s provider %s error: %v", e.Provider, e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Retryable reports whether resending the same request may succeed.
// Only transport-level failures and throttling qualify.
func (e *ProviderError) Retryable() bool {
	return e.Kind == KindUnavailable || e.Kind == KindRateLimit
}

func newProviderError(provider string, kind ErrorKind, err error) *ProviderError {
	return &ProviderError{Provider: provider, Kind: kind, Err: err}
}
