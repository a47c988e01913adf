// ABOUTME: Error taxonomy for provider calls
// ABOUTME: Distinguishes credential, transport, upstream, and payload failures
package llm

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredential means no API key is configured; fatal to the call, never retried
	ErrMissingCredential = errors.New("missing API credential")
	// ErrInvalidCredential means the configured key has the wrong shape
	ErrInvalidCredential = errors.New("invalid API credential format")
)

// TransportError wraps a network-level failure (DNS, connect, timeout)
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// UpstreamError carries an API-reported failure (non-2xx or error payload)
type UpstreamError struct {
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream error: %s", e.Message)
}

// MalformedResponseError means the provider returned an unexpected payload shape
type MalformedResponseError struct {
	Reason string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed provider response: %s", e.Reason)
}

// IsRecoverable reports whether a provider error is worth retrying or
// degrading around. Credential errors are configuration problems that fail
// every call the same way and are not recoverable.
func IsRecoverable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrMissingCredential) || errors.Is(err, ErrInvalidCredential) {
		return false
	}
	return true
}
