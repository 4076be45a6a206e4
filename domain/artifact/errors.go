package artifact

import (
	"errors"
	"fmt"
)

// Domain errors for artifact storage.
var (
	// ErrPackNotFound indicates the requested pack artifact does not exist.
	ErrPackNotFound = errors.New("pack artifact not found")

	// ErrNoVersions indicates the store holds no versions for a pack.
	ErrNoVersions = errors.New("no versions found for pack")

	// ErrMissingCredentials indicates no credentials could be resolved.
	ErrMissingCredentials = errors.New("missing storage credentials")
)

// ConnectionReason classifies why a connection test failed.
type ConnectionReason string

// Connection failure reasons. Callers may treat all of them as fatal; the
// distinction exists for diagnostics.
const (
	ReasonMissingCredentials ConnectionReason = "missing credentials"
	ReasonPartialCredentials ConnectionReason = "incomplete credentials"
	ReasonUnreachable        ConnectionReason = "endpoint unreachable"
	ReasonTimeout            ConnectionReason = "timeout"
	ReasonUnknown            ConnectionReason = "unknown"
)

// ConnectionError reports a failed connection test against a storage
// location.
type ConnectionError struct {
	Reason ConnectionReason
	Err    error
}

// Error implements the error interface.
func (e *ConnectionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("storage connection failed (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("storage connection failed (%s)", e.Reason)
}

// Unwrap returns the underlying error.
func (e *ConnectionError) Unwrap() error {
	return e.Err
}
