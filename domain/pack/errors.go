package pack

import "errors"

// Domain errors for pack versioning.
var (
	// ErrMalformedVersion indicates a version string could not be parsed.
	ErrMalformedVersion = errors.New("malformed version string")

	// ErrEmptyVersionList indicates an operation requires at least one version.
	ErrEmptyVersionList = errors.New("empty version list")
)
