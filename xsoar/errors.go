package xsoar

import "errors"

// Client errors.
var (
	// ErrMissingCredentials indicates no API token and server URL pair could
	// be resolved from configuration or environment.
	ErrMissingCredentials = errors.New("both api token and server url are required")

	// ErrNoProvider indicates a custom-pack operation was requested but no
	// artifact provider is configured.
	ErrNoProvider = errors.New("no artifact provider configured")

	// ErrConnectionFailed indicates the platform health check failed.
	ErrConnectionFailed = errors.New("failed to connect to XSOAR server")

	// ErrDeployFailed indicates the platform rejected an uploaded pack.
	ErrDeployFailed = errors.New("pack deployment failed")

	// ErrUnsupportedItemType indicates an item operation on anything other
	// than a playbook.
	ErrUnsupportedItemType = errors.New(`unsupported item type, must be one of ["playbook"]`)

	// ErrUnexpectedStatus indicates a non-2xx platform or marketplace
	// response.
	ErrUnexpectedStatus = errors.New("unexpected response status")
)
