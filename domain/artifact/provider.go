// Package artifact defines the contract for custom-pack artifact storage.
// Implementations are in infrastructure/storage.
package artifact

import "context"

// Provider is a configured handle to one artifact storage location. Pack
// artifacts are addressed by pack.Key regardless of backend, so callers never
// depend on a concrete store.
//
// Instances are intended for single-owner use; underlying connections are
// established lazily on first use and cached for the provider's lifetime.
type Provider interface {
	// TestConnection performs a minimal round trip against the configured
	// location. Failures are reported as *ConnectionError.
	TestConnection(ctx context.Context) error

	// IsAvailable reports whether the pack artifact exists. Every lookup
	// failure, including transport errors, collapses to false: a transient
	// network blip is indistinguishable from genuine absence.
	IsAvailable(ctx context.Context, packID, packVersion string) bool

	// Download retrieves the whole pack artifact into memory. Returns
	// ErrPackNotFound when the artifact is absent.
	Download(ctx context.Context, packID, packVersion string) ([]byte, error)

	// LatestVersion lists the version directories stored under the pack's
	// prefix and returns the maximum. Returns ErrNoVersions when the store
	// holds no versions for the pack; callers must not mistake that for
	// "no update available".
	LatestVersion(ctx context.Context, packID string) (string, error)
}
