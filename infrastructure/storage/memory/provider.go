// Package memory provides an in-memory artifact provider. Useful for testing
// and local development.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/packsync/packsync/domain/artifact"
	"github.com/packsync/packsync/domain/pack"
)

// Provider is an in-memory implementation of artifact.Provider. Objects are
// stored under the same canonical keys as the real backends.
type Provider struct {
	mu      sync.RWMutex
	objects map[string][]byte

	// ConnectionErr, when set, is returned from TestConnection.
	ConnectionErr *artifact.ConnectionError
}

// New creates an empty in-memory provider.
func New() *Provider {
	return &Provider{objects: make(map[string][]byte)}
}

// Put stores a pack artifact under its canonical key.
func (p *Provider) Put(packID, packVersion string, data []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.objects[pack.Key(packID, packVersion)] = data
}

// TestConnection reports the configured connection error, if any.
func (p *Provider) TestConnection(ctx context.Context) error {
	if p.ConnectionErr != nil {
		return p.ConnectionErr
	}
	return nil
}

// IsAvailable reports whether the pack artifact was stored.
func (p *Provider) IsAvailable(ctx context.Context, packID, packVersion string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.objects[pack.Key(packID, packVersion)]
	return ok
}

// Download returns a copy of the stored artifact.
func (p *Provider) Download(ctx context.Context, packID, packVersion string) ([]byte, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	key := pack.Key(packID, packVersion)
	data, ok := p.objects[key]
	if !ok {
		return nil, fmt.Errorf("memory: %s: %w", key, artifact.ErrPackNotFound)
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// LatestVersion returns the maximum version stored for the pack.
func (p *Provider) LatestVersion(ctx context.Context, packID string) (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	prefix := pack.Prefix(packID)
	var versions []string
	for key := range p.objects {
		if len(key) <= len(prefix) || key[:len(prefix)] != prefix {
			continue
		}
		rest := key[len(prefix):]
		for i := 0; i < len(rest); i++ {
			if rest[i] == '/' {
				versions = append(versions, rest[:i])
				break
			}
		}
	}
	if len(versions) == 0 {
		return "", fmt.Errorf("memory: pack %s: %w", packID, artifact.ErrNoVersions)
	}
	return pack.MaxByVersion(versions)
}
