// Package config provides configuration loading and parsing for packsync.
package config

import (
	"errors"
	"fmt"
)

// Backend names for the artifacts store selection.
const (
	BackendS3    = "s3"
	BackendAzure = "azure"
	BackendNone  = ""
)

// ErrUnknownBackend indicates an unsupported artifacts backend name.
var ErrUnknownBackend = errors.New("unknown artifacts backend")

// Config is the top-level packsync configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Artifacts ArtifactsConfig `yaml:"artifacts"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig describes the XSOAR server connection.
type ServerConfig struct {
	// URL is the platform base URL. Empty falls back to DEMISTO_BASE_URL.
	URL string `yaml:"url"`

	// APIToken authenticates requests. Empty falls back to DEMISTO_API_KEY.
	APIToken string `yaml:"api_token"`

	// TenantAuthID is the optional tenant auth id for multi-tenant servers.
	TenantAuthID string `yaml:"tenant_auth_id"`

	// Version is the platform major version (6 or 8 in practice).
	Version int `yaml:"version"`

	// InsecureSkipVerify disables TLS certificate verification.
	InsecureSkipVerify bool `yaml:"insecure_skip_verify"`

	// CustomPackAuthors lists authors whose packs live in the artifact
	// store.
	CustomPackAuthors []string `yaml:"custom_pack_authors"`
}

// ArtifactsConfig selects and configures the artifact storage backend.
type ArtifactsConfig struct {
	// Backend is "s3", "azure", or empty for no custom-pack support.
	Backend string `yaml:"backend"`

	S3    S3Config    `yaml:"s3"`
	Azure AzureConfig `yaml:"azure"`
}

// S3Config configures the bucket-based backend.
type S3Config struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	Endpoint        string `yaml:"endpoint"`
}

// AzureConfig configures the container-based backend.
type AzureConfig struct {
	AccountURL  string `yaml:"account_url"`
	Container   string `yaml:"container"`
	AccessToken string `yaml:"access_token"`

	// UseDefaultCredential opts into the ambient Azure credential chain
	// when no SAS token is configured. Without it a missing token is a
	// configuration error.
	UseDefaultCredential bool `yaml:"use_default_credential"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Validate checks the configuration for structural problems. Credential
// presence is checked by the client after environment fallback.
func (c *Config) Validate() error {
	switch c.Artifacts.Backend {
	case BackendNone:
	case BackendS3:
		if c.Artifacts.S3.Bucket == "" {
			return errors.New("artifacts.s3.bucket is required for the s3 backend")
		}
	case BackendAzure:
		if c.Artifacts.Azure.AccountURL == "" {
			return errors.New("artifacts.azure.account_url is required for the azure backend")
		}
		if c.Artifacts.Azure.Container == "" {
			return errors.New("artifacts.azure.container is required for the azure backend")
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Artifacts.Backend)
	}
	if c.Server.Version < 0 {
		return errors.New("server.version must not be negative")
	}
	return nil
}
