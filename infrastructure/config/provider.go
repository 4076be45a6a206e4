package config

import (
	"fmt"

	"github.com/packsync/packsync/domain/artifact"
	"github.com/packsync/packsync/infrastructure/storage/azure"
	"github.com/packsync/packsync/infrastructure/storage/s3"
)

// BuildProvider constructs the configured artifact storage backend, or nil
// when no backend is selected.
func (c *Config) BuildProvider() (artifact.Provider, error) {
	switch c.Artifacts.Backend {
	case BackendNone:
		return nil, nil
	case BackendS3:
		return s3.New(s3.Config{
			Bucket:          c.Artifacts.S3.Bucket,
			Region:          c.Artifacts.S3.Region,
			AccessKeyID:     c.Artifacts.S3.AccessKeyID,
			SecretAccessKey: c.Artifacts.S3.SecretAccessKey,
			Endpoint:        c.Artifacts.S3.Endpoint,
		})
	case BackendAzure:
		return azure.New(azure.Config{
			AccountURL:   c.Artifacts.Azure.AccountURL,
			Container:    c.Artifacts.Azure.Container,
			AccessToken:  c.Artifacts.Azure.AccessToken,
			RequireToken: !c.Artifacts.Azure.UseDefaultCredential,
		})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, c.Artifacts.Backend)
	}
}
