// Package azure provides the container-based artifact provider backed by
// Azure Blob Storage.
package azure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"sync"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"

	"github.com/packsync/packsync/domain/artifact"
	"github.com/packsync/packsync/domain/pack"
	"github.com/packsync/packsync/infrastructure/logging"
)

// sasTokenEnv names the environment variable consulted when no explicit
// access token is configured.
const sasTokenEnv = "AZURE_STORAGE_SAS_TOKEN"

// Config configures the Azure Blob Storage artifact provider.
type Config struct {
	// AccountURL is the storage account URL, e.g.
	// https://myaccount.blob.core.windows.net (required).
	AccountURL string

	// Container is the container holding pack artifacts (required).
	Container string

	// AccessToken is an optional SAS token. When empty it is resolved from
	// AZURE_STORAGE_SAS_TOKEN on first use; when that is also empty the
	// provider falls back to the default Azure credential chain.
	AccessToken string

	// RequireToken disables the default-credential fallback so a missing
	// SAS token fails fast as a configuration error.
	RequireToken bool
}

// Provider implements artifact.Provider against an Azure blob container.
type Provider struct {
	cfg Config

	initOnce sync.Once
	client   *azblob.Client
	initErr  error
}

// New creates an Azure artifact provider. Credentials are resolved lazily on
// first use.
func New(cfg Config) (*Provider, error) {
	if cfg.AccountURL == "" {
		return nil, errors.New("azure: storage account URL is required")
	}
	if cfg.Container == "" {
		return nil, errors.New("azure: container name is required")
	}
	return &Provider{cfg: cfg}, nil
}

// api returns the lazily initialized blob service client, resolving the
// access token on first use.
func (p *Provider) api() (*azblob.Client, error) {
	p.initOnce.Do(func() {
		token := p.cfg.AccessToken
		if token == "" {
			token = os.Getenv(sasTokenEnv)
		}

		switch {
		case token != "":
			serviceURL := p.cfg.AccountURL
			if !strings.Contains(serviceURL, "?") {
				serviceURL = serviceURL + "?" + strings.TrimPrefix(token, "?")
			}
			p.client, p.initErr = azblob.NewClientWithNoCredential(serviceURL, nil)
		case p.cfg.RequireToken:
			p.initErr = fmt.Errorf(
				"azure: %w: set %s or configure an access token",
				artifact.ErrMissingCredentials, sasTokenEnv,
			)
		default:
			cred, err := azidentity.NewDefaultAzureCredential(nil)
			if err != nil {
				p.initErr = fmt.Errorf("azure: default credential: %w", err)
				return
			}
			p.client, p.initErr = azblob.NewClient(p.cfg.AccountURL, cred, nil)
		}
	})
	return p.client, p.initErr
}

// TestConnection fetches the container properties as a minimal round trip.
func (p *Provider) TestConnection(ctx context.Context) error {
	client, err := p.api()
	if err != nil {
		return &artifact.ConnectionError{Reason: artifact.ReasonMissingCredentials, Err: err}
	}

	container := client.ServiceClient().NewContainerClient(p.cfg.Container)
	if _, err := container.GetProperties(ctx, nil); err != nil {
		return &artifact.ConnectionError{Reason: classify(err), Err: err}
	}
	return nil
}

func classify(err error) artifact.ConnectionReason {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return artifact.ReasonTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return artifact.ReasonTimeout
	}

	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		switch respErr.StatusCode {
		case 401:
			return artifact.ReasonMissingCredentials
		case 403:
			return artifact.ReasonPartialCredentials
		}
		return artifact.ReasonUnknown
	}

	msg := err.Error()
	if strings.Contains(msg, "no such host") || strings.Contains(msg, "connection refused") || strings.Contains(msg, "dial tcp") {
		return artifact.ReasonUnreachable
	}
	return artifact.ReasonUnknown
}

// IsAvailable reports whether the pack artifact exists in the container.
// Lookup failures of any kind collapse to false.
func (p *Provider) IsAvailable(ctx context.Context, packID, packVersion string) bool {
	client, err := p.api()
	if err != nil {
		return false
	}

	key := pack.Key(packID, packVersion)
	blob := client.ServiceClient().NewContainerClient(p.cfg.Container).NewBlobClient(key)
	if _, err := blob.GetProperties(ctx, nil); err != nil {
		if !isNotFound(err) {
			logging.Debug().
				Add(logging.Backend("azure")).
				Add(logging.PackID(packID)).
				Add(logging.PackVersion(packVersion)).
				Add(logging.ErrorField(err)).
				Msg("existence check failed, treating as absent")
		}
		return false
	}
	return true
}

func isNotFound(err error) bool {
	var respErr *azcore.ResponseError
	return errors.As(err, &respErr) && respErr.StatusCode == 404
}

// Download retrieves the whole pack artifact into memory.
func (p *Provider) Download(ctx context.Context, packID, packVersion string) ([]byte, error) {
	client, err := p.api()
	if err != nil {
		return nil, err
	}

	key := pack.Key(packID, packVersion)
	resp, err := client.DownloadStream(ctx, p.cfg.Container, key, nil)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("azure: %s: %w", key, artifact.ErrPackNotFound)
		}
		return nil, fmt.Errorf("azure: download %s: %w", key, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("azure: read %s: %w", key, err)
	}
	return data, nil
}

// LatestVersion lists blob names under the pack prefix and returns the
// maximum of the version path segments.
func (p *Provider) LatestVersion(ctx context.Context, packID string) (string, error) {
	client, err := p.api()
	if err != nil {
		return "", err
	}

	prefix := pack.Prefix(packID)

	seen := make(map[string]struct{})
	var versions []string

	pager := client.NewListBlobsFlatPager(p.cfg.Container, &azblob.ListBlobsFlatOptions{
		Prefix: &prefix,
	})
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return "", fmt.Errorf("azure: list %s: %w", prefix, err)
		}
		for _, item := range page.Segment.BlobItems {
			if item.Name == nil {
				continue
			}
			// content/packs/{id}/{version}/{id}.zip -> version is the
			// third path element
			parts := strings.Split(*item.Name, "/")
			if len(parts) <= 3 || parts[3] == "" {
				continue
			}
			if _, ok := seen[parts[3]]; ok {
				continue
			}
			seen[parts[3]] = struct{}{}
			versions = append(versions, parts[3])
		}
	}
	if len(versions) == 0 {
		return "", fmt.Errorf("azure: pack %s: %w", packID, artifact.ErrNoVersions)
	}
	return pack.MaxByVersion(versions)
}
