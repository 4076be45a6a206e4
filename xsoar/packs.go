package xsoar

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"

	"github.com/packsync/packsync/domain/pack"
	"github.com/packsync/packsync/infrastructure/logging"
)

// InstalledPacks fetches the complete list of installed packs. The first
// successful fetch is cached for the client's lifetime.
func (c *Client) InstalledPacks(ctx context.Context) ([]pack.Installed, error) {
	if c.installedFetched {
		return c.installed, nil
	}

	endpoint := c.endpoint(
		"/contentpacks/metadata/installed",
		"/xsoar/public/v1/contentpacks/metadata/installed",
	)
	var packs []pack.Installed
	if err := c.doJSON(ctx, http.MethodGet, endpoint, requestOptions{}, &packs); err != nil {
		return nil, err
	}
	c.installed = packs
	c.installedFetched = true
	return c.installed, nil
}

// InstalledExpiredPacks fetches the installed packs whose install predates
// the platform's staleness window. Cached like InstalledPacks.
func (c *Client) InstalledExpiredPacks(ctx context.Context) ([]pack.Installed, error) {
	if c.installedExpiredFetched {
		return c.installedExpired, nil
	}

	endpoint := c.endpoint(
		"/contentpacks/installed-expired",
		"/xsoar/contentpacks/installed-expired",
	)
	var packs []pack.Installed
	if err := c.doJSON(ctx, http.MethodGet, endpoint, requestOptions{}, &packs); err != nil {
		return nil, err
	}
	c.installedExpired = packs
	c.installedExpiredFetched = true
	return c.installedExpired, nil
}

// IsInstalled reports whether a pack is installed, optionally at an exact
// version (empty version matches any).
func (c *Client) IsInstalled(ctx context.Context, packID, packVersion string) (bool, error) {
	installed, err := c.InstalledPacks(ctx)
	if err != nil {
		return false, err
	}
	for _, p := range installed {
		if p.ID != packID {
			continue
		}
		if packVersion == "" || p.CurrentVersion == packVersion {
			return true, nil
		}
	}
	return false, nil
}

// marketplacePackURL builds the public marketplace URL for a pack artifact.
func (c *Client) marketplacePackURL(packID, packVersion string) string {
	return c.marketplaceURL + "/" + pack.Key(packID, packVersion)
}

// IsPackAvailable reports whether a pack version can be fetched: from the
// artifact provider for custom packs, or via an anonymous HEAD against the
// upstream marketplace otherwise.
func (c *Client) IsPackAvailable(ctx context.Context, packID, packVersion string, custom bool) (bool, error) {
	if custom {
		if c.provider == nil {
			return false, ErrNoProvider
		}
		return c.provider.IsAvailable(ctx, packID, packVersion), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.marketplacePackURL(packID, packVersion), nil)
	if err != nil {
		return false, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("marketplace probe: %w", err)
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK, nil
}

// DownloadPack retrieves a pack's bytes from the artifact provider (custom)
// or the upstream marketplace.
func (c *Client) DownloadPack(ctx context.Context, packID, packVersion string, custom bool) ([]byte, error) {
	if custom {
		if c.provider == nil {
			return nil, ErrNoProvider
		}
		return c.provider.Download(ctx, packID, packVersion)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.marketplacePackURL(packID, packVersion), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("marketplace download: %w", err)
	}
	defer resp.Body.Close()

	if err := requireSuccess(resp, c.marketplacePackURL(packID, packVersion)); err != nil {
		return nil, err
	}
	return io.ReadAll(resp.Body)
}

// LatestCustomPackVersion returns the newest version of a pack in the
// artifact store.
func (c *Client) LatestCustomPackVersion(ctx context.Context, packID string) (string, error) {
	if c.provider == nil {
		return "", ErrNoProvider
	}
	return c.provider.LatestVersion(ctx, packID)
}

// DeployZip uploads a staged pack zip through the platform's installation
// entry point with the given validation flags.
func (c *Client) DeployZip(ctx context.Context, path string, skipValidation, skipVerify bool) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open pack zip: %w", err)
	}
	defer f.Close()

	query := url.Values{}
	query.Set("skip_validation", boolString(skipValidation))
	query.Set("skip_verify", boolString(skipVerify))

	endpoint := c.endpoint(
		"/contentpacks/installed/upload",
		"/xsoar/contentpacks/installed/upload",
	)
	err = c.doJSON(ctx, http.MethodPost, endpoint, requestOptions{
		query: query,
		file: &fileUpload{
			field:    "file",
			filename: "pack.zip",
			content:  f,
		},
	}, nil)
	if err != nil {
		logging.Error().
			Add(logging.Str("file", path)).
			Add(logging.ErrorField(err)).
			Msg("pack upload rejected")
		return fmt.Errorf("%w: %v", ErrDeployFailed, err)
	}
	return nil
}

// DeployPack downloads a pack, stages it to a temporary file, and installs it
// through the platform. Custom packs come from the operator's own store and
// skip the platform's validation and signature checks; upstream packs get the
// platform's normal checks. The staging file is removed on every exit path.
func (c *Client) DeployPack(ctx context.Context, packID, packVersion string, custom bool) error {
	data, err := c.DownloadPack(ctx, packID, packVersion, custom)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp("", "packsync-*.zip")
	if err != nil {
		return fmt.Errorf("stage pack: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("stage pack: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("stage pack: %w", err)
	}

	skip := custom // trusted private artifacts skip platform checks
	if err := c.DeployZip(ctx, tmp.Name(), skip, skip); err != nil {
		return err
	}

	logging.Info().
		Add(logging.PackID(packID)).
		Add(logging.PackVersion(packVersion)).
		Msg("pack deployed")
	return nil
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// encodeMultipart builds a multipart body for a single file upload.
func encodeMultipart(file *fileUpload) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(file.field, file.filename)
	if err != nil {
		return nil, "", fmt.Errorf("encode upload: %w", err)
	}
	if _, err := io.Copy(part, file.content); err != nil {
		return nil, "", fmt.Errorf("encode upload: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("encode upload: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
