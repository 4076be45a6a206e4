// Package xsoar provides a client for the XSOAR automation platform: content
// pack inventory, reconciliation against an artifact store or the upstream
// marketplace, and pack deployment.
package xsoar

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/packsync/packsync/domain/artifact"
	"github.com/packsync/packsync/domain/pack"
	"github.com/packsync/packsync/infrastructure/logging"
)

const (
	// serverVersionOld is the platform major version at or below which the
	// older API endpoint family is used.
	serverVersionOld = 6

	// httpTimeout is the fixed timeout applied to every platform call.
	httpTimeout = 10 * time.Second

	// defaultMarketplaceURL is the public upstream marketplace.
	defaultMarketplaceURL = "https://marketplace.xsoar.paloaltonetworks.com"
)

// Environment variables consulted when explicit credentials are absent.
const (
	envAPIKey       = "DEMISTO_API_KEY"
	envBaseURL      = "DEMISTO_BASE_URL"
	envTenantAuthID = "XSIAM_AUTH_ID"
)

// Config configures a Client.
type Config struct {
	// ServerURL is the platform base URL. Falls back to DEMISTO_BASE_URL.
	ServerURL string

	// APIToken authenticates every request. Falls back to DEMISTO_API_KEY.
	APIToken string

	// TenantAuthID is the optional tenant auth id sent as x-xdr-auth-id.
	// Falls back to XSIAM_AUTH_ID.
	TenantAuthID string

	// ServerVersion is the platform major version; values above 6 select
	// the newer API endpoint family.
	ServerVersion int

	// InsecureSkipVerify disables TLS certificate verification.
	InsecureSkipVerify bool

	// CustomPackAuthors lists authors whose packs are versioned by the
	// artifact store rather than the platform.
	CustomPackAuthors []string

	// Provider is the optional artifact store for custom packs.
	Provider artifact.Provider

	// MarketplaceURL overrides the upstream marketplace base URL.
	MarketplaceURL string
}

// Client talks to one XSOAR server. Instances are intended for single-owner
// use: the installed-pack caches are unsynchronized and populated at most
// once per instance.
type Client struct {
	serverURL     string
	apiToken      string
	tenantAuthID  string
	serverVersion int

	customAuthors  map[string]struct{}
	provider       artifact.Provider
	marketplaceURL string

	httpClient *http.Client

	installed               []pack.Installed
	installedFetched        bool
	installedExpired        []pack.Installed
	installedExpiredFetched bool
}

// New creates a Client, resolving credentials from the environment when not
// given explicitly. Both token and URL must be present before any network
// use.
func New(cfg Config) (*Client, error) {
	serverURL := cfg.ServerURL
	apiToken := cfg.APIToken
	tenantAuthID := cfg.TenantAuthID
	if apiToken == "" {
		apiToken = os.Getenv(envAPIKey)
	}
	if serverURL == "" {
		serverURL = os.Getenv(envBaseURL)
	}
	if tenantAuthID == "" {
		tenantAuthID = os.Getenv(envTenantAuthID)
	}
	if apiToken == "" || serverURL == "" {
		return nil, ErrMissingCredentials
	}

	marketplaceURL := cfg.MarketplaceURL
	if marketplaceURL == "" {
		marketplaceURL = defaultMarketplaceURL
	}

	authors := make(map[string]struct{}, len(cfg.CustomPackAuthors))
	for _, a := range cfg.CustomPackAuthors {
		authors[a] = struct{}{}
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: cfg.InsecureSkipVerify}

	return &Client{
		serverURL:      serverURL,
		apiToken:       apiToken,
		tenantAuthID:   tenantAuthID,
		serverVersion:  cfg.ServerVersion,
		customAuthors:  authors,
		provider:       cfg.Provider,
		marketplaceURL: marketplaceURL,
		httpClient: &http.Client{
			Timeout:   httpTimeout,
			Transport: transport,
		},
	}, nil
}

// endpoint selects the endpoint path for the configured API family.
func (c *Client) endpoint(old, newer string) string {
	if c.serverVersion > serverVersionOld {
		return newer
	}
	return old
}

// requestOptions carries the optional parts of a platform request.
type requestOptions struct {
	// body is JSON-encoded into the request when non-nil.
	body any

	// file, when set, turns the request into a multipart upload.
	file *fileUpload

	// query is appended to the endpoint.
	query url.Values
}

type fileUpload struct {
	field    string
	filename string
	content  io.Reader
}

// do is the sole network primitive: it attaches the authorization header,
// the tenant header when configured, and the fixed timeout and TLS policy.
func (c *Client) do(ctx context.Context, method, endpoint string, opts requestOptions) (*http.Response, error) {
	reqURL := c.serverURL + endpoint
	if len(opts.query) > 0 {
		reqURL += "?" + opts.query.Encode()
	}

	var body io.Reader
	contentType := "application/json"

	switch {
	case opts.file != nil:
		buf, ct, err := encodeMultipart(opts.file)
		if err != nil {
			return nil, err
		}
		body = buf
		contentType = ct
	case opts.body != nil:
		data, err := json.Marshal(opts.body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", c.apiToken)
	if c.tenantAuthID != "" {
		req.Header.Set("x-xdr-auth-id", c.tenantAuthID)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	logging.Debug().
		Add(logging.Endpoint(endpoint)).
		Add(logging.Status(resp.StatusCode)).
		Add(logging.Duration(time.Since(start))).
		Msg("platform request")
	return resp, nil
}

// doJSON performs a request, requires a 2xx status, and decodes the response
// body into out when out is non-nil.
func (c *Client) doJSON(ctx context.Context, method, endpoint string, opts requestOptions, out any) error {
	resp, err := c.do(ctx, method, endpoint, opts)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := requireSuccess(resp, endpoint); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response from %s: %w", endpoint, err)
	}
	return nil
}

func requireSuccess(resp *http.Response, endpoint string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return fmt.Errorf("%w: %s returned %d", ErrUnexpectedStatus, endpoint, resp.StatusCode)
}

// TestConnectivity calls the platform health endpoint.
func (c *Client) TestConnectivity(ctx context.Context) error {
	endpoint := c.endpoint("/health", "/xsoar/health")
	resp, err := c.do(ctx, http.MethodGet, endpoint, requestOptions{})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}
	defer resp.Body.Close()

	if err := requireSuccess(resp, endpoint); err != nil {
		return fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}
	return nil
}
