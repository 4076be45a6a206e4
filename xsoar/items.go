package xsoar

import (
	"archive/tar"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// itemEndpoint maps a supported item kind and id to its endpoint path. The
// item API is an intentionally closed enumeration.
func itemEndpoint(itemType, itemID, action string) (string, error) {
	if itemType != "playbook" {
		return "", ErrUnsupportedItemType
	}
	switch action {
	case "download":
		return fmt.Sprintf("/%s/%s/yaml", itemType, itemID), nil
	default:
		return fmt.Sprintf("/%s/%s/%s", itemType, action, itemID), nil
	}
}

// DownloadItem fetches the YAML definition of a supported item.
func (c *Client) DownloadItem(ctx context.Context, itemType, itemID string) ([]byte, error) {
	endpoint, err := itemEndpoint(itemType, itemID, "download")
	if err != nil {
		return nil, err
	}
	resp, err := c.do(ctx, http.MethodGet, endpoint, requestOptions{})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := requireSuccess(resp, endpoint); err != nil {
		return nil, err
	}
	return io.ReadAll(resp.Body)
}

// AttachItem attaches a supported item, detaching it from content updates.
func (c *Client) AttachItem(ctx context.Context, itemType, itemID string) error {
	endpoint, err := itemEndpoint(itemType, itemID, "attach")
	if err != nil {
		return err
	}
	return c.doJSON(ctx, http.MethodPost, endpoint, requestOptions{}, nil)
}

// DetachItem detaches a supported item so content updates apply again.
func (c *Client) DetachItem(ctx context.Context, itemType, itemID string) error {
	endpoint, err := itemEndpoint(itemType, itemID, "detach")
	if err != nil {
		return err
	}
	return c.doJSON(ctx, http.MethodPost, endpoint, requestOptions{}, nil)
}

// GetCase fetches a case by id through the incident search endpoint.
func (c *Client) GetCase(ctx context.Context, caseID int) (map[string]any, error) {
	payload := map[string]any{
		"filter": map[string]any{
			"query": fmt.Sprintf("id:%d", caseID),
		},
	}
	var out map[string]any
	if err := c.doJSON(ctx, http.MethodPost, "/incidents/search", requestOptions{body: payload}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCase creates a case from the given payload.
func (c *Client) CreateCase(ctx context.Context, data map[string]any) (map[string]any, error) {
	endpoint := c.endpoint("/incident", "/xsoar/public/v1/incident")
	var out map[string]any
	if err := c.doJSON(ctx, http.MethodPost, endpoint, requestOptions{body: data}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CustomContentBundle downloads the server's custom content bundle and
// returns its files keyed by name.
func (c *Client) CustomContentBundle(ctx context.Context) (map[string][]byte, error) {
	resp, err := c.do(ctx, http.MethodGet, "/content/bundle", requestOptions{})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := requireSuccess(resp, "/content/bundle"); err != nil {
		return nil, err
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read content bundle: %w", err)
	}

	files := make(map[string][]byte)
	tr := tar.NewReader(bytes.NewReader(raw))
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read content bundle: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		content, err := io.ReadAll(tr)
		if err != nil {
			return nil, fmt.Errorf("read content bundle: %w", err)
		}
		files[strings.TrimPrefix(hdr.Name, "/")] = content
	}
	return files, nil
}
