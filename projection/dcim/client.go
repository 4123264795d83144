// Package dcim implements the §6 DCIM field mapping as a projection target:
// a pure Func translating ComputeResource and Network/Interface events into
// effects, and an Executor that performs the idempotent HTTP calls those
// effects describe against a NetBox-shaped REST API. No ecosystem REST
// client library appears anywhere in the retrieved corpus for outbound
// calls, so this layer is built directly on net/http.
package dcim

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
)

// APIError wraps a non-2xx HTTP response. 4xx responses are permanent —
// retrying the same request will fail the same way. 5xx are retryable.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("dcim: http %d: %s", e.StatusCode, e.Body)
}

// Retryable reports whether the caller should back off and try again rather
// than treat this as a terminal failure.
func (e *APIError) Retryable() bool {
	return e.StatusCode >= 500
}

// Client is a thin, idempotency-aware wrapper over a NetBox-shaped DCIM/IPAM
// REST API, authenticated by a static API token.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: baseURL, token: token, http: httpClient}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (map[string]any, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "dcim: encode request body")
		}
		reader = bytes.NewReader(encoded)
	}

	full := c.baseURL + path
	if len(query) > 0 {
		full += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, full, reader)
	if err != nil {
		return nil, errors.Wrap(err, "dcim: build request")
	}
	req.Header.Set("Authorization", "Token "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "dcim: perform request")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "dcim: read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	if len(raw) == 0 {
		return nil, nil
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, errors.Wrap(err, "dcim: decode response body")
	}
	return decoded, nil
}

// findOneByFilter queries a listing endpoint filtered by a single field and
// returns the first match, or found=false if the listing was empty. NetBox
// and compatible APIs wrap results in {"count", "results": [...]}.
func (c *Client) findOneByFilter(ctx context.Context, path, field, value string) (map[string]any, bool, error) {
	return c.findOneByFilters(ctx, path, url.Values{field: {value}})
}

// findOneByFilters is the multi-field form, used for natural keys composed
// of more than one field (e.g. interfaces, keyed by (device_id, name)).
func (c *Client) findOneByFilters(ctx context.Context, path string, query url.Values) (map[string]any, bool, error) {
	decoded, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, false, err
	}
	results, _ := decoded["results"].([]any)
	if len(results) == 0 {
		return nil, false, nil
	}
	first, _ := results[0].(map[string]any)
	return first, first != nil, nil
}

func (c *Client) create(ctx context.Context, path string, body map[string]any) (map[string]any, error) {
	return c.do(ctx, http.MethodPost, path, nil, body)
}

func (c *Client) update(ctx context.Context, path, id string, body map[string]any) (map[string]any, error) {
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("%s%s/", path, id), nil, body)
}

// getOrCreate looks an object up by a natural-key field and creates it from
// body if absent, implementing §4.8's "query by natural key, no-op on
// match, auto-create dependent resources" contract.
func (c *Client) getOrCreate(ctx context.Context, path, keyField, keyValue string, body map[string]any) (map[string]any, error) {
	existing, found, err := c.findOneByFilter(ctx, path, keyField, keyValue)
	if err != nil {
		return nil, err
	}
	if found {
		return existing, nil
	}
	return c.create(ctx, path, body)
}

// getOrCreateByFilters is the multi-field form of getOrCreate, for natural
// keys composed of more than one field.
func (c *Client) getOrCreateByFilters(ctx context.Context, path string, query url.Values, body map[string]any) (map[string]any, error) {
	existing, found, err := c.findOneByFilters(ctx, path, query)
	if err != nil {
		return nil, err
	}
	if found {
		return existing, nil
	}
	return c.create(ctx, path, body)
}

func idOf(obj map[string]any) string {
	switch v := obj["id"].(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%d", int64(v))
	default:
		return ""
	}
}
