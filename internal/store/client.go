package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/edvin/partners/internal/metrics"
	"github.com/edvin/partners/internal/model"
)

// Client talks to the remote partner collection. Item URLs are the collection
// endpoint with the id appended verbatim (no slash is inserted).
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient returns a client for endpoint. A zero timeout leaves requests
// bounded only by their context.
func NewClient(endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// NewClientWithHTTP lets callers supply their own transport.
func NewClientWithHTTP(endpoint string, hc *http.Client) *Client {
	return &Client{endpoint: endpoint, httpClient: hc}
}

// Endpoint returns the collection URL.
func (c *Client) Endpoint() string { return c.endpoint }

// ItemURL returns the URL of a single record.
func (c *Client) ItemURL(id string) string { return c.endpoint + id }

// StatusError is returned when the store answers with a non-2xx status.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("partner store %s %s: status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("partner store %s %s: status %d", e.Method, e.URL, e.StatusCode)
}

// List returns every record in the collection, in the order the store sends them.
func (c *Client) List(ctx context.Context) (_ []model.Partner, err error) {
	defer observe("list", time.Now(), &err)

	var partners []model.Partner
	if err := c.do(ctx, http.MethodGet, c.endpoint, nil, &partners); err != nil {
		return nil, err
	}
	if partners == nil {
		partners = []model.Partner{}
	}
	return partners, nil
}

// Create posts a new record and returns the store's echo of it, including any
// server-assigned fields.
func (c *Client) Create(ctx context.Context, input model.PartnerInput) (_ model.Partner, err error) {
	defer observe("create", time.Now(), &err)

	var created model.Partner
	if err := c.do(ctx, http.MethodPost, c.endpoint, input, &created); err != nil {
		return model.Partner{}, err
	}
	return created, nil
}

// Update replaces the record stored under id. The response body is ignored.
func (c *Client) Update(ctx context.Context, id string, p model.Partner) (err error) {
	defer observe("update", time.Now(), &err)

	return c.do(ctx, http.MethodPut, c.ItemURL(id), p, nil)
}

// Delete removes the record stored under id. The response body is ignored.
func (c *Client) Delete(ctx context.Context, id string) (err error) {
	defer observe("delete", time.Now(), &err)

	return c.do(ctx, http.MethodDelete, c.ItemURL(id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, url string, body any, result any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("partner store request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{
			Method:     method,
			URL:        url,
			StatusCode: resp.StatusCode,
			Body:       string(bytes.TrimSpace(snippet)),
		}
	}

	if result == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func observe(operation string, start time.Time, err *error) {
	metrics.ObserveStoreCall(operation, start, *err)
}
