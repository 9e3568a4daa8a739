package integrations

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jordanlanch/brokerhub/pkg/domain"
	"github.com/jordanlanch/brokerhub/pkg/logger"
)

const requestTimeout = 10 * time.Second

// APIError is a non-2xx response from an upstream API
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API Error %d: %s", e.StatusCode, e.Body)
}

// Client is a JSON HTTP client for one upstream API. Default headers
// carry the vendor's auth scheme.
type Client struct {
	baseURL string
	headers map[string]string
	http    *http.Client
	logger  logger.Logger
}

// NewClient creates a client for the given base URL and default headers
func NewClient(baseURL string, headers map[string]string, log logger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		headers: headers,
		http:    &http.Client{Timeout: requestTimeout},
		logger:  log,
	}
}

// WithHTTPClient swaps the underlying HTTP client (used by tests)
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.http = hc
	return c
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed encoding request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("upstream API error", "url", endpoint, "status", resp.StatusCode)
		return &APIError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed decoding response: %w", err)
		}
	}
	return nil
}

// Get performs a GET request with optional query parameters
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// Post performs a POST request with a JSON body
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

// Put performs a PUT request with a JSON body
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

// Delete performs a DELETE request
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// Translate maps an upstream failure to a domain error based on the
// response status code. Transport errors become internal errors.
func Translate(err error, context string) error {
	if err == nil {
		return nil
	}

	apiErr, ok := err.(*APIError)
	if !ok {
		return domain.NewInternalError(fmt.Errorf("%s: %w", context, err))
	}

	switch {
	case apiErr.StatusCode == http.StatusUnauthorized:
		return domain.NewUnauthorizedError("Not authorized. Check your API credentials.")
	case apiErr.StatusCode == http.StatusForbidden:
		return domain.NewForbiddenError("Access denied. Check your API key permissions.")
	case apiErr.StatusCode == http.StatusTooManyRequests:
		return domain.NewBadRequestError("Rate limit exceeded. Try again in a few minutes.")
	case apiErr.StatusCode >= 500:
		return domain.NewInternalError(fmt.Errorf("%s: %w", context, apiErr))
	default:
		return domain.NewBadRequestError(fmt.Sprintf("%s failed: %s", context, apiErr.Error()))
	}
}
