// Package client is a thin wrapper over the GOMP REST API. Every call
// attaches the current bearer token and returns either decoded JSON (reads)
// or the raw response text (writes).
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pageza/gomp-client/internal/credentials"
)

// HTTPError is returned for any non-2xx response
type HTTPError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	msg := fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// IsStatus reports whether err is an HTTPError with the given status code
func IsStatus(err error, code int) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.StatusCode == code
}

// Client talks to one GOMP API base path
type Client struct {
	baseURL string
	creds   credentials.Provider
	http    *http.Client
}

// New creates a client for baseURL (e.g. http://host/api/v1). A nil
// httpClient means http.DefaultClient.
func New(baseURL string, creds credentials.Provider, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		creds:   creds,
		http:    httpClient,
	}
}

// BaseURL returns the API base path the client was created with
func (c *Client) BaseURL() string {
	return c.baseURL
}

// newRequest builds a request and attaches the bearer token. The token is
// fetched from the provider on every call.
func (c *Client) newRequest(ctx context.Context, method, path, rawQuery string, body io.Reader, contentType string) (*http.Request, error) {
	target := c.baseURL + path
	if rawQuery != "" {
		target += "?" + rawQuery
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	if c.creds != nil {
		token, err := c.creds.Token(ctx)
		switch {
		case err == nil:
			req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
		case errors.Is(err, credentials.ErrNoToken):
			// anonymous request; the API decides whether that is allowed
		default:
			return nil, err
		}
	}
	return req, nil
}

// do performs req and returns the body of a 2xx response
func (c *Client) do(req *http.Request, path string) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s failed: %w", req.Method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{
			Method:     req.Method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(data)),
		}
	}
	return data, nil
}

// getJSON issues a GET and decodes the JSON response into out
func (c *Client) getJSON(ctx context.Context, path, rawQuery string, out interface{}) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, rawQuery, nil, "")
	if err != nil {
		return err
	}
	data, err := c.do(req, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

// send issues a PUT, POST or DELETE with an optional JSON body and returns
// the raw response text. Any other method is a programming error.
func (c *Client) send(ctx context.Context, method, path string, body interface{}) (string, error) {
	switch method {
	case http.MethodPut, http.MethodPost, http.MethodDelete:
	default:
		panic(fmt.Sprintf("client: unsupported method %q for %s", method, path))
	}

	var reader io.Reader
	contentType := ""
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return "", fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
		contentType = "application/json"
	}

	req, err := c.newRequest(ctx, method, path, "", reader, contentType)
	if err != nil {
		return "", err
	}
	data, err := c.do(req, path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
