// Package api implements the authenticated REST client for the Wishwell API.
// It attaches bearer credentials to every request, interprets the statuses the
// whole SDK agrees on (401 teardown, 404, 409, validation bodies) and leaves
// everything else to the repositories.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Gobusters/ectologger"

	"github.com/wishwell/wishwell-go/pkg/httpclient"
	"github.com/wishwell/wishwell-go/pkg/metrics"
	"github.com/wishwell/wishwell-go/pkg/tracing"
)

// TokenSource supplies the current bearer token. An empty string means no
// session is established and the request goes out unauthenticated.
type TokenSource interface {
	Token() string
}

// UnauthorizedHook is invoked exactly once per 401 response, before the error
// is returned to the caller.
type UnauthorizedHook func(ctx context.Context)

// Client issues JSON requests against the Wishwell API.
type Client struct {
	base           *url.URL
	http           *httpclient.Client
	tokens         TokenSource
	onUnauthorized UnauthorizedHook
	logger         ectologger.Logger
}

// NewClient creates a new API client for the given base URL.
func NewClient(baseURL string, hc *httpclient.Client, tokens TokenSource, logger ectologger.Logger) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}

	return &Client{
		base:   base,
		http:   hc,
		tokens: tokens,
		logger: logger,
	}, nil
}

// SetUnauthorizedHook registers the session-teardown hook fired on any 401.
func (c *Client) SetUnauthorizedHook(hook UnauthorizedHook) {
	c.onUnauthorized = hook
}

// Get issues a GET request and decodes the response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST request with the given body and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPost, path, in, out)
}

// Put issues a PUT request with the given body and decodes the response into out.
func (c *Client) Put(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPut, path, in, out)
}

// Patch issues a PATCH request with the given body and decodes the response into out.
func (c *Client) Patch(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPatch, path, in, out)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	ctx, span := tracing.StartSpan(ctx, "api.Client.do")
	defer span.End()

	reqURL := c.base.JoinPath(strings.TrimPrefix(path, "/"))

	var bodyReader *bytes.Reader
	if in != nil {
		bodyBytes, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	} else {
		bodyReader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return &Error{Message: "request failed", cause: fmt.Errorf("%w: %s %s: %s", ErrNetwork, method, path, err)}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || len(resp.Body) == 0 {
			return nil
		}
		if err := json.Unmarshal(resp.Body, out); err != nil {
			return fmt.Errorf("failed to decode response for %s %s: %w", method, path, err)
		}
		return nil
	}

	return c.statusError(ctx, method, path, resp)
}

// errorBody is the error envelope the API sends on 4xx/5xx responses.
type errorBody struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func (c *Client) statusError(ctx context.Context, method, path string, resp *httpclient.Response) error {
	var body errorBody
	if len(resp.Body) > 0 {
		_ = json.Unmarshal(resp.Body, &body)
	}
	if body.Message == "" {
		body.Message = http.StatusText(resp.StatusCode)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		metrics.SessionTeardownsTotal.Inc()
		c.logger.WithContext(ctx).Warnf("401 from %s %s, tearing down session", method, path)
		if c.onUnauthorized != nil {
			c.onUnauthorized(ctx)
		}
		return &Error{Status: http.StatusUnauthorized, Message: "session expired"}
	}

	c.logger.WithContext(ctx).WithFields(map[string]any{
		"status": resp.StatusCode,
		"method": method,
		"path":   path,
	}).Debugf("API error: %s", body.Message)

	return &Error{
		Status:  resp.StatusCode,
		Message: body.Message,
		Fields:  body.Errors,
	}
}
