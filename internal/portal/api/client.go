// Package api implements the single entry point for outbound calls to the
// portal backend: request building, JSON encoding, bearer-token injection,
// and mapping of non-success responses to a uniform *Error. It carries no
// business logic, never retries, and never caches.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 15 * time.Second

// Client issues HTTP requests against a configured base URL.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout sets the per-request timeout on the underlying client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// New creates a Client for the given base URL, e.g. "http://localhost:8000/api".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Options controls a single request.
type Options struct {
	// Method defaults to GET when empty.
	Method string

	// Body may be a string, []byte, or io.Reader, which pass through
	// unchanged. Any other non-nil value is serialized to JSON and the
	// Content-Type header is set accordingly.
	Body any

	// Token, when set and SkipAuthHeader is false, is attached as a bearer
	// credential in the Authorization header.
	Token string

	// Header entries override the defaults. Accept defaults to
	// application/json unless overridden here.
	Header http.Header

	// SkipAuthHeader suppresses automatic Authorization injection.
	SkipAuthHeader bool
}

// Request issues a request for path (relative to the base URL) and, on a
// success status with a JSON response, decodes the payload into out (which
// may be nil when the caller does not need the body).
//
// On a non-success status it returns an *Error carrying the HTTP status and
// the raw payload; the error message is taken from the payload's "message"
// field when the payload is a JSON object containing one, otherwise
// FallbackMessage. A transport failure returns a wrapped error with no
// *Error in the chain.
func (c *Client) Request(ctx context.Context, path string, opts Options, out any) error {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	body, jsonBody, err := encodeBody(opts.Body)
	if err != nil {
		return fmt.Errorf("encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	for k, vs := range opts.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	if jsonBody {
		req.Header.Set("Content-Type", "application/json")
	}
	if opts.Token != "" && !opts.SkipAuthHeader {
		req.Header.Set("Authorization", "Bearer "+opts.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	isJSON := strings.Contains(resp.Header.Get("Content-Type"), "application/json")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newError(resp.StatusCode, raw, isJSON)
	}

	if out == nil {
		return nil
	}
	if isJSON {
		// A malformed JSON success body yields a zero payload, not a failure.
		_ = json.Unmarshal(raw, out)
		return nil
	}
	if s, ok := out.(*string); ok {
		*s = string(raw)
	}
	return nil
}

func encodeBody(v any) (io.Reader, bool, error) {
	switch b := v.(type) {
	case nil:
		return nil, false, nil
	case string:
		return strings.NewReader(b), false, nil
	case []byte:
		return bytes.NewReader(b), false, nil
	case io.Reader:
		return b, false, nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, false, err
		}
		return bytes.NewReader(data), true, nil
	}
}

func newError(status int, raw []byte, isJSON bool) *Error {
	var payload any
	if isJSON {
		if err := json.Unmarshal(raw, &payload); err != nil {
			payload = nil
		}
	} else {
		payload = string(raw)
	}

	message := FallbackMessage
	if obj, ok := payload.(map[string]any); ok {
		if m, ok := obj["message"].(string); ok && m != "" {
			message = m
		}
	}

	return &Error{Status: status, Message: message, Data: payload}
}
