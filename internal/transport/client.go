// Package transport is a small JSON-over-HTTP client shared by the commit
// proxy client and the GitHub backend.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/oskars/refinerywatch/pkg/constants"
	"github.com/oskars/refinerywatch/pkg/errors"
	"github.com/oskars/refinerywatch/pkg/logging"
)

// DefaultHTTPTimeout is the default timeout for HTTP requests.
var DefaultHTTPTimeout = constants.DefaultHTTPTimeout

// Client sends authenticated JSON requests to one service.
type Client struct {
	http       *http.Client
	auth       Authenticator
	credential string
	service    string
	headers    map[string]string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithAuth applies credential with auth on every request. An empty credential sends nothing.
func WithAuth(auth Authenticator, credential string) Option {
	return func(c *Client) {
		c.auth = auth
		c.credential = credential
	}
}

// WithHeader adds a fixed header to every request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers[key] = value
	}
}

// New creates a client for service. The name appears in errors.
func New(service string, opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: DefaultHTTPTimeout},
		auth:    NoAuth{},
		service: service,
		headers: map[string]string{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NetworkError reports that a request never produced an HTTP response.
type NetworkError struct {
	Service string
	URL     string
	Err     error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s unreachable at %s: %v", e.Service, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Is implements errors.Is support.
func (e *NetworkError) Is(target error) bool { return target == errors.ErrUnavailable }

// Do sends req with authentication and common headers applied.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	req = req.WithContext(ctx)
	if c.credential != "" {
		c.auth.Apply(req, c.credential)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	if req.Body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	logging.FromContext(ctx).Debug().
		Str("service", c.service).
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Msg("Sending request")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{Service: c.service, URL: req.URL.String(), Err: err}
	}
	return resp, nil
}

// JSON sends body (if non-nil) as JSON and decodes a 2xx response into out
// (if non-nil). Any other status becomes an *errors.APIError.
func (c *Client) JSON(ctx context.Context, method, url string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.WrapParse("json", "request", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return errors.WrapResource("create", "request", method+" "+url, err)
	}
	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	return DecodeResponse(c.service, resp, out)
}

// DecodeResponse closes resp and decodes a 2xx JSON body into target.
func DecodeResponse(service string, resp *http.Response, target any) error {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapIO("read", "response body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &errors.APIError{
			Service:    service,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(body, resp.Status),
			Endpoint:   resp.Request.URL.String(),
		}
	}

	if target == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", service+" response", err)
	}
	return nil
}

// errorMessage pulls a message out of the common {"error": ...} and
// {"message": ...} shapes, falling back to the raw body.
func errorMessage(body []byte, status string) string {
	var shape struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
		Details string          `json:"details"`
	}
	if json.Unmarshal(body, &shape) == nil {
		msg := ""
		var s string
		var nested struct {
			Message string `json:"message"`
		}
		switch {
		case json.Unmarshal(shape.Error, &s) == nil && s != "":
			msg = s
		case json.Unmarshal(shape.Error, &nested) == nil && nested.Message != "":
			msg = nested.Message
		case shape.Message != "":
			msg = shape.Message
		}
		if msg != "" {
			if shape.Details != "" {
				msg += ": " + shape.Details
			}
			return msg
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return status
}
