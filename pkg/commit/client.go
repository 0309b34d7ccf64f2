package commit

import (
	"context"
	"fmt"
	"net/http"

	"github.com/oskars/refinerywatch/internal/transport"
	"github.com/oskars/refinerywatch/pkg/errors"
	"github.com/oskars/refinerywatch/pkg/refineries"
)

// Client posts to a commit proxy endpoint.
type Client struct {
	url       string
	transport *transport.Client
}

var _ Committer = (*Client)(nil)

// ClientOption configures a Client.
type ClientOption func(*clientOptions)

type clientOptions struct {
	httpClient *http.Client
	apiKey     string
}

// WithHTTPClient overrides the http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(o *clientOptions) { o.httpClient = hc }
}

// WithAPIKey sends key in the X-API-Key header.
func WithAPIKey(key string) ClientOption {
	return func(o *clientOptions) { o.apiKey = key }
}

// NewClient creates a Client for the endpoint at url.
func NewClient(url string, opts ...ClientOption) (*Client, error) {
	if url == "" {
		return nil, errors.NewConfigError("commit", "commit url is required", nil)
	}
	o := &clientOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return &Client{
		url: url,
		transport: transport.New("commit server",
			transport.WithHTTPClient(o.httpClient),
			transport.WithAuth(transport.HeaderAuth{Header: "X-API-Key"}, o.apiKey),
		),
	}, nil
}

// Commit implements Committer.
func (c *Client) Commit(ctx context.Context, list []refineries.Refinery, revision string) (*Receipt, error) {
	var resp Response
	err := c.transport.JSON(ctx, http.MethodPost, c.url, Request{Refineries: list, Revision: revision}, &resp)
	if err != nil {
		var netErr *transport.NetworkError
		if errors.As(err, &netErr) {
			return nil, fmt.Errorf("%w: %w", ErrUnreachable, netErr.Err)
		}
		var apiErr *errors.APIError
		if errors.As(err, &apiErr) {
			return nil, &RejectedError{StatusCode: apiErr.StatusCode, Message: apiErr.Message}
		}
		return nil, err
	}
	return &Receipt{Commit: resp.Commit, Revision: resp.Revision, Message: resp.Message}, nil
}
