// Package github stores the data file in a GitHub repository through the
// contents API. The blob sha is the revision token.
package github

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/oskars/refinerywatch/internal/transport"
	"github.com/oskars/refinerywatch/internal/vcs"
	"github.com/oskars/refinerywatch/pkg/constants"
	"github.com/oskars/refinerywatch/pkg/errors"
)

// DefaultAPIURL is the public GitHub REST endpoint.
const DefaultAPIURL = "https://api.github.com"

const apiVersion = "2022-11-28"

// Config identifies the file to manage.
type Config struct {
	APIURL string
	Owner  string
	Repo   string
	Path   string
	Branch string
	Token  string
}

// Backend implements vcs.Backend for one file on one branch.
type Backend struct {
	cfg    Config
	client *transport.Client
}

var _ vcs.Backend = (*Backend)(nil)

// New creates a Backend. Owner, repo and path default to the project's
// data file on the main branch; a token is required.
func New(cfg Config, opts ...transport.Option) (*Backend, error) {
	if cfg.Token == "" {
		return nil, errors.NewConfigError("github", "a GitHub token is required", nil)
	}
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	if cfg.Owner == "" {
		cfg.Owner = constants.DefaultGitHubOwner
	}
	if cfg.Repo == "" {
		cfg.Repo = constants.DefaultGitHubRepo
	}
	if cfg.Path == "" {
		cfg.Path = constants.DefaultGitHubPath
	}
	if cfg.Branch == "" {
		cfg.Branch = constants.DefaultBranch
	}

	opts = append([]transport.Option{
		transport.WithAuth(transport.BearerAuth{}, cfg.Token),
		transport.WithHeader("Accept", "application/vnd.github+json"),
		transport.WithHeader("X-GitHub-Api-Version", apiVersion),
	}, opts...)

	return &Backend{cfg: cfg, client: transport.New("github", opts...)}, nil
}

// Name implements vcs.Backend.
func (b *Backend) Name() string { return "GitHub" }

type contentResponse struct {
	SHA      string `json:"sha"`
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

type putRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	SHA     string `json:"sha,omitempty"`
	Branch  string `json:"branch"`
}

type putResponse struct {
	Content struct {
		SHA string `json:"sha"`
	} `json:"content"`
	Commit struct {
		SHA string `json:"sha"`
	} `json:"commit"`
}

// Read implements vcs.Backend.
func (b *Backend) Read(ctx context.Context) (*vcs.File, error) {
	var resp contentResponse
	u := b.contentsURL() + "?ref=" + url.QueryEscape(b.cfg.Branch)
	if err := b.client.JSON(ctx, http.MethodGet, u, nil, &resp); err != nil {
		if errors.IsNotFound(err) {
			return &vcs.File{}, nil
		}
		return nil, err
	}

	if resp.Encoding != "" && resp.Encoding != "base64" {
		return nil, errors.NewParseError("github", b.cfg.Path, fmt.Sprintf("unsupported encoding %q", resp.Encoding), nil)
	}
	// the API wraps base64 content at 60 columns
	content, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(resp.Content, "\n", ""))
	if err != nil {
		return nil, errors.WrapParse("base64", b.cfg.Path, err)
	}
	return &vcs.File{Content: content, Revision: resp.SHA}, nil
}

// Write implements vcs.Backend.
func (b *Backend) Write(ctx context.Context, content []byte, revision, message string) (*vcs.WriteResult, error) {
	body := putRequest{
		Message: message,
		Content: base64.StdEncoding.EncodeToString(content),
		SHA:     revision,
		Branch:  b.cfg.Branch,
	}

	var resp putResponse
	if err := b.client.JSON(ctx, http.MethodPut, b.contentsURL(), body, &resp); err != nil {
		var apiErr *errors.APIError
		// GitHub answers a stale or missing sha with 409 or 422
		if errors.As(err, &apiErr) && (apiErr.StatusCode == http.StatusConflict || apiErr.StatusCode == http.StatusUnprocessableEntity) {
			return nil, fmt.Errorf("%w: %w", errors.NewConflictError("data file", revision, "unknown"), err)
		}
		return nil, err
	}
	return &vcs.WriteResult{Commit: resp.Commit.SHA, Revision: resp.Content.SHA}, nil
}

func (b *Backend) contentsURL() string {
	segments := strings.Split(b.cfg.Path, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return fmt.Sprintf("%s/repos/%s/%s/contents/%s",
		b.cfg.APIURL, url.PathEscape(b.cfg.Owner), url.PathEscape(b.cfg.Repo), strings.Join(segments, "/"))
}
