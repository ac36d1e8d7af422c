// Package github fetches compatibility-tool release metadata from the
// GitHub releases API and models the assets attached to a release.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gefetch/gefetch/internal/tag"
)

const (
	// DefaultBaseURL is the public GitHub API endpoint
	DefaultBaseURL = "https://api.github.com"
	// DefaultTimeout bounds a single metadata request
	DefaultTimeout = 30 * time.Second
	// DefaultUserAgent is the client identification sent with every request
	DefaultUserAgent = "gefetch/1.0"

	// LatestTag is the sentinel tag name resolving to the newest release
	LatestTag = "latest"
)

// ErrRemoteMetadata is returned for any failure while fetching or decoding
// release metadata: transport errors, non-success HTTP status, and
// malformed response bodies all wrap it.
var ErrRemoteMetadata = errors.New("release metadata request failed")

// HTTPClient is the requesting capability Client needs.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client queries the hosting service's release endpoints.
type Client struct {
	httpClient HTTPClient
	baseURL    string
	userAgent  string
	token      string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client HTTPClient) ClientOption {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL points the client at a different API endpoint.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithToken sets an explicit bearer token, overriding the environment.
func WithToken(token string) ClientOption {
	return func(c *Client) {
		c.token = token
	}
}

// NewClient creates a metadata client with production defaults.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		baseURL:    DefaultBaseURL,
		userAgent:  DefaultUserAgent,
		token:      TokenFromEnv(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TokenFromEnv returns the GitHub token from the environment, if any.
// Unauthenticated requests work but are rate-limited harder.
func TokenFromEnv() string {
	if tok := strings.TrimSpace(os.Getenv("GEFETCH_GITHUB_TOKEN")); tok != "" {
		return tok
	}
	return strings.TrimSpace(os.Getenv("GITHUB_TOKEN"))
}

// FetchRelease issues one metadata request for the family's release named
// by tagName. An empty tagName or the LatestTag sentinel resolves the
// newest published release.
func (c *Client) FetchRelease(ctx context.Context, family tag.Family, tagName string) (*Release, error) {
	url := c.releaseURL(family, tagName)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrRemoteMetadata, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteMetadata, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d for %s", ErrRemoteMetadata, resp.StatusCode, url)
	}

	var release Release
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrRemoteMetadata, err)
	}

	return &release, nil
}

func (c *Client) releaseURL(family tag.Family, tagName string) string {
	base := fmt.Sprintf("%s/repos/%s/%s/releases", c.baseURL, family.Owner(), family.Repo())
	if tagName == "" || tagName == LatestTag {
		return base + "/latest"
	}
	return base + "/tags/" + tagName
}
