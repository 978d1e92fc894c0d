// Package forge abstracts the two release-hosting APIs ubi talks to:
// GitHub and GitLab. Both are consumed through the same Client interface so
// the rest of the pipeline never branches on which forge a project lives
// on.
package forge

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/3leaps/ubi/internal/model"
	"github.com/3leaps/ubi/internal/uerr"
)

// Client resolves a project+tag into a release's assets and downloads a
// chosen asset's bytes.
type Client interface {
	// ResolveAssets returns the concrete tag that was resolved (useful
	// when tag was empty, meaning "latest") and the release's assets.
	ResolveAssets(ctx context.Context, project, tag string) (resolvedTag string, assets []model.Asset, err error)
	Download(ctx context.Context, asset model.Asset) (io.ReadCloser, error)
}

// ClientOption configures a GitHubClient or GitLabClient at construction.
type ClientOption func(*clientConfig)

type clientConfig struct {
	httpClient *http.Client
	baseURL    string
	token      string
	jobToken   string
	userAgent  string
}

func defaultConfig() clientConfig {
	return clientConfig{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		userAgent:  "ubi",
	}
}

func WithHTTPClient(c *http.Client) ClientOption {
	return func(cfg *clientConfig) { cfg.httpClient = c }
}

func WithBaseURL(base string) ClientOption {
	return func(cfg *clientConfig) { cfg.baseURL = strings.TrimSuffix(base, "/") }
}

func WithToken(token string) ClientOption {
	return func(cfg *clientConfig) { cfg.token = token }
}

// WithJobToken sets a GitLab CI job token (CI_JOB_TOKEN), which
// GitLabClient prefers over a private token when both are set. It has no
// effect on GitHubClient.
func WithJobToken(token string) ClientOption {
	return func(cfg *clientConfig) { cfg.jobToken = token }
}

func WithUserAgent(ua string) ClientOption {
	return func(cfg *clientConfig) { cfg.userAgent = ua }
}

// rateLimitFromHeaders inspects the standard X-RateLimit-* response
// headers and returns a *uerr.Error of Kind RateLimited when the forge has
// reported the caller as exhausted. Malformed or absent headers are
// ignored rather than treated as a rate limit.
func rateLimitFromHeaders(resp *http.Response) *uerr.Error {
	remaining := resp.Header.Get("X-RateLimit-Remaining")
	if remaining == "" {
		return nil
	}
	n, err := strconv.Atoi(remaining)
	if err != nil || n > 0 {
		return nil
	}

	limit := resp.Header.Get("X-RateLimit-Limit")
	resetMsg := "unknown"
	if resetRaw := resp.Header.Get("X-RateLimit-Reset"); resetRaw != "" {
		if secs, err := strconv.ParseInt(resetRaw, 10, 64); err == nil {
			resetMsg = time.Unix(secs, 0).UTC().Format(time.RFC3339)
		}
	}
	return uerr.New(uerr.RateLimited, "rate limit exhausted (limit %s, resets at %s)", limit, resetMsg)
}

// sameHost reports whether candidate shares a host and port with base, used
// to decide whether the Authorization/PRIVATE-TOKEN header should be carried
// across a redirect.
func sameHost(base, candidate string) bool {
	bu, err1 := url.Parse(base)
	cu, err2 := url.Parse(candidate)
	if err1 != nil || err2 != nil {
		return false
	}
	return strings.EqualFold(bu.Host, cu.Host)
}

func classifyStatus(resp *http.Response, notFoundContext string) error {
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return uerr.New(uerr.Unauthorized, "forge returned 401")
	case http.StatusForbidden:
		if rl := rateLimitFromHeaders(resp); rl != nil {
			return rl
		}
		return uerr.New(uerr.RateLimited, "forge returned 403")
	case http.StatusNotFound:
		return uerr.New(uerr.NotFound, "%s not found", notFoundContext)
	}
	if resp.StatusCode >= 400 {
		return uerr.New(uerr.Transport, "forge returned unexpected status %d", resp.StatusCode)
	}
	return nil
}
