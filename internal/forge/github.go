package forge

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/3leaps/ubi/internal/model"
	"github.com/3leaps/ubi/internal/uerr"
)

const githubDefaultBase = "https://api.github.com"

// GitHubClient talks to the GitHub releases REST API.
type GitHubClient struct {
	cfg clientConfig
}

func NewGitHubClient(opts ...ClientOption) *GitHubClient {
	cfg := defaultConfig()
	cfg.baseURL = githubDefaultBase
	for _, opt := range opts {
		opt(&cfg)
	}
	return &GitHubClient{cfg: cfg}
}

type githubRelease struct {
	TagName string        `json:"tag_name"`
	Assets  []githubAsset `json:"assets"`
}

type githubAsset struct {
	Name               string `json:"name"`
	URL                string `json:"url"`
	BrowserDownloadURL string `json:"browser_download_url"`
	Size               int64  `json:"size"`
}

func (c *GitHubClient) ResolveAssets(ctx context.Context, project, tag string) (string, []model.Asset, error) {
	owner, repo, err := splitProject(project)
	if err != nil {
		return "", nil, err
	}

	var endpoint string
	if tag == "" {
		endpoint = fmt.Sprintf("%s/repos/%s/%s/releases/latest", c.cfg.baseURL, owner, repo)
	} else {
		endpoint = fmt.Sprintf("%s/repos/%s/%s/releases/tags/%s", c.cfg.baseURL, owner, repo, tag)
	}

	resp, err := c.doRequest(ctx, http.MethodGet, endpoint, "application/json")
	if err != nil {
		return "", nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", nil, c.resolveNotFound(ctx, owner, repo)
	}
	if err := classifyStatus(resp, "release"); err != nil {
		return "", nil, err
	}

	var rel githubRelease
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return "", nil, uerr.Wrap(uerr.Malformed, err, "decoding GitHub release JSON")
	}

	assets := make([]model.Asset, len(rel.Assets))
	for i, a := range rel.Assets {
		assets[i] = model.Asset{Name: a.Name, URL: a.URL, Size: a.Size}
	}
	return rel.TagName, assets, nil
}

// Download requests the asset's API endpoint with Accept:
// application/octet-stream, which GitHub answers with a redirect to the
// actual blob storage URL. The standard library's http.Client already
// strips Authorization on cross-host redirects, which is exactly the
// same-host-only auth propagation the asset download flow requires.
func (c *GitHubClient) Download(ctx context.Context, asset model.Asset) (io.ReadCloser, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, asset.URL, "application/octet-stream")
	if err != nil {
		return nil, err
	}
	if err := classifyStatus(resp, "asset"); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

// resolveNotFound disambiguates a 404 on the release endpoint by probing
// the repository endpoint: if the repository itself doesn't exist, the
// sub-reason is "project"; otherwise the repository exists but the
// requested release/tag doesn't.
func (c *GitHubClient) resolveNotFound(ctx context.Context, owner, repo string) error {
	probeURL := fmt.Sprintf("%s/repos/%s/%s", c.cfg.baseURL, owner, repo)
	resp, err := c.doRequest(ctx, http.MethodGet, probeURL, "application/json")
	if err != nil {
		return uerr.NewNotFound(uerr.SubReasonRelease, "release not found for %s/%s", owner, repo)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return uerr.NewNotFound(uerr.SubReasonProject, "project %s/%s not found", owner, repo)
	}
	return uerr.NewNotFound(uerr.SubReasonRelease, "release not found for %s/%s", owner, repo)
}

func (c *GitHubClient) doRequest(ctx context.Context, method, url, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, uerr.Wrap(uerr.Transport, err, "building GitHub request")
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", c.cfg.userAgent)
	if c.cfg.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.token)
	}

	resp, err := c.cfg.httpClient.Do(req)
	if err != nil {
		return nil, uerr.Wrap(uerr.Transport, err, "requesting %s", url)
	}
	return resp, nil
}

func splitProject(project string) (owner, repo string, err error) {
	parts := strings.SplitN(project, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", uerr.New(uerr.InvalidRequest, "project coordinate %q is not owner/repo", project)
	}
	return parts[0], parts[1], nil
}
