package forge

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/3leaps/ubi/internal/model"
	"github.com/3leaps/ubi/internal/uerr"
)

const gitlabDefaultBase = "https://gitlab.com/api/v4"

// GitLabClient talks to the GitLab releases REST API. Unlike GitHub's
// Authorization header, GitLab's PRIVATE-TOKEN/JOB-TOKEN headers are not
// on the standard library's list of headers stripped on a cross-host
// redirect, so this client installs its own CheckRedirect to enforce the
// same same-host-only propagation policy.
type GitLabClient struct {
	cfg        clientConfig
	httpClient *http.Client
}

func NewGitLabClient(opts ...ClientOption) *GitLabClient {
	cfg := defaultConfig()
	cfg.baseURL = gitlabDefaultBase
	for _, opt := range opts {
		opt(&cfg)
	}

	base := cfg.httpClient
	client := &http.Client{
		Timeout:   base.Timeout,
		Transport: base.Transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) == 0 {
				return nil
			}
			if !sameHost(via[0].URL.String(), req.URL.String()) {
				req.Header.Del("PRIVATE-TOKEN")
				req.Header.Del("JOB-TOKEN")
			}
			return nil
		},
	}
	return &GitLabClient{cfg: cfg, httpClient: client}
}

type gitlabRelease struct {
	TagName string        `json:"tag_name"`
	Assets  gitlabAssets  `json:"assets"`
}

type gitlabAssets struct {
	Links []gitlabLink `json:"links"`
}

type gitlabLink struct {
	Name           string `json:"name"`
	URL            string `json:"url"`
	DirectAssetURL string `json:"direct_asset_url"`
	LinkType       string `json:"link_type"`
}

func (c *GitLabClient) ResolveAssets(ctx context.Context, project, tag string) (string, []model.Asset, error) {
	encodedProject := url.PathEscape(project)

	var endpoint string
	if tag == "" {
		endpoint = fmt.Sprintf("%s/projects/%s/releases/permalink/latest", c.cfg.baseURL, encodedProject)
	} else {
		endpoint = fmt.Sprintf("%s/projects/%s/releases/%s", c.cfg.baseURL, encodedProject, tag)
	}

	resp, err := c.doRequest(ctx, http.MethodGet, endpoint)
	if err != nil {
		return "", nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", nil, c.resolveNotFound(ctx, project, encodedProject)
	}
	if err := classifyStatus(resp, "release"); err != nil {
		return "", nil, err
	}

	var rel gitlabRelease
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return "", nil, uerr.Wrap(uerr.Malformed, err, "decoding GitLab release JSON")
	}

	assets := make([]model.Asset, 0, len(rel.Assets.Links))
	for _, l := range rel.Assets.Links {
		u := l.DirectAssetURL
		if u == "" {
			u = l.URL
		}
		assets = append(assets, model.Asset{Name: l.Name, URL: u})
	}
	return rel.TagName, assets, nil
}

// Download follows GitLab's two-step flow for assets hosted as uploads: the
// initial response may itself be a redirect to an /uploads/ blob, and the
// token header must be preserved across that hop as long as the host has
// not changed (enforced by the client's CheckRedirect).
func (c *GitLabClient) Download(ctx context.Context, asset model.Asset) (io.ReadCloser, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, asset.URL)
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
// the project endpoint, the same way GitHubClient.resolveNotFound does.
func (c *GitLabClient) resolveNotFound(ctx context.Context, project, encodedProject string) error {
	probeURL := fmt.Sprintf("%s/projects/%s", c.cfg.baseURL, encodedProject)
	resp, err := c.doRequest(ctx, http.MethodGet, probeURL)
	if err != nil {
		return uerr.NewNotFound(uerr.SubReasonRelease, "release not found for %q", project)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return uerr.NewNotFound(uerr.SubReasonProject, "project %q not found", project)
	}
	return uerr.NewNotFound(uerr.SubReasonRelease, "release not found for %q", project)
}

func (c *GitLabClient) doRequest(ctx context.Context, method, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, uerr.Wrap(uerr.Transport, err, "building GitLab request")
	}
	req.Header.Set("User-Agent", c.cfg.userAgent)
	switch {
	case c.cfg.jobToken != "":
		req.Header.Set("JOB-TOKEN", c.cfg.jobToken)
	case c.cfg.token != "":
		req.Header.Set("PRIVATE-TOKEN", c.cfg.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, uerr.Wrap(uerr.Transport, err, "requesting %s", rawURL)
	}
	return resp, nil
}
