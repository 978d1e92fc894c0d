package forge

import "strings"

// Selector is the closed set of forge choices exposed on InstallRequest.
type Selector string

const (
	Auto   Selector = "auto"
	GitHub Selector = "github"
	GitLab Selector = "gitlab"
)

// Infer resolves Auto against a direct URL, if one was given. Only an
// explicit gitlab.com host infers GitLab; every other host, including
// self-hosted GitLab instances, defaults to GitHub unless the caller
// selects a forge explicitly.
func Infer(selector Selector, directURL string) Selector {
	if selector != Auto {
		return selector
	}
	if directURL != "" && strings.Contains(directURL, "gitlab.com") {
		return GitLab
	}
	return GitHub
}

// New builds the Client for a resolved Selector.
func New(selector Selector, opts ...ClientOption) Client {
	if selector == GitLab {
		return NewGitLabClient(opts...)
	}
	return NewGitHubClient(opts...)
}
