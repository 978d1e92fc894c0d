package ubi

import (
	"net/http"

	"github.com/3leaps/ubi/internal/forge"
	"github.com/3leaps/ubi/internal/model"
	"github.com/3leaps/ubi/internal/platform"
	"github.com/3leaps/ubi/internal/uerr"
)

// Platform is an alias of internal/model.Platform so callers never need to
// import an internal package to construct a test override.
type Platform = model.Platform

// Forge is the closed set of release-hosting backends a project can live
// on.
type Forge = forge.Selector

const (
	ForgeAuto   = forge.Auto
	ForgeGitHub = forge.GitHub
	ForgeGitLab = forge.GitLab
)

// InstallRequest is the immutable configuration for a single install run,
// built once via Builder and consumed by value by Run.
type InstallRequest struct {
	Project string // "owner/repo" on the selected forge; mutually exclusive with URL
	URL     string // direct asset download URL; mutually exclusive with Project

	Tag string // empty means "latest"; only meaningful with Project

	Dir           string // target install directory, required
	Exe           string // executable name to look for inside an archive; defaults to the project's repo-name component
	RenameExeTo   string // final filename override; incompatible with ExtractAll
	ExtractAll    bool   // bulk-extract every member instead of picking one; incompatible with Exe and RenameExeTo
	Matching      string // substring hint narrowing ambiguous candidates
	MatchingRegex string // regex hint narrowing ambiguous candidates, takes priority over Matching

	ForgeSelector Forge  // auto | github | gitlab
	APIBase       string // overrides the forge's default API base URL
	Token         string // bearer/PRIVATE-TOKEN credential for the forge
	JobToken      string // GitLab CI job token, preferred over Token when set

	PlatformOverride *Platform // test seam; nil uses platform.Detect()
	HTTPClient       *http.Client
}

// Builder assembles an InstallRequest through chained calls and validates
// it once, at Build, rather than failing lazily during Run.
type Builder struct {
	req InstallRequest
}

func NewBuilder() *Builder { return &Builder{} }

func (b *Builder) Project(p string) *Builder        { b.req.Project = p; return b }
func (b *Builder) URL(u string) *Builder            { b.req.URL = u; return b }
func (b *Builder) Tag(t string) *Builder            { b.req.Tag = t; return b }
func (b *Builder) Dir(d string) *Builder            { b.req.Dir = d; return b }
func (b *Builder) Exe(name string) *Builder         { b.req.Exe = name; return b }
func (b *Builder) RenameExeTo(name string) *Builder { b.req.RenameExeTo = name; return b }
func (b *Builder) ExtractAll(v bool) *Builder       { b.req.ExtractAll = v; return b }
func (b *Builder) Matching(s string) *Builder       { b.req.Matching = s; return b }
func (b *Builder) MatchingRegex(s string) *Builder  { b.req.MatchingRegex = s; return b }
func (b *Builder) ForgeSelector(f Forge) *Builder   { b.req.ForgeSelector = f; return b }
func (b *Builder) APIBase(u string) *Builder        { b.req.APIBase = u; return b }
func (b *Builder) Token(t string) *Builder          { b.req.Token = t; return b }
func (b *Builder) JobToken(t string) *Builder       { b.req.JobToken = t; return b }
func (b *Builder) HTTPClient(c *http.Client) *Builder {
	b.req.HTTPClient = c
	return b
}
func (b *Builder) PlatformOverride(p Platform) *Builder {
	b.req.PlatformOverride = &p
	return b
}

// Build validates the accumulated options and returns the immutable
// InstallRequest, or InvalidRequest describing the first violated
// invariant.
func (b *Builder) Build() (InstallRequest, error) {
	req := b.req

	if (req.Project == "") == (req.URL == "") {
		return InstallRequest{}, uerr.New(uerr.InvalidRequest, "exactly one of Project or URL must be set")
	}
	if req.Tag != "" && req.Project == "" {
		return InstallRequest{}, uerr.New(uerr.InvalidRequest, "Tag requires Project")
	}
	if req.ExtractAll && (req.Exe != "" || req.RenameExeTo != "") {
		return InstallRequest{}, uerr.New(uerr.InvalidRequest, "ExtractAll is incompatible with Exe and RenameExeTo")
	}
	if req.Dir == "" {
		return InstallRequest{}, uerr.New(uerr.InvalidRequest, "Dir is required")
	}
	if req.ForgeSelector == "" {
		req.ForgeSelector = ForgeAuto
	}
	if req.PlatformOverride == nil {
		platform.Detect() // warms the sync.Once cache before Run needs it
	}

	return req, nil
}
