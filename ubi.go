// Package ubi selects, downloads and installs a single executable from a
// software forge's release assets. Run is the one exported entry point;
// everything else in this package builds and describes the request it
// takes and the result it returns.
package ubi

import (
	"context"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/3leaps/ubi/internal/archive"
	"github.com/3leaps/ubi/internal/download"
	"github.com/3leaps/ubi/internal/forge"
	"github.com/3leaps/ubi/internal/install"
	"github.com/3leaps/ubi/internal/model"
	"github.com/3leaps/ubi/internal/picker"
	"github.com/3leaps/ubi/internal/platform"
	"github.com/3leaps/ubi/internal/uerr"
)

// Run executes one install end to end: resolve the release (skipped for a
// direct URL), pick the matching asset, download it, extract the intended
// file(s), and place them in req.Dir. Every network call is threaded
// through ctx and aborts at the next suspension point on cancellation.
func Run(ctx context.Context, req InstallRequest) (Result, error) {
	plat := platform.Detect()
	if req.PlatformOverride != nil {
		plat = *req.PlatformOverride
	}

	if req.URL != "" {
		return runDirectURL(ctx, req, plat)
	}
	return runForgeProject(ctx, req, plat)
}

func runForgeProject(ctx context.Context, req InstallRequest, plat model.Platform) (Result, error) {
	selector := forge.Infer(req.ForgeSelector, "")
	client := forge.New(selector, forgeOptions(req)...)

	resolvedTag, assets, err := client.ResolveAssets(ctx, req.Project, req.Tag)
	if err != nil {
		return Result{}, err
	}

	picked, _, err := picker.Pick(assets, plat, picker.Options{
		MatchingSubstring: req.Matching,
		MatchingRegex:     req.MatchingRegex,
	})
	if err != nil {
		return Result{}, err
	}

	projectName := repoNameComponent(req.Project)
	result, err := extractAndInstall(ctx, client, picked, req, projectName, plat)
	if err != nil {
		return Result{}, err
	}
	result.ResolvedTag = resolvedTag
	result.SourceForge = selector
	return result, nil
}

func runDirectURL(ctx context.Context, req InstallRequest, plat model.Platform) (Result, error) {
	name := path.Base(req.URL)
	kind, ok := picker.ClassifyExtension(name)
	if !ok {
		return Result{}, uerr.New(uerr.NoMatch, "direct URL %q has an unrecognized extension", req.URL)
	}
	picked := model.PickedAsset{
		Asset:     model.Asset{Name: name, URL: req.URL},
		Extension: kind,
		IsArchive: picker.IsArchive(kind),
	}

	projectName := strings.TrimSuffix(name, path.Ext(name))
	result, err := extractAndInstall(ctx, directClient{httpClient: httpClientOrDefault(req.HTTPClient), token: req.Token}, picked, req, projectName, plat)
	if err != nil {
		return Result{}, err
	}
	result.SourceForge = ForgeAuto
	return result, nil
}

func extractAndInstall(ctx context.Context, client forge.Client, picked model.PickedAsset, req InstallRequest, projectName string, plat model.Platform) (Result, error) {
	file, err := download.ToTemp(ctx, client, picked.Asset, "")
	if err != nil {
		return Result{}, err
	}
	defer file.Release()

	dec, err := archive.Open(picked.Extension, file.Path, picked.Asset.Name, req.ExtractAll, plat)
	if err != nil {
		return Result{}, err
	}

	if req.ExtractAll {
		if err := archive.ExtractAll(ctx, dec, req.Dir); err != nil {
			return Result{}, err
		}
		return Result{Path: req.Dir, AssetName: picked.Asset.Name}, nil
	}

	wantName := req.Exe
	if wantName == "" {
		wantName = projectName
	}

	members, err := dec.Members(ctx)
	if err != nil {
		return Result{}, err
	}

	var member model.ArchiveMember
	if picked.IsArchive {
		member, err = archive.SelectMember(members, wantName, plat)
		if err != nil {
			return Result{}, err
		}
	} else {
		member = members[0]
	}

	rc, err := dec.Open(ctx, member)
	if err != nil {
		return Result{}, err
	}
	defer rc.Close()

	finalName := install.FinalName(picked, member, projectName, req.RenameExeTo, !picked.IsArchive, plat)
	installedPath, err := install.Run(ctx, install.Request{
		Src:        rc,
		Dir:        req.Dir,
		Name:       finalName,
		Executable: member.Executable || !picked.IsArchive,
	})
	if err != nil {
		return Result{}, err
	}

	return Result{Path: installedPath, AssetName: picked.Asset.Name}, nil
}

func forgeOptions(req InstallRequest) []forge.ClientOption {
	var opts []forge.ClientOption
	if req.HTTPClient != nil {
		opts = append(opts, forge.WithHTTPClient(req.HTTPClient))
	}
	if req.APIBase != "" {
		opts = append(opts, forge.WithBaseURL(req.APIBase))
	}
	if req.Token != "" {
		opts = append(opts, forge.WithToken(req.Token))
	}
	if req.JobToken != "" {
		opts = append(opts, forge.WithJobToken(req.JobToken))
	}
	return opts
}

func repoNameComponent(project string) string {
	parts := strings.SplitN(project, "/", 2)
	return parts[len(parts)-1]
}

func httpClientOrDefault(c *http.Client) *http.Client {
	if c != nil {
		return c
	}
	return http.DefaultClient
}

// directClient adapts a plain URL download to the forge.Client interface
// so the direct-URL install path can reuse download.ToTemp unchanged.
type directClient struct {
	httpClient *http.Client
	token      string
}

func (c directClient) ResolveAssets(ctx context.Context, project, tag string) (string, []model.Asset, error) {
	return "", nil, uerr.New(uerr.InvalidRequest, "direct URL installs do not resolve a release")
}

func (c directClient) Download(ctx context.Context, asset model.Asset) (io.ReadCloser, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, asset.URL, nil)
	if err != nil {
		return nil, uerr.Wrap(uerr.Transport, err, "building request for %s", asset.URL)
	}
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, uerr.Wrap(uerr.Transport, err, "downloading %s", asset.URL)
	}
	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, uerr.New(uerr.NotFound, "asset URL %s not found", asset.URL)
	}
	if resp.StatusCode >= 400 {
		resp.Body.Close()
		return nil, uerr.New(uerr.Transport, "asset URL %s returned status %d", asset.URL, resp.StatusCode)
	}
	return resp.Body, nil
}
