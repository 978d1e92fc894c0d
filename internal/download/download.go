// Package download fetches a picked asset's bytes into a scoped temp file.
package download

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/3leaps/ubi/internal/forge"
	"github.com/3leaps/ubi/internal/model"
	"github.com/3leaps/ubi/internal/uerr"
)

// File is a downloaded asset's temp-file location plus its release cleanup.
// Release must be called on every exit path, success or failure, once the
// caller no longer needs the file on disk.
type File struct {
	Path    string
	Release func()
}

// ToTemp downloads asset via client into a new temp file under dir (an
// empty dir uses the OS default). The temp file is created before the
// network call starts; a failed call removes it before returning and
// returns a zero File whose Release is nil.
func ToTemp(ctx context.Context, client forge.Client, asset model.Asset, dir string) (File, error) {
	tmp, err := os.CreateTemp(dir, "ubi-asset-*-"+sanitizeName(asset.Name))
	if err != nil {
		return File{}, uerr.Wrap(uerr.IoFailed, err, "creating temp file for %s", asset.Name)
	}
	path := tmp.Name()
	release := func() { os.Remove(path) }

	body, err := client.Download(ctx, asset)
	if err != nil {
		tmp.Close()
		release()
		return File{}, err
	}
	defer body.Close()

	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		release()
		return File{}, uerr.Wrap(uerr.Transport, err, "downloading %s", asset.Name)
	}
	if err := tmp.Close(); err != nil {
		release()
		return File{}, uerr.Wrap(uerr.IoFailed, err, "closing temp file for %s", asset.Name)
	}

	return File{Path: path, Release: release}, nil
}

// sanitizeName keeps the temp file's suffix recognizable in a listing
// without letting an asset name escape the CreateTemp pattern via a path
// separator.
func sanitizeName(name string) string {
	base := filepath.Base(name)
	if base == "." || base == string(filepath.Separator) {
		return "asset"
	}
	return base
}
