// Package install materializes extracted bytes into a target directory
// with the right name and executable bits, creating the directory just
// before the temp file that receives the extracted stream.
package install

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"runtime"

	"github.com/3leaps/ubi/internal/uerr"
)

// Request describes one file placement: src is an already-extracted
// readable stream, dir/name determine the destination, and executable
// controls whether the non-Windows chmod bit is set.
type Request struct {
	Src        io.Reader
	Dir        string
	Name       string
	Executable bool
}

// Run writes src to dir/name atomically (temp file in the same directory,
// then rename) and returns the final installed path. The download, the
// archive open and the member lookup all finish before Run is called, so
// a failure in any of them never creates the directory. req.Src is read
// while Run copies it, after the directory has been created: a decode
// error in that stream fails Run and removes the temp file, but the
// directory it created is left in place.
func Run(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dst, err := TargetPath(req.Dir, req.Name)
	if err != nil {
		return "", err
	}

	if req.Executable {
		if mountPoint, noExec := noExecMountPoint(req.Dir); noExec {
			return "", uerr.New(uerr.IoFailed, "install directory %s is under %s, which is mounted noexec", req.Dir, mountPoint)
		}
	}

	if err := os.MkdirAll(req.Dir, 0o755); err != nil {
		return "", uerr.Wrap(uerr.IoFailed, err, "creating install directory %s", req.Dir)
	}

	tmp, err := os.CreateTemp(req.Dir, ".ubi-install-*")
	if err != nil {
		return "", uerr.Wrap(uerr.IoFailed, err, "creating temp file in %s", req.Dir)
	}
	tmpPath := tmp.Name()
	cleanupTemp := true
	defer func() {
		if cleanupTemp {
			os.Remove(tmpPath)
		}
	}()

	if _, err := io.Copy(tmp, req.Src); err != nil {
		tmp.Close()
		return "", uerr.Wrap(uerr.IoFailed, err, "writing %s", tmpPath)
	}
	if err := tmp.Close(); err != nil {
		return "", uerr.Wrap(uerr.IoFailed, err, "closing %s", tmpPath)
	}

	finalPath, err := installFileWithRename(tmpPath, dst)
	if err != nil {
		return "", err
	}
	cleanupTemp = false

	if req.Executable && runtime.GOOS != "windows" {
		if err := os.Chmod(finalPath, 0o755); err != nil {
			return "", uerr.Wrap(uerr.IoFailed, err, "chmod %s", finalPath)
		}
	}

	return finalPath, nil
}

// installFileWithRename renames tmp to dst. On Windows, a running process
// can hold dst open (self-upgrade), which makes the rename fail with
// ErrPermission; the historical fix is to retry once against dst + ".new"
// and let the caller pick that file up on the next run rather than fail
// the install outright.
func installFileWithRename(tmp, dst string) (string, error) {
	if err := os.Rename(tmp, dst); err == nil {
		return dst, nil
	} else if !errors.Is(err, fs.ErrPermission) || runtime.GOOS != "windows" {
		return "", uerr.Wrap(uerr.IoFailed, err, "renaming %s to %s", tmp, dst)
	}

	alt := dst + ".new"
	if err := os.Rename(tmp, alt); err != nil {
		return "", uerr.Wrap(uerr.IoFailed, err, "renaming %s to %s", tmp, alt)
	}
	return alt, nil
}
