package archive

import (
	"archive/zip"
	"context"
	"io"
	"os"

	"github.com/3leaps/ubi/internal/model"
)

// zipDecoder covers .zip and .jar (a zip with a manifest). It is also
// reused for .pyz in extract-all mode: a pyz is a self-executing zip, and
// while normal-mode installs treat it as a raw passthrough payload (see
// decoder.go's Open), extract-all mode has no single-file target to copy
// and iterates its members like any other zip.
type zipDecoder struct {
	path string
}

func (d *zipDecoder) Members(ctx context.Context) ([]model.ArchiveMember, error) {
	zr, err := zip.OpenReader(d.path)
	if err != nil {
		return nil, decodeFailed(d.path, err)
	}
	defer zr.Close()

	members := make([]model.ArchiveMember, 0, len(zr.File))
	for _, f := range zr.File {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fi := f.FileInfo()
		members = append(members, model.ArchiveMember{
			Name:       f.Name,
			IsDir:      fi.IsDir(),
			IsSymlink:  fi.Mode()&os.ModeSymlink != 0,
			Executable: fi.Mode()&0o111 != 0,
			Size:       int64(f.UncompressedSize64),
		})
	}
	return members, nil
}

func (d *zipDecoder) Open(ctx context.Context, member model.ArchiveMember) (io.ReadCloser, error) {
	zr, err := zip.OpenReader(d.path)
	if err != nil {
		return nil, decodeFailed(d.path, err)
	}

	for _, f := range zr.File {
		if f.Name == member.Name {
			rc, err := f.Open()
			if err != nil {
				zr.Close()
				return nil, decodeFailed(d.path, err)
			}
			return &zipMemberReader{ReadCloser: rc, zr: zr}, nil
		}
	}
	zr.Close()
	return nil, memberNotFound(member.Name)
}

type zipMemberReader struct {
	io.ReadCloser
	zr *zip.ReadCloser
}

func (r *zipMemberReader) Close() error {
	err := r.ReadCloser.Close()
	if zerr := r.zr.Close(); err == nil {
		err = zerr
	}
	return err
}
