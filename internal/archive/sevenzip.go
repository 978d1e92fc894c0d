package archive

import (
	"context"
	"io"
	"os"

	"github.com/3leaps/ubi/internal/model"
	"github.com/bodgit/sevenzip"
)

// sevenZipDecoder covers .7z archives via bodgit/sevenzip, a pure-Go reader
// modeled closely on archive/zip's API.
type sevenZipDecoder struct {
	path string
}

func (d *sevenZipDecoder) Members(ctx context.Context) ([]model.ArchiveMember, error) {
	r, err := sevenzip.OpenReader(d.path)
	if err != nil {
		return nil, decodeFailed(d.path, err)
	}
	defer r.Close()

	members := make([]model.ArchiveMember, 0, len(r.File))
	for _, f := range r.File {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fi := f.FileInfo()
		members = append(members, model.ArchiveMember{
			Name:       f.Name,
			IsDir:      fi.IsDir(),
			IsSymlink:  fi.Mode()&os.ModeSymlink != 0,
			Executable: fi.Mode()&0o111 != 0,
			Size:       int64(f.UncompressedSize),
		})
	}
	return members, nil
}

func (d *sevenZipDecoder) Open(ctx context.Context, member model.ArchiveMember) (io.ReadCloser, error) {
	r, err := sevenzip.OpenReader(d.path)
	if err != nil {
		return nil, decodeFailed(d.path, err)
	}

	for _, f := range r.File {
		if f.Name == member.Name {
			rc, err := f.Open()
			if err != nil {
				r.Close()
				return nil, decodeFailed(d.path, err)
			}
			return &sevenZipMemberReader{ReadCloser: rc, r: r}, nil
		}
	}
	r.Close()
	return nil, memberNotFound(member.Name)
}

type sevenZipMemberReader struct {
	io.ReadCloser
	r *sevenzip.ReadCloser
}

func (m *sevenZipMemberReader) Close() error {
	err := m.ReadCloser.Close()
	if rerr := m.r.Close(); err == nil {
		err = rerr
	}
	return err
}
