package archive

import (
	"archive/tar"
	"compress/bzip2"
	"compress/gzip"
	"context"
	"io"
	"os"

	"github.com/3leaps/ubi/internal/model"
	"github.com/ulikunitz/xz"
)

// tarDecoder wraps a tar stream, optionally compressed with gzip, bzip2 or
// xz depending on kind. archive/tar.Reader decodes GNU sparse entries
// transparently, so no separate sparse-file handling is needed here.
type tarDecoder struct {
	path string
	kind model.ExtensionKind
}

// open returns a tar.Reader positioned at the start of the stream plus the
// set of closers that must run, innermost first, when the caller is done.
func (d *tarDecoder) open() (*tar.Reader, []io.Closer, error) {
	f, err := os.Open(d.path)
	if err != nil {
		return nil, nil, openFailed(d.path, err)
	}
	closers := []io.Closer{f}

	var r io.Reader = f
	switch d.kind {
	case model.ExtTarGz:
		gz, err := gzip.NewReader(f)
		if err != nil {
			closeAll(closers)
			return nil, nil, decodeFailed(d.path, err)
		}
		closers = append(closers, gz)
		r = gz
	case model.ExtTarBz2:
		r = bzip2.NewReader(f)
	case model.ExtTarXz:
		xzr, err := xz.NewReader(f)
		if err != nil {
			closeAll(closers)
			return nil, nil, decodeFailed(d.path, err)
		}
		r = xzr
	}

	return tar.NewReader(r), closers, nil
}

func (d *tarDecoder) Members(ctx context.Context) ([]model.ArchiveMember, error) {
	tr, closers, err := d.open()
	if err != nil {
		return nil, err
	}
	defer closeAll(closers)

	var members []model.ArchiveMember
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, decodeFailed(d.path, err)
		}
		members = append(members, model.ArchiveMember{
			Name:       hdr.Name,
			IsDir:      hdr.Typeflag == tar.TypeDir,
			IsSymlink:  hdr.Typeflag == tar.TypeSymlink,
			Executable: hdr.FileInfo().Mode()&0o111 != 0,
			Size:       hdr.Size,
		})
	}
	return members, nil
}

func (d *tarDecoder) Open(ctx context.Context, member model.ArchiveMember) (io.ReadCloser, error) {
	tr, closers, err := d.open()
	if err != nil {
		return nil, err
	}

	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			closeAll(closers)
			return nil, memberNotFound(member.Name)
		}
		if err != nil {
			closeAll(closers)
			return nil, decodeFailed(d.path, err)
		}
		if hdr.Name == member.Name {
			return &tarMemberReader{tr: tr, closers: closers}, nil
		}
	}
}

type tarMemberReader struct {
	tr      *tar.Reader
	closers []io.Closer
}

func (r *tarMemberReader) Read(p []byte) (int, error) { return r.tr.Read(p) }
func (r *tarMemberReader) Close() error               { return closeAll(r.closers) }

func closeAll(closers []io.Closer) error {
	var first error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
