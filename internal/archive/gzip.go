package archive

import (
	"compress/gzip"
	"context"
	"io"
	"os"
	"strings"

	"github.com/3leaps/ubi/internal/model"
)

// gzipDecoder covers a bare gzip-compressed executable (no tar container):
// a single synthetic member named after the asset with the .gz suffix
// stripped.
type gzipDecoder struct {
	path      string
	assetName string
}

func (d *gzipDecoder) memberName() string {
	return strings.TrimSuffix(d.assetName, ".gz")
}

func (d *gzipDecoder) Members(ctx context.Context) ([]model.ArchiveMember, error) {
	fi, err := os.Stat(d.path)
	if err != nil {
		return nil, openFailed(d.path, err)
	}
	return []model.ArchiveMember{{
		Name:       d.memberName(),
		Executable: true,
		Size:       fi.Size(),
	}}, nil
}

func (d *gzipDecoder) Open(ctx context.Context, member model.ArchiveMember) (io.ReadCloser, error) {
	f, err := os.Open(d.path)
	if err != nil {
		return nil, openFailed(d.path, err)
	}
	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, decodeFailed(d.path, err)
	}
	return &wrappedReadCloser{Reader: gz, closers: []io.Closer{gz, f}}, nil
}

type wrappedReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (w *wrappedReadCloser) Close() error { return closeAll(w.closers) }
