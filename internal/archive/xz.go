package archive

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/3leaps/ubi/internal/model"
	"github.com/ulikunitz/xz"
)

// xzDecoder covers a bare xz-compressed executable. .tar.xz archives are
// handled by tarDecoder, which opens its own xz reader.
type xzDecoder struct {
	path      string
	assetName string
}

func (d *xzDecoder) memberName() string {
	return strings.TrimSuffix(d.assetName, ".xz")
}

func (d *xzDecoder) Members(ctx context.Context) ([]model.ArchiveMember, error) {
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

func (d *xzDecoder) Open(ctx context.Context, member model.ArchiveMember) (io.ReadCloser, error) {
	f, err := os.Open(d.path)
	if err != nil {
		return nil, openFailed(d.path, err)
	}
	xr, err := xz.NewReader(f)
	if err != nil {
		f.Close()
		return nil, decodeFailed(d.path, err)
	}
	return &wrappedReadCloser{Reader: xr, closers: []io.Closer{f}}, nil
}
