package archive

import (
	"compress/bzip2"
	"context"
	"io"
	"os"
	"strings"

	"github.com/3leaps/ubi/internal/model"
)

// bzip2Decoder covers a bare bzip2-compressed executable. The standard
// library only decompresses bzip2; ubi never writes one, so no
// ecosystem compressor is needed.
type bzip2Decoder struct {
	path      string
	assetName string
}

func (d *bzip2Decoder) memberName() string {
	name := strings.TrimSuffix(d.assetName, ".bz2")
	return strings.TrimSuffix(name, ".bz")
}

func (d *bzip2Decoder) Members(ctx context.Context) ([]model.ArchiveMember, error) {
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

func (d *bzip2Decoder) Open(ctx context.Context, member model.ArchiveMember) (io.ReadCloser, error) {
	f, err := os.Open(d.path)
	if err != nil {
		return nil, openFailed(d.path, err)
	}
	return &wrappedReadCloser{Reader: bzip2.NewReader(f), closers: []io.Closer{f}}, nil
}
