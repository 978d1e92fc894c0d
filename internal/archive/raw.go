package archive

import (
	"context"
	"io"
	"os"

	"github.com/3leaps/ubi/internal/model"
)

// rawDecoder passes an asset's bytes through unchanged: bare executables,
// AppImages, .exe, .bat, .phar and (in normal mode) .pyz payloads are never
// opened as containers.
type rawDecoder struct {
	path       string
	assetName  string
	executable bool
}

func (d *rawDecoder) Members(ctx context.Context) ([]model.ArchiveMember, error) {
	fi, err := os.Stat(d.path)
	if err != nil {
		return nil, openFailed(d.path, err)
	}
	return []model.ArchiveMember{{
		Name:       d.assetName,
		Executable: d.executable,
		Size:       fi.Size(),
	}}, nil
}

func (d *rawDecoder) Open(ctx context.Context, member model.ArchiveMember) (io.ReadCloser, error) {
	f, err := os.Open(d.path)
	if err != nil {
		return nil, openFailed(d.path, err)
	}
	return f, nil
}
