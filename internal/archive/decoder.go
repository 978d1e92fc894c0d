// Package archive dispatches a downloaded asset to the container format
// its effective extension names and exposes a uniform Decoder over every
// format: tar variants, zip/jar/pyz, 7z, single-stream gzip/bzip2/xz, and
// the raw passthrough for bare executables, AppImages, .exe and .bat
// payloads.
package archive

import (
	"context"
	"io"

	"github.com/3leaps/ubi/internal/model"
)

// Decoder lists and opens the members of a downloaded asset. A "member" of
// a non-container payload (a bare binary, a gzip-compressed binary, an
// AppImage) is the single synthetic entry representing the payload itself.
type Decoder interface {
	Members(ctx context.Context) ([]model.ArchiveMember, error)
	Open(ctx context.Context, member model.ArchiveMember) (io.ReadCloser, error)
}

// Open selects the Decoder implementation for kind and binds it to the
// file at path (typically the temp file download.ToTemp produced).
// assetName is the asset's original name as reported by the forge, used to
// name the single synthetic member of a non-container payload — path
// itself is a temp file name and carries no meaningful basename.
//
// extractAll matters only for .pyz: in normal mode a zipapp is copied
// through whole as a single executable, but in extract-all mode it is a
// zip archive like any other and its members are iterated individually.
//
// plat decides whether a raw .bat payload is treated as executable — a
// batch script is only launchable as-is on Windows.
func Open(kind model.ExtensionKind, path, assetName string, extractAll bool, plat model.Platform) (Decoder, error) {
	if kind == model.ExtPyz && extractAll {
		return &zipDecoder{path: path}, nil
	}
	switch kind {
	case model.ExtTar, model.ExtTarGz, model.ExtTarBz2, model.ExtTarXz:
		return &tarDecoder{path: path, kind: kind}, nil
	case model.ExtZip, model.ExtJar:
		return &zipDecoder{path: path}, nil
	case model.ExtSevenZip:
		return &sevenZipDecoder{path: path}, nil
	case model.ExtGz:
		return &gzipDecoder{path: path, assetName: assetName}, nil
	case model.ExtBz2, model.ExtBz:
		return &bzip2Decoder{path: path, assetName: assetName}, nil
	case model.ExtXz:
		return &xzDecoder{path: path, assetName: assetName}, nil
	case model.ExtNone, model.ExtExe, model.ExtBat, model.ExtAppImage, model.ExtPhar, model.ExtPyz:
		return &rawDecoder{path: path, assetName: assetName, executable: rawIsExecutable(kind, plat)}, nil
	default:
		return nil, unsupportedKind(kind)
	}
}

func rawIsExecutable(kind model.ExtensionKind, plat model.Platform) bool {
	if kind == model.ExtBat {
		return plat.OS == model.Windows
	}
	return true
}
