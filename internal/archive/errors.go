package archive

import (
	"github.com/3leaps/ubi/internal/model"
	"github.com/3leaps/ubi/internal/uerr"
)

func unsupportedKind(kind model.ExtensionKind) error {
	return uerr.New(uerr.ExtractionFailed, "no decoder for extension kind %q", string(kind))
}

func openFailed(path string, err error) error {
	return uerr.Wrap(uerr.IoFailed, err, "opening %s", path)
}

func decodeFailed(path string, err error) error {
	return uerr.Wrap(uerr.ExtractionFailed, err, "decoding %s", path)
}

func memberNotFound(name string) error {
	return uerr.New(uerr.ExtractionFailed, "member %q not found on reopen", name)
}

func noExecutableFound(wantName string, candidateCount int) error {
	return uerr.New(uerr.NoExecutableFound, "no member matched %q among %d candidates", wantName, candidateCount)
}
