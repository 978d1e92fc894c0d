package install

import (
	"path/filepath"
	"strings"

	"github.com/3leaps/ubi/internal/model"
	"github.com/3leaps/ubi/internal/uerr"
)

// FinalName computes the final on-disk filename per the installer's naming
// rules: an explicit rename wins outright, otherwise a bare/compressed
// executable takes the project's name (with .exe appended on plat if
// missing), otherwise the selected archive member's own basename is used
// unchanged.
func FinalName(picked model.PickedAsset, member model.ArchiveMember, projectName, renameTo string, isRawExecutable bool, plat model.Platform) string {
	if renameTo != "" {
		return renameTo
	}
	if isRawExecutable {
		return withWindowsExeSuffix(projectName, plat)
	}
	return filepath.Base(member.Name)
}

func withWindowsExeSuffix(name string, plat model.Platform) string {
	if plat.OS != model.Windows {
		return name
	}
	if strings.HasSuffix(strings.ToLower(name), ".exe") {
		return name
	}
	return name + ".exe"
}

// TargetPath joins dir and name, validating that dir was supplied — the
// installer never invents a destination directory on its own.
func TargetPath(dir, name string) (string, error) {
	if dir == "" {
		return "", uerr.New(uerr.InvalidRequest, "install target directory is required")
	}
	return filepath.Join(dir, name), nil
}
