package archive

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/3leaps/ubi/internal/model"
)

// SelectMember picks the single member normal-mode installs extract:
// directories, symlinks and zero-length members are never candidates even
// when their name matches, an exact case-insensitive basename match (on
// Windows also wantName plus .exe or .bat) wins outright, otherwise an
// executable member whose basename starts with wantName, sorted by name
// when more than one candidate ties at either stage. A name-based match is
// required; SelectMember never guesses at an unrelated bundled executable.
//
// "Executable" for the starts-with stage is platform-dependent: on
// Windows, a POSIX exec bit means nothing (zip/7z archives built on
// Windows never set one) and a member counts as executable only if its
// basename ends in .exe or .bat; everywhere else the member's own
// Executable flag, computed from the archive's stored file mode, is used.
func SelectMember(members []model.ArchiveMember, wantName string, plat model.Platform) (model.ArchiveMember, error) {
	var files []model.ArchiveMember
	for _, m := range members {
		if !m.IsDir && !m.IsSymlink && m.Size != 0 {
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return model.ArchiveMember{}, noExecutableFound(wantName, 0)
	}

	lowerWant := strings.ToLower(wantName)
	var exact []model.ArchiveMember
	for _, m := range files {
		base := strings.ToLower(filepath.Base(m.Name))
		if base == lowerWant || (plat.OS == model.Windows && (base == lowerWant+".exe" || base == lowerWant+".bat")) {
			exact = append(exact, m)
		}
	}
	if len(exact) > 0 {
		return sortFirst(exact), nil
	}

	var startsWith []model.ArchiveMember
	for _, m := range files {
		if !isExecutableMember(m, plat) {
			continue
		}
		base := strings.ToLower(filepath.Base(m.Name))
		if strings.HasPrefix(base, lowerWant) {
			startsWith = append(startsWith, m)
		}
	}
	if len(startsWith) > 0 {
		return sortFirst(startsWith), nil
	}

	return model.ArchiveMember{}, noExecutableFound(wantName, len(files))
}

func isExecutableMember(m model.ArchiveMember, plat model.Platform) bool {
	if plat.OS != model.Windows {
		return m.Executable
	}
	base := strings.ToLower(filepath.Base(m.Name))
	return strings.HasSuffix(base, ".exe") || strings.HasSuffix(base, ".bat")
}

func sortFirst(members []model.ArchiveMember) model.ArchiveMember {
	sort.Slice(members, func(i, j int) bool { return members[i].Name < members[j].Name })
	return members[0]
}
