package picker

import (
	"regexp"
	"strings"

	"github.com/3leaps/ubi/internal/model"
)

// recognizedSuffix pairs a dotted suffix with the ExtensionKind it selects.
// Longer, more specific suffixes must be tried before their shorter
// components (".tar.gz" before ".gz") or the wrong one wins.
type recognizedSuffix struct {
	suffix string
	kind   model.ExtensionKind
}

var recognizedSuffixes = []recognizedSuffix{
	{".tar.bz2", model.ExtTarBz2},
	{".tar.gz", model.ExtTarGz},
	{".tar.xz", model.ExtTarXz},
	{".tar.bz", model.ExtTarBz2}, // .tar.bz is treated like its more common sibling for dispatch
	{".appimage", model.ExtAppImage},
	{".bat", model.ExtBat},
	{".bz2", model.ExtBz2},
	{".bz", model.ExtBz},
	{".exe", model.ExtExe},
	{".gz", model.ExtGz},
	{".jar", model.ExtJar},
	{".phar", model.ExtPhar},
	{".pyz", model.ExtPyz},
	{".tar", model.ExtTar},
	{".tbz", model.ExtTarBz2},
	{".tgz", model.ExtTarGz},
	{".txz", model.ExtTarXz},
	{".xz", model.ExtXz},
	{".zip", model.ExtZip},
	{".7z", model.ExtSevenZip},
}

var versionLeadRe = regexp.MustCompile(`^[0-9]+`)
var versionTailRe = regexp.MustCompile(`[0-9]+\.([0-9]+[^.]*)$`)

// effectiveExtension computes an asset's effective extension per the
// closed-set/false-extension rules: it walks the recognized dotted
// suffixes longest-first, and when none match, decides whether the
// filename's naive last extension is really part of a version number or a
// platform label rather than a genuine extension. ok is false when the
// filename carries a real, unrecognized extension and the asset must be
// dropped outright.
func effectiveExtension(name string) (kind model.ExtensionKind, ok bool) {
	lower := strings.ToLower(name)

	for _, rs := range recognizedSuffixes {
		if strings.HasSuffix(lower, rs.suffix) {
			return rs.kind, true
		}
	}

	dot := strings.LastIndex(name, ".")
	if dot < 0 {
		// No dot at all: a bare executable, kept with an empty extension.
		return model.ExtNone, true
	}
	last := name[dot+1:]
	if last == "" {
		return model.ExtNone, true
	}

	if versionLeadRe.MatchString(last) {
		if m := versionTailRe.FindStringSubmatch(name); m != nil && m[1] == last {
			return model.ExtNone, true
		}
	}

	if isOSOrArchToken(last) {
		return model.ExtNone, true
	}

	return model.ExtNone, false
}

// ClassifyExtension exposes effectiveExtension to callers outside the
// package, namely the direct-URL install path, which has no asset list to
// run the full Stage A–F pipeline over.
func ClassifyExtension(name string) (kind model.ExtensionKind, ok bool) {
	return effectiveExtension(name)
}

// IsArchive exposes isArchiveExtension for the same reason.
func IsArchive(kind model.ExtensionKind) bool {
	return isArchiveExtension(kind)
}

// isArchiveExtension reports whether kind names a container format the
// archive dispatcher must iterate members of, as opposed to a bare or
// single-stream-compressed payload.
func isArchiveExtension(kind model.ExtensionKind) bool {
	switch kind {
	case model.ExtTar, model.ExtTarGz, model.ExtTarBz2, model.ExtTarXz,
		model.ExtZip, model.ExtJar, model.ExtPyz, model.ExtSevenZip:
		return true
	default:
		return false
	}
}
