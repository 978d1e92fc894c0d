package picker

import "strings"

var libcTokens = buildFlatTokenSet([]string{"musl", "gnu", "gnueabi", "gnueabihf", "musleabi", "musleabihf"})

// isOSOrArchToken reports whether an isolated token (already split out of
// a filename, not a filename itself) names a known OS, architecture or
// libc flavor, or consists only of digits. Used by the extension
// false-positive heuristic in Stage A,
// where the naive last extension needs to be recognized as a platform
// label rather than a genuine file extension.
func isOSOrArchToken(token string) bool {
	lower := strings.ToLower(token)
	if _, ok := allOSTokens[lower]; ok {
		return true
	}
	if _, ok := allArchTokens[lower]; ok {
		return true
	}
	if _, ok := libcTokens[lower]; ok {
		return true
	}
	return isAllDigits(lower)
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
