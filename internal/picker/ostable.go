package picker

import (
	"regexp"
	"strings"

	"github.com/3leaps/ubi/internal/model"
)

// osTokenGroup pairs an OS with the name tokens that identify it in an
// asset filename. Order matters only in that it fixes iteration order for
// determinism; the tokens themselves are boundary-anchored so they never
// overlap ambiguously.
type osTokenGroup struct {
	os     model.OS
	tokens []string
}

var osTokenGroups = []osTokenGroup{
	{model.Linux, []string{"linux"}},
	{model.Darwin, []string{"darwin", "macos", "macosx", "osx", "mac"}},
	{model.Windows, []string{"windows", "win32", "win64", "win"}},
	{model.FreeBSD, []string{"freebsd"}},
	{model.NetBSD, []string{"netbsd"}},
	{model.OpenBSD, []string{"openbsd"}},
	{model.Illumos, []string{"illumos"}},
	{model.Solaris, []string{"solaris"}},
	{model.Android, []string{"android"}},
}

// tokenBoundary wraps a literal token in delimiters requiring it to be
// bounded by the start/end of the string or a non-alphanumeric character,
// so "arm" doesn't match inside "arm64" and "win" doesn't match inside
// "darwin".
func tokenBoundary(token string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(?:^|[^A-Za-z0-9])` + regexp.QuoteMeta(token) + `(?:$|[^A-Za-z0-9])`)
}

var osTokenRegexes = buildOSTokenRegexes()

func buildOSTokenRegexes() map[model.OS][]*regexp.Regexp {
	out := make(map[model.OS][]*regexp.Regexp, len(osTokenGroups))
	for _, g := range osTokenGroups {
		res := make([]*regexp.Regexp, 0, len(g.tokens))
		for _, tok := range g.tokens {
			res = append(res, tokenBoundary(tok))
		}
		out[g.os] = res
	}
	return out
}

var allOSTokens = buildFlatTokenSet(func() []string {
	var toks []string
	for _, g := range osTokenGroups {
		toks = append(toks, g.tokens...)
	}
	return toks
}())

// matchedOS returns the OS a filename positively indicates, if any.
func matchedOS(name string) (model.OS, bool) {
	for _, g := range osTokenGroups {
		for _, re := range osTokenRegexes[g.os] {
			if re.MatchString(name) {
				return g.os, true
			}
		}
	}
	return "", false
}

func buildFlatTokenSet(tokens []string) map[string]struct{} {
	out := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		out[strings.ToLower(t)] = struct{}{}
	}
	return out
}
