package picker

import (
	"regexp"

	"github.com/3leaps/ubi/internal/model"
)

type archTokenGroup struct {
	arch   model.Arch
	tokens []string
}

// archTokenGroups mirrors original_source/ubi/src/arch.rs's per-arch regex
// builders, translated into a flat boundary-token table. aarch64's "all"
// token exists for macOS universal ("Universal") binaries and is
// deliberately loose per the specification.
var archTokenGroups = []archTokenGroup{
	{model.X86_64, []string{"x86_64", "amd64", "x64", "64bit", "64-bit"}},
	{model.X86, []string{"i386", "i486", "i586", "i686", "x86", "32bit"}},
	{model.Aarch64, []string{"aarch64", "arm64", "all"}},
	{model.Arm, []string{"armv5", "armv6", "armv7", "armhf", "armel", "arm"}},
	{model.PowerPC64L, []string{"ppc64le"}},
	{model.PowerPC64, []string{"ppc64"}},
	{model.PowerPC, []string{"ppc"}},
	{model.Riscv64, []string{"riscv64"}},
	{model.Mips64el, []string{"mips64el", "mips64le"}},
	{model.Mips64, []string{"mips64"}},
	{model.Mipsel, []string{"mipsel", "mipsle"}},
	{model.Mips, []string{"mips"}},
	{model.S390x, []string{"s390x"}},
	{model.Sparc64, []string{"sparc64"}},
	{model.Sparc, []string{"sparc"}},
}

var archTokenRegexes = buildArchTokenRegexes()

func buildArchTokenRegexes() map[model.Arch][]*regexp.Regexp {
	out := make(map[model.Arch][]*regexp.Regexp, len(archTokenGroups))
	for _, g := range archTokenGroups {
		res := make([]*regexp.Regexp, 0, len(g.tokens))
		for _, tok := range g.tokens {
			res = append(res, tokenBoundary(tok))
		}
		out[g.arch] = res
	}
	return out
}

var allArchTokens = buildFlatTokenSet(func() []string {
	var toks []string
	for _, g := range archTokenGroups {
		toks = append(toks, g.tokens...)
	}
	return toks
}())

// matchedArch returns the arch a filename positively indicates, if any.
// Groups are tried in order of specificity: aarch64's tokens are checked
// before arm's plain "arm" so "arm64" is never mistaken for 32-bit arm.
func matchedArch(name string) (model.Arch, bool) {
	for _, g := range archTokenGroups {
		for _, re := range archTokenRegexes[g.arch] {
			if re.MatchString(name) {
				return g.arch, true
			}
		}
	}
	return "", false
}

func isSixtyFourBitArch(a model.Arch) bool {
	switch a {
	case model.X86_64, model.Aarch64, model.PowerPC64, model.PowerPC64L,
		model.Riscv64, model.Mips64, model.Mips64el, model.S390x, model.Sparc64:
		return true
	default:
		return false
	}
}
