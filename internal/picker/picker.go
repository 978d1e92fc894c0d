// Package picker implements the multi-stage filter/scoring pipeline that
// chooses exactly one release asset for the host platform. It performs no
// I/O: every function here is a pure transformation over a slice of
// model.Asset.
package picker

import (
	"regexp"
	"sort"
	"strings"

	"github.com/3leaps/ubi/internal/model"
	"github.com/3leaps/ubi/internal/uerr"
)

// Options carries the user-supplied hints Stage E filters on.
type Options struct {
	MatchingSubstring string
	MatchingRegex     string
}

type candidate struct {
	asset model.Asset
	ext   model.ExtensionKind
}

// Pick runs the full staged pipeline and returns the chosen asset or a
// *uerr.Error of Kind NoMatch or InvalidRequest (bad regex), together with
// the accumulated Trace for diagnostics.
func Pick(assets []model.Asset, platform model.Platform, opts Options) (model.PickedAsset, *Trace, error) {
	trace := &Trace{}

	stageA, err := stageExtension(assets, platform, trace)
	if err != nil {
		return model.PickedAsset{}, trace, err
	}
	if len(stageA) == 1 {
		return pickedFrom(stageA[0]), trace, nil
	}
	if len(stageA) == 0 {
		return model.PickedAsset{}, trace, noMatch(trace, "no asset survived the extension filter")
	}
	trace.recordStage(StageExtension, names(stageA))

	stageB := stageOS(stageA, platform, trace)
	if len(stageB) == 0 {
		return model.PickedAsset{}, trace, noMatch(trace, "no asset matches the host OS")
	}
	trace.recordStage(StageOS, names(stageB))

	stageC := stageArch(stageB, platform, trace)
	if len(stageC) == 0 {
		return model.PickedAsset{}, trace, noMatch(trace, "no asset matches the host architecture")
	}
	trace.recordStage(StageArch, names(stageC))

	stageD := stageLibc(stageC, platform, trace)
	if len(stageD) == 0 {
		return model.PickedAsset{}, trace, noMatch(trace, "no asset survived the libc filter")
	}
	trace.recordStage(StageLibc, names(stageD))

	stageE, err := stageMatching(stageD, opts, trace)
	if err != nil {
		return model.PickedAsset{}, trace, err
	}
	trace.recordStage(StageMatching, names(stageE))

	chosen := stageTieBreak(stageE)
	return pickedFrom(chosen), trace, nil
}

func pickedFrom(c candidate) model.PickedAsset {
	return model.PickedAsset{
		Asset:     c.asset,
		Extension: c.ext,
		IsArchive: isArchiveExtension(c.ext),
	}
}

func names(cs []candidate) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.asset.Name
	}
	return out
}

func noMatch(trace *Trace, reason string) error {
	return uerr.New(uerr.NoMatch, "%s (last surviving stage: %q, candidates: %v)", reason, trace.LastStage, trace.Survivors)
}

// stageExtension implements Stage A: the effective-extension gate plus the
// per-OS extension bans (.exe/.bat off non-Windows, .AppImage off
// non-Linux).
func stageExtension(assets []model.Asset, platform model.Platform, trace *Trace) ([]candidate, error) {
	out := make([]candidate, 0, len(assets))
	for _, a := range assets {
		kind, ok := effectiveExtension(a.Name)
		if !ok {
			trace.reject(a.Name, StageExtension, "unrecognized extension")
			continue
		}
		if kind == model.ExtExe && platform.OS != model.Windows {
			trace.reject(a.Name, StageExtension, ".exe asset on a non-Windows host")
			continue
		}
		if kind == model.ExtBat && platform.OS != model.Windows {
			trace.reject(a.Name, StageExtension, ".bat asset on a non-Windows host")
			continue
		}
		if kind == model.ExtAppImage && platform.OS != model.Linux {
			trace.reject(a.Name, StageExtension, "AppImage asset on a non-Linux host")
			continue
		}
		out = append(out, candidate{asset: a, ext: kind})
	}
	return out, nil
}

// stageOS implements Stage B: assets that positively name a different OS
// are dropped; assets naming the host OS are preferred; if none do, the
// OS-agnostic set (no OS token at all) carries forward.
func stageOS(cands []candidate, platform model.Platform, trace *Trace) []candidate {
	var hostMatch, agnostic []candidate
	for _, c := range cands {
		os, matched := matchedOS(c.asset.Name)
		switch {
		case matched && os == platform.OS:
			hostMatch = append(hostMatch, c)
		case matched:
			trace.reject(c.asset.Name, StageOS, "names a different OS ("+string(os)+")")
		default:
			agnostic = append(agnostic, c)
		}
	}
	if len(hostMatch) > 0 {
		for _, c := range agnostic {
			trace.reject(c.asset.Name, StageOS, "OS-agnostic, but host-specific candidates exist")
		}
		return hostMatch
	}
	return agnostic
}

// stageArch implements Stage C: the architecture analog of Stage B, plus
// the macOS/aarch64 Rosetta fallback and the 64-bit-over-32-bit
// preference.
func stageArch(cands []candidate, platform model.Platform, trace *Trace) []candidate {
	survivors := archTwoTier(cands, platform.Arch, trace)

	if len(survivors) == 0 && platform.OS == model.Darwin && platform.Arch == model.Aarch64 {
		survivors = archTwoTier(cands, model.X86_64, trace)
	}

	if platform.Is64Bit && len(survivors) > 1 {
		var withSixtyFour []candidate
		for _, c := range survivors {
			if strings.Contains(c.asset.Name, "64") {
				withSixtyFour = append(withSixtyFour, c)
			}
		}
		if len(withSixtyFour) > 0 {
			for _, c := range survivors {
				if !strings.Contains(c.asset.Name, "64") {
					trace.reject(c.asset.Name, StageArch, "32-bit candidate dropped in favor of 64-bit siblings")
				}
			}
			survivors = withSixtyFour
		}
	}

	return survivors
}

func archTwoTier(cands []candidate, want model.Arch, trace *Trace) []candidate {
	var hostMatch, agnostic []candidate
	for _, c := range cands {
		arch, matched := matchedArch(c.asset.Name)
		switch {
		case matched && arch == want:
			hostMatch = append(hostMatch, c)
		case matched:
			trace.reject(c.asset.Name, StageArch, "names a different architecture ("+string(arch)+")")
		default:
			agnostic = append(agnostic, c)
		}
	}
	if len(hostMatch) > 0 {
		return hostMatch
	}
	return agnostic
}

// stageLibc implements Stage D.
func stageLibc(cands []candidate, platform model.Platform, trace *Trace) []candidate {
	if platform.Libc != model.LibcMusl {
		return cands
	}

	assets := make([]model.Asset, len(cands))
	for i, c := range cands {
		assets[i] = c.asset
	}
	filtered := filterLibc(assets, platform.Libc, trace)

	out := make([]candidate, 0, len(filtered))
	for _, c := range cands {
		for _, f := range filtered {
			if f.Name == c.asset.Name {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// stageMatching implements Stage E: the user-supplied substring/regex
// hints. A regex, when set, is authoritative; otherwise the substring
// filter applies. Neither is required.
func stageMatching(cands []candidate, opts Options, trace *Trace) ([]candidate, error) {
	if opts.MatchingRegex != "" {
		re, err := regexp.Compile(opts.MatchingRegex)
		if err != nil {
			return nil, uerr.Wrap(uerr.InvalidRequest, err, "compiling matching_regex %q", opts.MatchingRegex)
		}
		var out []candidate
		for _, c := range cands {
			if re.MatchString(c.asset.Name) {
				out = append(out, c)
			} else {
				trace.reject(c.asset.Name, StageMatching, "does not match matching_regex")
			}
		}
		if len(out) == 0 {
			return nil, uerr.New(uerr.NoMatch, "no asset matched matching_regex %q", opts.MatchingRegex)
		}
		return out, nil
	}

	if opts.MatchingSubstring != "" {
		var out []candidate
		for _, c := range cands {
			if strings.Contains(c.asset.Name, opts.MatchingSubstring) {
				out = append(out, c)
			} else {
				trace.reject(c.asset.Name, StageMatching, "does not contain matching substring")
			}
		}
		if len(out) == 0 {
			return nil, uerr.New(uerr.NoMatch, "no asset contained matching string %q", opts.MatchingSubstring)
		}
		return out, nil
	}

	return cands, nil
}

// stageTieBreak implements Stage F: sort by name, take the first.
func stageTieBreak(cands []candidate) candidate {
	sort.Slice(cands, func(i, j int) bool {
		return cands[i].asset.Name < cands[j].asset.Name
	})
	return cands[0]
}
