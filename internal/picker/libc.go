package picker

import "github.com/3leaps/ubi/internal/model"

var gnuMarkerRe = tokenBoundary("gnu")

func hasGnuMarker(name string) bool {
	return gnuMarkerRe.MatchString(name) || tokenBoundary("gnueabi").MatchString(name) || tokenBoundary("gnueabihf").MatchString(name)
}

func hasMuslMarker(name string) bool {
	return tokenBoundary("musl").MatchString(name)
}

// filterLibc implements Stage D: on a musl host, gnu-marked assets are
// dropped unless doing so would empty the candidate set entirely, in which
// case the filter is skipped and everything survives. On a gnu host there
// is no equivalent filter -- musl binaries commonly work on glibc hosts.
func filterLibc(assets []model.Asset, libc model.Libc, trace *Trace) []model.Asset {
	if libc != model.LibcMusl {
		return assets
	}

	kept := make([]model.Asset, 0, len(assets))
	for _, a := range assets {
		if hasGnuMarker(a.Name) && !hasMuslMarker(a.Name) {
			continue
		}
		kept = append(kept, a)
	}
	if len(kept) == 0 {
		return assets
	}

	for _, a := range assets {
		found := false
		for _, k := range kept {
			if k.Name == a.Name {
				found = true
				break
			}
		}
		if !found {
			trace.reject(a.Name, StageLibc, "gnu-libc marker on a musl host")
		}
	}
	return kept
}
