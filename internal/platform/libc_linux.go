//go:build linux

package platform

import (
	"os/exec"
	"strings"

	"github.com/3leaps/ubi/internal/model"
)

// detectLibc classifies the host's C runtime as musl or gnu by running
// `ldd` against the `ls` binary, found on virtually every Linux system,
// and scanning its combined output (the list of shared libraries ls links
// against) for "musl", or else "gnu" or "glibc". Any failure to resolve
// either tool, or output that names neither, yields LibcUnknown rather
// than an error -- libc detection is best-effort and must never fail an
// install.
func detectLibc() model.Libc {
	target, err := exec.LookPath("ls")
	if err != nil {
		return model.LibcUnknown
	}
	lddPath, err := exec.LookPath("ldd")
	if err != nil {
		return model.LibcUnknown
	}

	out, _ := exec.Command(lddPath, target).CombinedOutput()
	lower := strings.ToLower(string(out))
	switch {
	case strings.Contains(lower, "musl"):
		return model.LibcMusl
	case strings.Contains(lower, "gnu") || strings.Contains(lower, "glibc"):
		return model.LibcGnu
	default:
		return model.LibcUnknown
	}
}
