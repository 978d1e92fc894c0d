// Package platform detects the host operating system, CPU architecture and
// libc flavor once per process and hands back an immutable model.Platform.
package platform

import (
	"runtime"
	"sync"

	"github.com/3leaps/ubi/internal/model"
)

var (
	once     sync.Once
	detected model.Platform
	override *model.Platform
)

// Detect returns the host Platform, computed once per process and cached
// for the remainder of the run. Override installs a synthetic Platform for
// tests; pass nil to restore normal detection (only safe between tests,
// never concurrently with Detect).
func Detect() model.Platform {
	if override != nil {
		return *override
	}
	once.Do(func() {
		detected = model.Platform{
			OS:      goosToOS(runtime.GOOS),
			Arch:    goarchToArch(runtime.GOARCH),
			Is64Bit: is64BitArch(runtime.GOARCH),
			Libc:    model.LibcUnknown,
		}
		if detected.OS == model.Linux {
			detected.Libc = detectLibc()
		}
	})
	return detected
}

// Override installs a synthetic Platform for the current process, bypassing
// runtime.GOOS/GOARCH detection. Intended for tests exercising the picker
// or installer against a host they aren't actually running on.
func Override(p *model.Platform) {
	override = p
}

func goosToOS(goos string) model.OS {
	switch goos {
	case "linux":
		return model.Linux
	case "darwin":
		return model.Darwin
	case "freebsd":
		return model.FreeBSD
	case "netbsd":
		return model.NetBSD
	case "openbsd":
		return model.OpenBSD
	case "illumos":
		return model.Illumos
	case "solaris":
		return model.Solaris
	case "windows":
		return model.Windows
	case "android":
		return model.Android
	default:
		return model.OS(goos)
	}
}

func goarchToArch(goarch string) model.Arch {
	switch goarch {
	case "386":
		return model.X86
	case "amd64":
		return model.X86_64
	case "arm":
		return model.Arm
	case "arm64":
		return model.Aarch64
	case "mips":
		return model.Mips
	case "mipsle":
		return model.Mipsel
	case "mips64":
		return model.Mips64
	case "mips64le":
		return model.Mips64el
	case "ppc":
		return model.PowerPC
	case "ppc64":
		return model.PowerPC64
	case "ppc64le":
		return model.PowerPC64L
	case "riscv64":
		return model.Riscv64
	case "s390x":
		return model.S390x
	default:
		return model.Arch(goarch)
	}
}

func is64BitArch(goarch string) bool {
	switch goarch {
	case "amd64", "arm64", "mips64", "mips64le", "ppc64", "ppc64le", "riscv64", "s390x":
		return true
	default:
		return false
	}
}
