// Package model holds the data shapes shared across the forge, picker,
// download, archive and install packages, so none of them needs to import
// the root ubi package (which assembles them) to describe its inputs and
// outputs.
package model

// OS is the host operating system family.
type OS string

const (
	Linux   OS = "linux"
	Darwin  OS = "darwin"
	FreeBSD OS = "freebsd"
	NetBSD  OS = "netbsd"
	OpenBSD OS = "openbsd"
	Illumos OS = "illumos"
	Solaris OS = "solaris"
	Windows OS = "windows"
	Fuchsia OS = "fuchsia"
	Android OS = "android"
)

// Arch is the host CPU architecture.
type Arch string

const (
	X86        Arch = "x86"
	X86_64     Arch = "x86_64"
	Arm        Arch = "arm"
	Aarch64    Arch = "aarch64"
	Mips       Arch = "mips"
	Mipsel     Arch = "mipsel"
	Mips64     Arch = "mips64"
	Mips64el   Arch = "mips64el"
	PowerPC    Arch = "powerpc"
	PowerPC64  Arch = "powerpc64"
	PowerPC64L Arch = "powerpc64le"
	Riscv64    Arch = "riscv64"
	S390x      Arch = "s390x"
	Sparc      Arch = "sparc"
	Sparc64    Arch = "sparc64"
)

// Libc is the C runtime flavor on Linux hosts; meaningless elsewhere.
type Libc string

const (
	LibcUnknown Libc = "unknown"
	LibcGnu     Libc = "gnu"
	LibcMusl    Libc = "musl"
)

// Platform describes the host the picker must match assets against. It is
// derived once per run and never mutated afterward.
type Platform struct {
	OS       OS
	Arch     Arch
	Is64Bit  bool
	Libc     Libc
}

// Asset is a single release artifact as published by a forge. URL is
// opaque to the picker: it is only ever handed back to the forge client
// that produced it, for downloading.
type Asset struct {
	Name string
	URL  string
	Size int64
}

// ExtensionKind classifies what an asset's effective extension tells the
// archive dispatcher to do with it.
type ExtensionKind string

const (
	ExtTar      ExtensionKind = "tar"
	ExtTarGz    ExtensionKind = "tar.gz"
	ExtTarBz2   ExtensionKind = "tar.bz2"
	ExtTarXz    ExtensionKind = "tar.xz"
	ExtZip      ExtensionKind = "zip"
	ExtJar      ExtensionKind = "jar"
	ExtPyz      ExtensionKind = "pyz"
	ExtSevenZip ExtensionKind = "7z"
	ExtGz       ExtensionKind = "gz"
	ExtBz2      ExtensionKind = "bz2"
	ExtBz       ExtensionKind = "bz"
	ExtXz       ExtensionKind = "xz"
	ExtAppImage ExtensionKind = "AppImage"
	ExtExe      ExtensionKind = "exe"
	ExtBat      ExtensionKind = "bat"
	ExtPhar     ExtensionKind = "phar"
	ExtNone     ExtensionKind = "" // bare executable
)

// PickedAsset is the picker's output: the chosen Asset plus the facts the
// archive dispatcher and installer need without recomputing them.
type PickedAsset struct {
	Asset     Asset
	Extension ExtensionKind
	IsArchive bool
}

// ArchiveMember is a single entry inside a downloaded container, or the
// pseudo-entry representing a bare/compressed executable payload.
type ArchiveMember struct {
	Name        string
	IsDir       bool
	IsSymlink   bool
	Executable  bool
	Size        int64
}
