package picker

import (
	"testing"

	"github.com/3leaps/ubi/internal/model"
)

func assetsFrom(names ...string) []model.Asset {
	out := make([]model.Asset, len(names))
	for i, n := range names {
		out[i] = model.Asset{Name: n, URL: "https://example.com/" + n}
	}
	return out
}

func TestPickLinuxMuslHostPrefersMuslAsset(t *testing.T) {
	t.Parallel()

	assets := assetsFrom(
		"tool-1.2.0-x86_64-unknown-linux-gnu.tar.gz",
		"tool-1.2.0-x86_64-unknown-linux-musl.tar.gz",
	)
	platform := model.Platform{OS: model.Linux, Arch: model.X86_64, Is64Bit: true, Libc: model.LibcMusl}

	picked, _, err := Pick(assets, platform, Options{})
	if err != nil {
		t.Fatalf("Pick: %v", err)
	}
	want := "tool-1.2.0-x86_64-unknown-linux-musl.tar.gz"
	if picked.Asset.Name != want {
		t.Fatalf("picked %q, want %q", picked.Asset.Name, want)
	}
}

func TestMatchedOSDistinguishesIllumosFromSolaris(t *testing.T) {
	t.Parallel()

	if os, ok := matchedOS("tool-1.2.0-solaris-amd64.tar.gz"); !ok || os != model.Solaris {
		t.Fatalf("matchedOS(solaris asset) = (%v, %v), want (%v, true)", os, ok, model.Solaris)
	}
	if os, ok := matchedOS("tool-1.2.0-illumos-amd64.tar.gz"); !ok || os != model.Illumos {
		t.Fatalf("matchedOS(illumos asset) = (%v, %v), want (%v, true)", os, ok, model.Illumos)
	}
}

func TestPickOnSolarisHostAcceptsSolarisTaggedAsset(t *testing.T) {
	t.Parallel()

	assets := assetsFrom("tool-1.2.0-solaris-amd64.tar.gz", "tool-1.2.0-illumos-amd64.tar.gz")
	platform := model.Platform{OS: model.Solaris, Arch: model.X86_64, Is64Bit: true}

	picked, _, err := Pick(assets, platform, Options{})
	if err != nil {
		t.Fatalf("Pick: %v", err)
	}
	want := "tool-1.2.0-solaris-amd64.tar.gz"
	if picked.Asset.Name != want {
		t.Fatalf("picked %q, want %q", picked.Asset.Name, want)
	}
}

func TestPickMacOSAarch64RosettaFallback(t *testing.T) {
	t.Parallel()

	assets := assetsFrom("tool-mac-x86_64.tar.gz", "tool-linux-amd64.tar.gz")
	platform := model.Platform{OS: model.Darwin, Arch: model.Aarch64, Is64Bit: true, Libc: model.LibcUnknown}

	picked, _, err := Pick(assets, platform, Options{})
	if err != nil {
		t.Fatalf("Pick: %v", err)
	}
	if picked.Asset.Name != "tool-mac-x86_64.tar.gz" {
		t.Fatalf("picked %q, want the Rosetta-eligible x86_64 build", picked.Asset.Name)
	}
}

func TestPickVersionLookingExtensionIsNotRejected(t *testing.T) {
	t.Parallel()

	assets := assetsFrom("shfmt_v3.10.0_linux_amd64")
	platform := model.Platform{OS: model.Linux, Arch: model.X86_64, Is64Bit: true, Libc: model.LibcGnu}

	picked, _, err := Pick(assets, platform, Options{})
	if err != nil {
		t.Fatalf("Pick: %v", err)
	}
	if picked.Asset.Name != "shfmt_v3.10.0_linux_amd64" {
		t.Fatalf("picked %q", picked.Asset.Name)
	}
	if picked.Extension != model.ExtNone {
		t.Fatalf("Extension = %q, want empty (bare executable)", picked.Extension)
	}
	if picked.IsArchive {
		t.Fatalf("IsArchive = true, want false for a bare executable")
	}
}

func TestPickStartsWithMatchOnWindowsSurvivesExtensionGate(t *testing.T) {
	t.Parallel()

	assets := assetsFrom("tool-v1.2.3-x86_64-pc-windows-msvc.exe")
	platform := model.Platform{OS: model.Windows, Arch: model.X86_64, Is64Bit: true, Libc: model.LibcUnknown}

	picked, _, err := Pick(assets, platform, Options{})
	if err != nil {
		t.Fatalf("Pick: %v", err)
	}
	if picked.Extension != model.ExtExe {
		t.Fatalf("Extension = %q, want exe", picked.Extension)
	}
}

func TestPickDropsExeOnNonWindows(t *testing.T) {
	t.Parallel()

	assets := assetsFrom("tool-windows.exe", "tool-linux-amd64.tar.gz")
	platform := model.Platform{OS: model.Linux, Arch: model.X86_64, Is64Bit: true, Libc: model.LibcGnu}

	picked, _, err := Pick(assets, platform, Options{})
	if err != nil {
		t.Fatalf("Pick: %v", err)
	}
	if picked.Asset.Name != "tool-linux-amd64.tar.gz" {
		t.Fatalf("picked %q, want the Linux asset", picked.Asset.Name)
	}
}

func TestPickNoMatchWhenNothingSurvives(t *testing.T) {
	t.Parallel()

	assets := assetsFrom("tool-windows.exe", "tool-darwin-amd64.tar.gz", "tool-freebsd-amd64.tar.gz")
	platform := model.Platform{OS: model.Linux, Arch: model.X86_64, Is64Bit: true, Libc: model.LibcGnu}

	_, trace, err := Pick(assets, platform, Options{})
	if err == nil {
		t.Fatalf("expected NoMatch, got a pick")
	}
	if trace == nil || len(trace.Rejections) == 0 {
		t.Fatalf("expected a populated trace on NoMatch")
	}
}

func TestPickDropsThirtyTwoBitWhenSixtyFourBitSiblingExists(t *testing.T) {
	t.Parallel()

	assets := assetsFrom("tool-linux-386.tar.gz", "tool-linux-amd64-64bit.tar.gz")
	platform := model.Platform{OS: model.Linux, Arch: model.X86_64, Is64Bit: true, Libc: model.LibcGnu}

	picked, _, err := Pick(assets, platform, Options{})
	if err != nil {
		t.Fatalf("Pick: %v", err)
	}
	if picked.Asset.Name != "tool-linux-amd64-64bit.tar.gz" {
		t.Fatalf("picked %q, want the 64-bit asset", picked.Asset.Name)
	}
}

func TestPickMatchingSubstringNarrowsCandidates(t *testing.T) {
	t.Parallel()

	assets := assetsFrom("tool-linux-amd64-gnu.tar.gz", "tool-linux-amd64-musl.tar.gz")
	platform := model.Platform{OS: model.Linux, Arch: model.X86_64, Is64Bit: true, Libc: model.LibcGnu}

	picked, _, err := Pick(assets, platform, Options{MatchingSubstring: "musl"})
	if err != nil {
		t.Fatalf("Pick: %v", err)
	}
	if picked.Asset.Name != "tool-linux-amd64-musl.tar.gz" {
		t.Fatalf("picked %q, want the musl asset", picked.Asset.Name)
	}
}

func TestPickSingleAssetShortcutsAllLaterStages(t *testing.T) {
	t.Parallel()

	// Would fail Stage B if it were evaluated, since it names no OS this
	// host matches -- but Stage A's exit shortcut must return it anyway.
	assets := assetsFrom("release-payload-linux")
	platform := model.Platform{OS: model.Windows, Arch: model.X86_64, Is64Bit: true, Libc: model.LibcUnknown}

	picked, _, err := Pick(assets, platform, Options{})
	if err != nil {
		t.Fatalf("Pick: %v", err)
	}
	if picked.Asset.Name != "release-payload-linux" {
		t.Fatalf("picked %q", picked.Asset.Name)
	}
}

func TestEffectiveExtensionCases(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		want    model.ExtensionKind
		wantOK  bool
	}{
		{"foo.tar.gz", model.ExtTarGz, true},
		{"foo.tgz", model.ExtTarGz, true},
		{"foo.tar.bz2", model.ExtTarBz2, true},
		{"foo.AppImage", model.ExtAppImage, true},
		{"foo", model.ExtNone, true},
		{"foo_3.2.1_linux_amd64", model.ExtNone, true},
		{"foo_3.9.1.linux.amd64", model.ExtNone, true},
		{"i386-linux-ghcup-0.1.30.0", model.ExtNone, true},
		{"foo.bar", model.ExtNone, false},
	}
	for _, tc := range cases {
		got, ok := effectiveExtension(tc.name)
		if ok != tc.wantOK || (ok && got != tc.want) {
			t.Errorf("effectiveExtension(%q) = (%q, %v), want (%q, %v)", tc.name, got, ok, tc.want, tc.wantOK)
		}
	}
}
