package archive

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/3leaps/ubi/internal/model"
	"github.com/3leaps/ubi/internal/uerr"
)

func writeTarGz(t *testing.T, entries map[string]string, executable map[string]bool) string {
	t.Helper()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for name, content := range entries {
		mode := int64(0o644)
		if executable[name] {
			mode = 0o755
		}
		hdr := &tar.Header{Name: name, Mode: mode, Size: int64(len(content))}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("WriteHeader: %v", err)
		}
		if _, err := tw.Write([]byte(content)); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("tar Close: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("gzip Close: %v", err)
	}

	path := filepath.Join(t.TempDir(), "asset.tar.gz")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestTarGzRoundTrip(t *testing.T) {
	t.Parallel()

	path := writeTarGz(t, map[string]string{
		"tool":      "binary-payload",
		"README.md": "docs",
	}, map[string]bool{"tool": true})

	dec, err := Open(model.ExtTarGz, path, "tool-linux-amd64.tar.gz", false, model.Platform{OS: model.Linux})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	members, err := dec.Members(context.Background())
	if err != nil {
		t.Fatalf("Members: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("members = %+v", members)
	}

	picked, err := SelectMember(members, "tool", model.Platform{OS: model.Linux})
	if err != nil {
		t.Fatalf("SelectMember: %v", err)
	}
	if picked.Name != "tool" || !picked.Executable {
		t.Fatalf("picked = %+v", picked)
	}

	rc, err := dec.Open(context.Background(), picked)
	if err != nil {
		t.Fatalf("Open member: %v", err)
	}
	defer rc.Close()

	var out bytes.Buffer
	if _, err := out.ReadFrom(rc); err != nil {
		t.Fatalf("ReadFrom: %v", err)
	}
	if out.String() != "binary-payload" {
		t.Fatalf("content = %q", out.String())
	}
}

func TestExtractAllStripsCommonTopLevelDirectory(t *testing.T) {
	t.Parallel()

	path := writeTarGz(t, map[string]string{
		"tool-1.2.3/bin/tool":   "binary-payload",
		"tool-1.2.3/README.md": "docs",
	}, map[string]bool{"tool-1.2.3/bin/tool": true})

	dec, err := Open(model.ExtTarGz, path, "tool.tar.gz", false, model.Platform{OS: model.Linux})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	destDir := t.TempDir()
	if err := ExtractAll(context.Background(), dec, destDir); err != nil {
		t.Fatalf("ExtractAll: %v", err)
	}

	if _, err := os.Stat(filepath.Join(destDir, "bin", "tool")); err != nil {
		t.Fatalf("expected flattened bin/tool, stat err: %v", err)
	}
	if _, err := os.Stat(filepath.Join(destDir, "tool-1.2.3")); !os.IsNotExist(err) {
		t.Fatalf("expected common prefix stripped, but tool-1.2.3 exists (err=%v)", err)
	}
}

func TestExtractAllRejectsPathEscape(t *testing.T) {
	t.Parallel()

	path := writeTarGz(t, map[string]string{
		"../escape": "malicious",
	}, nil)

	dec, err := Open(model.ExtTarGz, path, "tool.tar.gz", false, model.Platform{OS: model.Linux})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	destDir := t.TempDir()
	err = ExtractAll(context.Background(), dec, destDir)
	if kind, ok := uerr.Of(err); !ok || kind != uerr.UnsafePath {
		t.Fatalf("err = %v, want UnsafePath", err)
	}

	entries, readErr := os.ReadDir(destDir)
	if readErr != nil {
		t.Fatalf("ReadDir: %v", readErr)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no files written, got %v", entries)
	}
}

func TestExtractAllRejectsPathEscapeSharedAcrossMembers(t *testing.T) {
	t.Parallel()

	path := writeTarGz(t, map[string]string{
		"../a": "malicious-a",
		"../b": "malicious-b",
	}, nil)

	dec, err := Open(model.ExtTarGz, path, "tool.tar.gz", false, model.Platform{OS: model.Linux})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	destDir := t.TempDir()
	err = ExtractAll(context.Background(), dec, destDir)
	if kind, ok := uerr.Of(err); !ok || kind != uerr.UnsafePath {
		t.Fatalf("err = %v, want UnsafePath", err)
	}

	entries, readErr := os.ReadDir(destDir)
	if readErr != nil {
		t.Fatalf("ReadDir: %v", readErr)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no files written, got %v", entries)
	}
}

func TestSelectMemberIgnoresDirectoriesEvenOnNameMatch(t *testing.T) {
	t.Parallel()

	members := []model.ArchiveMember{
		{Name: "tool", IsDir: true},
		{Name: "tool.real", Executable: true, Size: 1024},
	}
	picked, err := SelectMember(members, "tool", model.Platform{OS: model.Linux})
	if err != nil {
		t.Fatalf("SelectMember: %v", err)
	}
	if picked.Name != "tool.real" {
		t.Fatalf("picked = %+v, expected the executable file, not the directory", picked)
	}
}

func TestSelectMemberSkipsZeroLengthMembers(t *testing.T) {
	t.Parallel()

	members := []model.ArchiveMember{
		{Name: "tool", Executable: true, Size: 0},
	}
	_, err := SelectMember(members, "tool", model.Platform{OS: model.Linux})
	if kind, ok := uerr.Of(err); !ok || kind != uerr.NoExecutableFound {
		t.Fatalf("err = %v, want NoExecutableFound", err)
	}
}

func TestSelectMemberRequiresNameMatchEvenWithSingleExecutable(t *testing.T) {
	t.Parallel()

	members := []model.ArchiveMember{
		{Name: "unrelated-binary", Executable: true, Size: 1024},
	}
	_, err := SelectMember(members, "tool", model.Platform{OS: model.Linux})
	if kind, ok := uerr.Of(err); !ok || kind != uerr.NoExecutableFound {
		t.Fatalf("err = %v, want NoExecutableFound; SelectMember must not fall back to a lone unrelated executable", err)
	}
}

func TestSelectMemberNoCandidatesReturnsNoExecutableFound(t *testing.T) {
	t.Parallel()

	members := []model.ArchiveMember{{Name: "dir", IsDir: true}}
	_, err := SelectMember(members, "tool", model.Platform{OS: model.Linux})
	if kind, ok := uerr.Of(err); !ok || kind != uerr.NoExecutableFound {
		t.Fatalf("err = %v, want NoExecutableFound", err)
	}
}

func writeZip(t *testing.T, entries map[string]string) string {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip Close: %v", err)
	}

	path := filepath.Join(t.TempDir(), "asset.pyz")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestPyzIsRawPassthroughInNormalMode(t *testing.T) {
	t.Parallel()

	path := writeZip(t, map[string]string{"__main__.py": "print('hi')"})

	dec, err := Open(model.ExtPyz, path, "tool.pyz", false, model.Platform{OS: model.Linux})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	members, err := dec.Members(context.Background())
	if err != nil {
		t.Fatalf("Members: %v", err)
	}
	if len(members) != 1 || members[0].Name != "tool.pyz" {
		t.Fatalf("members = %+v, want a single synthetic whole-file member", members)
	}
}

func TestPyzIsIteratedAsZipInExtractAllMode(t *testing.T) {
	t.Parallel()

	path := writeZip(t, map[string]string{
		"__main__.py": "print('hi')",
		"lib/mod.py":  "x = 1",
	})

	dec, err := Open(model.ExtPyz, path, "tool.pyz", true, model.Platform{OS: model.Linux})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	members, err := dec.Members(context.Background())
	if err != nil {
		t.Fatalf("Members: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("members = %+v, want the zip's own members in extract-all mode", members)
	}
}

func TestRawDecoderSingleMemberPassthrough(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "payload")
	if err := os.WriteFile(path, []byte("appimage-bytes"), 0o755); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	dec, err := Open(model.ExtAppImage, path, "tool.AppImage", false, model.Platform{OS: model.Linux})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	members, err := dec.Members(context.Background())
	if err != nil {
		t.Fatalf("Members: %v", err)
	}
	if len(members) != 1 || members[0].Name != "tool.AppImage" || !members[0].Executable {
		t.Fatalf("members = %+v", members)
	}
}

func TestSelectMemberOnWindowsIgnoresPosixExecBitAndUsesExeSuffix(t *testing.T) {
	t.Parallel()

	members := []model.ArchiveMember{
		{Name: "README.md", Size: 32},
		{Name: "tool-v1.2.3-x86_64-pc-windows-msvc.exe", Size: 4096},
	}
	picked, err := SelectMember(members, "tool", model.Platform{OS: model.Windows})
	if err != nil {
		t.Fatalf("SelectMember: %v", err)
	}
	if picked.Name != "tool-v1.2.3-x86_64-pc-windows-msvc.exe" {
		t.Fatalf("picked = %+v, want the .exe member despite no POSIX exec bit", picked)
	}
}

func TestSelectMemberOnLinuxRequiresPosixExecBitNotExeSuffix(t *testing.T) {
	t.Parallel()

	members := []model.ArchiveMember{
		{Name: "tool-windows.exe", Size: 4096},
	}
	_, err := SelectMember(members, "tool", model.Platform{OS: model.Linux})
	if kind, ok := uerr.Of(err); !ok || kind != uerr.NoExecutableFound {
		t.Fatalf("err = %v, want NoExecutableFound; a .exe with no exec bit shouldn't count as executable off Windows", err)
	}
}

func TestRawBatIsExecutableOnlyOnWindows(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "payload")
	if err := os.WriteFile(path, []byte("@echo off"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	linuxDec, err := Open(model.ExtBat, path, "tool.bat", false, model.Platform{OS: model.Linux})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	linuxMembers, err := linuxDec.Members(context.Background())
	if err != nil {
		t.Fatalf("Members: %v", err)
	}
	if len(linuxMembers) != 1 || linuxMembers[0].Executable {
		t.Fatalf("members = %+v, want a non-executable synthetic member off Windows", linuxMembers)
	}

	winDec, err := Open(model.ExtBat, path, "tool.bat", false, model.Platform{OS: model.Windows})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	winMembers, err := winDec.Members(context.Background())
	if err != nil {
		t.Fatalf("Members: %v", err)
	}
	if len(winMembers) != 1 || !winMembers[0].Executable {
		t.Fatalf("members = %+v, want an executable synthetic member on Windows", winMembers)
	}
}
