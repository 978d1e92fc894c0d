package archive

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/3leaps/ubi/internal/model"
	"github.com/3leaps/ubi/internal/uerr"
)

// ExtractAll extracts every member of dec into destDir, stripping a single
// common top-level directory when every member shares one (the common
// "project-v1.2.3/" wrapper directory GitHub-generated tarballs use).
// Symlinks are skipped rather than followed or recreated. Every member
// path is checked against filepath.IsLocal after prefix-stripping; a
// member that would land outside destDir fails the whole extraction with
// UnsafePath instead of writing anything for that member.
func ExtractAll(ctx context.Context, dec Decoder, destDir string) error {
	members, err := dec.Members(ctx)
	if err != nil {
		return err
	}

	prefix := commonTopLevelDir(members)

	for _, m := range members {
		if err := ctx.Err(); err != nil {
			return err
		}
		if m.IsSymlink {
			continue
		}
		if !filepath.IsLocal(m.Name) {
			return uerr.New(uerr.UnsafePath, "archive member %q escapes the extraction root", m.Name)
		}

		rel := strings.TrimPrefix(m.Name, prefix)
		rel = strings.TrimPrefix(rel, "/")
		if rel == "" {
			continue
		}
		if !filepath.IsLocal(rel) {
			return uerr.New(uerr.UnsafePath, "archive member %q escapes the extraction root", m.Name)
		}

		target := filepath.Join(destDir, filepath.FromSlash(rel))
		if m.IsDir {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return uerr.Wrap(uerr.IoFailed, err, "creating directory %s", target)
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return uerr.Wrap(uerr.IoFailed, err, "creating directory %s", filepath.Dir(target))
		}
		if err := extractMember(ctx, dec, m, target); err != nil {
			return err
		}
	}
	return nil
}

func extractMember(ctx context.Context, dec Decoder, m model.ArchiveMember, target string) error {
	rc, err := dec.Open(ctx, m)
	if err != nil {
		return err
	}
	defer rc.Close()

	mode := os.FileMode(0o644)
	if m.Executable {
		mode = 0o755
	}
	f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return uerr.Wrap(uerr.IoFailed, err, "creating %s", target)
	}
	defer f.Close()

	if _, err := io.Copy(f, rc); err != nil {
		return uerr.Wrap(uerr.IoFailed, err, "writing %s", target)
	}
	return nil
}

// commonTopLevelDir returns the shared first path segment of every member,
// or "" when members disagree, any member sits at the root already, or the
// shared segment is "." or ".." — neither of which is a real directory
// name a wrapper archive would use, and stripping either would turn a
// path-escaping member into one that looks safely local.
func commonTopLevelDir(members []model.ArchiveMember) string {
	var top string
	first := true
	for _, m := range members {
		parts := strings.SplitN(m.Name, "/", 2)
		if len(parts) != 2 || parts[0] == "" || parts[0] == "." || parts[0] == ".." {
			return ""
		}
		if first {
			top = parts[0]
			first = false
		} else if parts[0] != top {
			return ""
		}
	}
	return top
}
