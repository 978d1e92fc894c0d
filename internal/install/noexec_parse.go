package install

import (
	"path/filepath"
	"strings"
)

// procMount is one row of /proc/self/mountinfo or /proc/mounts: where a
// filesystem is mounted and the option set the kernel is enforcing there.
type procMount struct {
	mountPoint string
	options    map[string]struct{}
}

func parseMountinfo(content string) []procMount {
	var out []procMount
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		sep := -1
		for i, f := range fields {
			if f == "-" {
				sep = i
				break
			}
		}
		if sep < 0 || len(fields) < 6 {
			continue
		}
		// mountinfo format (kernel docs):
		// 1:id 2:parent 3:major:minor 4:root 5:mountpoint 6:options ... "-" fstype source superopts
		mountPoint := unescapeMountPath(fields[4])
		opts := parseMountOptions(fields[5])

		// Super options (after the "-" separator) sometimes carry the flag
		// mount options miss, notably on bind mounts.
		if sep+3 < len(fields) {
			for k := range parseMountOptions(fields[sep+3]) {
				opts[k] = struct{}{}
			}
		}

		out = append(out, procMount{mountPoint: mountPoint, options: opts})
	}
	return out
}

func parseProcMounts(content string) []procMount {
	var out []procMount
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}
		out = append(out, procMount{
			mountPoint: unescapeMountPath(fields[1]),
			options:    parseMountOptions(fields[3]),
		})
	}
	return out
}

func parseMountOptions(opt string) map[string]struct{} {
	m := make(map[string]struct{})
	for _, part := range strings.Split(opt, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		m[part] = struct{}{}
	}
	return m
}

func unescapeMountPath(value string) string {
	// procfs encodes spaces and a few special characters with octal escapes.
	// See: https://man7.org/linux/man-pages/man5/proc.5.html
	repl := strings.NewReplacer(
		"\\040", " ",
		"\\011", "\t",
		"\\012", "\n",
		"\\134", "\\",
	)
	return repl.Replace(value)
}

// matchNoExecMount finds the mount entry that owns destPath (the longest
// matching mountPoint prefix, matching how the kernel resolves a path to a
// filesystem) and reports its mount point together with whether that mount
// carries noexec. The mount point is returned so callers can name it in a
// diagnostic rather than just report "somewhere is noexec".
func matchNoExecMount(destPath string, mounts []procMount) (mountPoint string, noExec bool) {
	dest := filepath.ToSlash(filepath.Clean(destPath))
	if dest == "." || dest == "" {
		return "", false
	}

	bestLen := -1
	for _, m := range mounts {
		mp := filepath.ToSlash(filepath.Clean(m.mountPoint))
		if mp == "." || mp == "" {
			continue
		}
		if !pathHasPrefix(dest, mp) {
			continue
		}
		if len(mp) > bestLen {
			bestLen = len(mp)
			_, noExec = m.options["noexec"]
			mountPoint = mp
		}
	}

	return mountPoint, noExec
}

func pathHasPrefix(path, prefix string) bool {
	if prefix == "/" {
		return strings.HasPrefix(path, "/")
	}
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, prefix+"/")
}
