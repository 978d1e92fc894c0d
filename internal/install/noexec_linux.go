//go:build linux

package install

import "os"

// noExecMountPoint reports the mount point covering destPath when that
// mount is noexec, which would leave an installed binary unrunnable in
// place. Best effort only: if anything looks odd, it reports no match
// rather than block an install.
func noExecMountPoint(destPath string) (string, bool) {
	if destPath == "" {
		return "", false
	}

	// mountinfo first: it carries overlay and bind-mount detail /proc/mounts
	// collapses away.
	if data, err := os.ReadFile("/proc/self/mountinfo"); err == nil { // #nosec G304 -- fixed procfs path
		if mounts := parseMountinfo(string(data)); len(mounts) > 0 {
			return matchNoExecMount(destPath, mounts)
		}
	}

	data, err := os.ReadFile("/proc/mounts") // #nosec G304 -- fixed procfs path
	if err != nil {
		return "", false
	}
	mounts := parseProcMounts(string(data))
	if len(mounts) == 0 {
		return "", false
	}
	return matchNoExecMount(destPath, mounts)
}
