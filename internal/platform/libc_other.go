//go:build !linux

package platform

import "github.com/3leaps/ubi/internal/model"

// detectLibc only means something on Linux; everywhere else libc is not a
// binary-compatibility axis.
func detectLibc() model.Libc {
	return model.LibcUnknown
}
