//go:build linux

package scanner

import (
	"golang.org/x/sys/unix"
)

// birthtime uses statx(2) with STATX_BTIME where the underlying filesystem
// supports it (ext4, btrfs, xfs); it returns ok=false on filesystems that
// don't report creation time (the equivalent of Python's AttributeError
// catch around stat_result.st_birthtime on Linux).
func birthtime(path string) (sec float64, ok bool) {
	var stx unix.Statx_t
	if err := unix.Statx(unix.AT_FDCWD, path, 0, unix.STATX_BTIME, &stx); err != nil {
		return 0, false
	}
	if stx.Mask&unix.STATX_BTIME == 0 {
		return 0, false
	}
	return float64(stx.Btime.Sec) + float64(stx.Btime.Nsec)/1e9, true
}
