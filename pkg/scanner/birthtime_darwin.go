//go:build darwin

package scanner

import (
	"os"
	"syscall"
)

func birthtime(path string) (sec float64, ok bool) {
	info, err := os.Lstat(path)
	if err != nil {
		return 0, false
	}
	stat, isStatT := info.Sys().(*syscall.Stat_t)
	if !isStatT {
		return 0, false
	}
	return float64(stat.Birthtimespec.Sec) + float64(stat.Birthtimespec.Nsec)/1e9, true
}
