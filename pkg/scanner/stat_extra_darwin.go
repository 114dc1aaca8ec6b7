//go:build darwin

package scanner

import (
	"os"
	"syscall"
)

func statExtra(info os.FileInfo) (changed, accessed *float64) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return nil, nil
	}
	c := float64(stat.Ctimespec.Sec) + float64(stat.Ctimespec.Nsec)/1e9
	a := float64(stat.Atimespec.Sec) + float64(stat.Atimespec.Nsec)/1e9
	return &c, &a
}
